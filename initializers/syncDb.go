package initializers

import (
	"log"

	"github.com/Kelechi01/chopnow-api/models"
)

func SyncDatabase() {
	DB.AutoMigrate(
		&models.User{},
		&models.FoodItem{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	)
	log.Println("Database synced successfully.")
}
