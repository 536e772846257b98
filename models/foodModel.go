package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type FoodItem struct {
	gorm.Model
	Name                   string          `json:"name" binding:"required"`
	Description            string          `json:"description"`
	Price                  decimal.Decimal `json:"price" gorm:"type:decimal(10,2)"`
	ImageUrl               string          `json:"imageUrl"`
	Category               string          `json:"category"`
	IsAvailable            bool            `json:"isAvailable"`
	PreparationTimeMinutes int             `json:"preparationTimeMinutes"`
	StockQuantity          int             `json:"stockQuantity"`
	SpiceLevel             string          `json:"spiceLevel"`
	Allergens              datatypes.JSON  `json:"allergens"`
	IsDeleted              bool            `json:"-"`
	AddedByAdminID         uint            `json:"addedByAdminId"`
}
