package routes

import (
	"github.com/Kelechi01/chopnow-api/controllers"
	"github.com/Kelechi01/chopnow-api/middlewares"
	"github.com/gin-gonic/gin"
)

func FoodRoutes(server *gin.Engine) {
	server.GET("/food", controllers.GetFoodItems)
	server.GET("/food/:id", controllers.GetFoodItem)
	server.GET("/food/category/:category", controllers.GetFoodItemsByCategory)

	admin := server.Group("/food", middlewares.RequireAuth(), middlewares.RequireAdmin())
	{
		admin.POST("", controllers.CreateFoodItem)
		admin.PUT("/:id", controllers.UpdateFoodItem)
		admin.DELETE("/:id", controllers.DeleteFoodItem)
		admin.POST("/:id/image", controllers.UploadFoodImage)
	}
}
