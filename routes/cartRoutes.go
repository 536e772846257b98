package routes

import (
	"github.com/Kelechi01/chopnow-api/controllers"
	"github.com/Kelechi01/chopnow-api/middlewares"
	"github.com/gin-gonic/gin"
)

func CartRoutes(server *gin.Engine) {
	cart := server.Group("/cart", middlewares.RequireAuth())
	{
		cart.GET("", controllers.GetCart)
		cart.POST("/items", controllers.AddToCart)
		cart.PUT("/items/:cartItemId", controllers.UpdateCartItem)
		cart.DELETE("/items/:cartItemId", controllers.RemoveCartItem)
		cart.DELETE("", controllers.ClearCart)
	}
}
