package routes

import (
	"github.com/Kelechi01/chopnow-api/controllers"
	"github.com/Kelechi01/chopnow-api/middlewares"
	"github.com/gin-gonic/gin"
)

func OrderRoutes(server *gin.Engine) {
	order := server.Group("/order", middlewares.RequireAuth())
	{
		order.POST("", controllers.CreateOrder)
		order.GET("", controllers.GetMyOrders)
		order.GET("/:orderId", controllers.GetOrderById)
		order.POST("/:orderId/cancel", controllers.CancelOrder)
	}

	admin := server.Group("/admin/orders", middlewares.RequireAuth(), middlewares.RequireAdmin())
	{
		admin.GET("", controllers.GetOrders)
		admin.GET("/number/:orderNumber", controllers.GetOrderByNumber)
		admin.GET("/undelivered", controllers.GetUndeliveredOrders)
		admin.PATCH("/:orderId/status", controllers.UpdateOrderStatus)
	}
}
