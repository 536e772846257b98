package routes

import (
	"github.com/Kelechi01/chopnow-api/controllers"
	"github.com/gin-gonic/gin"
)

func AuthRoutes(server *gin.Engine) {
	auth := server.Group("/auth")
	{
		auth.POST("/signup", controllers.Signup)
		auth.POST("/login", controllers.Login)
		auth.POST("/verify-otp", controllers.VerifyOtp)
		auth.POST("/resend-otp", controllers.ResendOtp)
	}
}
