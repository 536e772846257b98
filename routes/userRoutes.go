package routes

import (
	"github.com/Kelechi01/chopnow-api/controllers"
	"github.com/Kelechi01/chopnow-api/middlewares"
	"github.com/gin-gonic/gin"
)

func UserRoutes(server *gin.Engine) {
	server.GET("/user/by-referral-code/:code", controllers.GetUserByReferralCode)

	user := server.Group("/user", middlewares.RequireAuth())
	{
		user.GET("/me", controllers.GetProfile)
	}
}
