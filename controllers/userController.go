package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/Kelechi01/chopnow-api/initializers"
	"github.com/Kelechi01/chopnow-api/models"
	"github.com/Kelechi01/chopnow-api/services"
	"github.com/gin-gonic/gin"
)

// GetProfile returns the authenticated customer's account details.
func GetProfile(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}

	var user models.User
	if err := initializers.DB.First(&user, userID).Error; err != nil {
		log.Println("Profile lookup error:", err)
		sendErrorResponse(ctx, http.StatusNotFound, "user not found")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"user": user})
}

// GetUserByReferralCode lets the storefront validate a referral code
// before signup. Only the referrer's display name is exposed.
func GetUserByReferralCode(ctx *gin.Context) {
	referrer, err := services.FindReferrer(ctx.Param("code"))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, msgInvalidReferralCode)
		} else {
			log.Println("Referral lookup error:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		}
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"firstName":    referrer.FirstName,
		"referralCode": referrer.ReferralCode,
	})
}
