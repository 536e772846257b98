package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/Kelechi01/chopnow-api/models"
	"github.com/Kelechi01/chopnow-api/services"
	"github.com/gin-gonic/gin"
)

// mapServiceError translates commerce-engine error kinds to HTTP
// responses. Unknown errors are internal.
func mapServiceError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		sendErrorResponse(ctx, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrUnavailable),
		errors.Is(err, services.ErrInsufficientStock),
		errors.Is(err, services.ErrInvalidQuantity),
		errors.Is(err, services.ErrEmptyCart),
		errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrInvalidState):
		sendErrorResponse(ctx, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrConflict):
		sendErrorResponse(ctx, http.StatusConflict, err.Error())
	default:
		log.Println("Service error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
	}
}

func cartResponse(cart *models.Cart) gin.H {
	return gin.H{
		"cart":        cart,
		"subtotal":    cart.Subtotal(),
		"deliveryFee": services.DeliveryFee,
		"total":       services.CartGrandTotal(cart),
	}
}

func GetCart(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	cart, err := services.GetCart(userID)
	if err != nil {
		mapServiceError(ctx, err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, cartResponse(cart))
}

func AddToCart(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	var addData struct {
		FoodItemID          uint   `json:"foodItemId" binding:"required"`
		Quantity            int    `json:"quantity" binding:"required"`
		SpecialInstructions string `json:"specialInstructions" binding:"max=500"`
	}
	if err := ctx.ShouldBindJSON(&addData); err != nil {
		log.Println("Bind error:", err)
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	cart, err := services.AddToCart(userID, addData.FoodItemID, addData.Quantity, addData.SpecialInstructions)
	if err != nil {
		mapServiceError(ctx, err)
		return
	}

	response := cartResponse(cart)
	response["message"] = "Item added to cart"
	sendJSONResponse(ctx, http.StatusOK, response)
}

func UpdateCartItem(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	cartItemID, err := strconv.Atoi(ctx.Param("cartItemId"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse cartItemId")
		return
	}

	var updateData struct {
		Quantity            int     `json:"quantity" binding:"required"`
		SpecialInstructions *string `json:"specialInstructions"`
	}
	if err := ctx.ShouldBindJSON(&updateData); err != nil {
		log.Println("Bind error:", err)
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	cart, err := services.UpdateCartItem(userID, uint(cartItemID), updateData.Quantity, updateData.SpecialInstructions)
	if err != nil {
		mapServiceError(ctx, err)
		return
	}

	response := cartResponse(cart)
	response["message"] = "Cart item updated"
	sendJSONResponse(ctx, http.StatusOK, response)
}

func RemoveCartItem(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	cartItemID, err := strconv.Atoi(ctx.Param("cartItemId"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse cartItemId")
		return
	}

	cart, err := services.RemoveCartItem(userID, uint(cartItemID))
	if err != nil {
		mapServiceError(ctx, err)
		return
	}

	response := cartResponse(cart)
	response["message"] = "Item removed from cart"
	sendJSONResponse(ctx, http.StatusOK, response)
}

func ClearCart(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	cart, err := services.ClearCart(userID)
	if err != nil {
		mapServiceError(ctx, err)
		return
	}

	response := cartResponse(cart)
	response["message"] = "Cart cleared"
	sendJSONResponse(ctx, http.StatusOK, response)
}
