package controllers

import (
	"log"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/Kelechi01/chopnow-api/initializers"
	"github.com/Kelechi01/chopnow-api/models"
	"github.com/Kelechi01/chopnow-api/services"
	"github.com/Kelechi01/chopnow-api/utils"
	"github.com/gin-gonic/gin"
)

// notifyOrderUpdate delivers order notifications outside the transactional
// boundary; a failed notification never fails the order operation.
func notifyOrderUpdate(userID uint, orderNumber string, status models.OrderStatus) {
	go func() {
		var user models.User
		if err := initializers.DB.First(&user, userID).Error; err != nil {
			log.Println("Notification lookup error:", err)
			return
		}

		emailData := utils.EmailData{
			Name:        user.FirstName,
			Message:     "Your order status has changed to: " + string(status),
			OrderNumber: orderNumber,
			LogoURL:     os.Getenv("LOGO_URL"),
		}
		templatePath := filepath.Join("templates", "order_update.html")
		if err := utils.SendEmail(user.Email, "ChopNow order "+orderNumber, emailData, templatePath); err != nil {
			log.Println("Error sending order email:", err)
		}

		if user.Phone != "" {
			if err := utils.SendOrderStatusSms(user.Phone, orderNumber, string(status)); err != nil {
				log.Println("Error sending order SMS:", err)
			}
		}
	}()
}

func CreateOrder(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	var orderData struct {
		DeliveryAddress     string `json:"deliveryAddress" binding:"required"`
		SpecialInstructions string `json:"specialInstructions" binding:"max=500"`
	}
	if err := ctx.ShouldBindJSON(&orderData); err != nil {
		log.Println("Bind error:", err)
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	order, err := services.PlaceOrder(userID, orderData.DeliveryAddress, orderData.SpecialInstructions)
	if err != nil {
		mapServiceError(ctx, err)
		return
	}

	notifyOrderUpdate(userID, order.OrderNumber, order.Status)

	sendJSONResponse(ctx, http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"order":   order,
	})
}

func GetMyOrders(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	orders, err := services.GetUserOrders(userID)
	if err != nil {
		mapServiceError(ctx, err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"orders": orders})
}

func GetOrderById(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	orderId, err := strconv.Atoi(ctx.Param("orderId"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse orderId")
		return
	}

	order, err := services.GetOrderByID(uint(orderId), userID)
	if err != nil {
		mapServiceError(ctx, err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"order": order})
}

// GetOrderByNumber is unscoped and admin-only, for support lookups.
func GetOrderByNumber(ctx *gin.Context) {
	order, err := services.GetOrderByNumber(ctx.Param("orderNumber"))
	if err != nil {
		mapServiceError(ctx, err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"order": order})
}

func CancelOrder(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	orderId, err := strconv.Atoi(ctx.Param("orderId"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse orderId")
		return
	}

	var cancelData struct {
		Reason string `json:"reason"`
	}
	// Body is optional for cancellation.
	_ = ctx.ShouldBindJSON(&cancelData)

	order, err := services.CancelOrder(uint(orderId), userID, cancelData.Reason)
	if err != nil {
		mapServiceError(ctx, err)
		return
	}

	notifyOrderUpdate(userID, order.OrderNumber, order.Status)

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"message": "Order cancelled successfully",
		"order":   order,
	})
}

func GetOrders(ctx *gin.Context) {
	var orders []models.Order

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "15"))
	offset := (page - 1) * limit

	sortOrder := ctx.DefaultQuery("sort", "desc")
	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = "desc"
	}

	query := initializers.DB.Preload("OrderItems")

	if status := ctx.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if search := ctx.Query("search"); search != "" {
		query = query.Where("order_number LIKE ?", "%"+search+"%")
	}

	query = query.Order("created_at " + sortOrder)

	result := query.Limit(limit).Offset(offset).Find(&orders)
	if result.Error != nil {
		log.Println("Database error:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Unable to fetch orders")
		return
	}

	var count int64
	countQuery := initializers.DB.Model(&models.Order{})
	if status := ctx.Query("status"); status != "" {
		countQuery = countQuery.Where("status = ?", status)
	}
	if search := ctx.Query("search"); search != "" {
		countQuery = countQuery.Where("order_number LIKE ?", "%"+search+"%")
	}
	countQuery.Count(&count)

	previousPage := page - 1
	nextPage := page + 1
	totalPages := math.Ceil(float64(count) / float64(limit))

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"orders": orders,
		"metadata": gin.H{
			"total":        count,
			"currentPage":  page,
			"limit":        limit,
			"hasPrevPage":  previousPage > 0,
			"hasNextPage":  int(totalPages) > page,
			"previousPage": previousPage,
			"nextPage":     nextPage,
		},
	})
}

func UpdateOrderStatus(ctx *gin.Context) {
	var statusData struct {
		Status             models.OrderStatus `json:"status" binding:"required"`
		CancellationReason string             `json:"cancellationReason"`
	}
	if err := ctx.ShouldBindJSON(&statusData); err != nil {
		log.Println("Bind error:", err)
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	orderId, err := strconv.Atoi(ctx.Param("orderId"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse orderId")
		return
	}

	order, err := services.UpdateOrderStatus(uint(orderId), statusData.Status, statusData.CancellationReason)
	if err != nil {
		mapServiceError(ctx, err)
		return
	}

	notifyOrderUpdate(order.UserID, order.OrderNumber, order.Status)

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"message": "Order status updated to " + string(order.Status),
		"order":   order,
	})
}

func GetUndeliveredOrders(ctx *gin.Context) {
	var count int64

	result := initializers.DB.
		Model(&models.Order{}).
		Where("status NOT IN ?", []models.OrderStatus{models.OrderStatusCompleted, models.OrderStatusCancelled}).
		Count(&count)

	if result.Error != nil {
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to count undelivered orders")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"undeliveredOrderCount": count})
}
