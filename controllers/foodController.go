package controllers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/Kelechi01/chopnow-api/initializers"
	"github.com/Kelechi01/chopnow-api/models"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Common error response helper
func respondWithError(ctx *gin.Context, statusCode int, message string, err error) {
	errMsg := ""
	if err != nil {
		errMsg = err.Error()
	}
	ctx.JSON(statusCode, gin.H{
		"message": message,
		"error":   errMsg,
	})
}

func validateFoodItemInput(price decimal.Decimal, stockQuantity int) error {
	if price.LessThanOrEqual(decimal.Zero) {
		return errors.New("price must be greater than zero")
	}
	if stockQuantity < 0 {
		return errors.New("stock quantity cannot be negative")
	}
	return nil
}

func CreateFoodItem(ctx *gin.Context) {
	adminID, ok := currentUserID(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return
	}

	var foodItem models.FoodItem
	if err := ctx.ShouldBindJSON(&foodItem); err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := validateFoodItemInput(foodItem.Price, foodItem.StockQuantity); err != nil {
		respondWithError(ctx, http.StatusBadRequest, err.Error(), nil)
		return
	}

	foodItem.IsAvailable = true
	foodItem.IsDeleted = false
	foodItem.AddedByAdminID = adminID
	if foodItem.PreparationTimeMinutes == 0 {
		foodItem.PreparationTimeMinutes = 15
	}

	if err := initializers.DB.Create(&foodItem).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to create food item", err)
		return
	}

	ctx.JSON(http.StatusCreated, foodItem)
}

func UpdateFoodItem(ctx *gin.Context) {
	foodItemId, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid food item ID", err)
		return
	}

	var foodItem models.FoodItem
	if err := initializers.DB.Where("id = ? AND is_deleted = ?", foodItemId, false).First(&foodItem).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondWithError(ctx, http.StatusNotFound, "Food item not found", nil)
		} else {
			respondWithError(ctx, http.StatusInternalServerError, "Failed to fetch food item", err)
		}
		return
	}

	var updateData models.FoodItem
	if err := ctx.ShouldBindJSON(&updateData); err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := validateFoodItemInput(updateData.Price, updateData.StockQuantity); err != nil {
		respondWithError(ctx, http.StatusBadRequest, err.Error(), nil)
		return
	}

	updates := map[string]any{
		"name":                     updateData.Name,
		"description":              updateData.Description,
		"price":                    updateData.Price,
		"category":                 updateData.Category,
		"is_available":             updateData.IsAvailable,
		"preparation_time_minutes": updateData.PreparationTimeMinutes,
		"stock_quantity":           updateData.StockQuantity,
		"spice_level":              updateData.SpiceLevel,
		"allergens":                updateData.Allergens,
	}
	if updateData.ImageUrl != "" {
		updates["image_url"] = updateData.ImageUrl
	}

	if err := initializers.DB.Model(&foodItem).Updates(updates).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to update food item", err)
		return
	}

	ctx.JSON(http.StatusOK, foodItem)
}

// DeleteFoodItem soft-deletes: the row stays so cart and order history
// keep a valid reference.
func DeleteFoodItem(ctx *gin.Context) {
	foodItemId, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid food item ID", err)
		return
	}

	result := initializers.DB.Model(&models.FoodItem{}).
		Where("id = ? AND is_deleted = ?", foodItemId, false).
		Updates(map[string]any{"is_deleted": true, "is_available": false})
	if result.Error != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to delete food item", result.Error)
		return
	}
	if result.RowsAffected == 0 {
		respondWithError(ctx, http.StatusNotFound, "Food item not found", nil)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Food item deleted successfully"})
}

func GetFoodItems(ctx *gin.Context) {
	var foodItems []models.FoodItem

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "12"))
	offset := (page - 1) * limit

	query := initializers.DB.Where("is_deleted = ? AND is_available = ?", false, true)

	if search := ctx.Query("search"); search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}

	result := query.Limit(limit).Offset(offset).Find(&foodItems)
	if result.Error != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to fetch food items", result.Error)
		return
	}

	var count int64
	countQuery := initializers.DB.Model(&models.FoodItem{}).
		Where("is_deleted = ? AND is_available = ?", false, true)
	if search := ctx.Query("search"); search != "" {
		countQuery = countQuery.Where("name LIKE ?", "%"+search+"%")
	}
	countQuery.Count(&count)

	ctx.JSON(http.StatusOK, gin.H{
		"foodItems": foodItems,
		"metadata": gin.H{
			"total": count,
			"page":  page,
			"limit": limit,
		},
	})
}

func GetFoodItem(ctx *gin.Context) {
	foodItemId, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid food item ID", err)
		return
	}

	var foodItem models.FoodItem
	result := initializers.DB.Where("id = ? AND is_deleted = ?", foodItemId, false).First(&foodItem)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			respondWithError(ctx, http.StatusNotFound, "Food item not found", nil)
		} else {
			respondWithError(ctx, http.StatusInternalServerError, "Unable to retrieve food item", result.Error)
		}
		return
	}

	ctx.JSON(http.StatusOK, foodItem)
}

func GetFoodItemsByCategory(ctx *gin.Context) {
	var foodItems []models.FoodItem

	result := initializers.DB.
		Where("category = ? AND is_deleted = ? AND is_available = ?", ctx.Param("category"), false, true).
		Find(&foodItems)
	if result.Error != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to fetch food items", result.Error)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"foodItems": foodItems})
}

// getAWSUploader returns a configured S3 uploader
func getAWSUploader() (*manager.Uploader, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		return nil, fmt.Errorf("error loading AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg)
	return manager.NewUploader(client), nil
}

func UploadFoodImage(ctx *gin.Context) {
	foodItemId, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid food item ID", err)
		return
	}

	var foodItem models.FoodItem
	if err := initializers.DB.Where("id = ? AND is_deleted = ?", foodItemId, false).First(&foodItem).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondWithError(ctx, http.StatusNotFound, "Food item not found", nil)
		} else {
			respondWithError(ctx, http.StatusInternalServerError, "Failed to fetch food item", err)
		}
		return
	}

	file, err := ctx.FormFile("image")
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "No file uploaded", err)
		return
	}

	f, err := file.Open()
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Unable to open uploaded file", err)
		return
	}
	defer f.Close()

	uploader, err := getAWSUploader()
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to configure AWS", err)
		return
	}

	uniqueFilename := fmt.Sprintf("food/%d-%s-%s", foodItemId, uuid.NewString(), file.Filename)

	result, err := uploader.Upload(context.TODO(), &s3.PutObjectInput{
		Bucket:      aws.String(os.Getenv("S3_BUCKET")),
		Key:         aws.String(uniqueFilename),
		Body:        f,
		ACL:         "public-read",
		ContentType: aws.String(file.Header.Get("Content-Type")),
	})
	if err != nil {
		log.Printf("Error uploading file %s: %v", file.Filename, err)
		respondWithError(ctx, http.StatusInternalServerError, "Failed to upload image", err)
		return
	}

	if err := initializers.DB.Model(&foodItem).Update("image_url", result.Location).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Image uploaded but not saved", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Image uploaded successfully",
		"url":     result.Location,
	})
}
