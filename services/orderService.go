package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/Kelechi01/chopnow-api/initializers"
	"github.com/Kelechi01/chopnow-api/models"
	"github.com/Kelechi01/chopnow-api/utils"
	"gorm.io/gorm"
)

const (
	orderNumberPrefix   = "CN"
	orderNumberAttempts = 5
)

func getOrderWithItems(tx *gorm.DB, orderID uint) (*models.Order, error) {
	var order models.Order
	if err := tx.Preload("OrderItems").First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order %w", ErrNotFound)
		}
		return nil, err
	}
	return &order, nil
}

func getUserOrder(tx *gorm.DB, orderID, userID uint) (*models.Order, error) {
	var order models.Order
	err := tx.Where("id = ? AND user_id = ?", orderID, userID).
		Preload("OrderItems").First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order %w", ErrNotFound)
		}
		return nil, err
	}
	return &order, nil
}

// generateOrderNumber produces a prefix+timestamp+random candidate.
// Uniqueness is enforced by the unique index on order_number: PlaceOrder
// retries with a fresh candidate when the insert hits a duplicate key.
func generateOrderNumber() (string, error) {
	suffix, err := utils.GenerateDigits(4)
	if err != nil {
		return "", err
	}
	return orderNumberPrefix + time.Now().Format("20060102150405") + suffix, nil
}

// decrementStock applies an atomic conditional decrement: stock is only
// reduced when enough remains, so two racing orders cannot oversell.
func decrementStock(tx *gorm.DB, foodItemID uint, quantity int) error {
	result := tx.Model(&models.FoodItem{}).
		Where("id = ? AND stock_quantity >= ?", foodItemID, quantity).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		foodItem, err := getFoodItem(tx, foodItemID)
		if err != nil {
			return err
		}
		return fmt.Errorf("%w for %s: available: %d", ErrInsufficientStock, foodItem.Name, foodItem.StockQuantity)
	}
	return nil
}

// restoreStock is the exact inverse of the decrement applied at placement.
func restoreStock(tx *gorm.DB, order *models.Order) error {
	for _, item := range order.OrderItems {
		err := tx.Model(&models.FoodItem{}).
			Where("id = ?", item.FoodItemID).
			UpdateColumn("stock_quantity", gorm.Expr("stock_quantity + ?", item.Quantity)).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// PlaceOrder turns the customer's cart into an order: validates every
// line against the live catalog, decrements stock, snapshots prices into
// order items and clears the cart, all in one transaction.
func PlaceOrder(userID uint, deliveryAddress, instructions string) (*models.Order, error) {
	var orderID uint

	err := initializers.DB.Transaction(func(tx *gorm.DB) error {
		if _, err := getUser(tx, userID); err != nil {
			return err
		}

		cart, err := getCartByUserID(tx, userID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEmptyCart
		}
		if err != nil {
			return err
		}
		if len(cart.Items) == 0 {
			return ErrEmptyCart
		}

		for _, item := range cart.Items {
			foodItem, err := getFoodItem(tx, item.FoodItemID)
			if err != nil {
				return err
			}
			if !foodItem.IsAvailable {
				return fmt.Errorf("%s is now %w, please remove it from your cart", foodItem.Name, ErrUnavailable)
			}
			if err := decrementStock(tx, item.FoodItemID, item.Quantity); err != nil {
				return err
			}
		}

		order := models.Order{
			UserID:              userID,
			Status:              models.OrderStatusPending,
			DeliveryFee:         DeliveryFee,
			DeliveryAddress:     deliveryAddress,
			SpecialInstructions: instructions,
			IsPaid:              false,
		}
		for _, item := range cart.Items {
			order.OrderItems = append(order.OrderItems, models.OrderItem{
				FoodItemID:          item.FoodItemID,
				Quantity:            item.Quantity,
				UnitPrice:           item.UnitPrice,
				SpecialInstructions: item.SpecialInstructions,
			})
		}
		order.TotalAmount = cart.Subtotal().Add(DeliveryFee)

		created := false
		for attempt := 0; attempt < orderNumberAttempts; attempt++ {
			number, err := generateOrderNumber()
			if err != nil {
				return err
			}
			order.OrderNumber = number

			err = tx.Create(&order).Error
			if err == nil {
				created = true
				break
			}
			// A concurrent order can claim the same candidate between
			// generation and insert.
			if !errors.Is(err, gorm.ErrDuplicatedKey) {
				return err
			}
		}
		if !created {
			return fmt.Errorf("could not generate a unique order number: %w", ErrConflict)
		}
		orderID = order.ID

		return tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error
	})
	if err != nil {
		return nil, err
	}

	return getOrderWithItems(initializers.DB, orderID)
}

// GetOrderByID is scoped to the owning customer.
func GetOrderByID(orderID, userID uint) (*models.Order, error) {
	return getUserOrder(initializers.DB, orderID, userID)
}

// GetOrderByNumber is unscoped, for support lookups.
func GetOrderByNumber(orderNumber string) (*models.Order, error) {
	var order models.Order
	err := initializers.DB.Where("order_number = ?", orderNumber).
		Preload("OrderItems").First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order %w", ErrNotFound)
		}
		return nil, err
	}
	return &order, nil
}

func GetUserOrders(userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := initializers.DB.Where("user_id = ?", userID).
		Preload("OrderItems").Order("created_at desc").Find(&orders).Error
	return orders, err
}

// UpdateOrderStatus applies one edge of the status table, stamps the
// milestone timestamp and, on cancellation, restores stock. The update is
// guarded on the status the transition was validated against, so a racing
// status change cannot apply the edge twice.
func UpdateOrderStatus(orderID uint, newStatus models.OrderStatus, cancellationReason string) (*models.Order, error) {
	err := initializers.DB.Transaction(func(tx *gorm.DB) error {
		order, err := getOrderWithItems(tx, orderID)
		if err != nil {
			return err
		}

		if !models.IsKnownStatus(newStatus) {
			return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, string(newStatus))
		}
		if !models.IsValidStatusTransition(order.Status, newStatus) {
			return fmt.Errorf("%w from %s to %s", ErrInvalidTransition, order.Status, newStatus)
		}

		now := time.Now()
		updates := map[string]any{"status": newStatus, "updated_at": now}
		switch newStatus {
		case models.OrderStatusConfirmed:
			updates["confirmed_at"] = now
		case models.OrderStatusPreparing:
			updates["preparing_at"] = now
		case models.OrderStatusOutForDelivery:
			updates["out_for_delivery_at"] = now
		case models.OrderStatusCompleted:
			updates["completed_at"] = now
		case models.OrderStatusCancelled:
			updates["cancelled_at"] = now
			updates["cancellation_reason"] = cancellationReason
		}

		result := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", orderID, order.Status).
			Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// The status changed underneath us; report against the fresh
			// value so a concurrent cancel cannot double-restore stock.
			fresh, err := getOrderWithItems(tx, orderID)
			if err != nil {
				return err
			}
			return fmt.Errorf("%w from %s to %s", ErrInvalidTransition, fresh.Status, newStatus)
		}

		if newStatus == models.OrderStatusCancelled {
			return restoreStock(tx, order)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return getOrderWithItems(initializers.DB, orderID)
}

// CancelOrder is the customer-initiated path: ownership-checked, only
// permitted while the order is still Pending or Confirmed.
func CancelOrder(orderID, userID uint, reason string) (*models.Order, error) {
	if reason == "" {
		reason = "Cancelled by customer"
	}

	err := initializers.DB.Transaction(func(tx *gorm.DB) error {
		order, err := getUserOrder(tx, orderID, userID)
		if err != nil {
			return err
		}

		if order.Status != models.OrderStatusPending && order.Status != models.OrderStatusConfirmed {
			return fmt.Errorf("%w with status %s", ErrInvalidState, order.Status)
		}

		now := time.Now()
		result := tx.Model(&models.Order{}).
			Where("id = ? AND status IN ?", orderID,
				[]models.OrderStatus{models.OrderStatusPending, models.OrderStatusConfirmed}).
			Updates(map[string]any{
				"status":              models.OrderStatusCancelled,
				"cancelled_at":        now,
				"cancellation_reason": reason,
				"updated_at":          now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w with status %s", ErrInvalidState, models.OrderStatusCancelled)
		}

		return restoreStock(tx, order)
	})
	if err != nil {
		return nil, err
	}

	return getUserOrder(initializers.DB, orderID, userID)
}
