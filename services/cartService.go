package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/Kelechi01/chopnow-api/initializers"
	"github.com/Kelechi01/chopnow-api/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func getUser(tx *gorm.DB, userID uint) (*models.User, error) {
	var user models.User
	if err := tx.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %w", ErrNotFound)
		}
		return nil, err
	}
	return &user, nil
}

func getFoodItem(tx *gorm.DB, foodItemID uint) (*models.FoodItem, error) {
	var foodItem models.FoodItem
	err := tx.Where("id = ? AND is_deleted = ?", foodItemID, false).First(&foodItem).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("food item %w", ErrNotFound)
		}
		return nil, err
	}
	return &foodItem, nil
}

func getCartByUserID(tx *gorm.DB, userID uint) (*models.Cart, error) {
	var cart models.Cart
	err := tx.Where("user_id = ?", userID).Preload("Items").First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// lockCartByUserID reads the cart under a row lock, so concurrent
// mutations of the same cart serialize on the cart row.
func lockCartByUserID(tx *gorm.DB, userID uint) (*models.Cart, error) {
	var cart models.Cart
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).First(&cart).Error
	if err != nil {
		return nil, err
	}
	if err := tx.Where("cart_id = ?", cart.ID).Find(&cart.Items).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

func reloadCart(tx *gorm.DB, cartID uint) (*models.Cart, error) {
	var cart models.Cart
	if err := tx.Preload("Items").First(&cart, cartID).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// GetCart returns the customer's cart, or a well-formed empty snapshot if
// none has been materialized yet. Carts are only created on first add.
func GetCart(userID uint) (*models.Cart, error) {
	if _, err := getUser(initializers.DB, userID); err != nil {
		return nil, err
	}

	cart, err := getCartByUserID(initializers.DB, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.Cart{UserID: userID, Items: []models.CartItem{}}, nil
	}
	if err != nil {
		return nil, err
	}
	return cart, nil
}

// AddToCart adds a food item to the customer's cart, merging into the
// existing line when the item is already present. The unit price is
// captured from the catalog only when the line is created.
func AddToCart(userID, foodItemID uint, quantity int, instructions string) (*models.Cart, error) {
	var cartID uint

	err := initializers.DB.Transaction(func(tx *gorm.DB) error {
		if _, err := getUser(tx, userID); err != nil {
			return err
		}

		foodItem, err := getFoodItem(tx, foodItemID)
		if err != nil {
			return err
		}

		if !foodItem.IsAvailable {
			return fmt.Errorf("%s is %w", foodItem.Name, ErrUnavailable)
		}
		if foodItem.StockQuantity < quantity {
			return fmt.Errorf("%w: only %d items available", ErrInsufficientStock, foodItem.StockQuantity)
		}
		if quantity <= 0 {
			return ErrInvalidQuantity
		}

		cart, err := lockCartByUserID(tx, userID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			cart = &models.Cart{UserID: userID}
			if err := tx.Create(cart).Error; err != nil {
				if !errors.Is(err, gorm.ErrDuplicatedKey) {
					return err
				}
				// Lost the first-add race; the winner's cart exists now.
				cart, err = lockCartByUserID(tx, userID)
				if err != nil {
					return err
				}
			}
		} else if err != nil {
			return err
		}
		cartID = cart.ID

		for i := range cart.Items {
			if cart.Items[i].FoodItemID != foodItemID {
				continue
			}

			// Merge into the existing line and re-validate the combined
			// quantity against current stock.
			newQuantity := cart.Items[i].Quantity + quantity
			if foodItem.StockQuantity < newQuantity {
				return fmt.Errorf("%w: you can only add %d more items",
					ErrInsufficientStock, foodItem.StockQuantity-cart.Items[i].Quantity)
			}

			return tx.Model(&cart.Items[i]).Update("quantity", newQuantity).Error
		}

		cartItem := models.CartItem{
			CartID:              cart.ID,
			FoodItemID:          foodItemID,
			Quantity:            quantity,
			UnitPrice:           foodItem.Price,
			SpecialInstructions: instructions,
		}
		return tx.Create(&cartItem).Error
	})
	if err != nil {
		return nil, err
	}

	return reloadCart(initializers.DB, cartID)
}

// UpdateCartItem replaces a line's quantity. A nil instructions pointer
// leaves the stored instructions untouched.
func UpdateCartItem(userID, cartItemID uint, quantity int, instructions *string) (*models.Cart, error) {
	var cartID uint

	err := initializers.DB.Transaction(func(tx *gorm.DB) error {
		cart, err := getCartByUserID(tx, userID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("cart %w", ErrNotFound)
		}
		if err != nil {
			return err
		}
		cartID = cart.ID

		var cartItem *models.CartItem
		for i := range cart.Items {
			if cart.Items[i].ID == cartItemID {
				cartItem = &cart.Items[i]
				break
			}
		}
		if cartItem == nil {
			return fmt.Errorf("cart item %w", ErrNotFound)
		}

		foodItem, err := getFoodItem(tx, cartItem.FoodItemID)
		if err != nil {
			return err
		}

		if !foodItem.IsAvailable {
			return fmt.Errorf("%s is now %w, please remove it from your cart", foodItem.Name, ErrUnavailable)
		}
		if foodItem.StockQuantity < quantity {
			return fmt.Errorf("%w: only %d items available", ErrInsufficientStock, foodItem.StockQuantity)
		}
		if quantity <= 0 {
			return fmt.Errorf("%w, use remove instead", ErrInvalidQuantity)
		}

		updates := map[string]any{"quantity": quantity, "updated_at": time.Now()}
		if instructions != nil {
			updates["special_instructions"] = *instructions
		}
		return tx.Model(cartItem).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}

	return reloadCart(initializers.DB, cartID)
}

// RemoveCartItem deletes a single line from the customer's cart.
func RemoveCartItem(userID, cartItemID uint) (*models.Cart, error) {
	var cartID uint

	err := initializers.DB.Transaction(func(tx *gorm.DB) error {
		cart, err := getCartByUserID(tx, userID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("cart %w", ErrNotFound)
		}
		if err != nil {
			return err
		}
		cartID = cart.ID

		result := tx.Where("id = ? AND cart_id = ?", cartItemID, cart.ID).Delete(&models.CartItem{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("cart item %w", ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return reloadCart(initializers.DB, cartID)
}

// ClearCart removes every line from the customer's cart. Clearing an
// absent or already-empty cart is a no-op.
func ClearCart(userID uint) (*models.Cart, error) {
	cart, err := getCartByUserID(initializers.DB, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.Cart{UserID: userID, Items: []models.CartItem{}}, nil
	}
	if err != nil {
		return nil, err
	}

	if err := initializers.DB.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
		return nil, err
	}

	return reloadCart(initializers.DB, cart.ID)
}
