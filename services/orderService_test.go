package services

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/Kelechi01/chopnow-api/initializers"
	"github.com/Kelechi01/chopnow-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func placeTestOrder(t *testing.T, userID uint) *models.Order {
	t.Helper()
	order, err := PlaceOrder(userID, "12 Allen Avenue, Ikeja", "")
	require.NoError(t, err)
	return order
}

func TestPlaceOrder(t *testing.T) {
	resetTables(t)
	user := createTestUser(t, "place@test.ng")
	jollof := createTestFoodItem(t, "Jollof Rice", 1000, 5)
	zobo := createTestFoodItem(t, "Zobo", 300, 10)

	_, err := AddToCart(user.ID, jollof.ID, 2, "")
	require.NoError(t, err)
	_, err = AddToCart(user.ID, zobo.ID, 1, "chilled")
	require.NoError(t, err)

	order, err := PlaceOrder(user.ID, "12 Allen Avenue, Ikeja", "call on arrival")
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.False(t, order.IsPaid)
	assert.Equal(t, "2300", order.TotalAmount.String())
	assert.Equal(t, "500", order.DeliveryFee.String())
	assert.Equal(t, "12 Allen Avenue, Ikeja", order.DeliveryAddress)
	require.Len(t, order.OrderItems, 2)

	// Line snapshots preserve quantity, unit price and instructions.
	byFood := map[uint]models.OrderItem{}
	for _, item := range order.OrderItems {
		byFood[item.FoodItemID] = item
	}
	assert.Equal(t, 2, byFood[jollof.ID].Quantity)
	assert.Equal(t, "1000", byFood[jollof.ID].UnitPrice.String())
	assert.Equal(t, 1, byFood[zobo.ID].Quantity)
	assert.Equal(t, "chilled", byFood[zobo.ID].SpecialInstructions)

	// Stock is decremented and the cart emptied in the same operation.
	assert.Equal(t, 3, currentStock(t, jollof.ID))
	assert.Equal(t, 9, currentStock(t, zobo.ID))
	cart, err := GetCart(user.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestPlaceOrderNumberFormat(t *testing.T) {
	resetTables(t)
	user := createTestUser(t, "number@test.ng")
	item := createTestFoodItem(t, "Fried Rice", 1200, 50)

	_, err := AddToCart(user.ID, item.ID, 1, "")
	require.NoError(t, err)
	order := placeTestOrder(t, user.ID)

	assert.True(t, strings.HasPrefix(order.OrderNumber, "CN"))
	assert.Len(t, order.OrderNumber, 20)
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	resetTables(t)
	user := createTestUser(t, "emptyorder@test.ng")

	// No cart materialized at all.
	_, err := PlaceOrder(user.ID, "somewhere", "")
	assert.ErrorIs(t, err, ErrEmptyCart)

	// Cart exists but has no lines.
	item := createTestFoodItem(t, "Chin Chin", 200, 10)
	cart, err := AddToCart(user.ID, item.ID, 1, "")
	require.NoError(t, err)
	_, err = RemoveCartItem(user.ID, cart.Items[0].ID)
	require.NoError(t, err)

	_, err = PlaceOrder(user.ID, "somewhere", "")
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestPlaceOrderUnknownUser(t *testing.T) {
	resetTables(t)

	_, err := PlaceOrder(9999, "somewhere", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPlaceOrderItemBecameUnavailable(t *testing.T) {
	resetTables(t)
	user := createTestUser(t, "gone@test.ng")
	item := createTestFoodItem(t, "Nkwobi", 2500, 5)

	_, err := AddToCart(user.ID, item.ID, 1, "")
	require.NoError(t, err)
	require.NoError(t, initializers.DB.Model(&item).Update("is_available", false).Error)

	_, err = PlaceOrder(user.ID, "somewhere", "")
	assert.ErrorIs(t, err, ErrUnavailable)

	// Nothing committed: stock and cart are untouched.
	assert.Equal(t, 5, currentStock(t, item.ID))
	cart, err := GetCart(user.ID)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)
}

func TestPlaceOrderInsufficientStockIsAllOrNothing(t *testing.T) {
	resetTables(t)
	user := createTestUser(t, "partial@test.ng")
	plenty := createTestFoodItem(t, "Puff Puff", 100, 50)
	scarce := createTestFoodItem(t, "Ram Suya", 3000, 4)

	_, err := AddToCart(user.ID, plenty.ID, 2, "")
	require.NoError(t, err)
	_, err = AddToCart(user.ID, scarce.ID, 4, "")
	require.NoError(t, err)

	// Stock drops below the cart quantity before checkout.
	require.NoError(t, initializers.DB.Model(&scarce).Update("stock_quantity", 1).Error)

	_, err = PlaceOrder(user.ID, "somewhere", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Contains(t, err.Error(), "available: 1")

	// The first line's decrement must be rolled back.
	assert.Equal(t, 50, currentStock(t, plenty.ID))
	assert.Equal(t, 1, currentStock(t, scarce.ID))

	var orderCount int64
	require.NoError(t, initializers.DB.Model(&models.Order{}).Count(&orderCount).Error)
	assert.Zero(t, orderCount)
}

func TestPlaceOrderNumbersAreUnique(t *testing.T) {
	resetTables(t)
	item := createTestFoodItem(t, "Meat Pie", 700, 100)

	numbers := map[string]bool{}
	for i := 0; i < 8; i++ {
		user := createTestUser(t, fmt.Sprintf("unique%d@test.ng", i))
		_, err := AddToCart(user.ID, item.ID, 1, "")
		require.NoError(t, err)
		order := placeTestOrder(t, user.ID)
		assert.False(t, numbers[order.OrderNumber], "duplicate order number %s", order.OrderNumber)
		numbers[order.OrderNumber] = true
	}
}

func TestPlaceOrderConcurrentSingleStock(t *testing.T) {
	resetTables(t)
	item := createTestFoodItem(t, "Last Portion", 1500, 1)

	first := createTestUser(t, "race1@test.ng")
	second := createTestUser(t, "race2@test.ng")
	_, err := AddToCart(first.ID, item.ID, 1, "")
	require.NoError(t, err)
	_, err = AddToCart(second.ID, item.ID, 1, "")
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, userID := range []uint{first.ID, second.ID} {
		wg.Add(1)
		go func(i int, userID uint) {
			defer wg.Done()
			_, errs[i] = PlaceOrder(userID, "somewhere", "")
		}(i, userID)
	}
	wg.Wait()

	var succeeded, failed int
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, ErrInsufficientStock)
			failed++
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, failed)
	assert.Equal(t, 0, currentStock(t, item.ID))
}

func TestGetOrderScopedToOwner(t *testing.T) {
	resetTables(t)
	owner := createTestUser(t, "owner@test.ng")
	stranger := createTestUser(t, "stranger@test.ng")
	item := createTestFoodItem(t, "Shawarma", 2000, 10)

	_, err := AddToCart(owner.ID, item.ID, 1, "")
	require.NoError(t, err)
	order := placeTestOrder(t, owner.ID)

	found, err := GetOrderByID(order.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, order.OrderNumber, found.OrderNumber)

	_, err = GetOrderByID(order.ID, stranger.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetOrderByNumber(t *testing.T) {
	resetTables(t)
	user := createTestUser(t, "bynumber@test.ng")
	item := createTestFoodItem(t, "Abacha", 900, 10)

	_, err := AddToCart(user.ID, item.ID, 1, "")
	require.NoError(t, err)
	order := placeTestOrder(t, user.ID)

	found, err := GetOrderByNumber(order.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)
	require.Len(t, found.OrderItems, 1)

	_, err = GetOrderByNumber("CN00000000000000000")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateOrderStatusHappyPath(t *testing.T) {
	resetTables(t)
	user := createTestUser(t, "flow@test.ng")
	item := createTestFoodItem(t, "Banga Rice", 1700, 10)

	_, err := AddToCart(user.ID, item.ID, 1, "")
	require.NoError(t, err)
	order := placeTestOrder(t, user.ID)

	steps := []struct {
		next    models.OrderStatus
		stamped func(o *models.Order) bool
	}{
		{models.OrderStatusConfirmed, func(o *models.Order) bool { return o.ConfirmedAt != nil }},
		{models.OrderStatusPreparing, func(o *models.Order) bool { return o.PreparingAt != nil }},
		{models.OrderStatusOutForDelivery, func(o *models.Order) bool { return o.OutForDeliveryAt != nil }},
		{models.OrderStatusCompleted, func(o *models.Order) bool { return o.CompletedAt != nil }},
	}

	for _, step := range steps {
		updated, err := UpdateOrderStatus(order.ID, step.next, "")
		require.NoError(t, err)
		assert.Equal(t, step.next, updated.Status)
		assert.True(t, step.stamped(updated), "milestone timestamp for %s not stamped", step.next)
	}

	// Stock stays decremented through the whole happy path.
	assert.Equal(t, 9, currentStock(t, item.ID))
}

func TestUpdateOrderStatusRejectsInvalidTransitions(t *testing.T) {
	resetTables(t)
	user := createTestUser(t, "matrix@test.ng")
	item := createTestFoodItem(t, "Ewa Agoyin", 800, 50)

	tests := []struct {
		from models.OrderStatus
		to   models.OrderStatus
	}{
		{models.OrderStatusPending, models.OrderStatusPreparing},
		{models.OrderStatusPending, models.OrderStatusOutForDelivery},
		{models.OrderStatusPending, models.OrderStatusCompleted},
		{models.OrderStatusConfirmed, models.OrderStatusOutForDelivery},
		{models.OrderStatusConfirmed, models.OrderStatusCompleted},
		{models.OrderStatusPreparing, models.OrderStatusCancelled},
		{models.OrderStatusPreparing, models.OrderStatusCompleted},
		{models.OrderStatusOutForDelivery, models.OrderStatusCancelled},
		{models.OrderStatusCompleted, models.OrderStatusConfirmed},
		{models.OrderStatusCancelled, models.OrderStatusConfirmed},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			_, err := AddToCart(user.ID, item.ID, 1, "")
			require.NoError(t, err)
			order := placeTestOrder(t, user.ID)
			require.NoError(t, initializers.DB.Model(order).Update("status", tt.from).Error)

			_, err = UpdateOrderStatus(order.ID, tt.to, "")
			assert.ErrorIs(t, err, ErrInvalidTransition)

			// Status and timestamps unchanged.
			fresh, err := GetOrderByNumber(order.OrderNumber)
			require.NoError(t, err)
			assert.Equal(t, tt.from, fresh.Status)
			assert.Nil(t, fresh.CancelledAt)
		})
	}
}

func TestUpdateOrderStatusUnknownStatus(t *testing.T) {
	resetTables(t)
	user := createTestUser(t, "unknownstatus@test.ng")
	item := createTestFoodItem(t, "Okpa", 350, 10)

	_, err := AddToCart(user.ID, item.ID, 1, "")
	require.NoError(t, err)
	order := placeTestOrder(t, user.ID)

	_, err = UpdateOrderStatus(order.ID, models.OrderStatus("Shipped"), "")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateOrderStatusNotFound(t *testing.T) {
	resetTables(t)

	_, err := UpdateOrderStatus(9999, models.OrderStatusConfirmed, "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAdminCancelRestoresStock(t *testing.T) {
	resetTables(t)
	user := createTestUser(t, "admincancel@test.ng")
	item := createTestFoodItem(t, "Ogbono", 1400, 6)

	_, err := AddToCart(user.ID, item.ID, 4, "")
	require.NoError(t, err)
	order := placeTestOrder(t, user.ID)
	require.Equal(t, 2, currentStock(t, item.ID))

	cancelled, err := UpdateOrderStatus(order.ID, models.OrderStatusCancelled, "kitchen closed")
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusCancelled, cancelled.Status)
	assert.Equal(t, "kitchen closed", cancelled.CancellationReason)
	assert.NotNil(t, cancelled.CancelledAt)
	assert.Equal(t, 6, currentStock(t, item.ID))
}

func TestCustomerCancel(t *testing.T) {
	resetTables(t)
	user := createTestUser(t, "cancel@test.ng")
	item := createTestFoodItem(t, "Edikang Ikong", 2200, 5)

	_, err := AddToCart(user.ID, item.ID, 2, "")
	require.NoError(t, err)
	order := placeTestOrder(t, user.ID)
	require.Equal(t, 3, currentStock(t, item.ID))

	cancelled, err := CancelOrder(order.ID, user.ID, "")
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusCancelled, cancelled.Status)
	assert.Equal(t, "Cancelled by customer", cancelled.CancellationReason)
	assert.NotNil(t, cancelled.CancelledAt)
	assert.Equal(t, 5, currentStock(t, item.ID))
}

func TestCustomerCancelOwnershipAndState(t *testing.T) {
	resetTables(t)
	user := createTestUser(t, "cancelguard@test.ng")
	stranger := createTestUser(t, "cancelstranger@test.ng")
	item := createTestFoodItem(t, "Amala", 1100, 10)

	_, err := AddToCart(user.ID, item.ID, 1, "")
	require.NoError(t, err)
	order := placeTestOrder(t, user.ID)

	// Not the owner.
	_, err = CancelOrder(order.ID, stranger.ID, "")
	assert.ErrorIs(t, err, ErrNotFound)

	// Confirmed orders can still be cancelled by the customer.
	_, err = UpdateOrderStatus(order.ID, models.OrderStatusConfirmed, "")
	require.NoError(t, err)
	_, err = CancelOrder(order.ID, user.ID, "changed my mind")
	require.NoError(t, err)

	// Preparing and beyond cannot.
	_, err = AddToCart(user.ID, item.ID, 1, "")
	require.NoError(t, err)
	second := placeTestOrder(t, user.ID)
	_, err = UpdateOrderStatus(second.ID, models.OrderStatusConfirmed, "")
	require.NoError(t, err)
	_, err = UpdateOrderStatus(second.ID, models.OrderStatusPreparing, "")
	require.NoError(t, err)

	_, err = CancelOrder(second.ID, user.ID, "")
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestCancelTwiceDoesNotDoubleRestoreStock(t *testing.T) {
	resetTables(t)
	user := createTestUser(t, "doublecancel@test.ng")
	item := createTestFoodItem(t, "Ukodo", 1600, 5)

	_, err := AddToCart(user.ID, item.ID, 3, "")
	require.NoError(t, err)
	order := placeTestOrder(t, user.ID)

	_, err = CancelOrder(order.ID, user.ID, "")
	require.NoError(t, err)
	require.Equal(t, 5, currentStock(t, item.ID))

	// Customer path again.
	_, err = CancelOrder(order.ID, user.ID, "")
	assert.ErrorIs(t, err, ErrInvalidState)

	// Admin path on an already-cancelled order.
	_, err = UpdateOrderStatus(order.ID, models.OrderStatusCancelled, "again")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	assert.Equal(t, 5, currentStock(t, item.ID))
}

func TestGetUserOrders(t *testing.T) {
	resetTables(t)
	user := createTestUser(t, "history@test.ng")
	other := createTestUser(t, "otherhistory@test.ng")
	item := createTestFoodItem(t, "Ofe Nsala", 1900, 20)

	for i := 0; i < 2; i++ {
		_, err := AddToCart(user.ID, item.ID, 1, "")
		require.NoError(t, err)
		placeTestOrder(t, user.ID)
	}
	_, err := AddToCart(other.ID, item.ID, 1, "")
	require.NoError(t, err)
	placeTestOrder(t, other.ID)

	orders, err := GetUserOrders(user.ID)
	require.NoError(t, err)
	assert.Len(t, orders, 2)
	for _, order := range orders {
		assert.Equal(t, user.ID, order.UserID)
		assert.NotEmpty(t, order.OrderItems)
	}
}

// The placement retry keys on the translated duplicate-key error, so the
// store must surface one when two orders claim the same number.
func TestDuplicateOrderNumberRejected(t *testing.T) {
	resetTables(t)
	user := createTestUser(t, "dupnumber@test.ng")

	const number = "CN202608310101010001"
	first := models.Order{OrderNumber: number, UserID: user.ID, Status: models.OrderStatusPending}
	require.NoError(t, initializers.DB.Create(&first).Error)

	second := models.Order{OrderNumber: number, UserID: user.ID, Status: models.OrderStatusPending}
	err := initializers.DB.Create(&second).Error
	require.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestConcurrentOrdersGetDistinctNumbers(t *testing.T) {
	resetTables(t)
	ofada := createTestFoodItem(t, "Ofada Rice", 1500, 20)

	var wg sync.WaitGroup
	orders := make([]*models.Order, 2)
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		user := createTestUser(t, fmt.Sprintf("racer%d@test.ng", i))
		_, err := AddToCart(user.ID, ofada.ID, 1, "")
		require.NoError(t, err)

		wg.Add(1)
		go func(i int, userID uint) {
			defer wg.Done()
			orders[i], errs[i] = PlaceOrder(userID, "12 Allen Avenue, Ikeja", "")
		}(i, user.ID)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.NotEqual(t, orders[0].OrderNumber, orders[1].OrderNumber)
}
