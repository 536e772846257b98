package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "Pending"
	OrderStatusConfirmed      OrderStatus = "Confirmed"
	OrderStatusPreparing      OrderStatus = "Preparing"
	OrderStatusOutForDelivery OrderStatus = "OutForDelivery"
	OrderStatusCompleted      OrderStatus = "Completed"
	OrderStatusCancelled      OrderStatus = "Cancelled"
)

// validTransitions is the full set of permitted status edges. Completed
// and Cancelled are terminal.
var validTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:        {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed:      {OrderStatusPreparing, OrderStatusCancelled},
	OrderStatusPreparing:      {OrderStatusOutForDelivery},
	OrderStatusOutForDelivery: {OrderStatusCompleted},
}

func IsValidStatusTransition(current, next OrderStatus) bool {
	for _, allowed := range validTransitions[current] {
		if allowed == next {
			return true
		}
	}
	return false
}

func IsKnownStatus(status OrderStatus) bool {
	switch status {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusPreparing,
		OrderStatusOutForDelivery, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

type OrderItem struct {
	gorm.Model
	OrderID             uint            `json:"orderId"`
	FoodItemID          uint            `json:"foodItemId"`
	Quantity            int             `json:"quantity"`
	UnitPrice           decimal.Decimal `json:"unitPrice" gorm:"type:decimal(10,2)"`
	SpecialInstructions string          `json:"specialInstructions" gorm:"size:500"`
}

func (oi OrderItem) TotalPrice() decimal.Decimal {
	return oi.UnitPrice.Mul(decimal.NewFromInt(int64(oi.Quantity)))
}

type Order struct {
	gorm.Model
	OrderNumber         string          `json:"orderNumber" gorm:"uniqueIndex;size:32"`
	UserID              uint            `json:"userId"`
	Status              OrderStatus     `json:"status" gorm:"size:20"`
	TotalAmount         decimal.Decimal `json:"totalAmount" gorm:"type:decimal(10,2)"`
	DeliveryFee         decimal.Decimal `json:"deliveryFee" gorm:"type:decimal(10,2)"`
	DeliveryAddress     string          `json:"deliveryAddress"`
	SpecialInstructions string          `json:"specialInstructions"`
	ConfirmedAt         *time.Time      `json:"confirmedAt"`
	PreparingAt         *time.Time      `json:"preparingAt"`
	OutForDeliveryAt    *time.Time      `json:"outForDeliveryAt"`
	CompletedAt         *time.Time      `json:"completedAt"`
	CancelledAt         *time.Time      `json:"cancelledAt"`
	CancellationReason  string          `json:"cancellationReason"`
	IsPaid              bool            `json:"isPaid"`
	OrderItems          []OrderItem     `json:"orderItems" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}
