package services

import (
	"github.com/Kelechi01/chopnow-api/models"
	"github.com/shopspring/decimal"
)

// DeliveryFee is a flat fee applied once per order, never per line.
var DeliveryFee = decimal.NewFromInt(500)

// CartGrandTotal returns subtotal plus the delivery fee.
func CartGrandTotal(cart *models.Cart) decimal.Decimal {
	return cart.Subtotal().Add(DeliveryFee)
}
