package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is a CRM order record. TotalAmount is the sum of the associated
// product prices at the time the order was created; it is never re-synced
// with later price changes.
type Order struct {
	ID          int64
	CustomerID  int64
	ProductIDs  []int64
	TotalAmount decimal.Decimal
	OrderDate   time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateOrderInput describes the fields needed to create an order.
// OrderDate defaults to the current time when zero.
type CreateOrderInput struct {
	CustomerID int64
	ProductIDs []int64
	OrderDate  time.Time
}

// TotalAmount sums product prices with exact decimal arithmetic.
func TotalAmount(products []Product) decimal.Decimal {
	total := decimal.Zero
	for _, product := range products {
		total = total.Add(product.Price)
	}
	return total
}
