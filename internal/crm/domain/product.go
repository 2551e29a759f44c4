package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	crmerrors "github.com/copperline/copperline/internal/errors"
)

// LowStockThreshold is the fixed cutoff for the low_stock filter: a product
// is low on stock when stock is strictly below this value.
const LowStockThreshold = 10

// Product is a CRM product record. Price carries exactly two decimal
// places.
type Product struct {
	ID        int64
	Name      string
	Price     decimal.Decimal
	Stock     int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// LowStock reports whether the product falls under the low-stock cutoff.
func (p Product) LowStock() bool {
	return p.Stock < LowStockThreshold
}

// CreateProductInput describes the fields needed to create a product.
// Stock is optional and defaults to zero.
type CreateProductInput struct {
	Name  string
	Price decimal.Decimal
	Stock *int
}

// NormalizeCreateProductInput trims whitespace from product input.
func NormalizeCreateProductInput(input CreateProductInput) CreateProductInput {
	input.Name = strings.TrimSpace(input.Name)
	return input
}

// ValidateCreateProduct returns every field error in the input.
func ValidateCreateProduct(input CreateProductInput) []*crmerrors.Error {
	var errs []*crmerrors.Error
	if input.Name == "" {
		errs = append(errs, crmerrors.NewField(crmerrors.CodeProductNameRequired, "name", "product name is required"))
	}
	if input.Price.Sign() <= 0 {
		errs = append(errs, crmerrors.NewField(crmerrors.CodeProductPriceNotPositive, "price", "product price must be positive"))
	} else if !input.Price.Equal(input.Price.Round(2)) {
		errs = append(errs, crmerrors.NewField(crmerrors.CodeProductPricePrecision, "price", "product price must have at most 2 decimal places"))
	}
	if input.Stock != nil && *input.Stock < 0 {
		errs = append(errs, crmerrors.NewField(crmerrors.CodeProductStockNegative, "stock", "product stock cannot be negative"))
	}
	return errs
}
