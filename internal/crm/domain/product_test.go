package domain

import (
	"testing"

	"github.com/shopspring/decimal"

	crmerrors "github.com/copperline/copperline/internal/errors"
)

func TestValidateCreateProduct(t *testing.T) {
	t.Parallel()

	negative := -1
	tests := []struct {
		name  string
		input CreateProductInput
		codes []crmerrors.Code
	}{
		{
			name:  "valid",
			input: CreateProductInput{Name: "Laptop", Price: decimal.RequireFromString("999.99")},
		},
		{
			name:  "zero price",
			input: CreateProductInput{Name: "Laptop", Price: decimal.Zero},
			codes: []crmerrors.Code{crmerrors.CodeProductPriceNotPositive},
		},
		{
			name:  "negative price",
			input: CreateProductInput{Name: "Laptop", Price: decimal.RequireFromString("-5")},
			codes: []crmerrors.Code{crmerrors.CodeProductPriceNotPositive},
		},
		{
			name:  "too many decimals",
			input: CreateProductInput{Name: "Laptop", Price: decimal.RequireFromString("9.999")},
			codes: []crmerrors.Code{crmerrors.CodeProductPricePrecision},
		},
		{
			name:  "negative stock",
			input: CreateProductInput{Name: "Laptop", Price: decimal.RequireFromString("9.99"), Stock: &negative},
			codes: []crmerrors.Code{crmerrors.CodeProductStockNegative},
		},
		{
			name:  "missing name and bad price",
			input: CreateProductInput{Price: decimal.Zero},
			codes: []crmerrors.Code{crmerrors.CodeProductNameRequired, crmerrors.CodeProductPriceNotPositive},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			errs := ValidateCreateProduct(tt.input)
			if len(errs) != len(tt.codes) {
				t.Fatalf("ValidateCreateProduct() returned %d errors, want %d: %v", len(errs), len(tt.codes), errs)
			}
			got := map[crmerrors.Code]bool{}
			for _, err := range errs {
				got[err.Code] = true
			}
			for _, code := range tt.codes {
				if !got[code] {
					t.Errorf("missing code %s", code)
				}
			}
		})
	}
}

func TestLowStock(t *testing.T) {
	t.Parallel()

	tests := []struct {
		stock int
		want  bool
	}{
		{0, true},
		{9, true},
		{10, false},
		{11, false},
	}

	for _, tt := range tests {
		product := Product{Stock: tt.stock}
		if got := product.LowStock(); got != tt.want {
			t.Errorf("LowStock() with stock %d = %v, want %v", tt.stock, got, tt.want)
		}
	}
}
