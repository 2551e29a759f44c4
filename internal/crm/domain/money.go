package domain

import "github.com/shopspring/decimal"

// Cents converts a two-decimal-place amount to integer cents, which is how
// amounts are persisted and compared in storage.
func Cents(amount decimal.Decimal) int64 {
	return amount.Round(2).Shift(2).IntPart()
}

// FromCents converts integer cents back to a decimal amount.
func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}
