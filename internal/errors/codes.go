// Package errors provides structured error handling with a closed code set.
package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Customer errors
	CodeCustomerNameRequired  Code = "CUSTOMER_NAME_REQUIRED"
	CodeCustomerEmailRequired Code = "CUSTOMER_EMAIL_REQUIRED"
	CodeCustomerEmailInvalid  Code = "CUSTOMER_EMAIL_INVALID"
	CodeCustomerEmailExists   Code = "CUSTOMER_EMAIL_EXISTS"
	CodeCustomerPhoneInvalid  Code = "CUSTOMER_PHONE_INVALID"

	// Product errors
	CodeProductNameRequired     Code = "PRODUCT_NAME_REQUIRED"
	CodeProductPriceNotPositive Code = "PRODUCT_PRICE_NOT_POSITIVE"
	CodeProductPricePrecision   Code = "PRODUCT_PRICE_PRECISION"
	CodeProductStockNegative    Code = "PRODUCT_STOCK_NEGATIVE"

	// Order errors
	CodeOrderCustomerInvalid Code = "ORDER_CUSTOMER_INVALID"
	CodeOrderProductsEmpty   Code = "ORDER_PRODUCTS_EMPTY"
	CodeOrderProductsInvalid Code = "ORDER_PRODUCTS_INVALID"

	// Query errors
	CodeFilterInvalid  Code = "FILTER_INVALID"
	CodeOrderByInvalid Code = "ORDER_BY_INVALID"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)

// Kind groups codes into the four failure classes the API reports.
type Kind int

const (
	// KindInternal covers unclassified failures.
	KindInternal Kind = iota
	// KindValidation covers recoverable input errors.
	KindValidation
	// KindNotFound covers missing resources.
	KindNotFound
	// KindConflict covers uniqueness-constraint violations.
	KindConflict
)

// Kind maps a code to its failure class.
func (c Code) Kind() Kind {
	switch c {
	case CodeCustomerNameRequired,
		CodeCustomerEmailRequired,
		CodeCustomerEmailInvalid,
		CodeCustomerPhoneInvalid,
		CodeProductNameRequired,
		CodeProductPriceNotPositive,
		CodeProductPricePrecision,
		CodeProductStockNegative,
		CodeOrderCustomerInvalid,
		CodeOrderProductsEmpty,
		CodeOrderProductsInvalid,
		CodeFilterInvalid,
		CodeOrderByInvalid:
		return KindValidation

	case CodeNotFound:
		return KindNotFound

	case CodeCustomerEmailExists:
		return KindConflict

	default:
		return KindInternal
	}
}

// HTTPStatus maps a code to the HTTP status used when the error is terminal
// for the request. Mutation validation errors are reported inside the 200
// payload instead and never reach this mapping.
func (c Code) HTTPStatus() int {
	switch c.Kind() {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
