package i18n

// Error codes must match the codes defined in internal/errors/codes.go.
// These are duplicated as strings to avoid an import cycle.
const (
	CodeUnknown                 = "UNKNOWN"
	CodeCustomerNameRequired    = "CUSTOMER_NAME_REQUIRED"
	CodeCustomerEmailRequired   = "CUSTOMER_EMAIL_REQUIRED"
	CodeCustomerEmailInvalid    = "CUSTOMER_EMAIL_INVALID"
	CodeCustomerEmailExists     = "CUSTOMER_EMAIL_EXISTS"
	CodeCustomerPhoneInvalid    = "CUSTOMER_PHONE_INVALID"
	CodeProductNameRequired     = "PRODUCT_NAME_REQUIRED"
	CodeProductPriceNotPositive = "PRODUCT_PRICE_NOT_POSITIVE"
	CodeProductPricePrecision   = "PRODUCT_PRICE_PRECISION"
	CodeProductStockNegative    = "PRODUCT_STOCK_NEGATIVE"
	CodeOrderCustomerInvalid    = "ORDER_CUSTOMER_INVALID"
	CodeOrderProductsEmpty      = "ORDER_PRODUCTS_EMPTY"
	CodeOrderProductsInvalid    = "ORDER_PRODUCTS_INVALID"
	CodeFilterInvalid           = "FILTER_INVALID"
	CodeOrderByInvalid          = "ORDER_BY_INVALID"
	CodeNotFound                = "NOT_FOUND"
)

// enUS holds the en-US message templates.
var enUS = map[Code]string{
	CodeUnknown:                 "An internal error occurred",
	CodeCustomerNameRequired:    "Name is required",
	CodeCustomerEmailRequired:   "Email is required",
	CodeCustomerEmailInvalid:    "Email is not a valid address",
	CodeCustomerEmailExists:     "Email already exists",
	CodeCustomerPhoneInvalid:    "Phone number must be in format: +1234567890 or 123-456-7890",
	CodeProductNameRequired:     "Name is required",
	CodeProductPriceNotPositive: "Price must be positive",
	CodeProductPricePrecision:   "Price must have at most 2 decimal places",
	CodeProductStockNegative:    "Stock cannot be negative",
	CodeOrderCustomerInvalid:    "Invalid customer ID",
	CodeOrderProductsEmpty:      "At least one product must be selected",
	CodeOrderProductsInvalid:    "Invalid product IDs: {{.ids}}",
	CodeFilterInvalid:           "Filter expression is invalid",
	CodeOrderByInvalid:          "Invalid order_by: {{.order_by}}",
	CodeNotFound:                "Not found",
}
