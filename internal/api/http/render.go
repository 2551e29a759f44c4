package httpapi

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/copperline/copperline/internal/crm/domain"
	crmerrors "github.com/copperline/copperline/internal/errors"
	"github.com/copperline/copperline/internal/errors/i18n"
	"github.com/copperline/copperline/internal/logkey"
)

type customerView struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type productView struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Stock     int    `json:"stock"`
	LowStock  bool   `json:"low_stock"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type orderView struct {
	ID          int64   `json:"id"`
	CustomerID  int64   `json:"customer_id"`
	ProductIDs  []int64 `json:"product_ids"`
	TotalAmount string  `json:"total_amount"`
	OrderDate   string  `json:"order_date"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

// errorView is one user-facing field error. Message is rendered through
// the locale catalog picked from Accept-Language. Index identifies the
// failing row in bulk mutations.
type errorView struct {
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	Index   string `json:"index,omitempty"`
	Message string `json:"message"`
}

func viewTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func viewCustomer(customer domain.Customer) customerView {
	return customerView{
		ID:        customer.ID,
		Name:      customer.Name,
		Email:     customer.Email,
		Phone:     customer.Phone,
		CreatedAt: viewTime(customer.CreatedAt),
		UpdatedAt: viewTime(customer.UpdatedAt),
	}
}

func viewCustomers(customers []domain.Customer) []customerView {
	views := make([]customerView, 0, len(customers))
	for _, customer := range customers {
		views = append(views, viewCustomer(customer))
	}
	return views
}

func viewProduct(product domain.Product) productView {
	return productView{
		ID:        product.ID,
		Name:      product.Name,
		Price:     product.Price.StringFixed(2),
		Stock:     product.Stock,
		LowStock:  product.LowStock(),
		CreatedAt: viewTime(product.CreatedAt),
		UpdatedAt: viewTime(product.UpdatedAt),
	}
}

func viewProducts(products []domain.Product) []productView {
	views := make([]productView, 0, len(products))
	for _, product := range products {
		views = append(views, viewProduct(product))
	}
	return views
}

func viewOrder(order domain.Order) orderView {
	productIDs := order.ProductIDs
	if productIDs == nil {
		productIDs = []int64{}
	}
	return orderView{
		ID:          order.ID,
		CustomerID:  order.CustomerID,
		ProductIDs:  productIDs,
		TotalAmount: order.TotalAmount.StringFixed(2),
		OrderDate:   viewTime(order.OrderDate),
		CreatedAt:   viewTime(order.CreatedAt),
		UpdatedAt:   viewTime(order.UpdatedAt),
	}
}

func viewOrders(orders []domain.Order) []orderView {
	views := make([]orderView, 0, len(orders))
	for _, order := range orders {
		views = append(views, viewOrder(order))
	}
	return views
}

// viewErrors renders field errors in the caller's locale.
func viewErrors(c *gin.Context, errs []*crmerrors.Error) []errorView {
	catalog := i18n.GetCatalog(c.GetHeader("Accept-Language"))
	views := make([]errorView, 0, len(errs))
	for _, err := range errs {
		views = append(views, errorView{
			Code:    string(err.Code),
			Field:   err.Field,
			Index:   err.Metadata["index"],
			Message: catalog.Format(string(err.Code), err.Metadata),
		})
	}
	return views
}

// renderFailure terminates the request with the status mapped from the
// error code. Internal causes are logged and replaced by a generic
// message so they never leak to the client.
func (h *handler) renderFailure(c *gin.Context, err error) {
	var domainErr *crmerrors.Error
	if !errors.As(err, &domainErr) {
		domainErr = crmerrors.Wrap(crmerrors.CodeUnknown, err.Error(), err)
	}

	if domainErr.Code.Kind() == crmerrors.KindInternal {
		h.logger.Error("request failed",
			slog.String(logkey.TraceID, traceIDFrom(c)),
			slog.String(logkey.Path, c.Request.URL.Path),
			slog.String(logkey.Error, err.Error()),
		)
	}

	c.AbortWithStatusJSON(domainErr.Code.HTTPStatus(), gin.H{
		"errors": viewErrors(c, []*crmerrors.Error{domainErr}),
	})
}

// renderBadParam rejects a malformed query parameter.
func (h *handler) renderBadParam(c *gin.Context, name string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"errors": []errorView{{
			Code:    string(crmerrors.CodeFilterInvalid),
			Field:   name,
			Message: "invalid value for " + name,
		}},
	})
}

// renderBadBody rejects a request body that fails to decode.
func (h *handler) renderBadBody(c *gin.Context, err error) {
	h.logger.Warn("bad request body",
		slog.String(logkey.TraceID, traceIDFrom(c)),
		slog.String(logkey.Path, c.Request.URL.Path),
		slog.String(logkey.Error, err.Error()),
	)
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": http.StatusText(http.StatusBadRequest)})
}
