package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/copperline/copperline/internal/crm/domain"
	"github.com/copperline/copperline/internal/crm/filter"
	"github.com/copperline/copperline/internal/crm/service"
	crmerrors "github.com/copperline/copperline/internal/errors"
)

// createProductRequest accepts price as a JSON number or string; string
// keeps exact decimals for clients that care.
type createProductRequest struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Stock *int            `json:"stock"`
}

func (h *handler) createProduct(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.renderBadBody(c, err)
		return
	}

	result, err := h.service.CreateProduct(c.Request.Context(), domain.CreateProductInput{
		Name:  req.Name,
		Price: req.Price,
		Stock: req.Stock,
	})
	if err != nil {
		h.renderFailure(c, err)
		return
	}

	body := gin.H{
		"product": nil,
		"message": result.Message,
		"errors":  viewErrors(c, result.Errors),
	}
	if result.Product != nil {
		body["product"] = viewProduct(*result.Product)
	}
	c.JSON(http.StatusOK, body)
}

func (h *handler) getProduct(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		h.renderFailure(c, crmerrors.New(crmerrors.CodeNotFound, "product not found"))
		return
	}

	product, err := h.service.GetProduct(c.Request.Context(), id)
	if err != nil {
		h.renderFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": viewProduct(product)})
}

func (h *handler) listProducts(c *gin.Context) {
	criteria := filter.ProductCriteria{
		NameContains: c.Query("name"),
	}
	var ok bool
	if criteria.PriceMin, ok = decimalQuery(h, c, "price_min"); !ok {
		return
	}
	if criteria.PriceMax, ok = decimalQuery(h, c, "price_max"); !ok {
		return
	}
	if criteria.StockMin, ok = intPtrQuery(h, c, "stock_min"); !ok {
		return
	}
	if criteria.StockMax, ok = intPtrQuery(h, c, "stock_max"); !ok {
		return
	}
	if criteria.StockExact, ok = intPtrQuery(h, c, "stock"); !ok {
		return
	}
	if criteria.LowStock, ok = boolQuery(h, c, "low_stock"); !ok {
		return
	}
	pageSize, ok := intQuery(h, c, "page_size")
	if !ok {
		return
	}

	page, err := h.service.ListProducts(c.Request.Context(), service.ListProductsQuery{
		Criteria:  criteria,
		Filter:    c.Query("filter"),
		OrderBy:   c.Query("order_by"),
		PageSize:  pageSize,
		PageToken: c.Query("page_token"),
	})
	if err != nil {
		h.renderFailure(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products":        viewProducts(page.Products),
		"next_page_token": page.NextPageToken,
	})
}
