package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/copperline/copperline/internal/crm/domain"
	"github.com/copperline/copperline/internal/crm/filter"
	"github.com/copperline/copperline/internal/crm/service"
	crmerrors "github.com/copperline/copperline/internal/errors"
)

type createOrderRequest struct {
	CustomerID int64      `json:"customer_id"`
	ProductIDs []int64    `json:"product_ids"`
	OrderDate  *time.Time `json:"order_date"`
}

func (h *handler) createOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.renderBadBody(c, err)
		return
	}

	input := domain.CreateOrderInput{
		CustomerID: req.CustomerID,
		ProductIDs: req.ProductIDs,
	}
	if req.OrderDate != nil {
		input.OrderDate = *req.OrderDate
	}

	result, err := h.service.CreateOrder(c.Request.Context(), input)
	if err != nil {
		h.renderFailure(c, err)
		return
	}

	body := gin.H{
		"order":   nil,
		"message": result.Message,
		"errors":  viewErrors(c, result.Errors),
	}
	if result.Order != nil {
		body["order"] = viewOrder(*result.Order)
	}
	c.JSON(http.StatusOK, body)
}

func (h *handler) getOrder(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		h.renderFailure(c, crmerrors.New(crmerrors.CodeNotFound, "order not found"))
		return
	}

	order, err := h.service.GetOrder(c.Request.Context(), id)
	if err != nil {
		h.renderFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": viewOrder(order)})
}

func (h *handler) listOrders(c *gin.Context) {
	criteria := filter.OrderCriteria{
		CustomerNameContains: c.Query("customer_name"),
		ProductNameContains:  c.Query("product_name"),
	}
	var ok bool
	if criteria.TotalMin, ok = decimalQuery(h, c, "total_min"); !ok {
		return
	}
	if criteria.TotalMax, ok = decimalQuery(h, c, "total_max"); !ok {
		return
	}
	if criteria.PlacedAfter, ok = timeQuery(h, c, "order_date_after"); !ok {
		return
	}
	if criteria.PlacedBefore, ok = timeQuery(h, c, "order_date_before"); !ok {
		return
	}
	if criteria.ProductID, ok = int64PtrQuery(h, c, "product_id"); !ok {
		return
	}
	pageSize, ok := intQuery(h, c, "page_size")
	if !ok {
		return
	}

	page, err := h.service.ListOrders(c.Request.Context(), service.ListOrdersQuery{
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
		"orders":          viewOrders(page.Orders),
		"next_page_token": page.NextPageToken,
	})
}
