package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/copperline/copperline/internal/crm/domain"
	"github.com/copperline/copperline/internal/crm/filter"
	"github.com/copperline/copperline/internal/crm/service"
	crmerrors "github.com/copperline/copperline/internal/errors"
)

type createCustomerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func (r createCustomerRequest) input() domain.CreateCustomerInput {
	return domain.CreateCustomerInput{
		Name:  r.Name,
		Email: r.Email,
		Phone: r.Phone,
	}
}

func (h *handler) createCustomer(c *gin.Context) {
	var req createCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.renderBadBody(c, err)
		return
	}

	result, err := h.service.CreateCustomer(c.Request.Context(), req.input())
	if err != nil {
		h.renderFailure(c, err)
		return
	}

	body := gin.H{
		"customer": nil,
		"message":  result.Message,
		"errors":   viewErrors(c, result.Errors),
	}
	if result.Customer != nil {
		body["customer"] = viewCustomer(*result.Customer)
	}
	c.JSON(http.StatusOK, body)
}

type bulkCreateCustomersRequest struct {
	Customers []createCustomerRequest `json:"customers"`
}

func (h *handler) bulkCreateCustomers(c *gin.Context) {
	var req bulkCreateCustomersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.renderBadBody(c, err)
		return
	}

	inputs := make([]domain.CreateCustomerInput, 0, len(req.Customers))
	for _, row := range req.Customers {
		inputs = append(inputs, row.input())
	}

	result, err := h.service.BulkCreateCustomers(c.Request.Context(), inputs)
	if err != nil {
		h.renderFailure(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"customers": viewCustomers(result.Customers),
		"message":   result.Message,
		"errors":    viewErrors(c, result.Errors),
	})
}

func (h *handler) getCustomer(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		h.renderFailure(c, crmerrors.New(crmerrors.CodeNotFound, "customer not found"))
		return
	}

	customer, err := h.service.GetCustomer(c.Request.Context(), id)
	if err != nil {
		h.renderFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"customer": viewCustomer(customer)})
}

func (h *handler) listCustomers(c *gin.Context) {
	criteria := filter.CustomerCriteria{
		NameContains:  c.Query("name"),
		EmailContains: c.Query("email"),
		PhonePrefix:   c.Query("phone_pattern"),
	}
	var ok bool
	if criteria.CreatedAfter, ok = timeQuery(h, c, "created_after"); !ok {
		return
	}
	if criteria.CreatedBefore, ok = timeQuery(h, c, "created_before"); !ok {
		return
	}
	pageSize, ok := intQuery(h, c, "page_size")
	if !ok {
		return
	}

	page, err := h.service.ListCustomers(c.Request.Context(), service.ListCustomersQuery{
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
		"customers":       viewCustomers(page.Customers),
		"next_page_token": page.NextPageToken,
	})
}
