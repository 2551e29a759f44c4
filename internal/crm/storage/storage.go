// Package storage defines the persistence interfaces for CRM records.
package storage

import (
	"context"
	"errors"

	"github.com/copperline/copperline/internal/crm/domain"
	"github.com/copperline/copperline/internal/crm/filter"
	"github.com/copperline/copperline/internal/platform/pagination"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrEmailExists indicates a customer email uniqueness violation.
var ErrEmailExists = errors.New("customer email already exists")

// ListOptions carries the normalized query parameters for list operations.
// Conditions combine conjunctively; Order must already be validated
// against the entity's sortable fields.
type ListOptions struct {
	Conditions []filter.Condition
	Order      pagination.Order
	Limit      int
	Offset     int
}

// CustomerStore persists customer records.
type CustomerStore interface {
	// CreateCustomer inserts one customer and returns it with its
	// assigned ID and timestamps. Returns ErrEmailExists on a
	// uniqueness violation.
	CreateCustomer(ctx context.Context, input domain.CreateCustomerInput) (domain.Customer, error)
	GetCustomer(ctx context.Context, id int64) (domain.Customer, error)
	// EmailExists reports whether any customer already uses the email.
	EmailExists(ctx context.Context, email string) (bool, error)
	ListCustomers(ctx context.Context, opts ListOptions) ([]domain.Customer, error)
}

// ProductStore persists product records.
type ProductStore interface {
	CreateProduct(ctx context.Context, input domain.CreateProductInput) (domain.Product, error)
	GetProduct(ctx context.Context, id int64) (domain.Product, error)
	// ProductsByIDs returns the products matching ids, in id order.
	// Missing ids are simply absent from the result.
	ProductsByIDs(ctx context.Context, ids []int64) ([]domain.Product, error)
	ListProducts(ctx context.Context, opts ListOptions) ([]domain.Product, error)
}

// OrderStore persists order records.
type OrderStore interface {
	// CreateOrder inserts the order, associates its products, and
	// computes and persists total_amount, all inside one transaction.
	CreateOrder(ctx context.Context, input domain.CreateOrderInput) (domain.Order, error)
	GetOrder(ctx context.Context, id int64) (domain.Order, error)
	ListOrders(ctx context.Context, opts ListOptions) ([]domain.Order, error)
}
