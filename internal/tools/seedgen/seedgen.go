// Package seedgen populates a CRM database with the sample data set.
package seedgen

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/copperline/copperline/internal/crm/domain"
	"github.com/copperline/copperline/internal/crm/service"
)

type seedCustomer struct {
	name  string
	email string
	phone string
}

type seedProduct struct {
	name  string
	price string
	stock int
}

// seedOrder references customers and products by their index in the seed
// lists above.
type seedOrder struct {
	customer int
	products []int
}

var seedCustomers = []seedCustomer{
	{"Alice Johnson", "alice@example.com", "+1234567890"},
	{"Bob Smith", "bob@example.com", "123-456-7890"},
	{"Carol Davis", "carol@example.com", ""},
	{"David Wilson", "david@example.com", "+1987654321"},
	{"Eva Brown", "eva@example.com", "555-123-4567"},
}

var seedProducts = []seedProduct{
	{"Laptop", "999.99", 10},
	{"Mouse", "25.50", 50},
	{"Keyboard", "75.00", 30},
	{"Monitor", "299.99", 15},
	{"Headphones", "149.99", 25},
	{"Webcam", "89.99", 20},
	{"Desk Chair", "199.99", 8},
	{"USB Drive", "19.99", 100},
}

var seedOrders = []seedOrder{
	{customer: 0, products: []int{0, 1}},
	{customer: 1, products: []int{2, 4}},
	{customer: 2, products: []int{3}},
	{customer: 3, products: []int{0, 3, 1}},
	{customer: 4, products: []int{7, 5}},
}

// Summary reports how many records Apply created.
type Summary struct {
	Customers int
	Products  int
	Orders    int
}

// Apply seeds the database through the service layer so every record goes
// through the same validation as API writes. Seeding an already-populated
// database fails on the duplicate customer emails.
func Apply(ctx context.Context, svc *service.Service) (Summary, error) {
	var summary Summary

	customerIDs := make([]int64, 0, len(seedCustomers))
	for _, row := range seedCustomers {
		result, err := svc.CreateCustomer(ctx, domain.CreateCustomerInput{
			Name:  row.name,
			Email: row.email,
			Phone: row.phone,
		})
		if err != nil {
			return summary, fmt.Errorf("seed customer %q: %w", row.email, err)
		}
		if len(result.Errors) > 0 {
			return summary, fmt.Errorf("seed customer %q: %s", row.email, result.Errors[0].Message)
		}
		customerIDs = append(customerIDs, result.Customer.ID)
		summary.Customers++
	}

	productIDs := make([]int64, 0, len(seedProducts))
	for _, row := range seedProducts {
		stock := row.stock
		result, err := svc.CreateProduct(ctx, domain.CreateProductInput{
			Name:  row.name,
			Price: decimal.RequireFromString(row.price),
			Stock: &stock,
		})
		if err != nil {
			return summary, fmt.Errorf("seed product %q: %w", row.name, err)
		}
		if len(result.Errors) > 0 {
			return summary, fmt.Errorf("seed product %q: %s", row.name, result.Errors[0].Message)
		}
		productIDs = append(productIDs, result.Product.ID)
		summary.Products++
	}

	for index, row := range seedOrders {
		ids := make([]int64, 0, len(row.products))
		for _, product := range row.products {
			ids = append(ids, productIDs[product])
		}
		result, err := svc.CreateOrder(ctx, domain.CreateOrderInput{
			CustomerID: customerIDs[row.customer],
			ProductIDs: ids,
		})
		if err != nil {
			return summary, fmt.Errorf("seed order %d: %w", index, err)
		}
		if len(result.Errors) > 0 {
			return summary, fmt.Errorf("seed order %d: %s", index, result.Errors[0].Message)
		}
		summary.Orders++
	}

	return summary, nil
}
