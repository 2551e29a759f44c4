package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/copperline/copperline/internal/crm/domain"
	"github.com/copperline/copperline/internal/crm/filter"
	"github.com/copperline/copperline/internal/crm/storage/sqlite"
	crmerrors "github.com/copperline/copperline/internal/errors"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	store, err := sqlite.Open(filepath.Join(t.TempDir(), "crm.db"))
	if err != nil {
		t.Fatalf("sqlite.Open() error = %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	return New(Stores{
		Customers: store,
		Products:  store,
		Orders:    store,
	})
}

func mustCreateCustomer(t *testing.T, svc *Service, name, email string) domain.Customer {
	t.Helper()

	result, err := svc.CreateCustomer(context.Background(), domain.CreateCustomerInput{Name: name, Email: email})
	if err != nil {
		t.Fatalf("CreateCustomer(%q) error = %v", email, err)
	}
	if len(result.Errors) > 0 {
		t.Fatalf("CreateCustomer(%q) errors = %v", email, result.Errors)
	}
	return *result.Customer
}

func mustCreateProduct(t *testing.T, svc *Service, name, price string, stock int) domain.Product {
	t.Helper()

	result, err := svc.CreateProduct(context.Background(), domain.CreateProductInput{
		Name:  name,
		Price: decimal.RequireFromString(price),
		Stock: &stock,
	})
	if err != nil {
		t.Fatalf("CreateProduct(%q) error = %v", name, err)
	}
	if len(result.Errors) > 0 {
		t.Fatalf("CreateProduct(%q) errors = %v", name, result.Errors)
	}
	return *result.Product
}

func hasFieldError(errs []*crmerrors.Error, code crmerrors.Code, field string) bool {
	for _, err := range errs {
		if err.Code == code && err.Field == field {
			return true
		}
	}
	return false
}

func TestCreateCustomerSuccess(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)

	result, err := svc.CreateCustomer(context.Background(), domain.CreateCustomerInput{
		Name:  "Alice",
		Email: "alice@example.com",
		Phone: "123-456-7890",
	})
	if err != nil {
		t.Fatalf("CreateCustomer() error = %v", err)
	}
	if len(result.Errors) > 0 {
		t.Fatalf("CreateCustomer() errors = %v, want none", result.Errors)
	}
	if result.Customer == nil || result.Customer.ID == 0 {
		t.Fatal("CreateCustomer() customer missing or without ID")
	}
	if result.Message != "Customer 'Alice' created successfully" {
		t.Errorf("CreateCustomer() Message = %q", result.Message)
	}
}

func TestCreateCustomerAggregatesFieldErrors(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)

	result, err := svc.CreateCustomer(context.Background(), domain.CreateCustomerInput{
		Name:  "",
		Email: "not-an-email",
		Phone: "abc",
	})
	if err != nil {
		t.Fatalf("CreateCustomer() error = %v", err)
	}
	if result.Customer != nil {
		t.Fatal("CreateCustomer() customer = non-nil, want nil")
	}
	if len(result.Errors) != 3 {
		t.Fatalf("CreateCustomer() returned %d errors, want 3: %v", len(result.Errors), result.Errors)
	}
	if !hasFieldError(result.Errors, crmerrors.CodeCustomerNameRequired, "name") {
		t.Error("missing name error")
	}
	if !hasFieldError(result.Errors, crmerrors.CodeCustomerEmailInvalid, "email") {
		t.Error("missing email error")
	}
	if !hasFieldError(result.Errors, crmerrors.CodeCustomerPhoneInvalid, "phone") {
		t.Error("missing phone error")
	}
}

func TestCreateCustomerDuplicateEmail(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	mustCreateCustomer(t, svc, "Alice", "alice@example.com")

	result, err := svc.CreateCustomer(ctx, domain.CreateCustomerInput{Name: "Other", Email: "alice@example.com"})
	if err != nil {
		t.Fatalf("CreateCustomer() error = %v", err)
	}
	if result.Customer != nil {
		t.Fatal("CreateCustomer() customer = non-nil, want nil")
	}
	if !hasFieldError(result.Errors, crmerrors.CodeCustomerEmailExists, "email") {
		t.Fatalf("CreateCustomer() errors = %v, want email exists", result.Errors)
	}

	page, err := svc.ListCustomers(ctx, ListCustomersQuery{})
	if err != nil {
		t.Fatalf("ListCustomers() error = %v", err)
	}
	if len(page.Customers) != 1 {
		t.Fatalf("ListCustomers() returned %d customers, want 1", len(page.Customers))
	}
}

func TestBulkCreateCustomersPartialCommit(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	mustCreateCustomer(t, svc, "Existing", "dup@example.com")

	result, err := svc.BulkCreateCustomers(ctx, []domain.CreateCustomerInput{
		{Name: "Row Zero", Email: "zero@example.com"},
		{Name: "Row One", Email: "dup@example.com"},
		{Name: "Row Two", Email: "two@example.com"},
	})
	if err != nil {
		t.Fatalf("BulkCreateCustomers() error = %v", err)
	}
	if len(result.Customers) != 2 {
		t.Fatalf("BulkCreateCustomers() created %d customers, want 2", len(result.Customers))
	}
	if len(result.Errors) != 1 {
		t.Fatalf("BulkCreateCustomers() returned %d errors, want 1: %v", len(result.Errors), result.Errors)
	}
	if got := result.Errors[0].Metadata["index"]; got != "1" {
		t.Errorf("BulkCreateCustomers() error index = %q, want %q", got, "1")
	}
	if result.Errors[0].Code != crmerrors.CodeCustomerEmailExists {
		t.Errorf("BulkCreateCustomers() error code = %s, want %s", result.Errors[0].Code, crmerrors.CodeCustomerEmailExists)
	}
	if result.Message != "Created 2 of 3 customers" {
		t.Errorf("BulkCreateCustomers() Message = %q", result.Message)
	}
}

func TestGetCustomerNotFound(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)

	_, err := svc.GetCustomer(context.Background(), 42)
	var domainErr *crmerrors.Error
	if !errors.As(err, &domainErr) || domainErr.Code != crmerrors.CodeNotFound {
		t.Fatalf("GetCustomer() error = %v, want NOT_FOUND", err)
	}
}

func TestListCustomersInvalidOrderBy(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)

	_, err := svc.ListCustomers(context.Background(), ListCustomersQuery{OrderBy: "phone"})
	var domainErr *crmerrors.Error
	if !errors.As(err, &domainErr) || domainErr.Code != crmerrors.CodeOrderByInvalid {
		t.Fatalf("ListCustomers() error = %v, want ORDER_BY_INVALID", err)
	}
}

func TestListCustomersAIPFilter(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	mustCreateCustomer(t, svc, "Alice", "alice@example.com")
	mustCreateCustomer(t, svc, "Bob", "bob@work.org")

	page, err := svc.ListCustomers(ctx, ListCustomersQuery{Filter: `email = "bob@work.org"`})
	if err != nil {
		t.Fatalf("ListCustomers() error = %v", err)
	}
	if len(page.Customers) != 1 {
		t.Fatalf("ListCustomers() returned %d customers, want 1", len(page.Customers))
	}
	if page.Customers[0].Name != "Bob" {
		t.Errorf("ListCustomers()[0].Name = %q, want Bob", page.Customers[0].Name)
	}

	_, err = svc.ListCustomers(ctx, ListCustomersQuery{Filter: `nonsense ==`})
	var domainErr *crmerrors.Error
	if !errors.As(err, &domainErr) || domainErr.Code != crmerrors.CodeFilterInvalid {
		t.Fatalf("ListCustomers() error = %v, want FILTER_INVALID", err)
	}
}

func TestListCustomersPageToken(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	for _, name := range []string{"Ana", "Ben", "Cleo"} {
		mustCreateCustomer(t, svc, name, name+"@example.com")
	}

	first, err := svc.ListCustomers(ctx, ListCustomersQuery{PageSize: 2})
	if err != nil {
		t.Fatalf("ListCustomers() error = %v", err)
	}
	if len(first.Customers) != 2 {
		t.Fatalf("ListCustomers() first page size = %d, want 2", len(first.Customers))
	}
	if first.NextPageToken == "" {
		t.Fatal("ListCustomers() NextPageToken empty, want token")
	}

	second, err := svc.ListCustomers(ctx, ListCustomersQuery{PageSize: 2, PageToken: first.NextPageToken})
	if err != nil {
		t.Fatalf("ListCustomers() error = %v", err)
	}
	if len(second.Customers) != 1 {
		t.Fatalf("ListCustomers() second page size = %d, want 1", len(second.Customers))
	}
	if second.Customers[0].Name != "Cleo" {
		t.Errorf("ListCustomers() second page = %q, want Cleo", second.Customers[0].Name)
	}
	if second.NextPageToken != "" {
		t.Errorf("ListCustomers() NextPageToken = %q, want empty", second.NextPageToken)
	}
}

func TestCreateProductValidation(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	negStock := -1
	result, err := svc.CreateProduct(ctx, domain.CreateProductInput{
		Name:  "Widget",
		Price: decimal.RequireFromString("-1.00"),
		Stock: &negStock,
	})
	if err != nil {
		t.Fatalf("CreateProduct() error = %v", err)
	}
	if result.Product != nil {
		t.Fatal("CreateProduct() product = non-nil, want nil")
	}
	if !hasFieldError(result.Errors, crmerrors.CodeProductPriceNotPositive, "price") {
		t.Error("missing price error")
	}
	if !hasFieldError(result.Errors, crmerrors.CodeProductStockNegative, "stock") {
		t.Error("missing stock error")
	}

	page, err := svc.ListProducts(ctx, ListProductsQuery{})
	if err != nil {
		t.Fatalf("ListProducts() error = %v", err)
	}
	if len(page.Products) != 0 {
		t.Fatalf("ListProducts() returned %d products after failed create, want 0", len(page.Products))
	}
}

func TestCreateProductPricePrecision(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)

	result, err := svc.CreateProduct(context.Background(), domain.CreateProductInput{
		Name:  "Widget",
		Price: decimal.RequireFromString("9.999"),
	})
	if err != nil {
		t.Fatalf("CreateProduct() error = %v", err)
	}
	if !hasFieldError(result.Errors, crmerrors.CodeProductPricePrecision, "price") {
		t.Fatalf("CreateProduct() errors = %v, want precision error", result.Errors)
	}
}

func TestListProductsLowStock(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	mustCreateProduct(t, svc, "Laptop", "999.99", 3)
	mustCreateProduct(t, svc, "Mouse", "25.50", 10)

	page, err := svc.ListProducts(ctx, ListProductsQuery{
		Criteria: filter.ProductCriteria{LowStock: true},
	})
	if err != nil {
		t.Fatalf("ListProducts() error = %v", err)
	}
	if len(page.Products) != 1 {
		t.Fatalf("ListProducts() returned %d products, want 1", len(page.Products))
	}
	if page.Products[0].Name != "Laptop" {
		t.Errorf("ListProducts()[0].Name = %q, want Laptop", page.Products[0].Name)
	}
}

func TestCreateOrderComputesTotal(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	customer := mustCreateCustomer(t, svc, "Alice", "alice@example.com")
	laptop := mustCreateProduct(t, svc, "Laptop", "999.99", 5)
	mouse := mustCreateProduct(t, svc, "Mouse", "25.50", 20)

	result, err := svc.CreateOrder(ctx, domain.CreateOrderInput{
		CustomerID: customer.ID,
		ProductIDs: []int64{laptop.ID, mouse.ID},
	})
	if err != nil {
		t.Fatalf("CreateOrder() error = %v", err)
	}
	if len(result.Errors) > 0 {
		t.Fatalf("CreateOrder() errors = %v, want none", result.Errors)
	}
	if result.Order.TotalAmount.String() != "1025.49" {
		t.Errorf("CreateOrder() TotalAmount = %s, want 1025.49", result.Order.TotalAmount)
	}
	if result.Message != "Order created successfully with total amount $1025.49" {
		t.Errorf("CreateOrder() Message = %q", result.Message)
	}
}

func TestCreateOrderMissingCustomer(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)

	result, err := svc.CreateOrder(context.Background(), domain.CreateOrderInput{
		CustomerID: 42,
		ProductIDs: []int64{1},
	})
	if err != nil {
		t.Fatalf("CreateOrder() error = %v", err)
	}
	if result.Order != nil {
		t.Fatal("CreateOrder() order = non-nil, want nil")
	}
	if !hasFieldError(result.Errors, crmerrors.CodeOrderCustomerInvalid, "customer_id") {
		t.Fatalf("CreateOrder() errors = %v, want customer error", result.Errors)
	}
}

func TestCreateOrderEmptyProducts(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)

	customer := mustCreateCustomer(t, svc, "Alice", "alice@example.com")

	result, err := svc.CreateOrder(context.Background(), domain.CreateOrderInput{CustomerID: customer.ID})
	if err != nil {
		t.Fatalf("CreateOrder() error = %v", err)
	}
	if !hasFieldError(result.Errors, crmerrors.CodeOrderProductsEmpty, "product_ids") {
		t.Fatalf("CreateOrder() errors = %v, want empty products error", result.Errors)
	}
}

func TestCreateOrderInvalidProductIDs(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	customer := mustCreateCustomer(t, svc, "Alice", "alice@example.com")
	laptop := mustCreateProduct(t, svc, "Laptop", "999.99", 5)
	mouse := mustCreateProduct(t, svc, "Mouse", "25.50", 20)

	result, err := svc.CreateOrder(ctx, domain.CreateOrderInput{
		CustomerID: customer.ID,
		ProductIDs: []int64{laptop.ID, mouse.ID, 999},
	})
	if err != nil {
		t.Fatalf("CreateOrder() error = %v", err)
	}
	if result.Order != nil {
		t.Fatal("CreateOrder() order = non-nil, want nil")
	}
	if len(result.Errors) != 1 {
		t.Fatalf("CreateOrder() returned %d errors, want 1: %v", len(result.Errors), result.Errors)
	}
	if result.Errors[0].Code != crmerrors.CodeOrderProductsInvalid {
		t.Errorf("CreateOrder() error code = %s, want %s", result.Errors[0].Code, crmerrors.CodeOrderProductsInvalid)
	}
	if got := result.Errors[0].Metadata["ids"]; got != "999" {
		t.Errorf("CreateOrder() invalid ids = %q, want %q", got, "999")
	}

	page, err := svc.ListOrders(ctx, ListOrdersQuery{})
	if err != nil {
		t.Fatalf("ListOrders() error = %v", err)
	}
	if len(page.Orders) != 0 {
		t.Fatalf("ListOrders() returned %d orders after failed create, want 0", len(page.Orders))
	}
}

func TestCreateOrderDefaultsOrderDate(t *testing.T) {
	t.Parallel()

	fixed := time.Date(2026, time.March, 1, 9, 30, 0, 0, time.UTC)

	store, err := sqlite.Open(filepath.Join(t.TempDir(), "crm.db"))
	if err != nil {
		t.Fatalf("sqlite.Open() error = %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	svc := New(Stores{Customers: store, Products: store, Orders: store},
		WithClock(func() time.Time { return fixed }))

	customer := mustCreateCustomer(t, svc, "Alice", "alice@example.com")
	laptop := mustCreateProduct(t, svc, "Laptop", "999.99", 5)

	result, err := svc.CreateOrder(context.Background(), domain.CreateOrderInput{
		CustomerID: customer.ID,
		ProductIDs: []int64{laptop.ID},
	})
	if err != nil {
		t.Fatalf("CreateOrder() error = %v", err)
	}
	if !result.Order.OrderDate.Equal(fixed) {
		t.Errorf("CreateOrder() OrderDate = %v, want %v", result.Order.OrderDate, fixed)
	}
}

func TestListOrdersDefaultOrdering(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	customer := mustCreateCustomer(t, svc, "Alice", "alice@example.com")
	laptop := mustCreateProduct(t, svc, "Laptop", "999.99", 5)

	base := time.Date(2026, time.January, 10, 12, 0, 0, 0, time.UTC)
	for day := 0; day < 3; day++ {
		result, err := svc.CreateOrder(ctx, domain.CreateOrderInput{
			CustomerID: customer.ID,
			ProductIDs: []int64{laptop.ID},
			OrderDate:  base.AddDate(0, 0, day),
		})
		if err != nil {
			t.Fatalf("CreateOrder(day %d) error = %v", day, err)
		}
		if len(result.Errors) > 0 {
			t.Fatalf("CreateOrder(day %d) errors = %v", day, result.Errors)
		}
	}

	page, err := svc.ListOrders(ctx, ListOrdersQuery{})
	if err != nil {
		t.Fatalf("ListOrders() error = %v", err)
	}
	if len(page.Orders) != 3 {
		t.Fatalf("ListOrders() returned %d orders, want 3", len(page.Orders))
	}
	for i := 1; i < len(page.Orders); i++ {
		if page.Orders[i].OrderDate.After(page.Orders[i-1].OrderDate) {
			t.Fatalf("ListOrders() not ordered by most recent first at index %d", i)
		}
	}
}
