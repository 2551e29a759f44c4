// Package sqlite provides a SQLite-backed CRM storage implementation.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/copperline/copperline/internal/crm/domain"
	"github.com/copperline/copperline/internal/crm/filter"
	"github.com/copperline/copperline/internal/crm/storage"
	"github.com/copperline/copperline/internal/crm/storage/sqlite/migrations"
	"github.com/copperline/copperline/internal/platform/storage/sqlitemigrate"
)

// Store persists CRM records in SQLite.
type Store struct {
	sqlDB *sql.DB
	clock func() time.Time
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite CRM store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.Apply(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB, clock: time.Now}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// CreateCustomer inserts one customer record.
func (s *Store) CreateCustomer(ctx context.Context, input domain.CreateCustomerInput) (domain.Customer, error) {
	if err := ctx.Err(); err != nil {
		return domain.Customer{}, err
	}
	if s == nil || s.sqlDB == nil {
		return domain.Customer{}, fmt.Errorf("storage is not configured")
	}
	input = domain.NormalizeCreateCustomerInput(input)
	if input.Name == "" {
		return domain.Customer{}, fmt.Errorf("customer name is required")
	}
	if input.Email == "" {
		return domain.Customer{}, fmt.Errorf("customer email is required")
	}

	now := s.clock().UTC()
	result, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO customers (name, email, phone, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		input.Name,
		input.Email,
		input.Phone,
		toMillis(now),
		toMillis(now),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Customer{}, storage.ErrEmailExists
		}
		return domain.Customer{}, fmt.Errorf("create customer: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return domain.Customer{}, fmt.Errorf("create customer id: %w", err)
	}
	return domain.Customer{
		ID:        id,
		Name:      input.Name,
		Email:     input.Email,
		Phone:     input.Phone,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// GetCustomer returns one customer by ID.
func (s *Store) GetCustomer(ctx context.Context, id int64) (domain.Customer, error) {
	if err := ctx.Err(); err != nil {
		return domain.Customer{}, err
	}
	if s == nil || s.sqlDB == nil {
		return domain.Customer{}, fmt.Errorf("storage is not configured")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, name, email, phone, created_at, updated_at
		   FROM customers
		  WHERE id = ?`,
		id,
	)
	return scanCustomer(row.Scan)
}

// EmailExists reports whether any customer already uses the email.
func (s *Store) EmailExists(ctx context.Context, email string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if s == nil || s.sqlDB == nil {
		return false, fmt.Errorf("storage is not configured")
	}

	var found int
	row := s.sqlDB.QueryRowContext(ctx, "SELECT 1 FROM customers WHERE email = ?", email)
	if err := row.Scan(&found); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check customer email: %w", err)
	}
	return true, nil
}

var customerSortColumns = map[string]string{
	"name":       "name",
	"email":      "email",
	"created_at": "created_at",
}

// ListCustomers returns customers matching the options.
func (s *Store) ListCustomers(ctx context.Context, opts storage.ListOptions) ([]domain.Customer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	query := `SELECT id, name, email, phone, created_at, updated_at FROM customers`
	query, params, err := appendListClauses(query, opts, customerSortColumns, "id")
	if err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	var customers []domain.Customer
	for rows.Next() {
		customer, err := scanCustomer(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("list customers: %w", err)
		}
		customers = append(customers, customer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return customers, nil
}

// CreateProduct inserts one product record.
func (s *Store) CreateProduct(ctx context.Context, input domain.CreateProductInput) (domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return domain.Product{}, err
	}
	if s == nil || s.sqlDB == nil {
		return domain.Product{}, fmt.Errorf("storage is not configured")
	}
	input = domain.NormalizeCreateProductInput(input)
	if input.Name == "" {
		return domain.Product{}, fmt.Errorf("product name is required")
	}

	stock := 0
	if input.Stock != nil {
		stock = *input.Stock
	}
	now := s.clock().UTC()
	result, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO products (name, price_cents, stock, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		input.Name,
		domain.Cents(input.Price),
		stock,
		toMillis(now),
		toMillis(now),
	)
	if err != nil {
		return domain.Product{}, fmt.Errorf("create product: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return domain.Product{}, fmt.Errorf("create product id: %w", err)
	}
	return domain.Product{
		ID:        id,
		Name:      input.Name,
		Price:     input.Price.Round(2),
		Stock:     stock,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// GetProduct returns one product by ID.
func (s *Store) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return domain.Product{}, err
	}
	if s == nil || s.sqlDB == nil {
		return domain.Product{}, fmt.Errorf("storage is not configured")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, name, price_cents, stock, created_at, updated_at
		   FROM products
		  WHERE id = ?`,
		id,
	)
	return scanProduct(row.Scan)
}

// ProductsByIDs returns the products matching ids in id order. Missing ids
// are absent from the result.
func (s *Store) ProductsByIDs(ctx context.Context, ids []int64) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if len(ids) == 0 {
		return nil, nil
	}

	params := make([]any, 0, len(ids))
	for _, id := range ids {
		params = append(params, id)
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, name, price_cents, stock, created_at, updated_at
		   FROM products
		  WHERE id IN (`+placeholders(len(ids))+`)
		  ORDER BY id ASC`,
		params...,
	)
	if err != nil {
		return nil, fmt.Errorf("products by ids: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		product, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("products by ids: %w", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("products by ids: %w", err)
	}
	return products, nil
}

var productSortColumns = map[string]string{
	"name":       "name",
	"price":      "price_cents",
	"stock":      "stock",
	"created_at": "created_at",
}

// ListProducts returns products matching the options.
func (s *Store) ListProducts(ctx context.Context, opts storage.ListOptions) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	query := `SELECT id, name, price_cents, stock, created_at, updated_at FROM products`
	query, params, err := appendListClauses(query, opts, productSortColumns, "id")
	if err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		product, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("list products: %w", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// CreateOrder inserts the order, associates its products, and computes and
// persists total_amount, all inside one transaction. Every product id must
// exist; the caller validates them first, and a concurrent deletion rolls
// the whole order back.
func (s *Store) CreateOrder(ctx context.Context, input domain.CreateOrderInput) (domain.Order, error) {
	if err := ctx.Err(); err != nil {
		return domain.Order{}, err
	}
	if s == nil || s.sqlDB == nil {
		return domain.Order{}, fmt.Errorf("storage is not configured")
	}
	if len(input.ProductIDs) == 0 {
		return domain.Order{}, fmt.Errorf("order product ids are required")
	}

	now := s.clock().UTC()
	orderDate := input.OrderDate
	if orderDate.IsZero() {
		orderDate = now
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Order{}, fmt.Errorf("begin order transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	result, err := tx.ExecContext(
		ctx,
		`INSERT INTO orders (customer_id, total_cents, order_date, created_at, updated_at)
		 VALUES (?, 0, ?, ?, ?)`,
		input.CustomerID,
		toMillis(orderDate),
		toMillis(now),
		toMillis(now),
	)
	if err != nil {
		return domain.Order{}, fmt.Errorf("create order: %w", err)
	}
	orderID, err := result.LastInsertId()
	if err != nil {
		return domain.Order{}, fmt.Errorf("create order id: %w", err)
	}

	productIDs := dedupeIDs(input.ProductIDs)
	for _, productID := range productIDs {
		if _, err := tx.ExecContext(
			ctx,
			"INSERT INTO order_products (order_id, product_id) VALUES (?, ?)",
			orderID,
			productID,
		); err != nil {
			return domain.Order{}, fmt.Errorf("associate order product %d: %w", productID, err)
		}
	}

	params := make([]any, 0, len(productIDs)+1)
	for _, id := range productIDs {
		params = append(params, id)
	}
	var matched int
	var totalCents sql.NullInt64
	row := tx.QueryRowContext(
		ctx,
		`SELECT COUNT(id), SUM(price_cents) FROM products WHERE id IN (`+placeholders(len(productIDs))+`)`,
		params...,
	)
	if err := row.Scan(&matched, &totalCents); err != nil {
		return domain.Order{}, fmt.Errorf("compute order total: %w", err)
	}
	if matched != len(productIDs) {
		return domain.Order{}, fmt.Errorf("order references %d unknown products", len(productIDs)-matched)
	}

	if _, err := tx.ExecContext(
		ctx,
		"UPDATE orders SET total_cents = ? WHERE id = ?",
		totalCents.Int64,
		orderID,
	); err != nil {
		return domain.Order{}, fmt.Errorf("persist order total: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.Order{}, fmt.Errorf("commit order: %w", err)
	}

	return domain.Order{
		ID:          orderID,
		CustomerID:  input.CustomerID,
		ProductIDs:  productIDs,
		TotalAmount: domain.FromCents(totalCents.Int64),
		OrderDate:   orderDate.UTC(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// GetOrder returns one order by ID, including its product ids.
func (s *Store) GetOrder(ctx context.Context, id int64) (domain.Order, error) {
	if err := ctx.Err(); err != nil {
		return domain.Order{}, err
	}
	if s == nil || s.sqlDB == nil {
		return domain.Order{}, fmt.Errorf("storage is not configured")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT o.id, o.customer_id, o.total_cents, o.order_date, o.created_at, o.updated_at
		   FROM orders o
		  WHERE o.id = ?`,
		id,
	)
	order, err := scanOrder(row.Scan)
	if err != nil {
		return domain.Order{}, err
	}

	productIDs, err := s.orderProductIDs(ctx, []int64{order.ID})
	if err != nil {
		return domain.Order{}, err
	}
	order.ProductIDs = productIDs[order.ID]
	return order, nil
}

var orderSortColumns = map[string]string{
	"order_date":   "o.order_date",
	"total_amount": "o.total_cents",
	"created_at":   "o.created_at",
}

// ListOrders returns orders matching the options, including product ids.
func (s *Store) ListOrders(ctx context.Context, opts storage.ListOptions) ([]domain.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	query := `SELECT o.id, o.customer_id, o.total_cents, o.order_date, o.created_at, o.updated_at FROM orders o`
	query, params, err := appendListClauses(query, opts, orderSortColumns, "o.id")
	if err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("list orders: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	if len(orders) == 0 {
		return orders, nil
	}

	orderIDs := make([]int64, 0, len(orders))
	for _, order := range orders {
		orderIDs = append(orderIDs, order.ID)
	}
	productIDs, err := s.orderProductIDs(ctx, orderIDs)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].ProductIDs = productIDs[orders[i].ID]
	}
	return orders, nil
}

func (s *Store) orderProductIDs(ctx context.Context, orderIDs []int64) (map[int64][]int64, error) {
	params := make([]any, 0, len(orderIDs))
	for _, id := range orderIDs {
		params = append(params, id)
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT order_id, product_id FROM order_products
		  WHERE order_id IN (`+placeholders(len(orderIDs))+`)
		  ORDER BY order_id ASC, product_id ASC`,
		params...,
	)
	if err != nil {
		return nil, fmt.Errorf("order product ids: %w", err)
	}
	defer rows.Close()

	result := make(map[int64][]int64, len(orderIDs))
	for rows.Next() {
		var orderID, productID int64
		if err := rows.Scan(&orderID, &productID); err != nil {
			return nil, fmt.Errorf("order product ids: %w", err)
		}
		result[orderID] = append(result[orderID], productID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("order product ids: %w", err)
	}
	return result, nil
}

func scanCustomer(scan func(...any) error) (domain.Customer, error) {
	var customer domain.Customer
	var createdAt, updatedAt int64
	err := scan(&customer.ID, &customer.Name, &customer.Email, &customer.Phone, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Customer{}, storage.ErrNotFound
		}
		return domain.Customer{}, err
	}
	customer.CreatedAt = fromMillis(createdAt)
	customer.UpdatedAt = fromMillis(updatedAt)
	return customer, nil
}

func scanProduct(scan func(...any) error) (domain.Product, error) {
	var product domain.Product
	var priceCents, createdAt, updatedAt int64
	err := scan(&product.ID, &product.Name, &priceCents, &product.Stock, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, storage.ErrNotFound
		}
		return domain.Product{}, err
	}
	product.Price = domain.FromCents(priceCents)
	product.CreatedAt = fromMillis(createdAt)
	product.UpdatedAt = fromMillis(updatedAt)
	return product, nil
}

func scanOrder(scan func(...any) error) (domain.Order, error) {
	var order domain.Order
	var totalCents, orderDate, createdAt, updatedAt int64
	err := scan(&order.ID, &order.CustomerID, &totalCents, &orderDate, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, storage.ErrNotFound
		}
		return domain.Order{}, err
	}
	order.TotalAmount = domain.FromCents(totalCents)
	order.OrderDate = fromMillis(orderDate)
	order.CreatedAt = fromMillis(createdAt)
	order.UpdatedAt = fromMillis(updatedAt)
	return order, nil
}

// appendListClauses adds WHERE, ORDER BY, LIMIT, and OFFSET clauses from
// the options. Sort fields resolve through sortColumns; tiebreak keeps
// pagination stable.
func appendListClauses(query string, opts storage.ListOptions, sortColumns map[string]string, tiebreak string) (string, []any, error) {
	combined := filter.Combine(opts.Conditions)
	if combined.Clause != "" {
		query += " WHERE " + combined.Clause
	}

	if opts.Order.Field != "" {
		column, ok := sortColumns[opts.Order.Field]
		if !ok {
			return "", nil, fmt.Errorf("unsortable field: %s", opts.Order.Field)
		}
		direction := "ASC"
		if opts.Order.Desc {
			direction = "DESC"
		}
		query += " ORDER BY " + column + " " + direction + ", " + tiebreak + " ASC"
	} else {
		query += " ORDER BY " + tiebreak + " ASC"
	}

	params := combined.Params
	limit := opts.Limit
	if limit <= 0 {
		limit = -1
	}
	query += " LIMIT ? OFFSET ?"
	params = append(params, limit, opts.Offset)
	return query, params, nil
}

func placeholders(count int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", count), ", ")
}

func dedupeIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	result := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	message := strings.ToLower(err.Error())
	return strings.Contains(message, "unique constraint failed")
}

var _ storage.CustomerStore = (*Store)(nil)
var _ storage.ProductStore = (*Store)(nil)
var _ storage.OrderStore = (*Store)(nil)
