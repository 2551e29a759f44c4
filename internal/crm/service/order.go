package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/copperline/copperline/internal/crm/domain"
	"github.com/copperline/copperline/internal/crm/filter"
	"github.com/copperline/copperline/internal/crm/storage"
	crmerrors "github.com/copperline/copperline/internal/errors"
	"github.com/copperline/copperline/internal/platform/pagination"
)

var orderOrderBy = pagination.OrderByConfig{
	Default: "-order_date",
	Allowed: []string{"order_date", "total_amount", "created_at"},
}

// CreateOrderResult is the mutation payload for order creation.
type CreateOrderResult struct {
	Order   *domain.Order
	Message string
	Errors  []*crmerrors.Error
}

// CreateOrder validates the referenced customer and products, then
// creates the order with its computed total in one storage transaction.
// A missing customer short-circuits the product checks.
func (s *Service) CreateOrder(ctx context.Context, input domain.CreateOrderInput) (CreateOrderResult, error) {
	if _, err := s.stores.Customers.GetCustomer(ctx, input.CustomerID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return CreateOrderResult{
				Message: "Validation failed",
				Errors: []*crmerrors.Error{
					crmerrors.NewField(crmerrors.CodeOrderCustomerInvalid, "customer_id",
						fmt.Sprintf("customer %d does not exist", input.CustomerID)),
				},
			}, nil
		}
		return CreateOrderResult{}, crmerrors.Wrap(crmerrors.CodeUnknown, "check order customer", err)
	}

	if len(input.ProductIDs) == 0 {
		return CreateOrderResult{
			Message: "Validation failed",
			Errors: []*crmerrors.Error{
				crmerrors.NewField(crmerrors.CodeOrderProductsEmpty, "product_ids", "at least one product is required"),
			},
		}, nil
	}

	if missing, err := s.missingProductIDs(ctx, input.ProductIDs); err != nil {
		return CreateOrderResult{}, err
	} else if len(missing) > 0 {
		return CreateOrderResult{
			Message: "Validation failed",
			Errors:  []*crmerrors.Error{invalidProductsError(missing)},
		}, nil
	}

	if input.OrderDate.IsZero() {
		input.OrderDate = s.clock().UTC()
	}
	order, err := s.stores.Orders.CreateOrder(ctx, input)
	if err != nil {
		return CreateOrderResult{}, crmerrors.Wrap(crmerrors.CodeUnknown, "create order", err)
	}

	return CreateOrderResult{
		Order:   &order,
		Message: fmt.Sprintf("Order created successfully with total amount $%s", order.TotalAmount.StringFixed(2)),
	}, nil
}

// missingProductIDs returns the requested ids with no matching product,
// in request order.
func (s *Service) missingProductIDs(ctx context.Context, ids []int64) ([]int64, error) {
	products, err := s.stores.Products.ProductsByIDs(ctx, ids)
	if err != nil {
		return nil, crmerrors.Wrap(crmerrors.CodeUnknown, "check order products", err)
	}
	found := make(map[int64]struct{}, len(products))
	for _, product := range products {
		found[product.ID] = struct{}{}
	}
	var missing []int64
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

func invalidProductsError(missing []int64) *crmerrors.Error {
	parts := make([]string, 0, len(missing))
	for _, id := range missing {
		parts = append(parts, strconv.FormatInt(id, 10))
	}
	ids := strings.Join(parts, ", ")
	return crmerrors.WithMetadata(
		crmerrors.CodeOrderProductsInvalid,
		"product_ids",
		fmt.Sprintf("invalid product IDs: %s", ids),
		map[string]string{"ids": ids},
	)
}

// GetOrder returns one order by ID.
func (s *Service) GetOrder(ctx context.Context, id int64) (domain.Order, error) {
	order, err := s.stores.Orders.GetOrder(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.Order{}, crmerrors.New(crmerrors.CodeNotFound, fmt.Sprintf("order %d not found", id))
		}
		return domain.Order{}, crmerrors.Wrap(crmerrors.CodeUnknown, "get order", err)
	}
	return order, nil
}

// ListOrdersQuery carries the order list parameters.
type ListOrdersQuery struct {
	Criteria  filter.OrderCriteria
	Filter    string
	OrderBy   string
	PageSize  int
	PageToken string
}

// OrderPage is one page of orders.
type OrderPage struct {
	Orders        []domain.Order
	NextPageToken string
}

// ListOrders returns a filtered, ordered page of orders.
func (s *Service) ListOrders(ctx context.Context, query ListOrdersQuery) (OrderPage, error) {
	opts, err := listOptions(query.OrderBy, orderOrderBy, query.PageSize, query.PageToken)
	if err != nil {
		return OrderPage{}, err
	}

	opts.Conditions = query.Criteria.Conditions()
	if cond, err := filter.ParseOrderFilter(query.Filter); err != nil {
		return OrderPage{}, filterError(query.Filter, err)
	} else if cond.Clause != "" {
		opts.Conditions = append(opts.Conditions, cond)
	}

	orders, err := s.stores.Orders.ListOrders(ctx, opts)
	if err != nil {
		return OrderPage{}, crmerrors.Wrap(crmerrors.CodeUnknown, "list orders", err)
	}
	return OrderPage{
		Orders:        orders,
		NextPageToken: pagination.NextPageToken(opts.Offset, opts.Limit, len(orders)),
	}, nil
}
