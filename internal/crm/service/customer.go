package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/copperline/copperline/internal/crm/domain"
	"github.com/copperline/copperline/internal/crm/filter"
	"github.com/copperline/copperline/internal/crm/storage"
	crmerrors "github.com/copperline/copperline/internal/errors"
	"github.com/copperline/copperline/internal/platform/pagination"
)

var customerOrderBy = pagination.OrderByConfig{
	Default: "name",
	Allowed: []string{"name", "email", "created_at"},
}

// CreateCustomerResult is the mutation payload for customer creation.
// Validation failures populate Errors and leave Customer nil.
type CreateCustomerResult struct {
	Customer *domain.Customer
	Message  string
	Errors   []*crmerrors.Error
}

// CreateCustomer validates and inserts one customer. Field errors are
// aggregated so the caller sees every problem at once; they are returned
// in the result, not as the error value.
func (s *Service) CreateCustomer(ctx context.Context, input domain.CreateCustomerInput) (CreateCustomerResult, error) {
	input = domain.NormalizeCreateCustomerInput(input)

	errs := domain.ValidateCreateCustomer(input)
	if input.Email != "" && domain.ValidEmail(input.Email) {
		exists, err := s.stores.Customers.EmailExists(ctx, input.Email)
		if err != nil {
			return CreateCustomerResult{}, crmerrors.Wrap(crmerrors.CodeUnknown, "check customer email", err)
		}
		if exists {
			errs = append(errs, emailExistsError())
		}
	}
	if len(errs) > 0 {
		return CreateCustomerResult{Message: "Validation failed", Errors: errs}, nil
	}

	customer, err := s.stores.Customers.CreateCustomer(ctx, input)
	if err != nil {
		// The uniqueness check above races with concurrent inserts;
		// the constraint violation is still a field error.
		if errors.Is(err, storage.ErrEmailExists) {
			return CreateCustomerResult{
				Message: "Validation failed",
				Errors:  []*crmerrors.Error{emailExistsError()},
			}, nil
		}
		return CreateCustomerResult{}, crmerrors.Wrap(crmerrors.CodeUnknown, "create customer", err)
	}

	return CreateCustomerResult{
		Customer: &customer,
		Message:  fmt.Sprintf("Customer '%s' created successfully", customer.Name),
	}, nil
}

// BulkCreateCustomersResult is the mutation payload for bulk customer
// creation. Each row is atomic on its own: valid rows commit even when
// other rows fail, and failed rows carry their input index in the error
// metadata.
type BulkCreateCustomersResult struct {
	Customers []domain.Customer
	Message   string
	Errors    []*crmerrors.Error
}

// BulkCreateCustomers creates customers row by row with partial commit.
func (s *Service) BulkCreateCustomers(ctx context.Context, inputs []domain.CreateCustomerInput) (BulkCreateCustomersResult, error) {
	var result BulkCreateCustomersResult
	for index, input := range inputs {
		row, err := s.CreateCustomer(ctx, input)
		if err != nil {
			return BulkCreateCustomersResult{}, err
		}
		if len(row.Errors) > 0 {
			for _, rowErr := range row.Errors {
				result.Errors = append(result.Errors, indexedError(rowErr, index))
			}
			continue
		}
		result.Customers = append(result.Customers, *row.Customer)
	}
	result.Message = fmt.Sprintf("Created %d of %d customers", len(result.Customers), len(inputs))
	return result, nil
}

// GetCustomer returns one customer by ID.
func (s *Service) GetCustomer(ctx context.Context, id int64) (domain.Customer, error) {
	customer, err := s.stores.Customers.GetCustomer(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.Customer{}, crmerrors.New(crmerrors.CodeNotFound, fmt.Sprintf("customer %d not found", id))
		}
		return domain.Customer{}, crmerrors.Wrap(crmerrors.CodeUnknown, "get customer", err)
	}
	return customer, nil
}

// ListCustomersQuery carries the customer list parameters.
type ListCustomersQuery struct {
	Criteria  filter.CustomerCriteria
	Filter    string
	OrderBy   string
	PageSize  int
	PageToken string
}

// CustomerPage is one page of customers.
type CustomerPage struct {
	Customers     []domain.Customer
	NextPageToken string
}

// ListCustomers returns a filtered, ordered page of customers.
func (s *Service) ListCustomers(ctx context.Context, query ListCustomersQuery) (CustomerPage, error) {
	opts, err := listOptions(query.OrderBy, customerOrderBy, query.PageSize, query.PageToken)
	if err != nil {
		return CustomerPage{}, err
	}

	opts.Conditions = query.Criteria.Conditions()
	if cond, err := filter.ParseCustomerFilter(query.Filter); err != nil {
		return CustomerPage{}, filterError(query.Filter, err)
	} else if cond.Clause != "" {
		opts.Conditions = append(opts.Conditions, cond)
	}

	customers, err := s.stores.Customers.ListCustomers(ctx, opts)
	if err != nil {
		return CustomerPage{}, crmerrors.Wrap(crmerrors.CodeUnknown, "list customers", err)
	}
	return CustomerPage{
		Customers:     customers,
		NextPageToken: pagination.NextPageToken(opts.Offset, opts.Limit, len(customers)),
	}, nil
}

func emailExistsError() *crmerrors.Error {
	return crmerrors.NewField(crmerrors.CodeCustomerEmailExists, "email", "email already exists")
}

// indexedError copies a field error and records the bulk input row it
// belongs to.
func indexedError(err *crmerrors.Error, index int) *crmerrors.Error {
	metadata := make(map[string]string, len(err.Metadata)+1)
	for key, value := range err.Metadata {
		metadata[key] = value
	}
	metadata["index"] = strconv.Itoa(index)
	return &crmerrors.Error{
		Code:     err.Code,
		Field:    err.Field,
		Message:  fmt.Sprintf("row %d: %s", index, err.Message),
		Metadata: metadata,
		Cause:    err.Cause,
	}
}

// listOptions normalizes the shared order_by and pagination parameters.
func listOptions(orderBy string, cfg pagination.OrderByConfig, pageSize int, pageToken string) (storage.ListOptions, error) {
	order, err := pagination.ParseOrderBy(orderBy, cfg)
	if err != nil {
		return storage.ListOptions{}, crmerrors.WithMetadata(
			crmerrors.CodeOrderByInvalid,
			"order_by",
			fmt.Sprintf("invalid order_by: %s", orderBy),
			map[string]string{"order_by": orderBy},
		)
	}
	offset, err := pagination.ParsePageToken(pageToken)
	if err != nil {
		return storage.ListOptions{}, crmerrors.NewField(crmerrors.CodeFilterInvalid, "page_token", "invalid page token")
	}
	return storage.ListOptions{
		Order:  order,
		Limit:  pagination.ClampPageSize(pageSize, pagination.PageSizeConfig{Default: defaultPageSize, Max: maxPageSize}),
		Offset: offset,
	}, nil
}

func filterError(filterStr string, cause error) *crmerrors.Error {
	return &crmerrors.Error{
		Code:     crmerrors.CodeFilterInvalid,
		Field:    "filter",
		Message:  fmt.Sprintf("invalid filter: %s", filterStr),
		Metadata: map[string]string{"filter": filterStr},
		Cause:    cause,
	}
}
