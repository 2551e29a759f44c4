package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/copperline/copperline/internal/crm/domain"
	"github.com/copperline/copperline/internal/crm/filter"
	"github.com/copperline/copperline/internal/crm/storage"
	crmerrors "github.com/copperline/copperline/internal/errors"
	"github.com/copperline/copperline/internal/platform/pagination"
)

var productOrderBy = pagination.OrderByConfig{
	Default: "name",
	Allowed: []string{"name", "price", "stock", "created_at"},
}

// CreateProductResult is the mutation payload for product creation.
type CreateProductResult struct {
	Product *domain.Product
	Message string
	Errors  []*crmerrors.Error
}

// CreateProduct validates and inserts one product. Field errors are
// aggregated and returned in the result, not as the error value.
func (s *Service) CreateProduct(ctx context.Context, input domain.CreateProductInput) (CreateProductResult, error) {
	input = domain.NormalizeCreateProductInput(input)

	if errs := domain.ValidateCreateProduct(input); len(errs) > 0 {
		return CreateProductResult{Message: "Validation failed", Errors: errs}, nil
	}

	product, err := s.stores.Products.CreateProduct(ctx, input)
	if err != nil {
		return CreateProductResult{}, crmerrors.Wrap(crmerrors.CodeUnknown, "create product", err)
	}

	return CreateProductResult{
		Product: &product,
		Message: fmt.Sprintf("Product '%s' created successfully", product.Name),
	}, nil
}

// GetProduct returns one product by ID.
func (s *Service) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	product, err := s.stores.Products.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.Product{}, crmerrors.New(crmerrors.CodeNotFound, fmt.Sprintf("product %d not found", id))
		}
		return domain.Product{}, crmerrors.Wrap(crmerrors.CodeUnknown, "get product", err)
	}
	return product, nil
}

// ListProductsQuery carries the product list parameters.
type ListProductsQuery struct {
	Criteria  filter.ProductCriteria
	Filter    string
	OrderBy   string
	PageSize  int
	PageToken string
}

// ProductPage is one page of products.
type ProductPage struct {
	Products      []domain.Product
	NextPageToken string
}

// ListProducts returns a filtered, ordered page of products.
func (s *Service) ListProducts(ctx context.Context, query ListProductsQuery) (ProductPage, error) {
	opts, err := listOptions(query.OrderBy, productOrderBy, query.PageSize, query.PageToken)
	if err != nil {
		return ProductPage{}, err
	}

	opts.Conditions = query.Criteria.Conditions()
	if cond, err := filter.ParseProductFilter(query.Filter); err != nil {
		return ProductPage{}, filterError(query.Filter, err)
	} else if cond.Clause != "" {
		opts.Conditions = append(opts.Conditions, cond)
	}

	products, err := s.stores.Products.ListProducts(ctx, opts)
	if err != nil {
		return ProductPage{}, crmerrors.Wrap(crmerrors.CodeUnknown, "list products", err)
	}
	return ProductPage{
		Products:      products,
		NextPageToken: pagination.NextPageToken(opts.Offset, opts.Limit, len(products)),
	}, nil
}
