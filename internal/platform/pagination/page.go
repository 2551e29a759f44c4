// Package pagination normalizes list-query page and ordering parameters.
package pagination

import (
	"fmt"
	"strconv"
	"strings"
)

// PageSizeConfig configures page size normalization.
type PageSizeConfig struct {
	Default int
	Max     int
}

// OrderByConfig configures order_by validation.
type OrderByConfig struct {
	// Default is used when order_by is empty, in order_by syntax.
	Default string
	// Allowed lists the sortable field names, without direction prefixes.
	Allowed []string
}

// Order is a validated ordering directive.
type Order struct {
	Field string
	Desc  bool
}

// ClampPageSize applies defaults and limits for page sizes.
func ClampPageSize(value int, cfg PageSizeConfig) int {
	pageSize := value
	if pageSize <= 0 {
		pageSize = cfg.Default
	}
	if cfg.Max > 0 && pageSize > cfg.Max {
		pageSize = cfg.Max
	}
	if pageSize <= 0 {
		pageSize = 1
	}
	return pageSize
}

// ParseOrderBy validates an order_by value ("field" or "-field" for
// descending) against the allow list and applies the default.
func ParseOrderBy(orderBy string, cfg OrderByConfig) (Order, error) {
	value := strings.TrimSpace(orderBy)
	if value == "" {
		value = cfg.Default
	}
	if value == "" {
		return Order{}, nil
	}

	order := Order{Field: value}
	if strings.HasPrefix(value, "-") {
		order.Field = value[1:]
		order.Desc = true
	}
	for _, allowed := range cfg.Allowed {
		if order.Field == allowed {
			return order, nil
		}
	}
	return Order{}, fmt.Errorf("invalid order_by: %s", orderBy)
}

// ParsePageToken decodes an offset-style page token. An empty token is
// offset zero.
func ParsePageToken(token string) (int, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0, nil
	}
	offset, err := strconv.Atoi(token)
	if err != nil || offset < 0 {
		return 0, fmt.Errorf("invalid page token: %s", token)
	}
	return offset, nil
}

// NextPageToken encodes the offset for the next page, or "" when the page
// was not full.
func NextPageToken(offset, pageSize, returned int) string {
	if returned < pageSize {
		return ""
	}
	return strconv.Itoa(offset + returned)
}
