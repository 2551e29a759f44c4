// Package filter translates declarative filter criteria into parameterized
// SQL conditions.
package filter

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/copperline/copperline/internal/crm/domain"
)

// Condition represents a SQL WHERE clause fragment with parameters.
type Condition struct {
	// Clause is the SQL WHERE clause (e.g., "stock < ?").
	Clause string
	// Params are the positional parameters for the clause.
	Params []any
}

// CustomerCriteria holds the optional customer filters. Absent fields
// impose no constraint; present fields combine conjunctively.
type CustomerCriteria struct {
	NameContains  string
	EmailContains string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
	// PhonePrefix matches a literal prefix, e.g. "+1". It is not a
	// validated pattern.
	PhonePrefix string
}

// Conditions builds one independent condition per present criterion.
func (c CustomerCriteria) Conditions() []Condition {
	var conds []Condition
	if c.NameContains != "" {
		conds = append(conds, containsCondition("name", c.NameContains))
	}
	if c.EmailContains != "" {
		conds = append(conds, containsCondition("email", c.EmailContains))
	}
	if c.CreatedAfter != nil {
		conds = append(conds, Condition{Clause: "created_at >= ?", Params: []any{c.CreatedAfter.UTC().UnixMilli()}})
	}
	if c.CreatedBefore != nil {
		conds = append(conds, Condition{Clause: "created_at <= ?", Params: []any{c.CreatedBefore.UTC().UnixMilli()}})
	}
	if c.PhonePrefix != "" {
		conds = append(conds, Condition{
			Clause: `phone LIKE ? ESCAPE '\'`,
			Params: []any{escapeLike(c.PhonePrefix) + "%"},
		})
	}
	return conds
}

// ProductCriteria holds the optional product filters.
type ProductCriteria struct {
	NameContains string
	PriceMin     *decimal.Decimal
	PriceMax     *decimal.Decimal
	StockMin     *int
	StockMax     *int
	StockExact   *int
	// LowStock selects products with stock strictly below
	// domain.LowStockThreshold.
	LowStock bool
}

// Conditions builds one independent condition per present criterion.
func (c ProductCriteria) Conditions() []Condition {
	var conds []Condition
	if c.NameContains != "" {
		conds = append(conds, containsCondition("name", c.NameContains))
	}
	if c.PriceMin != nil {
		conds = append(conds, Condition{Clause: "price_cents >= ?", Params: []any{domain.Cents(*c.PriceMin)}})
	}
	if c.PriceMax != nil {
		conds = append(conds, Condition{Clause: "price_cents <= ?", Params: []any{domain.Cents(*c.PriceMax)}})
	}
	if c.StockMin != nil {
		conds = append(conds, Condition{Clause: "stock >= ?", Params: []any{*c.StockMin}})
	}
	if c.StockMax != nil {
		conds = append(conds, Condition{Clause: "stock <= ?", Params: []any{*c.StockMax}})
	}
	if c.StockExact != nil {
		conds = append(conds, Condition{Clause: "stock = ?", Params: []any{*c.StockExact}})
	}
	if c.LowStock {
		conds = append(conds, Condition{Clause: "stock < ?", Params: []any{domain.LowStockThreshold}})
	}
	return conds
}

// OrderCriteria holds the optional order filters. Conditions are written
// against the "o" alias used by the order list query; related-field
// filters use EXISTS subqueries so they stay independent of one another.
type OrderCriteria struct {
	TotalMin             *decimal.Decimal
	TotalMax             *decimal.Decimal
	PlacedAfter          *time.Time
	PlacedBefore         *time.Time
	CustomerNameContains string
	ProductNameContains  string
	ProductID            *int64
}

// Conditions builds one independent condition per present criterion.
func (c OrderCriteria) Conditions() []Condition {
	var conds []Condition
	if c.TotalMin != nil {
		conds = append(conds, Condition{Clause: "o.total_cents >= ?", Params: []any{domain.Cents(*c.TotalMin)}})
	}
	if c.TotalMax != nil {
		conds = append(conds, Condition{Clause: "o.total_cents <= ?", Params: []any{domain.Cents(*c.TotalMax)}})
	}
	if c.PlacedAfter != nil {
		conds = append(conds, Condition{Clause: "o.order_date >= ?", Params: []any{c.PlacedAfter.UTC().UnixMilli()}})
	}
	if c.PlacedBefore != nil {
		conds = append(conds, Condition{Clause: "o.order_date <= ?", Params: []any{c.PlacedBefore.UTC().UnixMilli()}})
	}
	if c.CustomerNameContains != "" {
		conds = append(conds, Condition{
			Clause: `EXISTS (SELECT 1 FROM customers c WHERE c.id = o.customer_id AND LOWER(c.name) LIKE ? ESCAPE '\')`,
			Params: []any{"%" + escapeLike(strings.ToLower(c.CustomerNameContains)) + "%"},
		})
	}
	if c.ProductNameContains != "" {
		conds = append(conds, Condition{
			Clause: `EXISTS (SELECT 1 FROM order_products op JOIN products p ON p.id = op.product_id WHERE op.order_id = o.id AND LOWER(p.name) LIKE ? ESCAPE '\')`,
			Params: []any{"%" + escapeLike(strings.ToLower(c.ProductNameContains)) + "%"},
		})
	}
	if c.ProductID != nil {
		conds = append(conds, Condition{
			Clause: "EXISTS (SELECT 1 FROM order_products op WHERE op.order_id = o.id AND op.product_id = ?)",
			Params: []any{*c.ProductID},
		})
	}
	return conds
}

// Combine ANDs a set of conditions into a single WHERE fragment. An empty
// set yields an empty clause.
func Combine(conds []Condition) Condition {
	if len(conds) == 0 {
		return Condition{}
	}
	clauses := make([]string, 0, len(conds))
	var params []any
	for _, cond := range conds {
		clauses = append(clauses, cond.Clause)
		params = append(params, cond.Params...)
	}
	return Condition{
		Clause: strings.Join(clauses, " AND "),
		Params: params,
	}
}

func containsCondition(column, value string) Condition {
	return Condition{
		Clause: "LOWER(" + column + `) LIKE ? ESCAPE '\'`,
		Params: []any{"%" + escapeLike(strings.ToLower(value)) + "%"},
	}
}

// escapeLike escapes LIKE metacharacters so user input matches literally.
func escapeLike(value string) string {
	value = strings.ReplaceAll(value, `\`, `\\`)
	value = strings.ReplaceAll(value, "%", `\%`)
	value = strings.ReplaceAll(value, "_", `\_`)
	return value
}
