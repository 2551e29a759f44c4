package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.einride.tech/aip/filtering"
	expr "google.golang.org/genproto/googleapis/api/expr/v1alpha1"

	"github.com/copperline/copperline/internal/crm/domain"
)

// fieldSpec maps a filter field to its SQL column and an optional value
// conversion applied before binding.
type fieldSpec struct {
	column  string
	convert func(any) (any, error)
}

func centsValue(value any) (any, error) {
	switch v := value.(type) {
	case float64:
		return domain.Cents(decimal.NewFromFloat(v)), nil
	case int64:
		return domain.Cents(decimal.NewFromInt(v)), nil
	default:
		return nil, fmt.Errorf("amount must be numeric")
	}
}

func millisValue(value any) (any, error) {
	text, ok := value.(string)
	if !ok {
		return nil, fmt.Errorf("timestamp must be a string")
	}
	t, err := time.Parse(time.RFC3339Nano, text)
	if err != nil {
		return nil, fmt.Errorf("invalid timestamp: %s", text)
	}
	return t.UTC().UnixMilli(), nil
}

var customerFields = map[string]fieldSpec{
	"name":       {column: "name"},
	"email":      {column: "email"},
	"phone":      {column: "phone"},
	"created_at": {column: "created_at", convert: millisValue},
}

var productFields = map[string]fieldSpec{
	"name":  {column: "name"},
	"price": {column: "price_cents", convert: centsValue},
	"stock": {column: "stock"},
}

var orderFields = map[string]fieldSpec{
	"customer_id":  {column: "o.customer_id"},
	"total_amount": {column: "o.total_cents", convert: centsValue},
	"order_date":   {column: "o.order_date", convert: millisValue},
}

func customerDeclarations() (*filtering.Declarations, error) {
	return filtering.NewDeclarations(
		filtering.DeclareStandardFunctions(),
		filtering.DeclareIdent("name", filtering.TypeString),
		filtering.DeclareIdent("email", filtering.TypeString),
		filtering.DeclareIdent("phone", filtering.TypeString),
		filtering.DeclareIdent("created_at", filtering.TypeTimestamp),
	)
}

func productDeclarations() (*filtering.Declarations, error) {
	return filtering.NewDeclarations(
		filtering.DeclareStandardFunctions(),
		filtering.DeclareIdent("name", filtering.TypeString),
		filtering.DeclareIdent("price", filtering.TypeFloat),
		filtering.DeclareIdent("stock", filtering.TypeInt),
	)
}

func orderDeclarations() (*filtering.Declarations, error) {
	return filtering.NewDeclarations(
		filtering.DeclareStandardFunctions(),
		filtering.DeclareIdent("customer_id", filtering.TypeInt),
		filtering.DeclareIdent("total_amount", filtering.TypeFloat),
		filtering.DeclareIdent("order_date", filtering.TypeTimestamp),
	)
}

// ParseCustomerFilter parses an AIP-160 filter expression over customer
// fields and returns a SQL condition. Returns an empty condition for an
// empty filter string.
func ParseCustomerFilter(filterStr string) (Condition, error) {
	return parseFilter(filterStr, customerDeclarations, customerFields)
}

// ParseProductFilter parses an AIP-160 filter expression over product fields.
func ParseProductFilter(filterStr string) (Condition, error) {
	return parseFilter(filterStr, productDeclarations, productFields)
}

// ParseOrderFilter parses an AIP-160 filter expression over order fields.
func ParseOrderFilter(filterStr string) (Condition, error) {
	return parseFilter(filterStr, orderDeclarations, orderFields)
}

func parseFilter(filterStr string, declare func() (*filtering.Declarations, error), fields map[string]fieldSpec) (Condition, error) {
	if strings.TrimSpace(filterStr) == "" {
		return Condition{}, nil
	}

	decls, err := declare()
	if err != nil {
		return Condition{}, fmt.Errorf("create declarations: %w", err)
	}

	parsed, err := filtering.ParseFilterString(filterStr, decls)
	if err != nil {
		return Condition{}, fmt.Errorf("parse filter: %w", err)
	}

	return translateExpr(parsed.CheckedExpr.Expr, fields)
}

// translateExpr translates a CEL expression to a SQL condition.
func translateExpr(e *expr.Expr, fields map[string]fieldSpec) (Condition, error) {
	if e == nil {
		return Condition{}, nil
	}

	switch kind := e.ExprKind.(type) {
	case *expr.Expr_CallExpr:
		return translateCall(kind.CallExpr, fields)
	default:
		return Condition{}, fmt.Errorf("unsupported expression type: %T", kind)
	}
}

// translateCall translates a CEL function call to a SQL condition.
func translateCall(call *expr.Expr_Call, fields map[string]fieldSpec) (Condition, error) {
	switch call.Function {
	case "_&&_", "AND":
		return translateLogical(call.Args, "AND", fields)
	case "_||_", "OR":
		return translateLogical(call.Args, "OR", fields)
	case "_==_", "=":
		return translateComparison(call.Args, "=", fields)
	case "_!=_", "!=":
		return translateComparison(call.Args, "!=", fields)
	case "_<_", "<":
		return translateComparison(call.Args, "<", fields)
	case "_<=_", "<=":
		return translateComparison(call.Args, "<=", fields)
	case "_>_", ">":
		return translateComparison(call.Args, ">", fields)
	case "_>=_", ">=":
		return translateComparison(call.Args, ">=", fields)
	default:
		return Condition{}, fmt.Errorf("unsupported function: %s", call.Function)
	}
}

func translateLogical(args []*expr.Expr, op string, fields map[string]fieldSpec) (Condition, error) {
	if len(args) != 2 {
		return Condition{}, fmt.Errorf("%s requires 2 arguments", op)
	}

	left, err := translateExpr(args[0], fields)
	if err != nil {
		return Condition{}, err
	}

	right, err := translateExpr(args[1], fields)
	if err != nil {
		return Condition{}, err
	}

	return Condition{
		Clause: fmt.Sprintf("(%s %s %s)", left.Clause, op, right.Clause),
		Params: append(left.Params, right.Params...),
	}, nil
}

func translateComparison(args []*expr.Expr, op string, fields map[string]fieldSpec) (Condition, error) {
	if len(args) != 2 {
		return Condition{}, fmt.Errorf("comparison requires 2 arguments")
	}

	field, err := extractFieldName(args[0])
	if err != nil {
		return Condition{}, err
	}

	spec, ok := fields[field]
	if !ok {
		return Condition{}, fmt.Errorf("unknown field: %s", field)
	}

	value, err := extractValue(args[1])
	if err != nil {
		return Condition{}, err
	}
	if spec.convert != nil {
		value, err = spec.convert(value)
		if err != nil {
			return Condition{}, fmt.Errorf("field %s: %w", field, err)
		}
	}

	return Condition{
		Clause: fmt.Sprintf("%s %s ?", spec.column, op),
		Params: []any{value},
	}, nil
}

func extractFieldName(e *expr.Expr) (string, error) {
	if e == nil {
		return "", fmt.Errorf("nil expression")
	}

	switch kind := e.ExprKind.(type) {
	case *expr.Expr_IdentExpr:
		return kind.IdentExpr.Name, nil
	default:
		return "", fmt.Errorf("expected identifier, got %T", kind)
	}
}

func extractValue(e *expr.Expr) (any, error) {
	if e == nil {
		return nil, fmt.Errorf("nil expression")
	}

	switch kind := e.ExprKind.(type) {
	case *expr.Expr_ConstExpr:
		return extractConstValue(kind.ConstExpr)
	case *expr.Expr_CallExpr:
		// Handle timestamp("...") function calls
		if kind.CallExpr.Function == "timestamp" && len(kind.CallExpr.Args) == 1 {
			return extractTimestampValue(kind.CallExpr.Args[0])
		}
		return nil, fmt.Errorf("unsupported function in value position: %s", kind.CallExpr.Function)
	default:
		return nil, fmt.Errorf("expected constant or timestamp, got %T", kind)
	}
}

func extractConstValue(c *expr.Constant) (any, error) {
	if c == nil {
		return nil, fmt.Errorf("nil constant")
	}

	switch kind := c.ConstantKind.(type) {
	case *expr.Constant_StringValue:
		return kind.StringValue, nil
	case *expr.Constant_Int64Value:
		return kind.Int64Value, nil
	case *expr.Constant_Uint64Value:
		return int64(kind.Uint64Value), nil
	case *expr.Constant_DoubleValue:
		return kind.DoubleValue, nil
	case *expr.Constant_BoolValue:
		return kind.BoolValue, nil
	default:
		return nil, fmt.Errorf("unsupported constant type: %T", kind)
	}
}

func extractTimestampValue(e *expr.Expr) (string, error) {
	if e == nil {
		return "", fmt.Errorf("nil timestamp argument")
	}

	switch kind := e.ExprKind.(type) {
	case *expr.Expr_ConstExpr:
		if strVal, ok := kind.ConstExpr.ConstantKind.(*expr.Constant_StringValue); ok {
			t, err := time.Parse(time.RFC3339, strVal.StringValue)
			if err != nil {
				t, err = time.Parse(time.RFC3339Nano, strVal.StringValue)
				if err != nil {
					return "", fmt.Errorf("invalid timestamp format: %s", strVal.StringValue)
				}
			}
			return t.UTC().Format(time.RFC3339Nano), nil
		}
		return "", fmt.Errorf("timestamp argument must be a string")
	default:
		return "", fmt.Errorf("timestamp argument must be a constant string")
	}
}
