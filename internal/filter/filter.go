// Package filter provides AIP-160 filter expression parsing and SQL translation
// for node listings.
package filter

import (
	"fmt"
	"strings"

	"github.com/permanode/permastore/internal/storage"
	"go.einride.tech/aip/filtering"
	expr "google.golang.org/genproto/googleapis/api/expr/v1alpha1"
)

// NodeDeclarations returns the field declarations for node filtering.
func NodeDeclarations() (*filtering.Declarations, error) {
	return filtering.NewDeclarations(
		filtering.DeclareStandardFunctions(),
		filtering.DeclareIdent("id", filtering.TypeInt),
		filtering.DeclareIdent("size", filtering.TypeInt),
		filtering.DeclareIdent("payer", filtering.TypeString),
	)
}

// fieldMapping maps filter field names to SQL column expressions.
var fieldMapping = map[string]string{
	"id":    "id",
	"size":  "LENGTH(data)",
	"payer": "payer",
}

// ParseNodeFilter parses an AIP-160 filter expression and returns a SQL
// condition over the nodes table. An empty filter yields an empty condition.
//
// The id column holds 8-byte big-endian keys, so integer constants compared
// against id are rewritten to their key encoding before becoming parameters.
func ParseNodeFilter(filterStr string) (storage.Condition, error) {
	if strings.TrimSpace(filterStr) == "" {
		return storage.Condition{}, nil
	}

	decls, err := NodeDeclarations()
	if err != nil {
		return storage.Condition{}, fmt.Errorf("create declarations: %w", err)
	}

	parsed, err := filtering.ParseFilterString(filterStr, decls)
	if err != nil {
		return storage.Condition{}, fmt.Errorf("parse filter: %w", err)
	}

	return translateExpr(parsed.CheckedExpr.Expr)
}

func translateExpr(e *expr.Expr) (storage.Condition, error) {
	if e == nil {
		return storage.Condition{}, nil
	}

	switch kind := e.ExprKind.(type) {
	case *expr.Expr_CallExpr:
		return translateCall(kind.CallExpr)
	default:
		return storage.Condition{}, fmt.Errorf("unsupported expression type: %T", kind)
	}
}

func translateCall(call *expr.Expr_Call) (storage.Condition, error) {
	switch call.Function {
	case "_&&_", "AND":
		return translateLogical(call.Args, "AND")
	case "_||_", "OR":
		return translateLogical(call.Args, "OR")
	case "_==_", "=":
		return translateComparison(call.Args, "=")
	case "_!=_", "!=":
		return translateComparison(call.Args, "!=")
	case "_<_", "<":
		return translateComparison(call.Args, "<")
	case "_<=_", "<=":
		return translateComparison(call.Args, "<=")
	case "_>_", ">":
		return translateComparison(call.Args, ">")
	case "_>=_", ">=":
		return translateComparison(call.Args, ">=")
	default:
		return storage.Condition{}, fmt.Errorf("unsupported function: %s", call.Function)
	}
}

func translateLogical(args []*expr.Expr, op string) (storage.Condition, error) {
	if len(args) != 2 {
		return storage.Condition{}, fmt.Errorf("%s requires 2 arguments", op)
	}

	left, err := translateExpr(args[0])
	if err != nil {
		return storage.Condition{}, err
	}
	right, err := translateExpr(args[1])
	if err != nil {
		return storage.Condition{}, err
	}

	return storage.Condition{
		Clause: fmt.Sprintf("(%s %s %s)", left.Clause, op, right.Clause),
		Params: append(left.Params, right.Params...),
	}, nil
}

func translateComparison(args []*expr.Expr, op string) (storage.Condition, error) {
	if len(args) != 2 {
		return storage.Condition{}, fmt.Errorf("comparison requires 2 arguments")
	}

	field, err := extractFieldName(args[0])
	if err != nil {
		return storage.Condition{}, err
	}
	column, ok := fieldMapping[field]
	if !ok {
		return storage.Condition{}, fmt.Errorf("unknown field: %s", field)
	}

	value, err := extractValue(args[1])
	if err != nil {
		return storage.Condition{}, err
	}
	if field == "id" {
		value, err = idKeyParam(value)
		if err != nil {
			return storage.Condition{}, err
		}
	}

	return storage.Condition{
		Clause: fmt.Sprintf("%s %s ?", column, op),
		Params: []any{value},
	}, nil
}

func idKeyParam(value any) (any, error) {
	switch v := value.(type) {
	case int64:
		if v < 0 {
			return nil, fmt.Errorf("id must not be negative")
		}
		return storage.EncodeID(uint64(v)), nil
	case uint64:
		return storage.EncodeID(v), nil
	default:
		return nil, fmt.Errorf("id comparison requires an integer constant")
	}
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
	default:
		return nil, fmt.Errorf("expected constant, got %T", kind)
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
		return kind.Uint64Value, nil
	default:
		return nil, fmt.Errorf("unsupported constant type: %T", kind)
	}
}
