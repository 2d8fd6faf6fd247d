// Package filter translates AIP-160 goal filter expressions into SQL.
package filter

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.einride.tech/aip/filtering"
	expr "google.golang.org/genproto/googleapis/api/expr/v1alpha1"
)

// GoalDeclarations returns the field declarations for goal filtering.
func GoalDeclarations() (*filtering.Declarations, error) {
	opts := []filtering.DeclarationOption{filtering.DeclareStandardFunctions()}
	for _, field := range goalFields {
		opts = append(opts, filtering.DeclareIdent(field.ident, field.typ))
	}
	return filtering.NewDeclarations(opts...)
}

// SQLCondition is a WHERE clause fragment and its positional parameters.
type SQLCondition struct {
	Clause string
	Params []any
}

// goalField binds a filter identifier to a goals table column.
type goalField struct {
	ident  string
	typ    *expr.Type
	column string
	// bind converts the literal into the stored representation.
	bind func(any) (any, error)
}

var goalFields = []goalField{
	{ident: "id", typ: filtering.TypeInt, column: "id"},
	{ident: "author", typ: filtering.TypeString, column: "author"},
	{ident: "requirement", typ: filtering.TypeString, column: "requirement"},
	{ident: "status", typ: filtering.TypeString, column: "status", bind: bindStatus},
	{ident: "stake", typ: filtering.TypeInt, column: "stake"},
	{ident: "deadline", typ: filtering.TypeTimestamp, column: "deadline", bind: bindUnixSeconds},
}

func lookupField(ident string) (goalField, bool) {
	for _, field := range goalFields {
		if field.ident == ident {
			return field, true
		}
	}
	return goalField{}, false
}

var (
	logicalOps = map[string]string{
		filtering.FunctionAnd:      "AND",
		filtering.FunctionFuzzyAnd: "AND",
		filtering.FunctionOr:       "OR",
	}
	comparisonOps = map[string]string{
		filtering.FunctionEquals:        "=",
		filtering.FunctionNotEquals:     "!=",
		filtering.FunctionLessThan:      "<",
		filtering.FunctionLessEquals:    "<=",
		filtering.FunctionGreaterThan:   ">",
		filtering.FunctionGreaterEquals: ">=",
	}
)

var errNilExpr = errors.New("nil expression")

// ParseGoalFilter parses a goal filter and returns a SQL condition. A blank
// filter yields the zero condition.
func ParseGoalFilter(filterStr string) (SQLCondition, error) {
	if strings.TrimSpace(filterStr) == "" {
		return SQLCondition{}, nil
	}
	decls, err := GoalDeclarations()
	if err != nil {
		return SQLCondition{}, fmt.Errorf("declare goal fields: %w", err)
	}
	parsed, err := filtering.ParseFilterString(filterStr, decls)
	if err != nil {
		return SQLCondition{}, fmt.Errorf("parse filter: %w", err)
	}
	return toSQL(parsed.CheckedExpr.GetExpr())
}

func toSQL(e *expr.Expr) (SQLCondition, error) {
	call := e.GetCallExpr()
	if call == nil {
		if e == nil {
			return SQLCondition{}, errNilExpr
		}
		return SQLCondition{}, fmt.Errorf("unsupported expression type: %T", e.GetExprKind())
	}

	if op, ok := logicalOps[call.GetFunction()]; ok {
		return joinSQL(op, call.GetArgs())
	}
	if op, ok := comparisonOps[call.GetFunction()]; ok {
		return compareSQL(op, call.GetArgs())
	}
	if call.GetFunction() == filtering.FunctionNot && len(call.GetArgs()) == 1 {
		inner, err := toSQL(call.GetArgs()[0])
		if err != nil {
			return SQLCondition{}, err
		}
		return SQLCondition{Clause: "NOT (" + inner.Clause + ")", Params: inner.Params}, nil
	}
	return SQLCondition{}, fmt.Errorf("unsupported function: %s", call.GetFunction())
}

func joinSQL(op string, args []*expr.Expr) (SQLCondition, error) {
	if len(args) < 2 {
		return SQLCondition{}, fmt.Errorf("%s needs at least 2 operands", op)
	}
	clauses := make([]string, 0, len(args))
	var params []any
	for _, arg := range args {
		part, err := toSQL(arg)
		if err != nil {
			return SQLCondition{}, err
		}
		clauses = append(clauses, part.Clause)
		params = append(params, part.Params...)
	}
	return SQLCondition{
		Clause: "(" + strings.Join(clauses, " "+op+" ") + ")",
		Params: params,
	}, nil
}

func compareSQL(op string, args []*expr.Expr) (SQLCondition, error) {
	if len(args) != 2 {
		return SQLCondition{}, fmt.Errorf("%s needs 2 operands", op)
	}
	ident := args[0].GetIdentExpr()
	if ident == nil {
		return SQLCondition{}, fmt.Errorf("left side of %s must be a field", op)
	}
	field, ok := lookupField(ident.GetName())
	if !ok {
		return SQLCondition{}, fmt.Errorf("unknown field: %s", ident.GetName())
	}

	value, err := literal(args[1])
	if err != nil {
		return SQLCondition{}, fmt.Errorf("%s: %w", field.ident, err)
	}
	if field.bind != nil {
		if value, err = field.bind(value); err != nil {
			return SQLCondition{}, fmt.Errorf("%s: %w", field.ident, err)
		}
	}
	return SQLCondition{Clause: field.column + " " + op + " ?", Params: []any{value}}, nil
}

// literal returns the Go value of a constant or a timestamp("...") call.
func literal(e *expr.Expr) (any, error) {
	if e == nil {
		return nil, errNilExpr
	}
	if call := e.GetCallExpr(); call != nil {
		if call.GetFunction() != filtering.FunctionTimestamp || len(call.GetArgs()) != 1 {
			return nil, fmt.Errorf("unsupported function in value position: %s", call.GetFunction())
		}
		raw, ok := call.GetArgs()[0].GetConstExpr().GetConstantKind().(*expr.Constant_StringValue)
		if !ok {
			return nil, errors.New("timestamp argument must be a string constant")
		}
		return parseTimestamp(raw.StringValue)
	}

	c := e.GetConstExpr()
	if c == nil {
		return nil, fmt.Errorf("expected constant, got %T", e.GetExprKind())
	}
	switch v := c.GetConstantKind().(type) {
	case *expr.Constant_StringValue:
		return v.StringValue, nil
	case *expr.Constant_Int64Value:
		return v.Int64Value, nil
	case *expr.Constant_Uint64Value:
		return v.Uint64Value, nil
	case *expr.Constant_DoubleValue:
		return v.DoubleValue, nil
	case *expr.Constant_BoolValue:
		return v.BoolValue, nil
	default:
		return nil, fmt.Errorf("unsupported constant type: %T", v)
	}
}

func parseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
	}
	return t.UTC(), nil
}

// bindUnixSeconds matches the deadline column, stored as unix seconds.
func bindUnixSeconds(value any) (any, error) {
	switch v := value.(type) {
	case time.Time:
		return v.Unix(), nil
	case string:
		t, err := parseTimestamp(v)
		if err != nil {
			return nil, err
		}
		return t.Unix(), nil
	default:
		return nil, fmt.Errorf("expected timestamp, got %T", value)
	}
}

func bindStatus(value any) (any, error) {
	switch value {
	case "open", "achieved", "failed":
		return value, nil
	default:
		return nil, fmt.Errorf("unknown status %v", value)
	}
}
