package filterexpr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/cel-go/cel"
)

// Msg wraps request DTOs that expose filter and order_by raw inputs.
type Msg interface {
	GetFilter() string
	GetOrderBy() string
}

// ValueKind describes the type a filter variable is declared with.
type ValueKind string

const (
	KindString    ValueKind = "string"
	KindInt       ValueKind = "int"
	KindNumber    ValueKind = "number"
	KindBool      ValueKind = "bool"
	KindTimestamp ValueKind = "timestamp"
)

// ResourceSchema aggregates filtering and ordering rules for a resource.
type ResourceSchema struct {
	Filter map[string]ValueKind
	Order  OrderSchema
}

// Query is a compiled filter plus the resolved ordering.
type Query struct {
	Predicate *Predicate
	Order     Order
}

// Bind compiles the request filter and parses its order_by against schema.
func Bind[M Msg](msg M, schema ResourceSchema) (Query, error) {
	pred, err := Compile(msg.GetFilter(), schema.Filter)
	if err != nil {
		return Query{}, fmt.Errorf("filter: %w", err)
	}
	order, err := ParseOrderBy(msg.GetOrderBy(), schema.Order)
	if err != nil {
		return Query{}, fmt.Errorf("order_by: %w", err)
	}
	return Query{Predicate: pred, Order: order}, nil
}

// Predicate is a boolean CEL program over the declared variables. The zero filter matches
// every record.
type Predicate struct {
	source  string
	program cel.Program
}

// Compile type-checks filter against fields. An empty filter yields a match-all predicate.
func Compile(filter string, fields map[string]ValueKind) (*Predicate, error) {
	filter = strings.TrimSpace(filter)
	if filter == "" {
		return &Predicate{}, nil
	}
	if len(fields) == 0 {
		return nil, errors.New("filter schema has no fields defined")
	}

	env, err := buildEnv(fields)
	if err != nil {
		return nil, err
	}

	ast, issues := env.Compile(filter)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("invalid filter: %w", issues.Err())
	}
	if out := ast.OutputType(); out.String() != cel.BoolType.String() {
		return nil, fmt.Errorf("filter must evaluate to bool, got %s", out)
	}

	program, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("failed to build program: %w", err)
	}
	return &Predicate{source: filter, program: program}, nil
}

// String returns the filter source.
func (p *Predicate) String() string { return p.source }

// Match evaluates the predicate against one record's variables.
func (p *Predicate) Match(vars map[string]any) (bool, error) {
	if p == nil || p.program == nil {
		return true, nil
	}
	out, _, err := p.program.Eval(vars)
	if err != nil {
		return false, fmt.Errorf("evaluate %q: %w", p.source, err)
	}
	matched, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("filter %q returned %T", p.source, out.Value())
	}
	return matched, nil
}

func buildEnv(fields map[string]ValueKind) (*cel.Env, error) {
	opts := make([]cel.EnvOption, 0, len(fields)+1)
	for name, kind := range fields {
		celType, err := celTypeForKind(kind)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		opts = append(opts, cel.Variable(name, celType))
	}
	// lets `accuracy >= 80` compare a double field with an int literal
	opts = append(opts, cel.CrossTypeNumericComparisons(true))
	return cel.NewEnv(opts...)
}

func celTypeForKind(kind ValueKind) (*cel.Type, error) {
	switch kind {
	case KindString:
		return cel.StringType, nil
	case KindInt:
		return cel.IntType, nil
	case KindNumber:
		return cel.DoubleType, nil
	case KindBool:
		return cel.BoolType, nil
	case KindTimestamp:
		return cel.TimestampType, nil
	default:
		return nil, fmt.Errorf("unsupported field kind %s", kind)
	}
}
