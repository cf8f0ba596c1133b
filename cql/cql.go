// Package cql implements a small component query language used by debug and
// editor tooling: CONTAINS(a, b), EXACT(a), ALL(), combined with !, & and |.
// Expressions compile to a filter.ComponentFilter that plugs into a search.
package cql

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/rotisserie/eris"

	"github.com/mosaic-engine/mosaic/filter"
	"github.com/mosaic-engine/mosaic/types"
)

// Resolver turns a component name from an expression into the registered
// component, typically Registry.ByName.
type Resolver func(name string) (types.ComponentMetadata, error)

type cqlOperator int

const (
	opAnd cqlOperator = iota
	opOr
)

var operatorMap = map[string]cqlOperator{"&": opAnd, "|": opOr}

// Capture tells the parser how to transform a parsed token into an operator.
func (o *cqlOperator) Capture(s []string) error {
	if len(s) == 0 {
		return eris.New("invalid operator")
	}
	operator, ok := operatorMap[s[0]]
	if !ok {
		return eris.New("invalid operator")
	}
	*o = operator
	return nil
}

type cqlComponent struct {
	Name string `parser:"@Ident"`
}

type cqlAll struct{}

func (a *cqlAll) Capture(values []string) error {
	if values[0] == "ALL" && values[1] == "(" && values[2] == ")" {
		*a = cqlAll{}
	}
	return nil
}

type cqlNot struct {
	SubExpression *cqlValue `parser:"'!' @@"`
}

type cqlExact struct {
	Components []*cqlComponent `parser:"'EXACT' '(' (@@',')* @@ ')'"`
}

type cqlContains struct {
	Components []*cqlComponent `parser:"'CONTAINS' '(' (@@',')* @@ ')'"`
}

type cqlValue struct {
	All           *cqlAll      `parser:"@('ALL' '(' ')')"`
	Exact         *cqlExact    `parser:"| @@"`
	Contains      *cqlContains `parser:"| @@"`
	Not           *cqlNot      `parser:"| @@"`
	Subexpression *cqlTerm     `parser:"| '(' @@ ')'"`
}

type cqlFactor struct {
	Base *cqlValue `parser:"@@"`
}

type cqlOpFactor struct {
	Operator cqlOperator `parser:"@('&' | '|')"`
	Factor   *cqlFactor  `parser:"@@"`
}

type cqlTerm struct {
	Left  *cqlFactor     `parser:"@@"`
	Right []*cqlOpFactor `parser:"@@*"`
}

var parser = participle.MustBuild[cqlTerm]()

func (o cqlOperator) String() string {
	switch o {
	case opAnd:
		return "&"
	case opOr:
		return "|"
	}
	panic("unsupported operator")
}

func componentNames(comps []*cqlComponent) string {
	names := make([]string, len(comps))
	for i, comp := range comps {
		names[i] = comp.Name
	}
	return strings.Join(names, ", ")
}

func (v *cqlValue) String() string {
	switch {
	case v.All != nil:
		return "ALL()"
	case v.Exact != nil:
		return "EXACT(" + componentNames(v.Exact.Components) + ")"
	case v.Contains != nil:
		return "CONTAINS(" + componentNames(v.Contains.Components) + ")"
	case v.Not != nil:
		return "!(" + v.Not.SubExpression.String() + ")"
	case v.Subexpression != nil:
		return "(" + v.Subexpression.String() + ")"
	default:
		panic("logic error displaying CQL ast")
	}
}

func (t *cqlTerm) String() string {
	out := []string{t.Left.Base.String()}
	for _, r := range t.Right {
		out = append(out, r.Operator.String(), r.Factor.Base.String())
	}
	return strings.Join(out, " ")
}

func resolveAll(comps []*cqlComponent, resolve Resolver) ([]types.Component, error) {
	components := make([]types.Component, 0, len(comps))
	for _, componentName := range comps {
		comp, err := resolve(componentName.Name)
		if err != nil {
			return nil, eris.Wrap(err, "")
		}
		components = append(components, comp)
	}
	return components, nil
}

func valueToComponentFilter(value *cqlValue, resolve Resolver) (filter.ComponentFilter, error) {
	switch {
	case value.Not != nil:
		resultFilter, err := valueToComponentFilter(value.Not.SubExpression, resolve)
		if err != nil {
			return nil, err
		}
		return filter.Not(resultFilter), nil
	case value.Exact != nil:
		if len(value.Exact.Components) == 0 {
			return nil, eris.New("EXACT cannot have zero parameters")
		}
		components, err := resolveAll(value.Exact.Components, resolve)
		if err != nil {
			return nil, err
		}
		return filter.Exact(components...), nil
	case value.Contains != nil:
		if len(value.Contains.Components) == 0 {
			return nil, eris.New("CONTAINS cannot have zero parameters")
		}
		components, err := resolveAll(value.Contains.Components, resolve)
		if err != nil {
			return nil, err
		}
		return filter.Contains(components...), nil
	case value.All != nil:
		return filter.All(), nil
	case value.Subexpression != nil:
		return termToComponentFilter(value.Subexpression, resolve)
	default:
		return nil, eris.New("unknown error during conversion from CQL AST to ComponentFilter")
	}
}

func termToComponentFilter(term *cqlTerm, resolve Resolver) (filter.ComponentFilter, error) {
	if term.Left == nil {
		return nil, eris.New("not enough values in expression")
	}
	acc, err := valueToComponentFilter(term.Left.Base, resolve)
	if err != nil {
		return nil, err
	}
	for _, opFactor := range term.Right {
		resultFilter, err := valueToComponentFilter(opFactor.Factor.Base, resolve)
		if err != nil {
			return nil, err
		}
		switch opFactor.Operator {
		case opAnd:
			acc = filter.And(acc, resultFilter)
		case opOr:
			acc = filter.Or(acc, resultFilter)
		default:
			return nil, eris.New("invalid operator")
		}
	}
	return acc, nil
}

// Parse compiles a CQL expression into a component filter, resolving
// component names through the given resolver.
func Parse(cqlText string, resolve Resolver) (filter.ComponentFilter, error) {
	term, err := parser.ParseString("", cqlText)
	if err != nil {
		return nil, eris.Wrap(err, "")
	}
	resultFilter, err := termToComponentFilter(term, resolve)
	if err != nil {
		return nil, err
	}
	return resultFilter, nil
}
