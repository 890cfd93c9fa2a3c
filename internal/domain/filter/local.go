package filter

import (
	"fmt"
	"strings"

	"github.com/google/cel-go/cel"

	"pricetable/internal/domain/product"
)

var predicateSource = map[Operator]string{
	Contains:   `description.contains(value)`,
	StartsWith: `description.startsWith(value)`,
	EndsWith:   `description.endsWith(value)`,
}

// LocalMatcher filters already-fetched rows in client filter mode.
// Programs are compiled once and are safe for concurrent use.
type LocalMatcher struct {
	programs map[Operator]cel.Program
}

// NewLocalMatcher compiles the string operator predicates.
func NewLocalMatcher() (*LocalMatcher, error) {
	env, err := cel.NewEnv(
		cel.Variable("description", cel.StringType),
		cel.Variable("value", cel.StringType),
	)
	if err != nil {
		return nil, fmt.Errorf("create cel env: %w", err)
	}

	programs := make(map[Operator]cel.Program, len(predicateSource))
	for op, src := range predicateSource {
		ast, iss := env.Compile(src)
		if iss.Err() != nil {
			return nil, fmt.Errorf("compile %s predicate: %w", op, iss.Err())
		}
		prg, err := env.Program(ast)
		if err != nil {
			return nil, fmt.Errorf("build %s program: %w", op, err)
		}
		programs[op] = prg
	}

	return &LocalMatcher{programs: programs}, nil
}

// Match reports whether p satisfies c. Comparison ignores case.
func (m *LocalMatcher) Match(c Criteria, p product.Product) (bool, error) {
	if c.IsAll() {
		return true, nil
	}

	prg, ok := m.programs[c.Operator]
	if !ok {
		return false, fmt.Errorf("no predicate for operator %s", c.Operator)
	}

	out, _, err := prg.Eval(map[string]any{
		"description": strings.ToLower(p.Description),
		"value":       strings.ToLower(*c.Value),
	})
	if err != nil {
		return false, fmt.Errorf("evaluate %s: %w", c.Operator, err)
	}

	matched, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("predicate %s returned %T", c.Operator, out.Value())
	}
	return matched, nil
}

// Filter returns the products matching c, keeping their order.
func (m *LocalMatcher) Filter(c Criteria, products []product.Product) ([]product.Product, error) {
	if c.IsAll() {
		return products, nil
	}

	out := make([]product.Product, 0, len(products))
	for _, p := range products {
		ok, err := m.Match(c, p)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, p)
		}
	}
	return out, nil
}
