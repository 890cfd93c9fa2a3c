package filter

import (
	"context"

	"pricetable/internal/core/apperror"
	"pricetable/pkg/logger"
)

// Target is the filter owner the coordinator forwards server-side changes to.
type Target interface {
	ServerSideFiltering() bool
	SetFilter(ctx context.Context, c Criteria) error
}

// Coordinator translates data grid filter models into table filter changes.
// It holds no state of its own.
type Coordinator struct {
	target Target
}

// NewCoordinator creates a coordinator bound to target.
func NewCoordinator(target Target) *Coordinator {
	return &Coordinator{target: target}
}

// OnFilterModelChange handles a filter model emitted by the grid.
// In client mode it does nothing: the presentation filters fetched rows itself.
// It reports whether a filter change was forwarded.
func (c *Coordinator) OnFilterModelChange(ctx context.Context, model Model) (bool, error) {
	if !c.target.ServerSideFiltering() {
		logger.Debug(ctx, "filter change handled client-side", "items", len(model.Items))
		return false, nil
	}

	criteria, err := Translate(model)
	if err != nil {
		return false, err
	}
	if err := c.target.SetFilter(ctx, criteria); err != nil {
		return false, err
	}
	return true, nil
}

// Translate turns a filter model into criteria. Only the first clause counts.
func Translate(model Model) (Criteria, error) {
	if len(model.Items) == 0 {
		return NoCriteria(), nil
	}

	clause := model.Items[0]
	if clause.Field != "" && clause.Field != FilterableField {
		return Criteria{}, apperror.NewValidation("column is not filterable").
			WithDetail("field", clause.Field)
	}

	op, err := ParseOperator(clause.OperatorValue)
	if err != nil {
		return Criteria{}, err
	}
	// The grid emits value-less clauses while the user is still typing.
	if op == All || clause.Value == nil {
		return NoCriteria(), nil
	}

	value := *clause.Value
	return Criteria{Operator: op, Value: &value}, nil
}
