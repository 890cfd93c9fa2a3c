// Package filter decides how the table's description filter is evaluated.
package filter

import (
	"pricetable/internal/core/apperror"
)

// Operator is the string-matching mode applied to the description column.
type Operator int

const (
	All Operator = iota
	Contains
	StartsWith
	EndsWith
)

// Wire names as emitted by the data grid.
const (
	opAll        = "all"
	opContains   = "contains"
	opStartsWith = "startsWith"
	opEndsWith   = "endsWith"
)

// FilterableField is the only column the table filters on.
const FilterableField = "description"

// String returns the wire name.
func (o Operator) String() string {
	switch o {
	case All:
		return opAll
	case Contains:
		return opContains
	case StartsWith:
		return opStartsWith
	case EndsWith:
		return opEndsWith
	}
	return "unknown"
}

// ParseOperator maps a wire name to an Operator.
func ParseOperator(s string) (Operator, error) {
	switch s {
	case opAll, "":
		return All, nil
	case opContains:
		return Contains, nil
	case opStartsWith:
		return StartsWith, nil
	case opEndsWith:
		return EndsWith, nil
	}
	return All, apperror.NewInvalidInput("operatorValue", s)
}

// StringOperators lists the operators offered on the description column.
func StringOperators() []Operator {
	return []Operator{Contains, StartsWith, EndsWith}
}

// MarshalText implements encoding.TextMarshaler.
func (o Operator) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Operator) UnmarshalText(text []byte) error {
	parsed, err := ParseOperator(string(text))
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// Criteria is an operator and its operand. Value is nil for All.
type Criteria struct {
	Operator Operator `json:"operator"`
	Value    *string  `json:"value"`
}

// NoCriteria matches every row.
func NoCriteria() Criteria {
	return Criteria{Operator: All}
}

// IsAll reports whether the criteria matches every row.
func (c Criteria) IsAll() bool {
	return c.Operator == All || c.Value == nil
}

// ValueOrEmpty returns the operand or "".
func (c Criteria) ValueOrEmpty() string {
	if c.Value == nil {
		return ""
	}
	return *c.Value
}

// State is the table's filter slice.
type State struct {
	Criteria
	ServerSide bool `json:"serverSide"`
}

// Mode returns "server" or "client", matching the grid's filterMode.
func (s State) Mode() string {
	if s.ServerSide {
		return "server"
	}
	return "client"
}

// Clause is one line of the data grid's filter model.
type Clause struct {
	Field         string  `json:"columnField"`
	OperatorValue string  `json:"operatorValue"`
	Value         *string `json:"value"`
}

// Model is the filter model the data grid emits on change.
type Model struct {
	Items []Clause `json:"items"`
}
