package dto

import (
	"pricetable/internal/domain/filter"
)

// SetPageRequest is the grid's onPageChange event.
type SetPageRequest struct {
	Page *int `json:"page" binding:"required,min=0"`
}

// SetPageSizeRequest is the grid's onPageSizeChange event.
type SetPageSizeRequest struct {
	PageSize int `json:"pageSize" binding:"required"`
}

// FilterClause is one line of the grid's filter model.
type FilterClause struct {
	ColumnField   string  `json:"columnField"`
	OperatorValue string  `json:"operatorValue"`
	Value         *string `json:"value"`
}

// FilterModelRequest is the grid's onFilterModelChange event.
type FilterModelRequest struct {
	Items []FilterClause `json:"items"`
}

// ToModel converts the request into a filter model.
func (r FilterModelRequest) ToModel() filter.Model {
	items := make([]filter.Clause, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, filter.Clause{
			Field:         it.ColumnField,
			OperatorValue: it.OperatorValue,
			Value:         it.Value,
		})
	}
	return filter.Model{Items: items}
}

// FilterChangeResponse reports what a filter event did.
type FilterChangeResponse struct {
	Forwarded  bool   `json:"forwarded"`
	FilterMode string `json:"filterMode"`
}

// ServerSideResponse reports the filter mode after a toggle.
type ServerSideResponse struct {
	ServerSide bool   `json:"serverSide"`
	FilterMode string `json:"filterMode"`
}

// LocalFilterQuery is the client-mode filter applied to fetched rows.
type LocalFilterQuery struct {
	Operator string  `form:"operator"`
	Value    *string `form:"value"`
}

// ToCriteria converts the query into filter criteria.
func (q LocalFilterQuery) ToCriteria() (filter.Criteria, error) {
	op, err := filter.ParseOperator(q.Operator)
	if err != nil {
		return filter.Criteria{}, err
	}
	if op == filter.All || q.Value == nil {
		return filter.NoCriteria(), nil
	}
	v := *q.Value
	return filter.Criteria{Operator: op, Value: &v}, nil
}
