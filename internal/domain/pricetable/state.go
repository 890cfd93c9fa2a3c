// Package pricetable owns the paged, filterable product table: which page is
// displayed, how it is fetched from the price API and what the grid renders.
package pricetable

import (
	"pricetable/internal/domain/filter"
	"pricetable/internal/domain/product"
)

// FailurePolicy decides what a failed fetch does to the loading flag.
type FailurePolicy int

const (
	// ClearLoadingOnFailure clears the loading flag and records the error so
	// the presentation can offer a retry.
	ClearLoadingOnFailure FailurePolicy = iota
	// KeepLoadingOnFailure only logs the error and leaves the loading flag set.
	KeepLoadingOnFailure
)

// ParseFailurePolicy maps the "clear loading on failure" switch to a policy.
func ParseFailurePolicy(clearLoading bool) FailurePolicy {
	if clearLoading {
		return ClearLoadingOnFailure
	}
	return KeepLoadingOnFailure
}

func (p FailurePolicy) String() string {
	switch p {
	case ClearLoadingOnFailure:
		return "clear-loading"
	case KeepLoadingOnFailure:
		return "keep-loading"
	default:
		return "unknown"
	}
}

// PageState is the pager slice. RowCount is the total reported by the last
// applied fetch and only feeds the pager's page count.
type PageState struct {
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
	RowCount int `json:"rowCount"`
}

// Pagination returns the window this state selects.
func (p PageState) Pagination() product.Pagination {
	return product.Pagination{Page: p.Page, PageSize: p.PageSize}
}

// LoadState is the data slice. Products is replaced wholesale on every applied
// fetch and never mutated in place, so snapshots may share it.
type LoadState struct {
	IsLoading bool              `json:"isLoading"`
	Products  []product.Product `json:"products"`
}

// Snapshot is a consistent copy of the store's state.
type Snapshot struct {
	Page      PageState
	Load      LoadState
	Filter    filter.State
	LastError error

	// Issued is the sequence number of the newest dispatched fetch,
	// Applied the one whose result is currently displayed.
	Issued  uint64
	Applied uint64
}

// fetchRequest is one dispatched fetch.
type fetchRequest struct {
	seq        uint64
	pagination product.Pagination
	criteria   filter.Criteria
}
