package product

// PageSizeOptions are the page sizes the table offers.
var PageSizeOptions = []int{5, 10, 15, 20, 30}

const (
	// DefaultPage is the zero-based page shown on mount.
	DefaultPage = 0
	// DefaultPageSize is the page size shown on mount.
	DefaultPageSize = 5
)

// IsPageSizeAllowed reports whether size is one of PageSizeOptions.
func IsPageSizeAllowed(size int) bool {
	for _, s := range PageSizeOptions {
		if s == size {
			return true
		}
	}
	return false
}

// Pagination selects a window of a paged list. Page is zero-based.
type Pagination struct {
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

// Page is one window of a paged list plus the total matching count.
type Page struct {
	Products []Product `json:"products"`
	RowCount int       `json:"rowCount"`
}

// TotalPages derives the pager's page count from a row count.
func TotalPages(rowCount, pageSize int) int {
	if pageSize <= 0 || rowCount <= 0 {
		return 0
	}
	pages := rowCount / pageSize
	if rowCount%pageSize > 0 {
		pages++
	}
	return pages
}
