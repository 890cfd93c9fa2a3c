package product

import (
	"context"
)

// LookupResponse is the raw answer to a barcode lookup. Exactly one of
// Product and Validation is set for 200/201 and 400; both may be nil otherwise.
type LookupResponse struct {
	Status     int
	Product    *Product
	Validation *ValidationError
}

// Gateway is the remote price API as consumed by the table and the lookup flow.
// Implementations return an error only for transport or decoding failures,
// except list calls which also fail on a non-success status.
type Gateway interface {
	GetPagedProducts(ctx context.Context, p Pagination) (Page, error)
	GetAllProducts(ctx context.Context, p Pagination) (Page, error)
	GetProductsContaining(ctx context.Context, p Pagination, value string) (Page, error)
	GetProductsStartingWith(ctx context.Context, p Pagination, value string) (Page, error)
	GetProductsEndingWith(ctx context.Context, p Pagination, value string) (Page, error)
	GetByBarcode(ctx context.Context, barcode string) (LookupResponse, error)
}
