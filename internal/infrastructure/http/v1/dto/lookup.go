package dto

import (
	"pricetable/internal/domain/product"
)

// SearchByBarcodeRequest starts a barcode lookup.
type SearchByBarcodeRequest struct {
	Barcode string `json:"barcode"`
}

// FieldErrorsResponse lists the violations of the last rejected barcode.
type FieldErrorsResponse struct {
	Violations []product.Violation `json:"violations"`
}
