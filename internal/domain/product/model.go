// Package product describes the read-only product projection served by the price API.
package product

import (
	"pricetable/internal/core/types"
)

// Product is one row of the price table. Server-provided and never edited locally.
type Product struct {
	Description       string          `json:"description"`
	SequenceCode      int64           `json:"sequenceCode"`
	Barcode           string          `json:"barcode"`
	CurrentPrice      types.NullMoney `json:"currentPrice"`
	CurrentPriceDate  types.NullDate  `json:"currentPriceDate"`
	PreviousPrice     types.NullMoney `json:"previousPrice"`
	PreviousPriceDate types.NullDate  `json:"previousPriceDate"`
	PriceDifference   types.NullMoney `json:"priceDifference"`
}

// Trend classifies a price difference for display.
type Trend string

const (
	TrendNone Trend = "none"
	TrendDown Trend = "down" // price went down or stayed, shown as success
	TrendUp   Trend = "up"   // price went up, shown as error
)

// PriceTrend reports how the product's price moved.
func (p Product) PriceTrend() Trend {
	if !p.PriceDifference.Valid {
		return TrendNone
	}
	if p.PriceDifference.Decimal.IsPositive() {
		return TrendUp
	}
	return TrendDown
}

// Violation is one field-level validation failure reported by the price API.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is the body of a 400 answer.
type ValidationError struct {
	Violations []Violation `json:"violations"`
}
