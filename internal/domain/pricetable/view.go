package pricetable

import (
	"sort"
	"strings"

	"pricetable/internal/core/types"
	"pricetable/internal/domain/filter"
	"pricetable/internal/domain/product"
)

// Column describes one grid column.
type Column struct {
	Field           string   `json:"field"`
	Type            string   `json:"type"`
	HeaderName      string   `json:"headerName"`
	Filterable      bool     `json:"filterable"`
	FilterOperators []string `json:"filterOperators,omitempty"`
	Width           int      `json:"width"`
	Align           string   `json:"align"`
}

// Row is one displayed product. ID is its position in the fetched page.
type Row struct {
	ID                         int             `json:"id"`
	Description                string          `json:"description"`
	SequenceCode               int64           `json:"sequenceCode"`
	Barcode                    string          `json:"barcode"`
	CurrentPrice               types.NullMoney `json:"currentPrice"`
	CurrentPriceFormatted      string          `json:"currentPriceFormatted"`
	CurrentPriceDate           types.NullDate  `json:"currentPriceDate"`
	CurrentPriceDateFormatted  string          `json:"currentPriceDateFormatted"`
	PreviousPrice              types.NullMoney `json:"previousPrice"`
	PreviousPriceFormatted     string          `json:"previousPriceFormatted"`
	PreviousPriceDate          types.NullDate  `json:"previousPriceDate"`
	PreviousPriceDateFormatted string          `json:"previousPriceDateFormatted"`
	PriceDifference            types.NullMoney `json:"priceDifference"`
	PriceDifferenceFormatted   string          `json:"priceDifferenceFormatted"`
	PriceTrend                 product.Trend   `json:"priceTrend"`
}

// TableView is everything the grid needs to render one frame.
type TableView struct {
	Columns         []Column     `json:"columns"`
	Rows            []Row        `json:"rows"`
	Page            int          `json:"page"`
	PageSize        int          `json:"pageSize"`
	PageSizeOptions []int        `json:"pageSizeOptions"`
	RowCount        int          `json:"rowCount"`
	TotalPages      int          `json:"totalPages"`
	Loading         bool         `json:"loading"`
	FilterMode      string       `json:"filterMode"`
	Filter          filter.State `json:"filter"`
	Error           string       `json:"error,omitempty"`
}

// Columns returns the table's column set.
func Columns() []Column {
	ops := make([]string, 0, 3)
	for _, op := range filter.StringOperators() {
		ops = append(ops, op.String())
	}

	return []Column{
		{Field: filter.FilterableField, Type: "string", HeaderName: "Description", Filterable: true, FilterOperators: ops, Width: 300, Align: "left"},
		{Field: "sequenceCode", Type: "number", HeaderName: "Sequence Code", Width: 150, Align: "left"},
		{Field: "barcode", Type: "string", HeaderName: "Barcode", Width: 150, Align: "left"},
		{Field: "currentPrice", Type: "number", HeaderName: "Current Price", Width: 150, Align: "left"},
		{Field: "currentPriceDate", Type: "string", HeaderName: "Current Price Date", Width: 150, Align: "left"},
		{Field: "previousPrice", Type: "number", HeaderName: "Previous Price", Width: 150, Align: "left"},
		{Field: "previousPriceDate", Type: "string", HeaderName: "Previous Price Date", Width: 150, Align: "left"},
		{Field: "priceDifference", Type: "number", HeaderName: "Price difference", Width: 150, Align: "left"},
	}
}

// ViewBuilder projects snapshots into table views.
type ViewBuilder struct {
	format  *types.Formatter
	matcher *filter.LocalMatcher
}

// NewViewBuilder creates a builder. matcher may be nil when client-side
// filtering is not offered.
func NewViewBuilder(format *types.Formatter, matcher *filter.LocalMatcher) *ViewBuilder {
	return &ViewBuilder{format: format, matcher: matcher}
}

// Build renders snap. local is applied to the fetched rows only in client
// filter mode; it never causes a fetch.
func (b *ViewBuilder) Build(snap Snapshot, local filter.Criteria) (TableView, error) {
	rows := make([]Row, 0, len(snap.Load.Products))
	for i, p := range snap.Load.Products {
		if !snap.Filter.ServerSide && b.matcher != nil {
			ok, err := b.matcher.Match(local, p)
			if err != nil {
				return TableView{}, err
			}
			if !ok {
				continue
			}
		}
		rows = append(rows, b.row(i, p))
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return strings.ToLower(rows[i].Description) < strings.ToLower(rows[j].Description)
	})

	view := TableView{
		Columns:         Columns(),
		Rows:            rows,
		Page:            snap.Page.Page,
		PageSize:        snap.Page.PageSize,
		PageSizeOptions: product.PageSizeOptions,
		RowCount:        snap.Page.RowCount,
		TotalPages:      product.TotalPages(snap.Page.RowCount, snap.Page.PageSize),
		Loading:         snap.Load.IsLoading,
		FilterMode:      snap.Filter.Mode(),
		Filter:          snap.Filter,
	}
	if snap.LastError != nil {
		view.Error = "could not load products"
	}
	return view, nil
}

func (b *ViewBuilder) row(index int, p product.Product) Row {
	return Row{
		ID:                         index + 1,
		Description:                p.Description,
		SequenceCode:               p.SequenceCode,
		Barcode:                    p.Barcode,
		CurrentPrice:               p.CurrentPrice,
		CurrentPriceFormatted:      b.format.Price(p.CurrentPrice),
		CurrentPriceDate:           p.CurrentPriceDate,
		CurrentPriceDateFormatted:  b.format.Date(p.CurrentPriceDate),
		PreviousPrice:              p.PreviousPrice,
		PreviousPriceFormatted:     b.format.Price(p.PreviousPrice),
		PreviousPriceDate:          p.PreviousPriceDate,
		PreviousPriceDateFormatted: b.format.Date(p.PreviousPriceDate),
		PriceDifference:            p.PriceDifference,
		PriceDifferenceFormatted:   b.format.Price(p.PriceDifference),
		PriceTrend:                 p.PriceTrend(),
	}
}
