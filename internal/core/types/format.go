package types

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// FallbackLabel is rendered for absent prices and dates.
const FallbackLabel = "nothing"

// Date layouts per base language. Anything else falls back to ISO.
var dateLayoutByLanguage = map[string]string{
	"en": "01/02/2006",
	"pt": "02/01/2006",
	"es": "02/01/2006",
	"fr": "02/01/2006",
	"it": "02/01/2006",
	"de": "02.01.2006",
}

const isoDateLayout = "2006-01-02"

// Formatter renders prices and dates for display in one locale.
type Formatter struct {
	tag        language.Tag
	printer    *message.Printer
	symbol     string
	dateLayout string
}

// NewFormatter creates a Formatter for a BCP 47 locale and currency symbol.
func NewFormatter(locale, currencySymbol string) (*Formatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("parse locale %q: %w", locale, err)
	}

	layout := isoDateLayout
	if base, conf := tag.Base(); conf != language.No {
		if l, ok := dateLayoutByLanguage[base.String()]; ok {
			layout = l
		}
	}

	return &Formatter{
		tag:        tag,
		printer:    message.NewPrinter(tag),
		symbol:     currencySymbol,
		dateLayout: layout,
	}, nil
}

// Locale returns the formatter's language tag.
func (f *Formatter) Locale() string {
	return f.tag.String()
}

// Price renders a localized price string with two fraction digits.
func (f *Formatter) Price(v NullMoney) string {
	if !v.Valid {
		return FallbackLabel
	}
	// Round in decimal first; the float only carries an already two-digit value.
	rounded := v.Decimal.Round(2)
	amount := f.printer.Sprint(number.Decimal(rounded.InexactFloat64(), number.Scale(2)))
	if f.symbol == "" {
		return amount
	}
	return f.symbol + " " + amount
}

// Date renders a localized date string.
func (f *Formatter) Date(d NullDate) string {
	if !d.Valid {
		return FallbackLabel
	}
	return d.Time.Format(f.dateLayout)
}
