package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Accepted wire layouts, tried in order.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// NullDate is a calendar timestamp that may be absent.
type NullDate struct {
	Time  time.Time
	Valid bool
}

// SomeDate wraps a present value.
func SomeDate(t time.Time) NullDate {
	return NullDate{Time: t, Valid: true}
}

// ParseDate parses s using the accepted wire layouts.
func ParseDate(s string) (NullDate, error) {
	if s == "" {
		return NullDate{}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return SomeDate(t), nil
		}
	}
	return NullDate{}, fmt.Errorf("parse date %q: unsupported layout", s)
}

// MarshalJSON encodes an absent date as null and a present one as RFC 3339.
func (d NullDate) MarshalJSON() ([]byte, error) {
	if !d.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(d.Time.Format(time.RFC3339))
}

// UnmarshalJSON accepts null, an empty string or one of the accepted layouts.
func (d *NullDate) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*d = NullDate{}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
