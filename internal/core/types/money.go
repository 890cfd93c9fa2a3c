// Package types provides common value types and display formatting.
package types

import (
	"github.com/shopspring/decimal"
)

// Money represents a monetary value with full precision.
// Uses decimal.Decimal to avoid floating-point errors.
type Money = decimal.Decimal

// NullMoney is a Money that may be absent (JSON null).
type NullMoney = decimal.NullDecimal

// MustMoney creates a Money value from a string, panics on error.
// Use only for constants and tests.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// SomeMoney wraps a present value.
func SomeMoney(m Money) NullMoney {
	return decimal.NewNullDecimal(m)
}

// NoMoney is the absent value.
func NoMoney() NullMoney {
	return decimal.NullDecimal{}
}
