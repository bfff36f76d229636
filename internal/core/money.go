// Package core provides money parsing and handling utilities.
//
// This file contains functions for parsing card amounts typed by the user
// and formatting them the way the history list and balance label show them.
package core

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// Currency is the single currency the card holds.
const Currency = "IDR"

// ParseAmount converts user input to a positive amount with two decimal places.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and performs
// half-up rounding on the third decimal place. Signed, non-numeric, zero and
// empty values are rejected with ErrInvalidAmount.
//
// Examples:
//
//	ParseAmount("100000")  -> 100000, nil
//	ParseAmount("12,345")  -> 12.35, nil (rounds up)
//	ParseAmount("-5")      -> 0, ErrInvalidAmount
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	if strings.Count(s, ".") > 1 {
		return decimal.Zero, ErrInvalidAmount
	}
	// Digits only: rules out signs, exponents, NaN and Inf
	for _, r := range s {
		if r != '.' && !unicode.IsDigit(r) {
			return decimal.Zero, ErrInvalidAmount
		}
	}
	if s == "." {
		return decimal.Zero, ErrInvalidAmount
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	d = d.Round(2)
	if !d.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// FormatCurrency renders d with thousands separators and two decimals,
// e.g. 100000 -> "100,000.00". Digits are grouped from the decimal's own
// text so large balances print exactly.
func FormatCurrency(d decimal.Decimal) string {
	s := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	whole, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	b.WriteString(sign)
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}
