// Package core provides the zakat ledger domain model and money parsing.
//
// Amounts, rates, prices and weights are decimal.Decimal values; this file
// contains the helpers that turn user input into decimals and back into
// display strings.
package core

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// Hundred is used to turn a percentage into a fraction.
var Hundred = decimal.NewFromInt(100)

// ParseAmount converts a decimal string to a strictly positive decimal.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators.
// Returns a ValidationError for invalid formats, signs, or zero.
//
// Examples:
//
//	ParseAmount("12.34") -> 12.34, nil
//	ParseAmount("12,34") -> 12.34, nil
//	ParseAmount("0")     -> error
func ParseAmount(field, s string) (decimal.Decimal, error) {
	d, err := ParseNonNegative(field, s)
	if err != nil {
		return decimal.Zero, err
	}
	if !d.IsPositive() {
		return decimal.Zero, &ValidationError{Field: field, Reason: ErrInvalidAmount.Error() + ": must be greater than zero"}
	}
	return d, nil
}

// ParseNonNegative is ParseAmount but also accepts zero.
func ParseNonNegative(field, s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, &ValidationError{Field: field, Reason: ErrInvalidAmount.Error() + ": empty"}
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return decimal.Zero, &ValidationError{Field: field, Reason: ErrInvalidAmount.Error() + ": sign not allowed " + quote(s)}
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return decimal.Zero, &ValidationError{Field: field, Reason: ErrInvalidAmount.Error() + " " + quote(s)}
	}
	for _, p := range parts {
		for _, r := range p {
			if !unicode.IsDigit(r) {
				return decimal.Zero, &ValidationError{Field: field, Reason: ErrInvalidAmount.Error() + " " + quote(s)}
			}
		}
	}
	if parts[0] == "" {
		s = "0" + s
	}
	if strings.HasSuffix(s, ".") {
		s = strings.TrimSuffix(s, ".")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, &ValidationError{Field: field, Reason: ErrInvalidAmount.Error() + " " + quote(s)}
	}
	return d, nil
}

// FormatMoney renders d with two decimals and thousands separators,
// e.g. 1250000 -> "1,250,000.00".
func FormatMoney(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}
