// Package money parses amounts the way they appear on real statements:
// currency symbols, thousands separators and stray OCR noise around an
// optionally signed decimal number.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseLoose strips every character except digits, '.' and '-' and parses
// what remains as a decimal. "(45.20)" therefore parses positive; only an
// explicit minus sign makes an amount negative.
func ParseLoose(s string) (decimal.Decimal, error) {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			return r
		}
		return -1
	}, s)

	if cleaned == "" || cleaned == "-" || cleaned == "." {
		return decimal.Zero, fmt.Errorf("no amount in %q", s)
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return d, nil
}

// Cents formats an amount with exactly two decimal places.
func Cents(d decimal.Decimal) string {
	return d.StringFixed(2)
}
