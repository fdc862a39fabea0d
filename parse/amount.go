// Package parse provides tolerant field parsing for extraction output:
// signed amounts with thousands separators, dates in the formats seen on
// printed advices, and the small string derivations used for reference
// fields.
//
// All functions are pure and never panic; a value that cannot be parsed
// reports failure so the caller can skip the row with a warning.
package parse

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Amount parses a numeric string into a decimal. It strips thousands
// separators, treats a parenthesized value like "(133.99)" as negative, and
// discards every character except digits, '.' and '-'. The second return is
// false when nothing numeric remains.
func Amount(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}

	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" || cleaned == "-" || cleaned == "." {
		return decimal.Zero, false
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, false
	}
	if negative {
		d = d.Neg()
	}
	return d, true
}

// AmountOrZero parses like Amount but maps a missing or unparsable value to
// zero. Use it only for optional fields (e.g. a TDS column) where absence
// means "no contribution" rather than a bad row.
func AmountOrZero(s string) decimal.Decimal {
	d, ok := Amount(s)
	if !ok {
		return decimal.Zero
	}
	return d
}
