package normalize

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount parses a statement amount string into a signed float64.
// Accepted: currency symbols (£, $, €), thousands commas, accounting
// parentheses and trailing-minus negatives. Parsing goes through decimal
// so "1,234.56" style strings never pick up binary representation noise
// before the final conversion.
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	if strings.HasSuffix(s, "-") {
		negative = true
		s = strings.TrimSuffix(s, "-")
	}

	replacer := strings.NewReplacer("£", "", "$", "", "€", "", ",", "", " ", "")
	s = replacer.Replace(s)

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("parse amount: %w", err)
	}
	if negative {
		d = d.Neg()
	}
	return d.InexactFloat64(), nil
}
