package tracking

import (
	"strings"

	"github.com/shopspring/decimal"
)

// roundMoney rounds to 2 decimals, half away from zero
func roundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// amount renders a decimal as a plain 2-decimal string, e.g. "20.01"
func amount(d decimal.Decimal) string {
	return roundMoney(d).StringFixed(2)
}

// FormatBRL renders a decimal in pt-BR currency style, e.g. "R$ 1.234,56"
func FormatBRL(d decimal.Decimal) string {
	s := roundMoney(d).StringFixed(2)

	negative := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	parts := strings.SplitN(s, ".", 2)
	intPart, fracPart := parts[0], parts[1]

	var groups []string
	for len(intPart) > 3 {
		groups = append([]string{intPart[len(intPart)-3:]}, groups...)
		intPart = intPart[:len(intPart)-3]
	}
	groups = append([]string{intPart}, groups...)

	out := "R$ " + strings.Join(groups, ".") + "," + fracPart
	if negative {
		out = "-" + out
	}
	return out
}
