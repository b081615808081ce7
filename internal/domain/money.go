package domain

import "github.com/shopspring/decimal"

// MoneyScale is the number of fraction digits persisted for every amount.
const MoneyScale = 2

// DefaultStartingBalance is credited to accounts created without an explicit balance.
var DefaultStartingBalance = decimal.RequireFromString("100000.00")

// RoundMoney rounds half away from zero to MoneyScale digits.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyScale)
}

// FormatMoney renders d as a plain fixed-point string, e.g. "600.00".
func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(MoneyScale)
}

// ParseMoney parses a stored amount. Empty or malformed input yields ok=false.
func ParseMoney(raw string) (decimal.Decimal, bool) {
	if raw == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
