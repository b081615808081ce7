package utils

import (
	"fmt"
	"math"
	"strings"
	"time"

	"krishimitra-backend/internal/domain"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

var acceptedLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	dateLayout,
}

// ParseDate accepts a yyyy-mm-dd date or an RFC 3339 timestamp.
// Dates without a zone are interpreted as UTC midnight.
func ParseDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("date is empty")
	}
	for _, layout := range acceptedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date format %q, expected yyyy-mm-dd or RFC 3339", raw)
}

// RentalDays returns the number of started 24h periods between start and end.
// Zero or negative means the range is empty or inverted.
func RentalDays(start, end time.Time) int32 {
	days := math.Ceil(end.Sub(start).Hours() / 24)
	if days > math.MaxInt32 {
		return math.MaxInt32
	}
	return int32(days)
}

// RentalCost is the daily price times the day count, rounded to money scale.
func RentalCost(pricePerDay decimal.Decimal, days int32) decimal.Decimal {
	return domain.RoundMoney(pricePerDay.Mul(decimal.NewFromInt32(days)))
}

// PurchaseCost is the per-kg price times the quantity, rounded to money scale.
func PurchaseCost(pricePerKg, quantity decimal.Decimal) decimal.Decimal {
	return domain.RoundMoney(pricePerKg.Mul(quantity))
}

// FormatDate renders t as yyyy-mm-dd.
func FormatDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

// FormatTimestamp renders t as RFC 3339 in UTC, or "" for the zero time.
func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
