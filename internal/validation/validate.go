package validation

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// DateLayout is the calendar form used for coverage dates.
const DateLayout = "2006-01-02"

const millisPerDay = 86_400_000

// ComputeDayCount returns ceil(|to - from| / 1 day).
// Argument order does not matter; see IsReversed for detecting swapped dates.
func ComputeDayCount(from, to time.Time) int {
	diff := to.UnixMilli() - from.UnixMilli()
	if diff < 0 {
		diff = -diff
	}
	return int(math.Ceil(float64(diff) / millisPerDay))
}

// IsReversed reports whether the range ends before it starts.
func IsReversed(from, to time.Time) bool {
	return to.Before(from)
}

// ComputeTotalAmount returns insured + expenses, with nil expenses counted as 0.
// It returns nil when insured is nil.
func ComputeTotalAmount(insured, expenses *float64) *float64 {
	if insured == nil {
		return nil
	}
	total := *insured
	if expenses != nil {
		total += *expenses
	}
	return &total
}

// Validate checks that the coverage is quotable: a positive total and a positive day count.
func Validate(total *float64, dayCount int) error {
	if total == nil {
		return &ValidationError{Field: "totalAmount", Message: MsgInvalidCoverage}
	}
	if !IsFinite(*total) || *total <= 0 {
		return &ValidationError{Field: "totalAmount", Message: MsgInvalidCoverage}
	}
	if dayCount <= 0 {
		return &ValidationError{Field: "dayCount", Message: MsgInvalidCoverage}
	}
	return nil
}

// IsFinite reports whether v is neither NaN nor an infinity.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ParseDate parses a YYYY-MM-DD calendar date as UTC midnight.
func ParseDate(raw string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, &ValidationError{
			Field:   "date",
			Message: fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", raw),
		}
	}
	return t, nil
}

// EstimatedMonths converts a day count to whole months for the legacy monthly figure.
func EstimatedMonths(dayCount int) int {
	return int(math.Round(float64(dayCount) / 30))
}

// SumaTotal is the legacy monthly total: totalAmount * round(dayCount / 30).
func SumaTotal(total float64, dayCount int) float64 {
	return total * float64(EstimatedMonths(dayCount))
}
