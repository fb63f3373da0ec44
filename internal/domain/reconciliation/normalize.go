package reconciliation

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// NormalizedOrder holds the comparable attributes extracted from an Order.
// Absent or unparseable fields are nil/empty, never an error.
type NormalizedOrder struct {
	// Identifier is the preferred order identifier, empty when absent.
	Identifier string
	// Email is the lower-cased customer email, empty when absent.
	Email string
	// CreatedAt is the parsed creation time, nil when absent or unparseable.
	CreatedAt *time.Time
	// Total is the parsed monetary total, nil when absent or unparseable.
	Total *decimal.Decimal
}

// createdAtLayouts are the timestamp formats observed across both feeds.
var createdAtLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006 15:04",
	"02/01/2006",
}

// Normalize extracts the comparable attributes from an order. It is a total
// function: any missing or malformed field simply yields an absent attribute.
func Normalize(o Order) NormalizedOrder {
	n := NormalizedOrder{
		Identifier: o.Identifier(),
		Email:      strings.ToLower(strings.TrimSpace(o.CustomerEmail)),
	}
	if t, ok := parseTimestamp(o.CreatedAt); ok {
		n.CreatedAt = &t
	}
	if d, ok := parseAmount(o.Total); ok {
		n.Total = &d
	}
	return n
}

// parseTimestamp parses an ISO-like timestamp, trying the known layouts.
func parseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range createdAtLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseAmount parses a loosely formatted monetary amount. Currency symbols
// and thousands separators are stripped before conversion; only digits, at
// most one decimal point and a leading minus survive.
func parseAmount(s string) (decimal.Decimal, bool) {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.', r == '-':
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}
