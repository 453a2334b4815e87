package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

// Prices are carried as integer cents end to end. Arithmetic stays exact;
// the two-digit decimal form exists only at the presentation boundary.

// FormatCents renders a non-negative cent amount as "D.CC".
func FormatCents(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}

// ParsePriceCents parses a decimal price string ("4.50", "12", "3.5") into
// cents without going through floating point. At most two fraction digits
// are allowed and the amount must be non-negative.
func ParsePriceCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		return 0, fmt.Errorf("invalid price %q", s)
	}

	whole, frac, _ := strings.Cut(s, ".")

	dollars, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q", s)
	}

	if len(frac) > 2 {
		return 0, fmt.Errorf("invalid price %q: more than two fraction digits", s)
	}
	for len(frac) < 2 {
		frac += "0"
	}
	cents, err := strconv.ParseInt(frac, 10, 64)
	if err != nil || cents < 0 {
		return 0, fmt.Errorf("invalid price %q", s)
	}

	return dollars*100 + cents, nil
}
