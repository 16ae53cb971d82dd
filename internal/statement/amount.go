package statement

import (
	"strings"

	"github.com/shopspring/decimal"
)

var currencyMarkers = []string{"PLN", "ZŁ", "ZL", "EUR", "USD", "GBP", "CHF", "€", "$", "£"}

// ParseAmount parses a bank amount such as "-1 234,56 PLN" or "1,234.56".
// Unparseable input yields zero rather than an error.
func ParseAmount(raw string) decimal.Decimal {
	s := strings.ToUpper(strings.TrimSpace(raw))
	for _, m := range currencyMarkers {
		s = strings.ReplaceAll(s, m, "")
	}
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\u00a0', '\u202f', '\'':
			return -1
		}
		return r
	}, s)
	s = strings.TrimPrefix(s, "+")
	if s == "" {
		return decimal.Zero
	}

	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")
	switch {
	case lastComma >= 0 && lastDot >= 0 && lastComma > lastDot:
		// 1.234,56
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case lastComma >= 0 && lastDot >= 0:
		// 1,234.56
		s = strings.ReplaceAll(s, ",", "")
	case lastComma >= 0:
		s = strings.Replace(s, ",", ".", 1)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// looksLikeAmount reports whether s is shaped like a monetary amount rather
// than a date, account number or free text.
func looksLikeAmount(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || isDateShaped(s) {
		return false
	}
	digits := 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case strings.ContainsRune("+-., \u00a0", r):
		default:
			if !strings.ContainsRune("PLNZŁEURSDGBCHF€$£zł", r) {
				return false
			}
		}
	}
	if digits == 0 || digits > 12 {
		return false
	}
	return strings.ContainsAny(s, ".,") || digits <= 6
}
