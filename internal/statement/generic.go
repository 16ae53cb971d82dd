package statement

import (
	"strings"

	"github.com/dvloznov/statement-ingest/internal/domain"
	"github.com/shopspring/decimal"
)

type genericDialect struct{ base }

// NewGeneric returns the fallback dialect. It guesses the separator from the
// first data line and, per line, takes the first date-shaped field as the
// date, the first nonzero amount-shaped field as the amount and the longest
// remaining text field as the merchant. Amounts carrying a sign or decimal
// separator are preferred over bare integers. Amounts are treated as magnitudes.
func NewGeneric(opts Options) Dialect {
	return &genericDialect{base: newBase(domain.BankUnknown, opts)}
}

// Detect always matches; the registry consults it last.
func (d *genericDialect) Detect(string) bool { return true }

func (d *genericDialect) Parse(content string) *domain.ParseResult {
	res := d.newResult()
	lines := splitLines(content)

	first := -1
	for i, l := range lines {
		if strings.TrimSpace(l) != "" {
			first = i
			break
		}
	}
	if first < 0 {
		return res
	}

	sep := guessSeparator(lines[first])
	start := first
	if !hasDateField(SplitLine(lines[first], sep)) {
		// header row
		start = first + 1
		for i := start; i < len(lines); i++ {
			if strings.TrimSpace(lines[i]) != "" {
				sep = guessSeparator(lines[i])
				break
			}
		}
	}

	eachLine(res, lines, start, func(lineNo int, line string) error {
		fields := SplitLine(line, sep)

		var (
			date     string
			amount   decimal.Decimal
			bare     decimal.Decimal
			merchant string
		)
		for _, f := range fields {
			switch {
			case date == "" && isDateShaped(f):
				date = f
			case looksLikeAmount(f):
				// account and reference numbers are bare integers, so a
				// field with a sign or decimal separator wins
				v := ParseAmount(f)
				if hasAmountMarker(f) {
					if amount.IsZero() {
						amount = v
					}
				} else if bare.IsZero() {
					bare = v
				}
			case !isDateShaped(f) && len(f) > len(merchant):
				merchant = f
			}
		}
		if amount.IsZero() {
			amount = bare
		}

		return d.accept(res, row{
			line:        lineNo,
			raw:         line,
			date:        date,
			amount:      amount,
			merchant:    merchant,
			description: merchant,
			unsigned:    true,
		})
	})

	return res
}

func guessSeparator(line string) rune {
	if strings.ContainsRune(line, ';') {
		return ';'
	}
	return ','
}

func hasAmountMarker(s string) bool {
	return strings.ContainsAny(s, ".,+-")
}

func hasDateField(fields []string) bool {
	for _, f := range fields {
		if isDateShaped(f) {
			return true
		}
	}
	return false
}
