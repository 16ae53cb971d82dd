package statement

import (
	"strings"

	"github.com/dvloznov/statement-ingest/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	zenSeparator = ','
	zenSentinel  = "transactions:"
)

var (
	zenTopupMarkers  = []string{"top-up", "top up", "topup", "doładowanie", "doladowanie"}
	zenTopupMinimum  = decimal.NewFromInt(100)
	zenAmountColumns = []string{"settlement amount", "amount", "transaction amount"}
)

type zenDialect struct{ base }

// NewZen returns the ZEN dialect. Transactions follow a "Transactions:" line
// after an account summary block, and dates look like "1 Nov 2025". Card
// top-ups of 100 or more are reported as card_topup skips.
func NewZen(opts Options) Dialect {
	return &zenDialect{base: newBase(domain.BankZen, opts)}
}

func (d *zenDialect) Detect(content string) bool {
	_, _, ok := zenHeader(splitLines(content))
	return ok
}

// zenHeader finds the "Transactions:" line and the header that must follow
// it. It returns the header's column index and the first data line.
func zenHeader(lines []string) (map[string]int, int, bool) {
	for i, l := range lines {
		if !strings.EqualFold(strings.TrimSpace(strings.Trim(strings.TrimSpace(l), ",")), zenSentinel) {
			continue
		}
		for j := i + 1; j < len(lines); j++ {
			if strings.TrimSpace(lines[j]) == "" {
				continue
			}
			header := headerIndex(SplitLine(lines[j], zenSeparator))
			_, hasDate := header["date"]
			_, hasType := header["transaction type"]
			if hasDate && hasType {
				return header, j + 1, true
			}
			break
		}
	}
	return nil, 0, false
}

func (d *zenDialect) Parse(content string) *domain.ParseResult {
	res := d.newResult()
	lines := splitLines(content)

	header, start, ok := zenHeader(lines)
	if !ok {
		return res
	}

	eachLine(res, lines, start, func(lineNo int, line string) error {
		fields := SplitLine(line, zenSeparator)
		date := column(fields, header, "date")
		if !isDateShaped(date) {
			// trailing summary rows
			return nil
		}

		txType := column(fields, header, "transaction type", "type")
		description := column(fields, header, "description")
		amount := ParseAmount(column(fields, header, zenAmountColumns...))

		if isZenTopup(txType, description) && amount.Abs().GreaterThanOrEqual(zenTopupMinimum) {
			res.Skipped.Add(domain.SkipCardTopup)
			return nil
		}

		return d.accept(res, row{
			line:        lineNo,
			raw:         line,
			date:        date,
			amount:      amount,
			merchant:    description,
			description: description,
		})
	})

	return res
}

func isZenTopup(txType, description string) bool {
	s := strings.ToLower(txType + " " + description)
	for _, m := range zenTopupMarkers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
