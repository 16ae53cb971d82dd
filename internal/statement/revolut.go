package statement

import (
	"strings"

	"github.com/dvloznov/statement-ingest/internal/domain"
)

const revolutSeparator = ','

const revolutCompleted = "COMPLETED"

// Transaction types that represent spending. Top-ups, exchanges and refunds
// are not expenses.
var revolutExpenseTypes = map[string]bool{
	"CARD_PAYMENT": true,
	"TRANSFER":     true,
}

type revolutDialect struct{ base }

// NewRevolut returns the Revolut dialect. Revolut rows are not passed through
// the rule classifier: the export has no bank transaction type vocabulary the
// rules understand.
func NewRevolut(opts Options) Dialect {
	return &revolutDialect{base: newBase(domain.BankRevolut, opts)}
}

func (d *revolutDialect) Detect(content string) bool {
	header := strings.ToLower(firstLine(content))
	return strings.Contains(header, "started date") && strings.Contains(header, "completed date")
}

func (d *revolutDialect) Parse(content string) *domain.ParseResult {
	res := d.newResult()
	lines := splitLines(content)

	var header map[string]int
	start := len(lines)
	for i, l := range lines {
		if strings.TrimSpace(l) != "" {
			header = headerIndex(SplitLine(l, revolutSeparator))
			start = i + 1
			break
		}
	}

	eachLine(res, lines, start, func(lineNo int, line string) error {
		fields := SplitLine(line, revolutSeparator)
		if !strings.EqualFold(column(fields, header, "state"), revolutCompleted) {
			return nil
		}
		if !revolutExpenseTypes[strings.ToUpper(column(fields, header, "type"))] {
			return nil
		}

		amount := ParseAmount(column(fields, header, "amount"))
		if amount.IsNegative() {
			fee := ParseAmount(column(fields, header, "fee")).Abs()
			amount = amount.Sub(fee)
		}

		date := column(fields, header, "completed date")
		if date == "" {
			date = column(fields, header, "started date")
		}
		description := column(fields, header, "description")

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
