package statement

import (
	"fmt"
	"strings"

	"github.com/dvloznov/statement-ingest/internal/domain"
	"github.com/dvloznov/statement-ingest/internal/rules"
)

const (
	mbankSeparator = ';'
	mbankMarker    = "#data operacji"
	mbankMinFields = 7
)

// mbank columns after the "#Data operacji" header.
const (
	mbankOpDate = iota
	mbankBookDate
	mbankType
	mbankTitle
	mbankRecipient
	mbankAccount
	mbankAmount
	mbankBalance
)

type mbankDialect struct{ base }

// NewMBank returns the mBank dialect. The export carries a preamble with
// account metadata before the "#Data operacji" header line; files without the
// marker are parsed from the first line.
func NewMBank(opts Options) Dialect {
	return &mbankDialect{base: newBase(domain.BankMBank, opts)}
}

func (d *mbankDialect) Detect(content string) bool {
	lower := strings.ToLower(content)
	return strings.Contains(lower, mbankMarker) || strings.Contains(strings.ToLower(firstLine(content)), "mbank")
}

func (d *mbankDialect) Parse(content string) *domain.ParseResult {
	res := d.newResult()
	lines := splitLines(content)

	start := 0
	for i, l := range lines {
		if strings.HasPrefix(strings.ToLower(strings.TrimSpace(l)), mbankMarker) {
			start = i + 1
			break
		}
	}

	eachLine(res, lines, start, func(lineNo int, line string) error {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") {
			return nil
		}
		fields := SplitLine(line, mbankSeparator)
		if field(fields, mbankOpDate) == "" {
			// footer rows such as ";;#Saldo końcowe;..." have no date
			return nil
		}
		if len(fields) < mbankMinFields {
			return fmt.Errorf("expected at least %d fields, got %d", mbankMinFields, len(fields))
		}

		txType := field(fields, mbankType)
		title := field(fields, mbankTitle)
		recipient := field(fields, mbankRecipient)
		// card rows name the merchant in the title, transfers in the recipient
		merchantSource := title
		if recipient != "" && (merchantSource == "" || strings.Contains(strings.ToUpper(txType), "PRZELEW")) {
			merchantSource = recipient
		}

		return d.accept(res, row{
			line:        lineNo,
			raw:         line,
			date:        field(fields, mbankOpDate),
			amount:      ParseAmount(field(fields, mbankAmount)),
			merchant:    merchantSource,
			description: strings.TrimSpace(title + " " + recipient),
			rules: &rules.Context{
				TransactionType: txType,
				Recipient:       recipient,
				Description:     title,
			},
		})
	})

	return res
}
