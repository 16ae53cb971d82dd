package statement

import (
	"fmt"
	"strings"

	"github.com/dvloznov/statement-ingest/internal/domain"
	"github.com/dvloznov/statement-ingest/internal/rules"
)

const (
	pkoSeparator = ','
	pkoMinFields = 4
)

// PKO BP columns; free-text detail columns follow "Opis transakcji".
const (
	pkoOpDate = iota
	pkoValueDate
	pkoType
	pkoAmount
	pkoCurrency
	pkoBalance
	pkoDescription
)

// Prefixes PKO puts in front of the detail columns.
const (
	pkoTitlePrefix     = "tytuł:"
	pkoRecipientPrefix = "nazwa odbiorcy:"
	pkoAddressPrefix   = "lokalizacja: adres:"
	pkoCityMarker      = " miasto:"
)

type pkoDialect struct{ base }

// NewPKO returns the PKO BP dialect: a quoted comma-separated export with a
// single header row.
func NewPKO(opts Options) Dialect {
	return &pkoDialect{base: newBase(domain.BankPKO, opts)}
}

func (d *pkoDialect) Detect(content string) bool {
	header := strings.ToLower(firstLine(content))
	return strings.Contains(header, "typ transakcji") && strings.Contains(header, "opis transakcji")
}

func (d *pkoDialect) Parse(content string) *domain.ParseResult {
	res := d.newResult()
	lines := splitLines(content)

	start := 0
	for i, l := range lines {
		if strings.TrimSpace(l) != "" {
			start = i + 1
			break
		}
	}

	eachLine(res, lines, start, func(lineNo int, line string) error {
		fields := SplitLine(line, pkoSeparator)
		if len(fields) < pkoMinFields {
			return fmt.Errorf("expected at least %d fields, got %d", pkoMinFields, len(fields))
		}

		details := pkoDetails(fields)
		return d.accept(res, row{
			line:        lineNo,
			raw:         line,
			date:        field(fields, pkoOpDate),
			amount:      ParseAmount(field(fields, pkoAmount)),
			merchant:    details.merchant(),
			description: details.text,
			rules: &rules.Context{
				TransactionType: field(fields, pkoType),
				Recipient:       details.recipientOrAddress(),
				Description:     details.text,
			},
		})
	})

	return res
}

type pkoDetail struct {
	title     string
	recipient string
	address   string
	plain     string
	text      string
}

func pkoDetails(fields []string) pkoDetail {
	var d pkoDetail
	var parts []string
	for i := pkoDescription; i < len(fields); i++ {
		f := strings.TrimSpace(fields[i])
		if f == "" {
			continue
		}
		parts = append(parts, f)
		lower := strings.ToLower(f)
		switch {
		case strings.HasPrefix(lower, pkoTitlePrefix):
			d.title = strings.TrimSpace(f[len(pkoTitlePrefix):])
		case strings.HasPrefix(lower, pkoRecipientPrefix):
			d.recipient = strings.TrimSpace(f[len(pkoRecipientPrefix):])
		case strings.HasPrefix(lower, pkoAddressPrefix):
			addr := f[len(pkoAddressPrefix):]
			if j := strings.Index(strings.ToLower(addr), pkoCityMarker); j >= 0 {
				addr = addr[:j]
			}
			d.address = strings.TrimSpace(addr)
		case d.plain == "":
			d.plain = f
		}
	}
	d.text = strings.Join(parts, " ")
	return d
}

func (d pkoDetail) merchant() string {
	for _, s := range []string{d.address, d.recipient, d.title, d.plain} {
		if s != "" {
			return s
		}
	}
	return ""
}

func (d pkoDetail) recipientOrAddress() string {
	if d.recipient != "" {
		return d.recipient
	}
	return d.address
}
