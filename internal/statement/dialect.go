package statement

import (
	"fmt"
	"strings"

	"github.com/dvloznov/statement-ingest/internal/domain"
	"github.com/dvloznov/statement-ingest/internal/merchant"
	"github.com/dvloznov/statement-ingest/internal/rules"
	"github.com/shopspring/decimal"
)

// Dialect recognizes and parses one bank's CSV export.
type Dialect interface {
	Bank() domain.Bank
	// Detect reports whether content looks like this dialect's export.
	Detect(content string) bool
	// Parse never fails as a whole; per-line failures land in ParseResult.Errors.
	Parse(content string) *domain.ParseResult
}

// Options configures the shared parsing collaborators.
type Options struct {
	Extractor  *merchant.Extractor
	Classifier *rules.Classifier // nil disables rule classification
}

// row is a candidate transaction extracted from one line.
type row struct {
	line        int
	raw         string
	date        string
	amount      decimal.Decimal // signed; negative is a debit
	merchant    string
	description string
	// rules is set by dialects that run the classifier.
	rules *rules.Context
	// unsigned dialects report magnitudes only, so every row is a debit.
	unsigned bool
}

// base holds the logic every dialect shares once a line has been split into a row.
type base struct {
	bank       domain.Bank
	extractor  *merchant.Extractor
	classifier *rules.Classifier
}

func newBase(bank domain.Bank, opts Options) base {
	ex := opts.Extractor
	if ex == nil {
		ex = merchant.NewExtractor(merchant.DefaultAliases())
	}
	return base{bank: bank, extractor: ex, classifier: opts.Classifier}
}

func (b base) Bank() domain.Bank { return b.bank }

func (b base) newResult() *domain.ParseResult {
	return &domain.ParseResult{Bank: b.bank, Skipped: domain.Skipped{Reasons: map[domain.SkipReason]int{}}}
}

// accept applies date validation, classification and the debit filter, then
// appends the transaction. Rows without a date or amount are dropped silently.
func (b base) accept(res *domain.ParseResult, r row) error {
	if strings.TrimSpace(r.date) == "" || r.amount.IsZero() {
		return nil
	}
	date := NormalizeDate(r.date)
	if !IsCanonicalDate(date) {
		return fmt.Errorf("unrecognized date %q", r.date)
	}

	var forced domain.Category
	if r.rules != nil && b.classifier != nil {
		ctx := *r.rules
		ctx.Amount = r.amount.Abs()
		decision := b.classifier.Classify(ctx)
		if decision.Skip != "" {
			res.Skipped.Add(decision.Skip)
			return nil
		}
		forced = decision.Category
	}

	if !r.unsigned && r.amount.IsPositive() {
		return nil
	}

	res.Transactions = append(res.Transactions, domain.Transaction{
		Date:           date,
		Merchant:       b.extractor.Extract(r.merchant),
		Amount:         r.amount.Abs(),
		Description:    r.description,
		RawLine:        r.raw,
		ForcedCategory: forced,
	})
	return nil
}

// eachLine calls fn for every non-blank line from start onwards. A returned
// error or a panic inside fn is recorded against that line and parsing goes on.
func eachLine(res *domain.ParseResult, lines []string, start int, fn func(lineNo int, line string) error) {
	for i := start; i < len(lines); i++ {
		line := lines[i]
		if strings.TrimSpace(line) == "" {
			continue
		}
		if err := safeCall(i+1, line, fn); err != nil {
			res.AddError(i+1, err.Error())
		}
	}
}

func safeCall(lineNo int, line string, fn func(int, string) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn(lineNo, line)
}

// headerIndex maps lowercased header names to column positions.
func headerIndex(fields []string) map[string]int {
	idx := make(map[string]int, len(fields))
	for i, f := range fields {
		key := strings.ToLower(strings.TrimSpace(f))
		if _, ok := idx[key]; !ok {
			idx[key] = i
		}
	}
	return idx
}

// column returns the value of the first present header in names.
func column(fields []string, header map[string]int, names ...string) string {
	for _, n := range names {
		if i, ok := header[n]; ok {
			return field(fields, i)
		}
	}
	return ""
}

func firstLine(content string) string {
	for _, l := range splitLines(content) {
		if strings.TrimSpace(l) != "" {
			return l
		}
	}
	return ""
}
