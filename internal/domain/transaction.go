package domain

import (
	"github.com/shopspring/decimal"
)

// Bank identifies the statement dialect a file was parsed with.
type Bank string

const (
	BankMBank   Bank = "mbank"
	BankPKO     Bank = "pko"
	BankRevolut Bank = "revolut"
	BankZen     Bank = "zen"
	BankUnknown Bank = "unknown"
)

// Transaction is one normalized expense line produced by a dialect parser.
// Amount is always a positive magnitude and Date is always YYYY-MM-DD;
// parsers never emit a Transaction that violates either.
type Transaction struct {
	Date           string          // YYYY-MM-DD
	Merchant       string          // display name after alias resolution
	Amount         decimal.Decimal // > 0
	Description    string
	RawLine        string
	ForcedCategory Category // empty when the transaction defers to categorization
}

// IsForced reports whether a deterministic rule already assigned a category.
func (t Transaction) IsForced() bool {
	return t.ForcedCategory != ""
}

// LineError describes a single line that failed to parse.
type LineError struct {
	Line    int    `json:"line"` // 1-based
	Message string `json:"message"`
}

// Skipped aggregates transactions that were deliberately excluded.
type Skipped struct {
	Count   int                `json:"count"`
	Reasons map[SkipReason]int `json:"reasons"`
}

// Add records one skipped transaction under reason.
func (s *Skipped) Add(reason SkipReason) {
	if s.Reasons == nil {
		s.Reasons = make(map[SkipReason]int)
	}
	s.Reasons[reason]++
	s.Count++
}

// ParseResult is the output of a dialect parser for a whole file.
type ParseResult struct {
	Bank         Bank
	Transactions []Transaction
	Errors       []LineError
	Skipped      Skipped
}

// AddError records a line-level failure; line is 1-based.
func (r *ParseResult) AddError(line int, msg string) {
	r.Errors = append(r.Errors, LineError{Line: line, Message: msg})
}
