package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Source tags where an expense came from.
const (
	SourceCSV    = "csv"
	SourceManual = "manual"
)

// BatchItem is the categorization payload for one deferred transaction.
// Idx points back into ParseResult.Transactions.
type BatchItem struct {
	Idx    int    `json:"idx"`
	Text   string `json:"text"`
	Date   string `json:"date"`
	Source string `json:"source"`
}

// CategorizedItem is the categorization outcome for one transaction.
type CategorizedItem struct {
	Idx        int             `json:"idx"`
	Shop       string          `json:"shop"`
	Category   Category        `json:"category"`
	Amount     decimal.Decimal `json:"amount"`
	Confidence float64         `json:"confidence"`
}

// ExpenseStatus is the lifecycle state of a persisted expense.
type ExpenseStatus string

const (
	ExpenseActive  ExpenseStatus = "active"
	ExpenseDeleted ExpenseStatus = "deleted"
)

// ExpenseInput is one expense ready to be hashed and persisted.
type ExpenseInput struct {
	Amount   decimal.Decimal
	Category Category
	Shop     string
	UserID   string
	Source   string
	Date     string // YYYY-MM-DD
	RawInput string
}

// Expense is a persisted expense record.
type Expense struct {
	ID          string          `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Category    Category        `json:"category"`
	Shop        string          `json:"shop"`
	UserID      string          `json:"user_id"`
	Source      string          `json:"source"`
	Date        string          `json:"date"`
	RawInput    string          `json:"raw_input"`
	ContentHash string          `json:"content_hash"`
	Status      ExpenseStatus   `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
}

// BatchResult is returned by a batch persistence call.
type BatchResult struct {
	Created    []Expense
	Duplicates []string // content hashes that were already stored
}
