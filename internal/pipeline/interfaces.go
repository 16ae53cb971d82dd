package pipeline

import (
	"context"

	"github.com/dvloznov/statement-ingest/internal/domain"
)

// Categorizer assigns categories to a batch of deferred transactions.
// A returned error fails the whole batch; the orchestrator then falls back
// for every item in it.
type Categorizer interface {
	CategorizeBatch(ctx context.Context, items []domain.BatchItem) ([]domain.CategorizedItem, error)
}

// ExpenseStore persists expenses with de-duplication by content hash.
// CreateExpensesBatch is all-or-nothing: on error nothing is written.
type ExpenseStore interface {
	CreateExpensesBatch(ctx context.Context, inputs []domain.ExpenseInput) (*domain.BatchResult, error)
}

// AuditLogger records one audit entry per completed import.
type AuditLogger interface {
	CreateAuditLog(ctx context.Context, entry domain.AuditLog) error
}

// Reporter receives progress and the final summary of an import.
// Both calls are best-effort; their errors are logged, never returned.
type Reporter interface {
	Progress(ctx context.Context, processed, total int) error
	Done(ctx context.Context, summary *domain.Summary) error
}

// retryable is implemented by persistence errors that know whether a retry
// can succeed.
type retryable interface {
	Retryable() bool
}
