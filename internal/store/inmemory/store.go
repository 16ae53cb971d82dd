// Package inmemory is a transactional in-memory expense store used by tests
// and dry runs.
package inmemory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dvloznov/statement-ingest/internal/domain"
	"github.com/dvloznov/statement-ingest/internal/store"
	"github.com/google/uuid"
)

// Store keeps expenses and audit logs in memory. It is safe for concurrent
// use; each batch is applied under one lock, so it is all-or-nothing.
type Store struct {
	mu       sync.RWMutex
	expenses []domain.Expense
	hashes   map[string]int // content hash -> index into expenses
	audit    []domain.AuditLog

	// FailInsertAt makes the n-th insert (1-based) of the next batch fail
	// with FailErr. Zero disables injection.
	FailInsertAt int
	FailErr      error

	now func() time.Time
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{hashes: make(map[string]int), now: time.Now}
}

func (s *Store) CreateExpensesBatch(ctx context.Context, inputs []domain.ExpenseInput) (*domain.BatchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	failAt, failErr := s.FailInsertAt, s.FailErr
	s.FailInsertAt = 0

	result := &domain.BatchResult{}
	seen := make(map[string]bool, len(inputs))
	inserted := 0

	for _, in := range inputs {
		if err := ctx.Err(); err != nil {
			return nil, store.Wrap("CreateExpensesBatch", err)
		}

		h := in.Hash()
		if _, ok := s.hashes[h]; ok || seen[h] {
			result.Duplicates = append(result.Duplicates, h)
			continue
		}
		seen[h] = true

		inserted++
		if failAt > 0 && inserted == failAt {
			err := failErr
			if err == nil {
				err = fmt.Errorf("injected insert failure")
			}
			return nil, store.Wrap("CreateExpensesBatch: inserting expense", err)
		}
		if !in.Amount.IsPositive() {
			return nil, store.Wrap("CreateExpensesBatch: inserting expense", fmt.Errorf("amount must be positive, got %s", in.Amount))
		}

		result.Created = append(result.Created, domain.Expense{
			ID:          uuid.NewString(),
			Amount:      in.Amount,
			Category:    in.Category,
			Shop:        in.Shop,
			UserID:      in.UserID,
			Source:      in.Source,
			Date:        in.Date,
			RawInput:    in.RawInput,
			ContentHash: h,
			Status:      domain.ExpenseActive,
			CreatedAt:   s.now(),
		})
	}

	// commit
	for _, e := range result.Created {
		s.hashes[e.ContentHash] = len(s.expenses)
		s.expenses = append(s.expenses, e)
	}
	return result, nil
}

func (s *Store) CreateAuditLog(ctx context.Context, entry domain.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.now()
	}
	s.audit = append(s.audit, entry)
	return nil
}

// MarkDeleted soft-deletes an expense. Its hash stays reserved.
func (s *Store) MarkDeleted(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.expenses {
		if s.expenses[i].ID == id {
			s.expenses[i].Status = domain.ExpenseDeleted
			return true
		}
	}
	return false
}

// Expenses returns a copy of every stored expense, including deleted ones.
func (s *Store) Expenses() []domain.Expense {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Expense(nil), s.expenses...)
}

// ActiveCount returns the number of active expenses.
func (s *Store) ActiveCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, e := range s.expenses {
		if e.Status == domain.ExpenseActive {
			n++
		}
	}
	return n
}

// AuditLogs returns a copy of the audit log.
func (s *Store) AuditLogs() []domain.AuditLog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.AuditLog(nil), s.audit...)
}
