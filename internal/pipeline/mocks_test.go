package pipeline_test

import (
	"context"
	"sync"

	"github.com/dvloznov/statement-ingest/internal/domain"
)

// MockCategorizer is a mock implementation of Categorizer for testing.
type MockCategorizer struct {
	CategorizeBatchFunc func(ctx context.Context, items []domain.BatchItem) ([]domain.CategorizedItem, error)

	mu    sync.Mutex
	seen  []int
	calls int
}

func (m *MockCategorizer) CategorizeBatch(ctx context.Context, items []domain.BatchItem) ([]domain.CategorizedItem, error) {
	m.mu.Lock()
	m.calls++
	for _, it := range items {
		m.seen = append(m.seen, it.Idx)
	}
	m.mu.Unlock()

	if m.CategorizeBatchFunc != nil {
		return m.CategorizeBatchFunc(ctx, items)
	}
	out := make([]domain.CategorizedItem, len(items))
	for i, it := range items {
		out[i] = domain.CategorizedItem{Idx: it.Idx, Category: domain.CategoryFood, Confidence: 0.9}
	}
	return out, nil
}

func (m *MockCategorizer) Seen() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int(nil), m.seen...)
}

func (m *MockCategorizer) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// MockExpenseStore is a mock implementation of ExpenseStore for testing.
type MockExpenseStore struct {
	CreateExpensesBatchFunc func(ctx context.Context, inputs []domain.ExpenseInput) (*domain.BatchResult, error)
}

func (m *MockExpenseStore) CreateExpensesBatch(ctx context.Context, inputs []domain.ExpenseInput) (*domain.BatchResult, error) {
	return m.CreateExpensesBatchFunc(ctx, inputs)
}

// MockReporter records reporter calls.
type MockReporter struct {
	mu       sync.Mutex
	progress []int
	done     []*domain.Summary
}

func (m *MockReporter) Progress(ctx context.Context, processed, total int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.progress = append(m.progress, processed)
	return nil
}

func (m *MockReporter) Done(ctx context.Context, s *domain.Summary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.done = append(m.done, s)
	return nil
}
