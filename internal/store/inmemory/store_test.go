package inmemory

import (
	"context"
	"errors"
	"testing"

	"github.com/dvloznov/statement-ingest/internal/domain"
	"github.com/dvloznov/statement-ingest/internal/store"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func input(amount, shop, date string) domain.ExpenseInput {
	return domain.ExpenseInput{
		Amount:   decimal.RequireFromString(amount),
		Category: domain.CategoryFood,
		Shop:     shop,
		UserID:   "u1",
		Source:   domain.SourceCSV,
		Date:     date,
	}
}

func TestCreateExpensesBatch_DedupsAcrossAndWithinBatches(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	res, err := s.CreateExpensesBatch(ctx, []domain.ExpenseInput{
		input("10.00", "Lidl", "2024-01-01"),
		input("10.00", "lidl", "2024-01-01"),
		input("5.00", "Żabka", "2024-01-02"),
	})
	require.NoError(t, err)
	assert.Len(t, res.Created, 2)
	assert.Len(t, res.Duplicates, 1)

	res, err = s.CreateExpensesBatch(ctx, []domain.ExpenseInput{
		input("10.00", "Lidl", "2024-01-01"),
		input("7.00", "Orlen", "2024-01-03"),
	})
	require.NoError(t, err)
	assert.Len(t, res.Created, 1)
	assert.Len(t, res.Duplicates, 1)
	assert.Equal(t, 3, s.ActiveCount())
}

func TestCreateExpensesBatch_RollsBackOnFailure(t *testing.T) {
	s := NewStore()
	s.FailInsertAt = 2
	s.FailErr = &pgconn.PgError{Code: "08006"}

	_, err := s.CreateExpensesBatch(context.Background(), []domain.ExpenseInput{
		input("1.00", "A", "2024-01-01"),
		input("2.00", "B", "2024-01-01"),
		input("3.00", "C", "2024-01-01"),
	})
	require.Error(t, err)

	var pe *store.PersistenceError
	require.True(t, errors.As(err, &pe))
	assert.True(t, pe.Retryable())
	assert.Empty(t, s.Expenses())

	// injection is one-shot
	res, err := s.CreateExpensesBatch(context.Background(), []domain.ExpenseInput{input("1.00", "A", "2024-01-01")})
	require.NoError(t, err)
	assert.Len(t, res.Created, 1)
}

func TestMarkDeleted_KeepsHashReserved(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	res, err := s.CreateExpensesBatch(ctx, []domain.ExpenseInput{input("9.99", "Netflix", "2024-02-01")})
	require.NoError(t, err)
	require.True(t, s.MarkDeleted(res.Created[0].ID))
	assert.Zero(t, s.ActiveCount())

	res, err = s.CreateExpensesBatch(ctx, []domain.ExpenseInput{input("9.99", "Netflix", "2024-02-01")})
	require.NoError(t, err)
	assert.Empty(t, res.Created)
	assert.Len(t, res.Duplicates, 1)
}

func TestCreateAuditLog(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.CreateAuditLog(context.Background(), domain.AuditLog{Action: domain.AuditActionCSVImport, UserID: "u1"}))
	logs := s.AuditLogs()
	require.Len(t, logs, 1)
	assert.NotEmpty(t, logs[0].ID)
	assert.False(t, logs[0].CreatedAt.IsZero())
}
