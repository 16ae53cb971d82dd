package store

import (
	"context"
	"errors"
	"time"

	"github.com/dvloznov/statement-ingest/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const insertExpenseSQL = `
	INSERT INTO expenses (id, amount, category, shop, user_id, source, date, raw_input, content_hash, status)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 'active')
	ON CONFLICT (content_hash) DO NOTHING
	RETURNING created_at`

// CreateExpensesBatch stores inputs in one transaction. Inputs whose content
// hash already exists, in the table or earlier in the same batch, are
// reported as duplicates and not inserted. Any insert failure rolls back the
// whole batch.
func (s *Store) CreateExpensesBatch(ctx context.Context, inputs []domain.ExpenseInput) (*domain.BatchResult, error) {
	const op = "CreateExpensesBatch"
	result := &domain.BatchResult{}
	if len(inputs) == 0 {
		return result, nil
	}

	hashes := make([]string, len(inputs))
	for i, in := range inputs {
		hashes[i] = in.Hash()
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return nil, Wrap(op+": begin tx", err)
	}
	defer tx.Rollback(ctx)

	existing, err := existingHashes(ctx, tx, hashes)
	if err != nil {
		return nil, Wrap(op+": loading existing hashes", err)
	}

	batch := &pgx.Batch{}
	var pending []domain.Expense
	for i, in := range inputs {
		h := hashes[i]
		if existing[h] {
			result.Duplicates = append(result.Duplicates, h)
			continue
		}
		existing[h] = true

		e := domain.Expense{
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
		}
		batch.Queue(insertExpenseSQL, e.ID, e.Amount, string(e.Category), e.Shop, e.UserID, e.Source, e.Date, e.RawInput, e.ContentHash)
		pending = append(pending, e)
	}

	if len(pending) > 0 {
		br := tx.SendBatch(ctx, batch)
		for _, e := range pending {
			var createdAt time.Time
			err := br.QueryRow().Scan(&createdAt)
			if errors.Is(err, pgx.ErrNoRows) {
				// inserted by a concurrent transaction after the hash check
				result.Duplicates = append(result.Duplicates, e.ContentHash)
				continue
			}
			if err != nil {
				br.Close()
				return nil, Wrap(op+": inserting expense", err)
			}
			e.CreatedAt = createdAt
			result.Created = append(result.Created, e)
		}
		if err := br.Close(); err != nil {
			return nil, Wrap(op+": closing batch", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, Wrap(op+": commit", err)
	}
	return result, nil
}

// existingHashes returns the subset of hashes already stored, whatever the
// record status.
func existingHashes(ctx context.Context, tx pgx.Tx, hashes []string) (map[string]bool, error) {
	rows, err := tx.Query(ctx, "SELECT content_hash FROM expenses WHERE content_hash = ANY($1)", hashes)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	existing := make(map[string]bool, len(hashes))
	for rows.Next() {
		var h string
		if err := rows.Scan(&h); err != nil {
			return nil, err
		}
		existing[h] = true
	}
	return existing, rows.Err()
}
