package pipeline

import (
	"context"
	"fmt"

	"github.com/dvloznov/statement-ingest/internal/domain"
	"github.com/dvloznov/statement-ingest/internal/logger"
	"github.com/dvloznov/statement-ingest/internal/metrics"
	"golang.org/x/sync/errgroup"
)

// Orchestrator fans deferred transactions out to a Categorizer in fixed-size
// batches with bounded concurrency. A failed batch never fails the run.
type Orchestrator struct {
	categorizer Categorizer
	batchSize   int
	concurrency int
}

// NewOrchestrator returns an orchestrator. Non-positive sizes fall back to
// DefaultBatchSize and DefaultConcurrency.
func NewOrchestrator(c Categorizer, batchSize, concurrency int) *Orchestrator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Orchestrator{categorizer: c, batchSize: batchSize, concurrency: concurrency}
}

// Categorize returns one CategorizedItem per input item, in batch-dispatch
// order. fallback builds the item used when a batch fails or omits an idx.
// progress is called after each concurrency window with the cumulative count.
func (o *Orchestrator) Categorize(
	ctx context.Context,
	items []domain.BatchItem,
	fallback func(idx int) domain.CategorizedItem,
	progress func(processed int),
) []domain.CategorizedItem {
	log := logger.FromContext(ctx)

	batches := chunk(items, o.batchSize)
	results := make([][]domain.CategorizedItem, len(batches))
	processed := 0

	for start := 0; start < len(batches); start += o.concurrency {
		end := start + o.concurrency
		if end > len(batches) {
			end = len(batches)
		}

		var g errgroup.Group
		for i := start; i < end; i++ {
			i := i
			g.Go(func() error {
				got, err := o.callBatch(ctx, batches[i])
				if err != nil {
					log.Warn().Err(err).Int("batch", i).Int("size", len(batches[i])).Msg("Categorization batch failed, using fallback")
					metrics.CategorizeBatch("fallback")
					results[i] = fallbackAll(batches[i], fallback)
					return nil
				}
				metrics.CategorizeBatch("ok")
				results[i] = align(batches[i], got, fallback)
				return nil
			})
		}
		// failed batches become fallbacks inside Go, so no error reaches Wait
		g.Wait()

		for i := start; i < end; i++ {
			processed += len(batches[i])
		}
		if progress != nil {
			progress(processed)
		}
	}

	merged := make([]domain.CategorizedItem, 0, len(items))
	for _, r := range results {
		merged = append(merged, r...)
	}
	return merged
}

func (o *Orchestrator) callBatch(ctx context.Context, batch []domain.BatchItem) (items []domain.CategorizedItem, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("callBatch: categorizer panic: %v", r)
		}
	}()
	if o.categorizer == nil {
		return nil, fmt.Errorf("callBatch: no categorizer configured")
	}
	return o.categorizer.CategorizeBatch(ctx, batch)
}

// align orders the collaborator output like the request and fills gaps.
// Items for indexes that were not requested are dropped.
func align(batch []domain.BatchItem, got []domain.CategorizedItem, fallback func(int) domain.CategorizedItem) []domain.CategorizedItem {
	byIdx := make(map[int]domain.CategorizedItem, len(got))
	for _, it := range got {
		if _, seen := byIdx[it.Idx]; !seen {
			byIdx[it.Idx] = it
		}
	}
	out := make([]domain.CategorizedItem, len(batch))
	for i, b := range batch {
		it, ok := byIdx[b.Idx]
		if !ok {
			out[i] = fallback(b.Idx)
			continue
		}
		it.Category = domain.ParseCategory(string(it.Category))
		out[i] = it
	}
	return out
}

func fallbackAll(batch []domain.BatchItem, fallback func(int) domain.CategorizedItem) []domain.CategorizedItem {
	out := make([]domain.CategorizedItem, len(batch))
	for i, b := range batch {
		out[i] = fallback(b.Idx)
	}
	return out
}

func chunk(items []domain.BatchItem, size int) [][]domain.BatchItem {
	var batches [][]domain.BatchItem
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		batches = append(batches, items[start:end])
	}
	return batches
}
