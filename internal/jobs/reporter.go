package jobs

import (
	"context"

	"github.com/dvloznov/statement-ingest/internal/domain"
)

// StoreReporter mirrors pipeline progress into the job store so that status
// polls see it while the import runs.
type StoreReporter struct {
	store JobStore
	job   *ImportStatementJob
}

// NewStoreReporter returns a reporter updating job in store.
func NewStoreReporter(store JobStore, job *ImportStatementJob) *StoreReporter {
	return &StoreReporter{store: store, job: job}
}

func (r *StoreReporter) Progress(ctx context.Context, processed, total int) error {
	r.job.Processed = processed
	r.job.Total = total
	if r.store == nil {
		return nil
	}
	return r.store.UpdateProgress(ctx, r.job.JobID, processed, total)
}

func (r *StoreReporter) Done(ctx context.Context, summary *domain.Summary) error {
	r.job.Summary = summary
	if summary != nil {
		r.job.Total = summary.TotalCount
		r.job.Processed = summary.TotalCount
	}
	if r.store == nil {
		return nil
	}
	return r.store.SaveJob(ctx, r.job)
}
