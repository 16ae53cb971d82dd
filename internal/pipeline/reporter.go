package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/dvloznov/statement-ingest/internal/domain"
	"github.com/dvloznov/statement-ingest/internal/logger"
)

// ThrottledReporter forwards at most one Progress call per interval. Done is
// always forwarded.
type ThrottledReporter struct {
	next     Reporter
	interval time.Duration
	now      func() time.Time

	mu   sync.Mutex
	last time.Time
}

// NewThrottledReporter wraps next. A non-positive interval uses
// DefaultProgressInterval.
func NewThrottledReporter(next Reporter, interval time.Duration) *ThrottledReporter {
	if interval <= 0 {
		interval = DefaultProgressInterval
	}
	return &ThrottledReporter{next: next, interval: interval, now: time.Now}
}

func (t *ThrottledReporter) Progress(ctx context.Context, processed, total int) error {
	t.mu.Lock()
	now := t.now()
	if !t.last.IsZero() && now.Sub(t.last) < t.interval {
		t.mu.Unlock()
		return nil
	}
	t.last = now
	t.mu.Unlock()

	return t.next.Progress(ctx, processed, total)
}

func (t *ThrottledReporter) Done(ctx context.Context, summary *domain.Summary) error {
	return t.next.Done(ctx, summary)
}

// LogReporter writes progress and results to the context logger.
type LogReporter struct{}

func (LogReporter) Progress(ctx context.Context, processed, total int) error {
	log := logger.FromContext(ctx)
	log.Info().Int("processed", processed).Int("total", total).Msg("Categorization progress")
	return nil
}

func (LogReporter) Done(ctx context.Context, s *domain.Summary) error {
	log := logger.FromContext(ctx)
	log.Info().
		Str("upload_id", s.UploadID).
		Str("bank", string(s.Bank)).
		Int("created", s.CreatedCount).
		Int("duplicates", s.DuplicateCount).
		Int("skipped", s.SkippedCount).
		Bool("empty", s.Empty).
		Msg("Import finished")
	return nil
}

// MultiReporter fans calls out to several reporters. The first error is
// returned after every reporter has been called.
type MultiReporter []Reporter

func (m MultiReporter) Progress(ctx context.Context, processed, total int) error {
	var first error
	for _, r := range m {
		if err := r.Progress(ctx, processed, total); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (m MultiReporter) Done(ctx context.Context, s *domain.Summary) error {
	var first error
	for _, r := range m {
		if err := r.Done(ctx, s); err != nil && first == nil {
			first = err
		}
	}
	return first
}
