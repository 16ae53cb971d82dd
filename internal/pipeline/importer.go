package pipeline

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/dvloznov/statement-ingest/internal/domain"
	"github.com/dvloznov/statement-ingest/internal/logger"
	"github.com/dvloznov/statement-ingest/internal/merchant"
	"github.com/dvloznov/statement-ingest/internal/metrics"
	"github.com/google/uuid"
)

// Options tunes an Importer. Zero values select the package defaults.
type Options struct {
	MaxUploadBytes   int64
	BatchSize        int
	Concurrency      int
	ProgressInterval time.Duration
	Aliases          *merchant.AliasTable
	SkipLabels       SkipLabels
}

// Importer runs statement uploads through the import pipeline.
// It is safe for concurrent use; callers must not import the same upload
// twice concurrently.
type Importer struct {
	store        ExpenseStore
	audit        AuditLogger
	extractor    *merchant.Extractor
	orchestrator *Orchestrator
	aggregator   *Aggregator
	maxBytes     int64
	interval     time.Duration
}

// NewImporter wires an importer. audit may be nil.
func NewImporter(categorizer Categorizer, store ExpenseStore, audit AuditLogger, opts Options) *Importer {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = MaxUploadBytes
	}
	if opts.Aliases == nil {
		opts.Aliases = merchant.DefaultAliases()
	}
	return &Importer{
		store:        store,
		audit:        audit,
		extractor:    merchant.NewExtractor(opts.Aliases),
		orchestrator: NewOrchestrator(categorizer, opts.BatchSize, opts.Concurrency),
		aggregator:   NewAggregator(opts.SkipLabels),
		maxBytes:     opts.MaxUploadBytes,
		interval:     opts.ProgressInterval,
	}
}

// Import parses, categorizes and persists one statement. A statement with no
// surviving transactions yields a Summary with Empty set, not an error. Every
// returned error is an *ImportError.
func (im *Importer) Import(ctx context.Context, up Upload, reporter Reporter) (summary *domain.Summary, err error) {
	if up.UploadID == "" {
		up.UploadID = uuid.NewString()
	}
	if up.Source == "" {
		up.Source = domain.SourceCSV
	}

	log := logger.FromContext(ctx).With().
		Str("upload_id", up.UploadID).
		Str("user_id", up.UserID).
		Str("file_name", up.FileName).
		Logger()
	ctx = logger.WithContext(ctx, log)

	state := &PipelineState{Upload: up, UploadID: up.UploadID}
	started := time.Now()

	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Str("panic", fmt.Sprint(r)).
				Str("stack", string(debug.Stack())).
				Msg("Import panicked")
			metrics.ObserveImport(state.bank(), string(KindUnknown), time.Since(started))
			summary = nil
			err = &ImportError{Kind: KindUnknown, Err: fmt.Errorf("Import: panic: %v", r)}
		}
	}()

	var progress Reporter
	if reporter != nil {
		progress = NewThrottledReporter(reporter, im.interval)
	}

	p := NewPipeline(
		&ValidateUploadStep{MaxBytes: im.maxBytes},
		&ParseStep{Extractor: im.extractor},
		&PartitionStep{},
		&CategorizeStep{Orchestrator: im.orchestrator, Reporter: progress},
		&PersistStep{Store: im.store, Aggregator: im.aggregator},
		&AuditStep{Audit: im.audit},
		&SummarizeStep{Aggregator: im.aggregator},
	)

	if err := p.Execute(ctx, state); err != nil {
		ie := classify(err)
		log.Error().Err(err).Str("kind", string(ie.Kind)).Bool("retryable", ie.Retryable()).Msg("Import failed")
		metrics.ObserveImport(state.bank(), string(ie.Kind), time.Since(started))
		return nil, ie
	}

	outcome := "ok"
	if state.Summary.Empty {
		outcome = "empty"
	}
	metrics.ObserveImport(state.bank(), outcome, time.Since(started))

	if progress != nil {
		if err := progress.Done(ctx, state.Summary); err != nil {
			log.Warn().Err(err).Msg("Result report failed")
		}
	}

	return state.Summary, nil
}
