package jobs

import (
	"context"
	"errors"
	"fmt"

	"github.com/dvloznov/statement-ingest/internal/domain"
	"github.com/dvloznov/statement-ingest/internal/logger"
	"github.com/dvloznov/statement-ingest/internal/pipeline"
)

// Importer runs one upload through the import pipeline.
type Importer interface {
	Import(ctx context.Context, up pipeline.Upload, reporter pipeline.Reporter) (*domain.Summary, error)
}

// Fetcher reads an archived statement back from storage.
type Fetcher interface {
	FetchFromGCS(ctx context.Context, gcsURI string) ([]byte, error)
}

// ReporterFactory builds an additional per-job progress reporter. It may
// return nil to skip the job.
type ReporterFactory func(job *ImportStatementJob) pipeline.Reporter

// Processor handles import_statement jobs.
type Processor struct {
	importer  Importer
	fetcher   Fetcher
	store     JobStore
	factories []ReporterFactory
}

// NewProcessor wires a processor. fetcher may be nil when jobs always carry
// their content; reporters from factories receive progress alongside the
// job store.
func NewProcessor(importer Importer, fetcher Fetcher, store JobStore, factories ...ReporterFactory) *Processor {
	return &Processor{importer: importer, fetcher: fetcher, store: store, factories: factories}
}

// Handle implements JobHandler.
func (p *Processor) Handle(ctx context.Context, job Job) error {
	importJob, ok := job.(*ImportStatementJob)
	if !ok {
		return fmt.Errorf("unexpected job type: %T", job)
	}

	log := logger.FromContext(ctx).With().
		Str("job_id", importJob.JobID).
		Str("upload_id", importJob.UploadID).
		Logger()
	ctx = logger.WithContext(ctx, log)

	content, err := p.content(ctx, importJob)
	if err != nil {
		log.Error().Err(err).Str("gcs_uri", importJob.GCSURI).Msg("Fetching statement failed")
		importJob.Retryable = true
		return err
	}

	reporters := pipeline.MultiReporter{NewStoreReporter(p.store, importJob)}
	for _, f := range p.factories {
		if r := f(importJob); r != nil {
			reporters = append(reporters, r)
		}
	}

	log.Info().Str("file_name", importJob.FileName).Int("attempt", importJob.RetryCount+1).Msg("Processing import job")

	summary, err := p.importer.Import(ctx, pipeline.Upload{
		UploadID:  importJob.UploadID,
		UserID:    importJob.UserID,
		OwnerName: importJob.OwnerName,
		FileName:  importJob.FileName,
		Size:      int64(len(content)),
		Content:   content,
		Source:    domain.SourceCSV,
	}, reporters)
	if err != nil {
		var ie *pipeline.ImportError
		if errors.As(err, &ie) {
			importJob.ErrorKind = string(ie.Kind)
		}
		importJob.Retryable = IsRetryable(err)
		return err
	}

	importJob.Summary = summary
	importJob.Retryable = false
	importJob.ErrorKind = ""
	log.Info().Int("created", summary.CreatedCount).Int("duplicates", summary.DuplicateCount).Msg("Import job completed")
	return nil
}

func (p *Processor) content(ctx context.Context, job *ImportStatementJob) ([]byte, error) {
	if job.Content != nil {
		return job.Content, nil
	}
	if job.GCSURI == "" {
		return nil, fmt.Errorf("Processor.content: job %s has neither content nor archive URI", job.JobID)
	}
	if p.fetcher == nil {
		return nil, fmt.Errorf("Processor.content: no storage configured for %s", job.GCSURI)
	}
	data, err := p.fetcher.FetchFromGCS(ctx, job.GCSURI)
	if err != nil {
		return nil, fmt.Errorf("Processor.content: %w", err)
	}
	return data, nil
}
