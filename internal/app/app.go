// Package app builds the import stack from configuration for the binaries.
package app

import (
	"context"
	"fmt"

	"github.com/dvloznov/statement-ingest/internal/categorizer"
	"github.com/dvloznov/statement-ingest/internal/config"
	infraBQ "github.com/dvloznov/statement-ingest/internal/infra/bigquery"
	"github.com/dvloznov/statement-ingest/internal/jobs"
	"github.com/dvloznov/statement-ingest/internal/logger"
	"github.com/dvloznov/statement-ingest/internal/notionreport"
	"github.com/dvloznov/statement-ingest/internal/pipeline"
	"github.com/dvloznov/statement-ingest/internal/store"
	"github.com/dvloznov/statement-ingest/internal/store/inmemory"
)

// Stack is a wired importer plus the resources that must be released with it.
type Stack struct {
	Importer *pipeline.Importer
	closers  []func() error
}

// Close releases every resource in reverse order of acquisition.
func (s *Stack) Close() error {
	var first error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Options derives pipeline options from configuration.
func Options(cfg *config.Config) pipeline.Options {
	return pipeline.Options{
		MaxUploadBytes:   cfg.MaxUploadBytes,
		BatchSize:        cfg.CategorizeBatchSize,
		Concurrency:      cfg.CategorizeConcurrency,
		ProgressInterval: cfg.ProgressInterval,
	}
}

// NewCategorizer returns the configured categorization collaborator.
func NewCategorizer(ctx context.Context, cfg *config.Config) (pipeline.Categorizer, error) {
	switch cfg.Categorizer {
	case config.CategorizerNone:
		return categorizer.Unavailable{}, nil
	case config.CategorizerGemini:
		c, err := categorizer.NewGemini(ctx, cfg.GeminiModel)
		if err != nil {
			return nil, fmt.Errorf("NewCategorizer: %w", err)
		}
		return c, nil
	default:
		return nil, fmt.Errorf("NewCategorizer: unknown categorizer %q", cfg.Categorizer)
	}
}

// NewStack connects every collaborator named by cfg. With dryRun set the
// expenses and audit entries stay in memory and the database is not touched.
func NewStack(ctx context.Context, cfg *config.Config, dryRun bool) (*Stack, error) {
	log := logger.FromContext(ctx)
	stack := &Stack{}

	cat, err := NewCategorizer(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var (
		expenses pipeline.ExpenseStore
		audit    pipeline.AuditLogger
	)

	if dryRun {
		mem := inmemory.NewStore()
		expenses, audit = mem, mem
		log.Info().Msg("Dry run: expenses are kept in memory")
	} else {
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("NewStack: DATABASE_URL is required")
		}
		pg, err := store.NewStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("NewStack: %w", err)
		}
		stack.closers = append(stack.closers, func() error { pg.Close(); return nil })
		expenses, audit = pg, pg
	}

	if !dryRun && cfg.AuditSink == config.AuditSinkBigQuery {
		sink, err := infraBQ.NewAuditLogSink(ctx, cfg.ProjectID, cfg.BigQueryDataset)
		if err != nil {
			_ = stack.Close()
			return nil, fmt.Errorf("NewStack: %w", err)
		}
		stack.closers = append(stack.closers, sink.Close)
		audit = sink
		log.Info().Str("dataset", cfg.BigQueryDataset).Msg("Audit logs go to BigQuery")
	}

	stack.Importer = pipeline.NewImporter(cat, expenses, audit, Options(cfg))
	return stack, nil
}

// NotionReporters returns a job reporter factory mirroring imports into
// Notion, or nil when Notion is not configured.
func NotionReporters(cfg *config.Config) jobs.ReporterFactory {
	if !cfg.NotionEnabled() {
		return nil
	}
	client := notionreport.NewNotionClient(cfg.NotionToken)
	return func(job *jobs.ImportStatementJob) pipeline.Reporter {
		return notionreport.NewReporter(client, cfg.NotionDatabaseID, job.UploadID, job.FileName)
	}
}

