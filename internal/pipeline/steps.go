package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/dvloznov/statement-ingest/internal/domain"
	"github.com/dvloznov/statement-ingest/internal/logger"
	"github.com/dvloznov/statement-ingest/internal/merchant"
	"github.com/dvloznov/statement-ingest/internal/metrics"
	"github.com/dvloznov/statement-ingest/internal/rules"
	"github.com/dvloznov/statement-ingest/internal/statement"
)

// PipelineStep represents a single step in the import pipeline.
type PipelineStep interface {
	Execute(ctx context.Context, state *PipelineState) error
}

// Step 1: ValidateUploadStep rejects oversized files before anything is parsed.
type ValidateUploadStep struct {
	MaxBytes int64
}

func (s *ValidateUploadStep) Execute(ctx context.Context, state *PipelineState) error {
	if state.Upload.Size > s.MaxBytes || int64(len(state.Upload.Content)) > s.MaxBytes {
		return fmt.Errorf("ValidateUploadStep: %d bytes: %w", max(state.Upload.Size, int64(len(state.Upload.Content))), ErrTooLarge)
	}
	text, err := statement.Decode(state.Upload.Content)
	if err != nil {
		return fmt.Errorf("ValidateUploadStep: decoding content: %w", err)
	}
	state.Text = text
	return nil
}

// Step 2: ParseStep detects the dialect and parses the statement.
type ParseStep struct {
	Extractor *merchant.Extractor
}

func (s *ParseStep) Execute(ctx context.Context, state *PipelineState) error {
	log := logger.FromContext(ctx)

	registry := statement.NewRegistry(statement.Options{
		Extractor:  s.Extractor,
		Classifier: rules.NewClassifier(state.Upload.OwnerName),
	})
	res := registry.Parse(state.Text)
	state.Parsed = res

	for _, le := range res.Errors {
		log.Warn().Str("upload_id", state.UploadID).Int("line", le.Line).Str("error", le.Message).Msg("Skipping malformed line")
	}
	log.Info().
		Str("upload_id", state.UploadID).
		Str("bank", string(res.Bank)).
		Int("transactions", len(res.Transactions)).
		Int("skipped", res.Skipped.Count).
		Int("line_errors", len(res.Errors)).
		Msg("Statement parsed")

	metrics.AddTransactions(string(res.Bank), "skipped", res.Skipped.Count)
	metrics.AddTransactions(string(res.Bank), "line_error", len(res.Errors))
	return nil
}

// Step 3: PartitionStep splits transactions into forced and deferred sets.
type PartitionStep struct{}

func (s *PartitionStep) Execute(ctx context.Context, state *PipelineState) error {
	source := state.Upload.Source
	for i, tx := range state.Parsed.Transactions {
		if tx.IsForced() {
			state.Forced = append(state.Forced, domain.CategorizedItem{
				Idx:        i,
				Shop:       tx.Merchant,
				Category:   tx.ForcedCategory,
				Amount:     tx.Amount,
				Confidence: ForcedConfidence,
			})
			continue
		}
		state.Deferred = append(state.Deferred, domain.BatchItem{
			Idx:    i,
			Text:   batchText(tx),
			Date:   tx.Date,
			Source: source,
		})
	}
	return nil
}

func batchText(tx domain.Transaction) string {
	desc := strings.TrimSpace(tx.Description)
	if desc == "" || strings.EqualFold(desc, tx.Merchant) {
		return tx.Merchant
	}
	return tx.Merchant + " | " + desc
}

// Step 4: CategorizeStep sends deferred transactions to the categorizer.
type CategorizeStep struct {
	Orchestrator *Orchestrator
	Reporter     Reporter
}

func (s *CategorizeStep) Execute(ctx context.Context, state *PipelineState) error {
	state.Categorized = append(state.Categorized, state.Forced...)
	if len(state.Deferred) == 0 {
		return nil
	}

	log := logger.FromContext(ctx)
	txs := state.Parsed.Transactions
	total := len(state.Deferred)

	fallback := func(idx int) domain.CategorizedItem {
		tx := txs[idx]
		return domain.CategorizedItem{
			Idx:        idx,
			Shop:       tx.Merchant,
			Category:   domain.CategoryOther,
			Amount:     tx.Amount,
			Confidence: FallbackConfidence,
		}
	}
	progress := func(processed int) {
		if s.Reporter == nil {
			return
		}
		if err := s.Reporter.Progress(ctx, processed, total); err != nil {
			log.Warn().Err(err).Str("upload_id", state.UploadID).Msg("Progress report failed")
		}
	}

	ai := s.Orchestrator.Categorize(ctx, state.Deferred, fallback, progress)
	state.Categorized = append(state.Categorized, ai...)
	return nil
}

// Step 5: PersistStep merges categorized items and stores them.
type PersistStep struct {
	Store      ExpenseStore
	Aggregator *Aggregator
}

func (s *PersistStep) Execute(ctx context.Context, state *PipelineState) error {
	state.Merged = s.Aggregator.Merge(state.Parsed.Transactions, state.Categorized)
	if len(state.Merged) == 0 {
		state.Result = &domain.BatchResult{}
		return nil
	}

	inputs := s.Aggregator.ExpenseInputs(state.Merged, state.Upload.UserID, state.Upload.Source)
	res, err := s.Store.CreateExpensesBatch(ctx, inputs)
	if err != nil {
		log := logger.FromContext(ctx)
		log.Error().Err(err).Str("upload_id", state.UploadID).Int("inputs", len(inputs)).Msg("Persisting expenses failed")
		return fmt.Errorf("PersistStep: creating expenses: %w", err)
	}
	state.Result = res

	metrics.AddTransactions(state.bank(), "created", len(res.Created))
	metrics.AddTransactions(state.bank(), "duplicate", len(res.Duplicates))
	return nil
}

// Step 6: AuditStep records the import in the audit log. A failure here is
// logged only: the expenses are already committed.
type AuditStep struct {
	Audit AuditLogger
}

func (s *AuditStep) Execute(ctx context.Context, state *PipelineState) error {
	if s.Audit == nil {
		return nil
	}
	entry := domain.AuditLog{
		Action: domain.AuditActionCSVImport,
		Details: map[string]any{
			"bank":               state.bank(),
			"total_transactions": len(state.Parsed.Transactions),
			"created":            len(state.Result.Created),
			"duplicates":         len(state.Result.Duplicates),
			"skipped":            state.Parsed.Skipped.Count,
			"file_name":          state.Upload.FileName,
		},
		UserID:    state.Upload.UserID,
		SubjectID: state.UploadID,
	}
	if err := s.Audit.CreateAuditLog(ctx, entry); err != nil {
		log := logger.FromContext(ctx)
		log.Warn().Err(err).Str("upload_id", state.UploadID).Msg("Writing audit log failed")
	}
	return nil
}

// Step 7: SummarizeStep builds the user-facing summary.
type SummarizeStep struct {
	Aggregator *Aggregator
}

func (s *SummarizeStep) Execute(ctx context.Context, state *PipelineState) error {
	p := state.Parsed
	state.Summary = &domain.Summary{
		UploadID:          state.UploadID,
		Bank:              p.Bank,
		FileName:          state.Upload.FileName,
		CreatedCount:      len(state.Result.Created),
		DuplicateCount:    len(state.Result.Duplicates),
		TotalCount:        len(p.Transactions),
		SkippedCount:      p.Skipped.Count,
		CategoryBreakdown: s.Aggregator.CategoryBreakdown(state.Merged),
		ShopBreakdown:     s.Aggregator.ShopBreakdown(state.Merged),
		SkippedInfoText:   s.Aggregator.SkippedText(p.Skipped),
		LineErrors:        p.Errors,
		Empty:             len(p.Transactions) == 0,
	}
	return nil
}

// Pipeline executes a sequence of steps in order.
type Pipeline struct {
	steps []PipelineStep
}

// NewPipeline creates a new pipeline with the given steps.
func NewPipeline(steps ...PipelineStep) *Pipeline {
	return &Pipeline{steps: steps}
}

// Execute runs all steps in the pipeline sequentially.
func (p *Pipeline) Execute(ctx context.Context, state *PipelineState) error {
	for i, step := range p.steps {
		if err := step.Execute(ctx, state); err != nil {
			return fmt.Errorf("pipeline step %d failed: %w", i+1, err)
		}
	}
	return nil
}
