package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/dvloznov/statement-ingest/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartitionStep_Completeness(t *testing.T) {
	parsed := &domain.ParseResult{
		Transactions: []domain.Transaction{
			{Merchant: "Żabka", Amount: dec("15.5"), Date: "2024-01-15", Description: "ŻABKA"},
			{Merchant: "Xtb.Com", Amount: dec("500"), Date: "2024-01-16", ForcedCategory: domain.CategoryInvestments},
			{Merchant: "Ztm", Amount: dec("4.4"), Date: "2024-01-17", Description: "Bilet jednorazowy", ForcedCategory: domain.CategoryTransport},
			{Merchant: "Lidl", Amount: dec("20"), Date: "2024-01-18"},
		},
	}
	parsed.Skipped.Add(domain.SkipBankFee)

	state := &PipelineState{Parsed: parsed, Upload: Upload{Source: domain.SourceCSV}}
	require.NoError(t, (&PartitionStep{}).Execute(context.Background(), state))

	assert.Len(t, state.Forced, 2)
	assert.Len(t, state.Deferred, 2)
	assert.Equal(t, len(parsed.Transactions), len(state.Forced)+len(state.Deferred))

	for _, f := range state.Forced {
		assert.Equal(t, ForcedConfidence, f.Confidence)
	}
	assert.Equal(t, "Żabka", state.Deferred[0].Text)
	assert.Equal(t, 3, state.Deferred[1].Idx)
	assert.Equal(t, domain.SourceCSV, state.Deferred[1].Source)
}

func TestBatchText(t *testing.T) {
	assert.Equal(t, "Lidl", batchText(domain.Transaction{Merchant: "Lidl"}))
	assert.Equal(t, "Lidl", batchText(domain.Transaction{Merchant: "Lidl", Description: "LIDL"}))
	assert.Equal(t, "Ztm | Bilet", batchText(domain.Transaction{Merchant: "Ztm", Description: "Bilet"}))
}

type failingStep struct{ err error }

func (s failingStep) Execute(ctx context.Context, state *PipelineState) error { return s.err }

type countingStep struct{ n *int }

func (s countingStep) Execute(ctx context.Context, state *PipelineState) error {
	*s.n++
	return nil
}

func TestPipeline_StopsAtFirstError(t *testing.T) {
	ran := 0
	boom := errors.New("boom")
	p := NewPipeline(countingStep{&ran}, failingStep{boom}, countingStep{&ran})

	err := p.Execute(context.Background(), &PipelineState{})
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "pipeline step 2 failed")
	assert.Equal(t, 1, ran)
}

type retryableErr struct{ transient bool }

func (e retryableErr) Error() string   { return fmt.Sprintf("db error transient=%v", e.transient) }
func (e retryableErr) Retryable() bool { return e.transient }

func TestClassify(t *testing.T) {
	assert.Equal(t, KindTooLarge, classify(fmt.Errorf("x: %w", ErrTooLarge)).Kind)
	assert.Equal(t, KindPersistenceRetryable, classify(fmt.Errorf("x: %w", retryableErr{true})).Kind)
	assert.Equal(t, KindPersistencePermanent, classify(fmt.Errorf("x: %w", retryableErr{false})).Kind)
	assert.Equal(t, KindUnknown, classify(errors.New("x")).Kind)

	ie := &ImportError{Kind: KindTooLarge, Err: ErrTooLarge}
	assert.Same(t, ie, classify(fmt.Errorf("wrapped: %w", ie)))
}
