package app

import (
	"context"
	"testing"
	"time"

	"github.com/dvloznov/statement-ingest/internal/categorizer"
	"github.com/dvloznov/statement-ingest/internal/config"
	"github.com/dvloznov/statement-ingest/internal/jobs"
	"github.com/dvloznov/statement-ingest/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		AuditSink:             config.AuditSinkPostgres,
		Categorizer:           config.CategorizerNone,
		MaxUploadBytes:        1 << 20,
		CategorizeBatchSize:   10,
		CategorizeConcurrency: 2,
		ProgressInterval:      time.Second,
		JobWorkers:            1,
	}
}

func TestOptions(t *testing.T) {
	opts := Options(testConfig())
	assert.Equal(t, int64(1<<20), opts.MaxUploadBytes)
	assert.Equal(t, 10, opts.BatchSize)
	assert.Equal(t, 2, opts.Concurrency)
	assert.Equal(t, time.Second, opts.ProgressInterval)
}

func TestNewCategorizer_None(t *testing.T) {
	c, err := NewCategorizer(context.Background(), testConfig())
	require.NoError(t, err)
	assert.IsType(t, categorizer.Unavailable{}, c)

	cfg := testConfig()
	cfg.Categorizer = "openai"
	_, err = NewCategorizer(context.Background(), cfg)
	assert.Error(t, err)
}

func TestNewStack_DryRun(t *testing.T) {
	stack, err := NewStack(context.Background(), testConfig(), true)
	require.NoError(t, err)
	defer stack.Close()

	content := []byte("mBank S.A. Bankowość Detaliczna;\n" +
		"#Data operacji;#Data księgowania;#Opis operacji;#Tytuł;#Nadawca/Odbiorca;#Numer konta;#Kwota;#Saldo po operacji;\n" +
		"2024-01-15;2024-01-15;ZAKUP PRZY UZYCIU KARTY;Lidl;Lidl;1;-20,00;980,00\n")
	summary, err := stack.Importer.Import(context.Background(), pipeline.Upload{
		UserID: "u1", FileName: "x.csv", Size: int64(len(content)), Content: content,
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.CreatedCount)
}

func TestNewStack_RequiresDatabase(t *testing.T) {
	_, err := NewStack(context.Background(), testConfig(), false)
	assert.ErrorContains(t, err, "DATABASE_URL")
}

func TestNotionReporters(t *testing.T) {
	cfg := testConfig()
	assert.Nil(t, NotionReporters(cfg))

	cfg.NotionToken, cfg.NotionDatabaseID = "secret", "db"
	factory := NotionReporters(cfg)
	require.NotNil(t, factory)
	assert.NotNil(t, factory(&jobs.ImportStatementJob{UploadID: "up1"}))
}
