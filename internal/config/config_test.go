package config

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFrom(vars map[string]string) (*Config, error) {
	return load(env.Options{Environment: vars})
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := loadFrom(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "finance", cfg.BigQueryDataset)
	assert.Equal(t, AuditSinkPostgres, cfg.AuditSink)
	assert.Equal(t, CategorizerGemini, cfg.Categorizer)
	assert.Equal(t, "gemini-2.5-flash", cfg.GeminiModel)
	assert.Equal(t, int64(5<<20), cfg.MaxUploadBytes)
	assert.Equal(t, 50, cfg.CategorizeBatchSize)
	assert.Equal(t, 3, cfg.CategorizeConcurrency)
	assert.Equal(t, 30*time.Second, cfg.ProgressInterval)
	assert.Equal(t, 5, cfg.JobWorkers)
	assert.False(t, cfg.NotionEnabled())
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := loadFrom(map[string]string{
		"DATABASE_URL":         "postgres://localhost/finance",
		"AUDIT_SINK":           "BigQuery",
		"GOOGLE_CLOUD_PROJECT": "proj",
		"CATEGORIZER":          "none",
		"PROGRESS_INTERVAL":    "5s",
		"JOB_WORKERS":          "2",
		"NOTION_TOKEN":         "secret",
		"NOTION_DATABASE_ID":   "db",
	})
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost/finance", cfg.DatabaseURL)
	assert.Equal(t, AuditSinkBigQuery, cfg.AuditSink)
	assert.Equal(t, CategorizerNone, cfg.Categorizer)
	assert.Equal(t, 5*time.Second, cfg.ProgressInterval)
	assert.Equal(t, 2, cfg.JobWorkers)
	assert.True(t, cfg.NotionEnabled())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
	}{
		{"unknown sink", map[string]string{"AUDIT_SINK": "kafka"}},
		{"bigquery without project", map[string]string{"AUDIT_SINK": "bigquery"}},
		{"unknown categorizer", map[string]string{"CATEGORIZER": "openai"}},
		{"zero batch size", map[string]string{"CATEGORIZE_BATCH_SIZE": "0"}},
		{"negative upload cap", map[string]string{"MAX_UPLOAD_BYTES": "-1"}},
		{"notion token only", map[string]string{"NOTION_TOKEN": "secret"}},
		{"bad duration", map[string]string{"PROGRESS_INTERVAL": "soon"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadFrom(tt.vars)
			assert.Error(t, err)
		})
	}
}
