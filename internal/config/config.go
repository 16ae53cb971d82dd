package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
)

// Audit sinks.
const (
	AuditSinkPostgres = "postgres"
	AuditSinkBigQuery = "bigquery"
)

// Categorizers.
const (
	CategorizerGemini = "gemini"
	CategorizerNone   = "none"
)

// Config is the process configuration read from the environment.
type Config struct {
	DatabaseURL string `env:"DATABASE_URL"`
	ServerPort  string `env:"SERVER_PORT" envDefault:"8080"`

	GCSBucket string `env:"GCS_BUCKET"`

	ProjectID       string `env:"GOOGLE_CLOUD_PROJECT"`
	BigQueryDataset string `env:"BIGQUERY_DATASET" envDefault:"finance"`
	AuditSink       string `env:"AUDIT_SINK" envDefault:"postgres"`

	Categorizer string `env:"CATEGORIZER" envDefault:"gemini"`
	GeminiModel string `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`

	NotionToken      string `env:"NOTION_TOKEN"`
	NotionDatabaseID string `env:"NOTION_DATABASE_ID"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	MaxUploadBytes        int64         `env:"MAX_UPLOAD_BYTES" envDefault:"5242880"`
	CategorizeBatchSize   int           `env:"CATEGORIZE_BATCH_SIZE" envDefault:"50"`
	CategorizeConcurrency int           `env:"CATEGORIZE_CONCURRENCY" envDefault:"3"`
	ProgressInterval      time.Duration `env:"PROGRESS_INTERVAL" envDefault:"30s"`
	JobWorkers            int           `env:"JOB_WORKERS" envDefault:"5"`
}

// Load reads Config from the process environment.
func Load() (*Config, error) {
	return load(env.Options{})
}

func load(opts env.Options) (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg, opts); err != nil {
		return nil, fmt.Errorf("config.Load: parsing environment: %w", err)
	}
	cfg.AuditSink = strings.ToLower(strings.TrimSpace(cfg.AuditSink))
	cfg.Categorizer = strings.ToLower(strings.TrimSpace(cfg.Categorizer))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges and cross-field requirements.
func (c *Config) Validate() error {
	switch c.AuditSink {
	case AuditSinkPostgres:
	case AuditSinkBigQuery:
		if c.ProjectID == "" {
			return fmt.Errorf("config: AUDIT_SINK=bigquery requires GOOGLE_CLOUD_PROJECT")
		}
	default:
		return fmt.Errorf("config: unknown AUDIT_SINK %q", c.AuditSink)
	}
	switch c.Categorizer {
	case CategorizerGemini, CategorizerNone:
	default:
		return fmt.Errorf("config: unknown CATEGORIZER %q", c.Categorizer)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("config: MAX_UPLOAD_BYTES must be positive")
	}
	if c.CategorizeBatchSize <= 0 || c.CategorizeConcurrency <= 0 || c.JobWorkers <= 0 {
		return fmt.Errorf("config: batch size, concurrency and job workers must be positive")
	}
	if (c.NotionToken == "") != (c.NotionDatabaseID == "") {
		return fmt.Errorf("config: NOTION_TOKEN and NOTION_DATABASE_ID must be set together")
	}
	return nil
}

// NotionEnabled reports whether imports are mirrored to Notion.
func (c *Config) NotionEnabled() bool {
	return c.NotionToken != "" && c.NotionDatabaseID != ""
}
