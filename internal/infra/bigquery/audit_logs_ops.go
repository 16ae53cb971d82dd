package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"github.com/dvloznov/statement-ingest/internal/domain"
	"github.com/dvloznov/statement-ingest/internal/logger"
	"google.golang.org/api/iterator"
)

// DefaultListLimit caps ListAuditLogs when no limit is given.
const DefaultListLimit = 100

// AuditLogSink writes import audit entries to BigQuery. It satisfies the
// pipeline's AuditLogger and holds a shared client.
type AuditLogSink struct {
	client    *bigquery.Client
	projectID string
	datasetID string
}

// NewAuditLogSink creates a sink with its own BigQuery client.
func NewAuditLogSink(ctx context.Context, projectID, datasetID string) (*AuditLogSink, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("NewAuditLogSink: creating client: %w", err)
	}
	return NewAuditLogSinkWithClient(client, projectID, datasetID), nil
}

// NewAuditLogSinkWithClient creates a sink around an existing client.
func NewAuditLogSinkWithClient(client *bigquery.Client, projectID, datasetID string) *AuditLogSink {
	return &AuditLogSink{client: client, projectID: projectID, datasetID: datasetID}
}

// Close closes the BigQuery client connection.
func (s *AuditLogSink) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

func (s *AuditLogSink) table() string {
	return "`" + s.projectID + "." + s.datasetID + "." + auditLogsTable + "`"
}

// TableDDL returns the statement creating the audit log table.
func (s *AuditLogSink) TableDDL() string {
	return `
		CREATE TABLE IF NOT EXISTS ` + s.table() + ` (
			log_id      STRING NOT NULL,
			action      STRING NOT NULL,
			user_id     STRING,
			subject_id  STRING,
			details     JSON,
			created_ts  TIMESTAMP NOT NULL
		)
		PARTITION BY DATE(created_ts)
		CLUSTER BY user_id, action
	`
}

// EnsureTable creates the audit log table if it does not exist.
func (s *AuditLogSink) EnsureTable(ctx context.Context) error {
	job, err := s.client.Query(s.TableDDL()).Run(ctx)
	if err != nil {
		return fmt.Errorf("EnsureTable: running query: %w", err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("EnsureTable: waiting for job: %w", err)
	}
	if err := status.Err(); err != nil {
		return fmt.Errorf("EnsureTable: job error: %w", err)
	}
	return nil
}

// CreateAuditLog inserts one entry. Uses DML INSERT to avoid streaming buffer
// issues.
func (s *AuditLogSink) CreateAuditLog(ctx context.Context, entry domain.AuditLog) error {
	row, err := newAuditLogRow(entry)
	if err != nil {
		return fmt.Errorf("CreateAuditLog: %w", err)
	}

	q := s.client.Query(`
		INSERT INTO ` + s.table() + ` (
			log_id, action, user_id, subject_id, details, created_ts
		)
		VALUES (
			@log_id, @action, @user_id, @subject_id, @details, @created_ts
		)
	`)
	q.Parameters = []bigquery.QueryParameter{
		{Name: "log_id", Value: row.LogID},
		{Name: "action", Value: row.Action},
		{Name: "user_id", Value: row.UserID},
		{Name: "subject_id", Value: row.SubjectID},
		{Name: "details", Value: row.Details},
		{Name: "created_ts", Value: row.CreatedTS},
	}

	job, err := q.Run(ctx)
	if err != nil {
		return fmt.Errorf("CreateAuditLog: running insert query: %w", err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("CreateAuditLog: waiting for job: %w", err)
	}
	if err := status.Err(); err != nil {
		return fmt.Errorf("CreateAuditLog: job error: %w", err)
	}

	log := logger.FromContext(ctx)
	log.Debug().Str("log_id", row.LogID).Str("action", row.Action).Msg("Audit log written to BigQuery")
	return nil
}

// ListAuditLogs returns the newest entries, at most limit of them. An empty
// userID lists entries of every user.
func (s *AuditLogSink) ListAuditLogs(ctx context.Context, userID string, limit int) ([]domain.AuditLog, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	q := s.client.Query(`
		SELECT log_id, action, user_id, subject_id, details, created_ts
		FROM ` + s.table() + `
		WHERE @user_id = '' OR user_id = @user_id
		ORDER BY created_ts DESC
		LIMIT @limit
	`)
	q.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: userID},
		{Name: "limit", Value: limit},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListAuditLogs: reading query: %w", err)
	}

	var entries []domain.AuditLog
	for {
		var row AuditLogRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListAuditLogs: iterating: %w", err)
		}
		entry, err := row.toDomain()
		if err != nil {
			return nil, fmt.Errorf("ListAuditLogs: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
