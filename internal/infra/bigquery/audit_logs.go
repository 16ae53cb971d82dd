package bigquery

import (
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/dvloznov/statement-ingest/internal/domain"
	"github.com/google/uuid"
)

const auditLogsTable = "audit_logs"

// AuditLogRow mirrors one row of <dataset>.audit_logs.
type AuditLogRow struct {
	LogID     string              `bigquery:"log_id"`     // REQUIRED
	Action    string              `bigquery:"action"`     // REQUIRED
	UserID    string              `bigquery:"user_id"`    // REQUIRED
	SubjectID bigquery.NullString `bigquery:"subject_id"` // NULLABLE
	Details   bigquery.NullJSON   `bigquery:"details"`    // NULLABLE
	CreatedTS time.Time           `bigquery:"created_ts"` // REQUIRED
}

// newAuditLogRow fills in a missing id and timestamp and encodes details.
func newAuditLogRow(entry domain.AuditLog) (*AuditLogRow, error) {
	row := &AuditLogRow{
		LogID:     entry.ID,
		Action:    entry.Action,
		UserID:    entry.UserID,
		SubjectID: bigquery.NullString{StringVal: entry.SubjectID, Valid: entry.SubjectID != ""},
		CreatedTS: entry.CreatedAt.UTC(),
	}
	if row.LogID == "" {
		row.LogID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		row.CreatedTS = time.Now().UTC()
	}
	if len(entry.Details) > 0 {
		raw, err := json.Marshal(entry.Details)
		if err != nil {
			return nil, fmt.Errorf("newAuditLogRow: marshaling details: %w", err)
		}
		row.Details = bigquery.NullJSON{JSONVal: string(raw), Valid: true}
	}
	return row, nil
}

// toDomain converts a stored row back into an audit entry.
func (r *AuditLogRow) toDomain() (domain.AuditLog, error) {
	entry := domain.AuditLog{
		ID:        r.LogID,
		Action:    r.Action,
		UserID:    r.UserID,
		SubjectID: r.SubjectID.StringVal,
		CreatedAt: r.CreatedTS,
	}
	if r.Details.Valid && r.Details.JSONVal != "" {
		if err := json.Unmarshal([]byte(r.Details.JSONVal), &entry.Details); err != nil {
			return domain.AuditLog{}, fmt.Errorf("toDomain: decoding details of %s: %w", r.LogID, err)
		}
	}
	return entry, nil
}
