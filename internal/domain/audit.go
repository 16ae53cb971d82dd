package domain

import "time"

// AuditActionCSVImport is recorded once per completed statement import.
const AuditActionCSVImport = "csv_import"

// AuditLog is an append-only record of a user-visible action.
type AuditLog struct {
	ID        string         `json:"id"`
	Action    string         `json:"action"`
	Details   map[string]any `json:"details"`
	UserID    string         `json:"user_id"`
	SubjectID string         `json:"subject_id,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
