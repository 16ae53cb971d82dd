package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dvloznov/statement-ingest/internal/domain"
	"github.com/google/uuid"
)

// CreateAuditLog appends one audit entry.
func (s *Store) CreateAuditLog(ctx context.Context, entry domain.AuditLog) error {
	const op = "CreateAuditLog"
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	details, err := json.Marshal(entry.Details)
	if err != nil {
		return Wrap(op+": marshaling details", err)
	}

	var subject *string
	if entry.SubjectID != "" {
		subject = &entry.SubjectID
	}

	_, err = s.db.Exec(ctx,
		"INSERT INTO audit_logs (id, action, details, user_id, subject_id, created_at) VALUES ($1, $2, $3, $4, $5, $6)",
		entry.ID, entry.Action, details, entry.UserID, subject, entry.CreatedAt,
	)
	return Wrap(op, err)
}
