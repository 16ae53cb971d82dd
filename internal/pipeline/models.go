package pipeline

import (
	"github.com/dvloznov/statement-ingest/internal/domain"
)

// Upload is one statement file handed to the importer.
type Upload struct {
	UploadID  string // generated when empty
	UserID    string
	OwnerName string // statement owner display name, used for self-transfer detection
	FileName  string
	Size      int64 // declared size; checked before Content is looked at
	Content   []byte
	Source    string // defaults to domain.SourceCSV
}

// PipelineState holds the shared state across all pipeline steps.
type PipelineState struct {
	Upload   Upload
	UploadID string
	Text     string

	Parsed   *domain.ParseResult
	Forced   []domain.CategorizedItem
	Deferred []domain.BatchItem

	// Categorized holds forced items first, then AI items in dispatch order.
	Categorized []domain.CategorizedItem
	Merged      []MergedItem
	Result      *domain.BatchResult
	Summary     *domain.Summary
}

func (s *PipelineState) bank() string {
	if s.Parsed == nil {
		return "unknown"
	}
	return string(s.Parsed.Bank)
}
