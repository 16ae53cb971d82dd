package notionreport

import (
	"context"
	"fmt"
	"sync"

	"github.com/dvloznov/statement-ingest/internal/domain"
	"github.com/dvloznov/statement-ingest/internal/logger"
	"github.com/jomei/notionapi"
)

// Reporter mirrors one upload's progress into a Notion database page. The
// page is found by upload id, so a retried job updates the page of the
// earlier attempt.
type Reporter struct {
	service    NotionService
	databaseID string
	uploadID   string
	fileName   string

	mu     sync.Mutex
	pageID string
}

// NewReporter returns a Reporter for one upload.
func NewReporter(service NotionService, databaseID, uploadID, fileName string) *Reporter {
	return &Reporter{service: service, databaseID: databaseID, uploadID: uploadID, fileName: fileName}
}

func (r *Reporter) Progress(ctx context.Context, processed, total int) error {
	return r.write(ctx, ProgressProperties(r.uploadID, r.fileName, processed, total))
}

func (r *Reporter) Done(ctx context.Context, s *domain.Summary) error {
	if s == nil {
		return nil
	}
	return r.write(ctx, SummaryProperties(r.fileName, s))
}

func (r *Reporter) write(ctx context.Context, props notionapi.Properties) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	log := logger.FromContext(ctx)

	if r.pageID == "" {
		existing, err := r.findPage(ctx)
		if err != nil {
			return fmt.Errorf("Reporter.write: %w", err)
		}
		r.pageID = existing
	}

	if r.pageID != "" {
		if _, err := r.service.UpdatePage(ctx, r.pageID, props); err != nil {
			return fmt.Errorf("Reporter.write: updating page %s: %w", r.pageID, err)
		}
		return nil
	}

	page, err := r.service.CreatePage(ctx, r.databaseID, props)
	if err != nil {
		return fmt.Errorf("Reporter.write: creating page: %w", err)
	}
	r.pageID = string(page.ID)
	log.Debug().Str("upload_id", r.uploadID).Str("page_id", r.pageID).Msg("Created Notion import page")
	return nil
}

// findPage scans the database for a page titled with the upload id.
// Handles pagination.
func (r *Reporter) findPage(ctx context.Context) (string, error) {
	var cursor notionapi.Cursor

	for {
		req := &notionapi.DatabaseQueryRequest{
			PageSize: 100,
		}
		if cursor != "" {
			req.StartCursor = cursor
		}

		resp, err := r.service.QueryDatabase(ctx, r.databaseID, req)
		if err != nil {
			return "", fmt.Errorf("findPage: %w", err)
		}

		for _, page := range resp.Results {
			if extractUploadID(page) == r.uploadID {
				return string(page.ID), nil
			}
		}

		if !resp.HasMore {
			return "", nil
		}
		cursor = resp.NextCursor
	}
}
