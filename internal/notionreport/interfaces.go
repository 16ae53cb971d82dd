package notionreport

import (
	"context"

	"github.com/jomei/notionapi"
)

// NotionService is the part of the Notion API a Reporter uses.
type NotionService interface {
	CreatePage(ctx context.Context, databaseID string, properties notionapi.Properties) (*notionapi.Page, error)
	UpdatePage(ctx context.Context, pageID string, properties notionapi.Properties) (*notionapi.Page, error)
	QueryDatabase(ctx context.Context, databaseID string, req *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error)
}

var _ NotionService = (*NotionClient)(nil)
