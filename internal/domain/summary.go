package domain

import (
	"github.com/shopspring/decimal"
)

// CategoryTotal is one row of the category breakdown.
type CategoryTotal struct {
	Category Category        `json:"category"`
	Count    int             `json:"count"`
	Amount   decimal.Decimal `json:"amount"`
}

// ShopTotal is one row of the shop breakdown.
type ShopTotal struct {
	Shop   string          `json:"shop"`
	Count  int             `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}

// Summary is the final outcome of one statement import, handed to the
// presentation layer.
type Summary struct {
	UploadID          string          `json:"upload_id"`
	Bank              Bank            `json:"bank"`
	FileName          string          `json:"file_name"`
	CreatedCount      int             `json:"created_count"`
	DuplicateCount    int             `json:"duplicate_count"`
	TotalCount        int             `json:"total_count"`
	SkippedCount      int             `json:"skipped_count"`
	CategoryBreakdown []CategoryTotal `json:"category_breakdown"`
	ShopBreakdown     []ShopTotal     `json:"shop_breakdown"`
	SkippedInfoText   string          `json:"skipped_info_text"`
	LineErrors        []LineError     `json:"line_errors,omitempty"`
	Empty             bool            `json:"empty"`
}
