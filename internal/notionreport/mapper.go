package notionreport

import (
	"github.com/dvloznov/statement-ingest/internal/domain"
	"github.com/jomei/notionapi"
)

// Page property names of the imports database.
const (
	propUpload      = "Upload"
	propFile        = "File"
	propStatus      = "Status"
	propBank        = "Bank"
	propProcessed   = "Processed"
	propTotal       = "Total"
	propCreated     = "Created"
	propDuplicates  = "Duplicates"
	propSkipped     = "Skipped"
	propSkippedInfo = "Skipped info"
	propTopCategory = "Top category"
)

// Status values written to the Status select.
const (
	StatusInProgress = "In progress"
	StatusDone       = "Done"
	StatusEmpty      = "Nothing found"
)

func richText(content string) []notionapi.RichText {
	return []notionapi.RichText{
		{
			Type: notionapi.ObjectTypeText,
			Text: &notionapi.Text{
				Content: content,
			},
		},
	}
}

func baseProperties(uploadID, fileName, status string) notionapi.Properties {
	props := notionapi.Properties{
		propUpload: notionapi.TitleProperty{
			Title: richText(uploadID),
		},
		propStatus: notionapi.SelectProperty{
			Select: notionapi.Option{Name: status},
		},
	}
	if fileName != "" {
		props[propFile] = notionapi.RichTextProperty{RichText: richText(fileName)}
	}
	return props
}

// ProgressProperties describes an import that is still categorizing.
func ProgressProperties(uploadID, fileName string, processed, total int) notionapi.Properties {
	props := baseProperties(uploadID, fileName, StatusInProgress)
	props[propProcessed] = notionapi.NumberProperty{Number: float64(processed)}
	props[propTotal] = notionapi.NumberProperty{Number: float64(total)}
	return props
}

// SummaryProperties describes a finished import.
func SummaryProperties(fileName string, s *domain.Summary) notionapi.Properties {
	status := StatusDone
	if s.Empty {
		status = StatusEmpty
	}
	if s.FileName != "" {
		fileName = s.FileName
	}

	props := baseProperties(s.UploadID, fileName, status)
	props[propProcessed] = notionapi.NumberProperty{Number: float64(s.TotalCount)}
	props[propTotal] = notionapi.NumberProperty{Number: float64(s.TotalCount)}
	props[propCreated] = notionapi.NumberProperty{Number: float64(s.CreatedCount)}
	props[propDuplicates] = notionapi.NumberProperty{Number: float64(s.DuplicateCount)}
	props[propSkipped] = notionapi.NumberProperty{Number: float64(s.SkippedCount)}

	if s.Bank != "" {
		props[propBank] = notionapi.SelectProperty{
			Select: notionapi.Option{Name: string(s.Bank)},
		}
	}
	if s.SkippedInfoText != "" {
		props[propSkippedInfo] = notionapi.RichTextProperty{RichText: richText(s.SkippedInfoText)}
	}
	if len(s.CategoryBreakdown) > 0 {
		top := s.CategoryBreakdown[0]
		props[propTopCategory] = notionapi.RichTextProperty{
			RichText: richText(string(top.Category) + " " + top.Amount.StringFixed(2)),
		}
	}
	return props
}

// extractUploadID reads the title property of an imports page.
func extractUploadID(page notionapi.Page) string {
	if prop, ok := page.Properties[propUpload]; ok {
		if title, ok := prop.(*notionapi.TitleProperty); ok {
			if len(title.Title) > 0 {
				return title.Title[0].PlainText
			}
		}
	}
	return ""
}
