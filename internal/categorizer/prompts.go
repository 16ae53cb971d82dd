package categorizer

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dvloznov/statement-ingest/internal/domain"
)

type promptItem struct {
	Idx  int    `json:"idx"`
	Text string `json:"text"`
	Date string `json:"date"`
}

// buildPrompt constructs the categorization prompt for one batch.
func buildPrompt(items []domain.BatchItem) (string, error) {
	payload := make([]promptItem, len(items))
	for i, it := range items {
		payload[i] = promptItem{Idx: it.Idx, Text: it.Text, Date: it.Date}
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("buildPrompt: marshal items: %w", err)
	}

	var b strings.Builder
	b.WriteString("You categorize Polish bank card and transfer transactions into expense categories.\n\n")
	b.WriteString("Use ONLY the following categories (case-sensitive):\n")
	for _, c := range domain.Categories {
		b.WriteString("  - " + string(c) + "\n")
	}
	b.WriteString("\nCATEGORY ASSIGNMENT RULES:\n")
	b.WriteString("1. Category must be EXACTLY one of the names shown above.\n")
	b.WriteString("2. Groceries and convenience stores are \"Jedzenie\"; bars, cafes and fast food are \"Restauracje\".\n")
	b.WriteString("3. Fuel, taxis, Uber/Bolt rides and public transport are \"Transport\".\n")
	b.WriteString("4. Streaming, software and phone plans are \"Subskrypcje\".\n")
	b.WriteString("5. If you are unsure, use \"Inne\" with a low confidence.\n\n")
	b.WriteString("For each input object return one object with these fields:\n")
	b.WriteString("- \"idx\": number, copied unchanged from the input\n")
	b.WriteString("- \"shop\": string, a short human-readable merchant name\n")
	b.WriteString("- \"category\": string, one of the categories above\n")
	b.WriteString("- \"confidence\": number between 0 and 1\n\n")
	b.WriteString("Return ONLY valid raw JSON.\n")
	b.WriteString("Do NOT wrap the response in code fences.\n")
	b.WriteString("Output must begin with \"[\" and end with \"]\".\n\n")
	b.WriteString("Transactions:\n")
	b.Write(data)
	b.WriteString("\n")

	return b.String(), nil
}
