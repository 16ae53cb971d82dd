package pipeline

import (
	"testing"

	"github.com/dvloznov/statement-ingest/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestAggregator_MergeFallsBackToTransaction(t *testing.T) {
	txs := []domain.Transaction{
		{Date: "2024-01-01", Merchant: "Lidl", Amount: dec("20.00"), RawLine: "l1"},
		{Date: "2024-01-02", Merchant: "Orlen", Amount: dec("150.00"), RawLine: "l2"},
	}
	items := []domain.CategorizedItem{
		{Idx: 1, Shop: "ORLEN Stacja", Category: domain.CategoryTransport, Amount: dec("150.00")},
		{Idx: 0, Shop: "  ", Category: ""},
		{Idx: 7, Shop: "ghost"},
	}

	a := NewAggregator(nil)
	merged := a.Merge(txs, items)
	require.Len(t, merged, 2)
	assert.Equal(t, "ORLEN Stacja", merged[0].Shop)
	assert.Equal(t, "Lidl", merged[1].Shop)
	assert.True(t, dec("20").Equal(merged[1].Amount))
	assert.Equal(t, domain.CategoryOther, merged[1].Category)

	inputs := a.ExpenseInputs(merged, "u1", domain.SourceCSV)
	require.Len(t, inputs, 2)
	assert.Equal(t, "2024-01-02", inputs[0].Date)
	assert.Equal(t, "l2", inputs[0].RawInput)
	assert.Equal(t, "u1", inputs[1].UserID)
}

func TestAggregator_MergeKeepsParsedAmount(t *testing.T) {
	txs := []domain.Transaction{{Date: "2024-01-01", Merchant: "Lidl", Amount: dec("20.00")}}
	items := []domain.CategorizedItem{{Idx: 0, Shop: "Lidl", Category: domain.CategoryFood, Amount: dec("999.99")}}

	a := NewAggregator(nil)
	merged := a.Merge(txs, items)
	require.Len(t, merged, 1)
	assert.True(t, dec("20").Equal(merged[0].Amount))

	inputs := a.ExpenseInputs(merged, "u1", domain.SourceCSV)
	assert.Equal(t, domain.ContentHash(dec("20.00"), "Lidl", "2024-01-01", "u1"), inputs[0].Hash())
}

func TestAggregator_Breakdowns(t *testing.T) {
	merged := []MergedItem{
		{Shop: "Lidl", Category: domain.CategoryFood, Amount: dec("20")},
		{Shop: "Orlen", Category: domain.CategoryTransport, Amount: dec("30")},
		{Shop: "Lidl", Category: domain.CategoryFood, Amount: dec("10")},
		{Shop: "Apteka", Category: domain.CategoryHealth, Amount: dec("5")},
		{Shop: "Biedronka", Category: domain.CategoryHome, Amount: dec("30")},
	}

	a := NewAggregator(nil)
	cats := a.CategoryBreakdown(merged)
	require.Len(t, cats, 4)
	// ties on amount are ordered by name
	assert.Equal(t, domain.CategoryHome, cats[0].Category)
	assert.Equal(t, domain.CategoryFood, cats[1].Category)
	assert.Equal(t, 2, cats[1].Count)
	assert.Equal(t, domain.CategoryTransport, cats[2].Category)
	assert.Equal(t, domain.CategoryHealth, cats[3].Category)

	shops := a.ShopBreakdown(merged)
	require.Len(t, shops, 4)
	assert.Equal(t, "Biedronka", shops[0].Shop)
	assert.Equal(t, "Lidl", shops[1].Shop)
	assert.Equal(t, "Orlen", shops[2].Shop)
}

func TestAggregator_SkippedText(t *testing.T) {
	a := NewAggregator(nil)
	assert.Empty(t, a.SkippedText(domain.Skipped{}))

	var s domain.Skipped
	s.Add(domain.SkipCardPayment)
	s.Add(domain.SkipInternalTransfer)
	s.Add(domain.SkipInternalTransfer)
	assert.Equal(t, "Pominięto 3: przelewy wewnętrzne: 2, spłaty karty: 1", a.SkippedText(s))

	custom := NewAggregator(SkipLabels{domain.SkipCardPayment: "card"})
	assert.Equal(t, "Pominięto 3: internal_transfer: 2, card: 1", custom.SkippedText(s))
}
