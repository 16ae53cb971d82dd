package pipeline

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dvloznov/statement-ingest/internal/domain"
	"github.com/shopspring/decimal"
)

// SkipLabels maps skip reasons to user-facing labels.
type SkipLabels map[domain.SkipReason]string

// DefaultSkipLabels returns the Polish labels shown in import summaries.
func DefaultSkipLabels() SkipLabels {
	return SkipLabels{
		domain.SkipInternalTransfer: "przelewy wewnętrzne",
		domain.SkipATMWithdrawal:    "wypłaty z bankomatu",
		domain.SkipCardPayment:      "spłaty karty",
		domain.SkipBankFee:          "prowizje bankowe",
		domain.SkipInterest:         "odsetki i podatek od odsetek",
		domain.SkipZenTopup:         "doładowania ZEN",
		domain.SkipRevolutTopup:     "doładowania Revolut",
		domain.SkipSelfTransfer:     "przelewy własne",
		domain.SkipCardTopup:        "doładowania karty",
	}
}

// MergedItem is a categorized transaction with every field resolved.
type MergedItem struct {
	Transaction domain.Transaction
	Shop        string
	Category    domain.Category
	Amount      decimal.Decimal
}

// Aggregator merges categorization output with its source transactions and
// summarizes the result.
type Aggregator struct {
	labels SkipLabels
}

// NewAggregator returns an Aggregator using labels; nil uses DefaultSkipLabels.
func NewAggregator(labels SkipLabels) *Aggregator {
	if labels == nil {
		labels = DefaultSkipLabels()
	}
	return &Aggregator{labels: labels}
}

// Merge resolves items against txs. A missing shop or non-positive amount
// falls back to the transaction's merchant and amount; items pointing
// outside txs are dropped.
func (a *Aggregator) Merge(txs []domain.Transaction, items []domain.CategorizedItem) []MergedItem {
	out := make([]MergedItem, 0, len(items))
	for _, it := range items {
		if it.Idx < 0 || it.Idx >= len(txs) {
			continue
		}
		tx := txs[it.Idx]
		// the parsed amount feeds the content hash, so a collaborator
		// amount never replaces it
		m := MergedItem{Transaction: tx, Shop: strings.TrimSpace(it.Shop), Category: it.Category, Amount: tx.Amount}
		if m.Shop == "" {
			m.Shop = tx.Merchant
		}
		if m.Category == "" {
			m.Category = domain.CategoryOther
		}
		out = append(out, m)
	}
	return out
}

// ExpenseInputs converts merged items into persistence inputs in merge order.
func (a *Aggregator) ExpenseInputs(items []MergedItem, userID, source string) []domain.ExpenseInput {
	inputs := make([]domain.ExpenseInput, len(items))
	for i, m := range items {
		inputs[i] = domain.ExpenseInput{
			Amount:   m.Amount,
			Category: m.Category,
			Shop:     m.Shop,
			UserID:   userID,
			Source:   source,
			Date:     m.Transaction.Date,
			RawInput: m.Transaction.RawLine,
		}
	}
	return inputs
}

// CategoryBreakdown sums items per category, ordered by amount descending
// then name.
func (a *Aggregator) CategoryBreakdown(items []MergedItem) []domain.CategoryTotal {
	idx := make(map[domain.Category]int)
	var totals []domain.CategoryTotal
	for _, m := range items {
		i, ok := idx[m.Category]
		if !ok {
			i = len(totals)
			idx[m.Category] = i
			totals = append(totals, domain.CategoryTotal{Category: m.Category, Amount: decimal.Zero})
		}
		totals[i].Count++
		totals[i].Amount = totals[i].Amount.Add(m.Amount)
	}
	sort.SliceStable(totals, func(i, j int) bool {
		if c := totals[i].Amount.Cmp(totals[j].Amount); c != 0 {
			return c > 0
		}
		return totals[i].Category < totals[j].Category
	})
	return totals
}

// ShopBreakdown sums items per shop with the same ordering as CategoryBreakdown.
func (a *Aggregator) ShopBreakdown(items []MergedItem) []domain.ShopTotal {
	idx := make(map[string]int)
	var totals []domain.ShopTotal
	for _, m := range items {
		i, ok := idx[m.Shop]
		if !ok {
			i = len(totals)
			idx[m.Shop] = i
			totals = append(totals, domain.ShopTotal{Shop: m.Shop, Amount: decimal.Zero})
		}
		totals[i].Count++
		totals[i].Amount = totals[i].Amount.Add(m.Amount)
	}
	sort.SliceStable(totals, func(i, j int) bool {
		if c := totals[i].Amount.Cmp(totals[j].Amount); c != 0 {
			return c > 0
		}
		return totals[i].Shop < totals[j].Shop
	})
	return totals
}

// SkippedText renders skip counts as "label: n" pairs in the fixed reason
// order, omitting zero counts. It is empty when nothing was skipped.
func (a *Aggregator) SkippedText(s domain.Skipped) string {
	var parts []string
	for _, reason := range domain.SkipReasons {
		n := s.Reasons[reason]
		if n == 0 {
			continue
		}
		label, ok := a.labels[reason]
		if !ok {
			label = string(reason)
		}
		parts = append(parts, fmt.Sprintf("%s: %d", label, n))
	}
	if len(parts) == 0 {
		return ""
	}
	return fmt.Sprintf("Pominięto %d: %s", s.Count, strings.Join(parts, ", "))
}
