// Package rules decides, per bank transaction, whether it is excluded from
// the expense set, forced into a category, or left to AI categorization.
package rules

import (
	"strings"

	"github.com/dvloznov/statement-ingest/internal/domain"
	"github.com/shopspring/decimal"
)

// Context is what the classifier sees of one transaction. Only dialects that
// expose a transaction type or recipient column build one.
type Context struct {
	TransactionType string
	Recipient       string
	Description     string
	Amount          decimal.Decimal
}

// Decision is the classifier output. At most one of Skip and Category is set;
// neither set means the transaction defers to categorization.
type Decision struct {
	Skip     domain.SkipReason
	Category domain.Category
}

// Deferred reports whether no rule matched.
func (d Decision) Deferred() bool {
	return d.Skip == "" && d.Category == ""
}

var (
	internalTransferMarkers = []string{"PRZELEW WEWNĘTRZNY", "PRZELEW WEWNETRZNY", "PRZELEW MIĘDZY RACHUNKAMI", "PRZELEW MIEDZY RACHUNKAMI"}
	withdrawalMarkers       = []string{"WYPŁATA", "WYPLATA"}
	atmMarkers              = []string{"BANKOMAT", "BANKOMAC", "ATM"}
	cardRepaymentMarkers    = []string{"SPŁATA KARTY", "SPLATA KARTY", "SPŁATA ZADŁUŻENIA KARTY", "SPLATA ZADLUZENIA KARTY", "SPŁATA KARTY KREDYTOWEJ"}
	taxMarkers              = []string{"PODATEK", "PODATKU"}
	interestMarkers         = []string{"ODSETK", "KAPITALIZACJA"}
	creditMarkers           = []string{"UZNANIE", "KAPITALIZACJA", "NALICZENIE"}
	zenProviders            = []string{"zen.com", "zen com", "zen.com uab"}
	revolutProviders        = []string{"revolut"}
	ownTransferPhrases      = []string{"przelew własny", "przelew wlasny", "own transfer", "przelew na własne konto", "przelew na wlasne konto"}
	investmentDomains       = []string{"xtb.com", "xtb s.a", "bossa.pl", "etoro.com", "degiro.com", "degiro.pl", "finax.eu", "mdm.pl", "interactivebrokers.com"}
	ticketMarkers           = []string{"BILET"}
	phoneTopupMarkers       = []string{"DOŁADOWANIE TELEFONU", "DOLADOWANIE TELEFONU", "DOŁADOWANIE GSM", "DOLADOWANIE GSM"}
)

const commissionType = "PROWIZJA"

// Classifier evaluates the ordered rule list. It is immutable and safe for
// concurrent use.
type Classifier struct {
	ownerTokens []string
}

// NewClassifier builds a classifier for a statement owned by ownerName. The
// owner name enables the self-transfer heuristic when it has at least two
// whitespace-separated tokens.
func NewClassifier(ownerName string) *Classifier {
	tokens := strings.Fields(strings.ToLower(ownerName))
	if len(tokens) < 2 {
		tokens = nil
	}
	return &Classifier{ownerTokens: tokens}
}

// Classify returns the first matching decision. Skip rules are checked before
// forced-category rules, so a transaction is never both.
func (c *Classifier) Classify(ctx Context) Decision {
	if reason := c.skipReason(ctx); reason != "" {
		return Decision{Skip: reason}
	}
	return Decision{Category: forcedCategory(ctx)}
}

func (c *Classifier) skipReason(ctx Context) domain.SkipReason {
	txType := strings.ToUpper(strings.TrimSpace(ctx.TransactionType))
	recipient := strings.ToLower(ctx.Recipient)
	description := strings.ToLower(ctx.Description)
	party := recipient + " " + description

	switch {
	case containsAny(txType, internalTransferMarkers):
		return domain.SkipInternalTransfer
	case containsAny(txType, withdrawalMarkers) && containsAny(txType, atmMarkers):
		return domain.SkipATMWithdrawal
	case containsAny(txType, cardRepaymentMarkers):
		return domain.SkipCardPayment
	case txType == commissionType:
		return domain.SkipBankFee
	case isInterest(txType):
		return domain.SkipInterest
	case containsAny(party, zenProviders):
		return domain.SkipZenTopup
	case containsAny(party, revolutProviders):
		return domain.SkipRevolutTopup
	case containsAny(description, ownTransferPhrases):
		return domain.SkipSelfTransfer
	case c.isOwner(recipient):
		return domain.SkipSelfTransfer
	}
	return ""
}

// isInterest matches tax debits on interest and interest capitalization credits.
func isInterest(txType string) bool {
	if containsAny(txType, taxMarkers) && containsAny(txType, interestMarkers) {
		return true
	}
	return containsAny(txType, interestMarkers) && containsAny(txType, creditMarkers)
}

// isOwner reports whether recipient contains every token of the owner name.
func (c *Classifier) isOwner(recipient string) bool {
	if len(c.ownerTokens) == 0 || recipient == "" {
		return false
	}
	words := make(map[string]bool)
	for _, w := range strings.Fields(recipient) {
		words[strings.Trim(w, ".,;:")] = true
	}
	for _, tok := range c.ownerTokens {
		if !words[tok] {
			return false
		}
	}
	return true
}

func forcedCategory(ctx Context) domain.Category {
	txType := strings.ToUpper(strings.TrimSpace(ctx.TransactionType))
	party := strings.ToLower(ctx.Recipient + " " + ctx.Description)

	switch {
	case containsAny(party, investmentDomains):
		return domain.CategoryInvestments
	case containsAny(txType, ticketMarkers):
		return domain.CategoryTransport
	case containsAny(txType, phoneTopupMarkers):
		return domain.CategorySubscriptions
	}
	return ""
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
