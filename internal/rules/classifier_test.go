package rules

import (
	"testing"

	"github.com/dvloznov/statement-ingest/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestClassifier_Classify(t *testing.T) {
	c := NewClassifier("Jan Kowalski")

	tests := []struct {
		name     string
		ctx      Context
		wantSkip domain.SkipReason
		wantCat  domain.Category
	}{
		{
			name:     "internal transfer",
			ctx:      Context{TransactionType: "PRZELEW WEWNĘTRZNY WYCHODZĄCY", Recipient: "Jan Kowalski"},
			wantSkip: domain.SkipInternalTransfer,
		},
		{
			name:     "internal transfer without diacritics",
			ctx:      Context{TransactionType: "przelew wewnetrzny"},
			wantSkip: domain.SkipInternalTransfer,
		},
		{
			name:     "atm withdrawal",
			ctx:      Context{TransactionType: "WYPŁATA W BANKOMACIE"},
			wantSkip: domain.SkipATMWithdrawal,
		},
		{
			name:     "atm withdrawal english marker",
			ctx:      Context{TransactionType: "WYPLATA ATM"},
			wantSkip: domain.SkipATMWithdrawal,
		},
		{
			name:     "card repayment",
			ctx:      Context{TransactionType: "SPŁATA KARTY KREDYTOWEJ"},
			wantSkip: domain.SkipCardPayment,
		},
		{
			name:     "commission is exact match",
			ctx:      Context{TransactionType: "PROWIZJA"},
			wantSkip: domain.SkipBankFee,
		},
		{
			name:     "tax on interest",
			ctx:      Context{TransactionType: "PODATEK OD ODSETEK"},
			wantSkip: domain.SkipInterest,
		},
		{
			name:     "interest capitalization",
			ctx:      Context{TransactionType: "KAPITALIZACJA ODSETEK"},
			wantSkip: domain.SkipInterest,
		},
		{
			name:     "zen top-up",
			ctx:      Context{TransactionType: "PRZELEW ZEWNĘTRZNY WYCHODZĄCY", Recipient: "ZEN.COM UAB"},
			wantSkip: domain.SkipZenTopup,
		},
		{
			name:     "revolut top-up",
			ctx:      Context{TransactionType: "PRZELEW ZEWNĘTRZNY WYCHODZĄCY", Description: "Top-up Revolut Ltd"},
			wantSkip: domain.SkipRevolutTopup,
		},
		{
			name:     "own transfer phrase",
			ctx:      Context{TransactionType: "PRZELEW", Description: "Przelew własny na oszczędności"},
			wantSkip: domain.SkipSelfTransfer,
		},
		{
			name:     "recipient is owner",
			ctx:      Context{TransactionType: "PRZELEW ZEWNĘTRZNY", Recipient: "KOWALSKI JAN UL. DLUGA 1"},
			wantSkip: domain.SkipSelfTransfer,
		},
		{
			name:    "investment platform",
			ctx:     Context{TransactionType: "PRZELEW ZEWNĘTRZNY", Recipient: "XTB.COM"},
			wantCat: domain.CategoryInvestments,
		},
		{
			name:    "ticket purchase",
			ctx:     Context{TransactionType: "ZAKUP BILETU KOMUNIKACJI MIEJSKIEJ"},
			wantCat: domain.CategoryTransport,
		},
		{
			name:    "phone top-up",
			ctx:     Context{TransactionType: "DOŁADOWANIE TELEFONU"},
			wantCat: domain.CategorySubscriptions,
		},
		{
			name: "card purchase defers",
			ctx:  Context{TransactionType: "ZAKUP PRZY UŻYCIU KARTY", Description: "Zabka", Recipient: "Zabka Sp. z o.o."},
		},
		{
			name: "commission with suffix defers",
			ctx:  Context{TransactionType: "PROWIZJA ZA PRZELEW"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.ctx.Amount = decimal.RequireFromString("10.00")
			got := c.Classify(tt.ctx)
			assert.Equal(t, tt.wantSkip, got.Skip)
			assert.Equal(t, tt.wantCat, got.Category)
			assert.Equal(t, tt.wantSkip == "" && tt.wantCat == "", got.Deferred())
		})
	}
}

func TestClassifier_SkipBeatsForcedCategory(t *testing.T) {
	c := NewClassifier("")
	got := c.Classify(Context{TransactionType: "PRZELEW WEWNĘTRZNY", Recipient: "XTB.COM"})
	assert.Equal(t, domain.SkipInternalTransfer, got.Skip)
	assert.Empty(t, got.Category)
}

func TestClassifier_OwnerNeedsTwoTokens(t *testing.T) {
	c := NewClassifier("Jan")
	got := c.Classify(Context{TransactionType: "PRZELEW", Recipient: "Jan Nowak"})
	assert.True(t, got.Deferred())

	c = NewClassifier("Jan Kowalski")
	got = c.Classify(Context{TransactionType: "PRZELEW", Recipient: "Jan Nowak"})
	assert.True(t, got.Deferred())
}
