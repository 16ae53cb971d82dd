package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/shopspring/decimal"
)

// ContentHash is the de-duplication key of an expense. It depends only on
// amount, normalized shop, date and user so the same purchase imported from
// two channels collides. Category, description and source are ignored.
func ContentHash(amount decimal.Decimal, shop, date, userID string) string {
	key := strings.Join([]string{
		amount.StringFixed(2),
		normalizeShop(shop),
		date,
		strings.ToLower(strings.TrimSpace(userID)),
	}, "|")
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

// Hash returns the content hash of the input.
func (in ExpenseInput) Hash() string {
	return ContentHash(in.Amount, in.Shop, in.Date, in.UserID)
}

func normalizeShop(shop string) string {
	return strings.Join(strings.Fields(strings.ToLower(shop)), "_")
}
