package domain

// Category is an expense category name as shown to the user.
type Category string

const (
	CategoryFood          Category = "Jedzenie"
	CategoryShopping      Category = "Zakupy"
	CategoryTransport     Category = "Transport"
	CategorySubscriptions Category = "Subskrypcje"
	CategoryBills         Category = "Rachunki"
	CategoryHome          Category = "Dom"
	CategoryHealth        Category = "Zdrowie"
	CategoryEntertainment Category = "Rozrywka"
	CategoryRestaurants   Category = "Restauracje"
	CategoryTravel        Category = "Podróże"
	CategoryEducation     Category = "Edukacja"
	CategoryInvestments   Category = "Inwestycje"
	CategoryOther         Category = "Inne"
)

// Categories lists every category the categorizer may return.
var Categories = []Category{
	CategoryFood,
	CategoryShopping,
	CategoryTransport,
	CategorySubscriptions,
	CategoryBills,
	CategoryHome,
	CategoryHealth,
	CategoryEntertainment,
	CategoryRestaurants,
	CategoryTravel,
	CategoryEducation,
	CategoryInvestments,
	CategoryOther,
}

// ParseCategory maps a name returned by an external categorizer onto a known
// category, falling back to CategoryOther.
func ParseCategory(name string) Category {
	for _, c := range Categories {
		if string(c) == name {
			return c
		}
	}
	return CategoryOther
}

// SkipReason explains why a parsed transaction was excluded from the expense set.
type SkipReason string

const (
	SkipInternalTransfer SkipReason = "internal_transfer"
	SkipATMWithdrawal    SkipReason = "atm_withdrawal"
	SkipCardPayment      SkipReason = "card_payment"
	SkipBankFee          SkipReason = "bank_fee"
	SkipInterest         SkipReason = "interest"
	SkipZenTopup         SkipReason = "zen_topup"
	SkipRevolutTopup     SkipReason = "revolut_topup"
	SkipSelfTransfer     SkipReason = "self_transfer"
	SkipCardTopup        SkipReason = "card_topup"
)

// SkipReasons is the fixed reporting order of skip reasons.
var SkipReasons = []SkipReason{
	SkipInternalTransfer,
	SkipATMWithdrawal,
	SkipCardPayment,
	SkipBankFee,
	SkipInterest,
	SkipZenTopup,
	SkipRevolutTopup,
	SkipSelfTransfer,
	SkipCardTopup,
}
