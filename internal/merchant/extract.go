package merchant

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// noisePatterns are stripped from raw descriptions before the merchant name
// is taken. Order matters: identifiers first, then trailing segments.
var noisePatterns = []*regexp.Regexp{
	// transaction ids
	regexp.MustCompile(`(?i)\b(transaction id|id transakcji|nr transakcji|nr ref\.?|ref\.?)[:\s]+[A-Z0-9\-/]*[0-9][A-Z0-9\-/]*`),
	// card numbers: "karta 4111 XXXX XXXX 1234", "*1234", "nr karty 1234"
	regexp.MustCompile(`(?i)\b(nr karty|karta|card)[:\s]*[0-9X*]{4}([\s\-]?[0-9X*]{4}){0,3}`),
	regexp.MustCompile(`\b[0-9]{4,6}[X*]{2,}[0-9]{4}\b`),
	regexp.MustCompile(`\*{1,}[0-9]{4}\b`),
	// order numbers
	regexp.MustCompile(`(?i)\b(zamówienie|zamowienie|order|nr zam\.?)\s*(nr|no\.?|#)?[:\s]*[A-Z0-9\-/]*[0-9][A-Z0-9\-/]*`),
	// dates and amounts embedded by some banks: "DATA TRANSAKCJI: 2024-01-15", "15,50 PLN"
	regexp.MustCompile(`(?i)\bdata transakcji[:\s]*[0-9.\-/]+`),
	regexp.MustCompile(`(?i)\b[0-9]+[.,][0-9]{2}\s*(PLN|EUR|USD|GBP|CHF)\b`),
}

// legalSuffix matches a trailing legal-entity marker.
var legalSuffix = regexp.MustCompile(`(?i)[\s,]+(sp\.?\s*z\.?\s*o\.?\s*o\.?|sp\.?\s*j\.?|sp\.?\s*k\.?|s\.?\s*a\.?|ltd\.?|limited|gmbh|inc\.?|llc|b\.?\s*v\.?|s\.?\s*r\.?\s*o\.?)$`)

// trailingSegment matches a trailing number run or a country code.
var trailingSegment = regexp.MustCompile(`\s+([0-9][0-9\s\-/]*|PL|POL|DE|DEU|GB|GBR|NL|NLD|IE|IRL|LU|LUX|US|USA|CZ|CZE|SE|SWE|FR|FRA|ES|ESP|IT|ITA|LT|LTU|SK|SVK|AT|AUT|CH|CHE|BE|BEL|DK|DNK|MT|MLT|CY|CYP)$`)

var multiSpace = regexp.MustCompile(`\s+`)

// Extractor turns bank descriptions into display merchant names.
type Extractor struct {
	aliases *AliasTable
}

// NewExtractor returns an Extractor resolving names through aliases.
func NewExtractor(aliases *AliasTable) *Extractor {
	return &Extractor{aliases: aliases}
}

// Extract strips noise from raw, keeps the text before the first comma or
// semicolon, title-cases it and resolves it through the alias table.
func (e *Extractor) Extract(raw string) string {
	s := strings.TrimSpace(raw)
	for _, re := range noisePatterns {
		s = re.ReplaceAllString(s, " ")
	}
	if i := strings.IndexAny(s, ",;"); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSpace(multiSpace.ReplaceAllString(s, " "))
	s = stripTrailing(s)
	if s == "" {
		return strings.TrimSpace(raw)
	}

	if canonical, ok := e.aliases.Lookup(s); ok {
		return canonical
	}
	return titleCase(s)
}

// stripTrailing repeatedly removes legal-entity suffixes and trailing
// numeric or country-code segments, never emptying the name.
func stripTrailing(s string) string {
	for {
		next := legalSuffix.ReplaceAllString(s, "")
		next = trailingSegment.ReplaceAllString(next, "")
		next = strings.TrimSpace(strings.TrimRight(next, " ,.-/"))
		if next == s || next == "" {
			return s
		}
		s = next
	}
}

func titleCase(s string) string {
	return cases.Title(language.Polish).String(strings.ToLower(s))
}
