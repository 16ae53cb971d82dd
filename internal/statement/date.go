package statement

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	isoDate     = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})`)
	dottedDate  = regexp.MustCompile(`^(\d{1,2})\.(\d{1,2})\.(\d{4})`)
	slashedDate = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})`)
	textualDate = regexp.MustCompile(`^(\d{1,2})\s+([A-Za-z]{3})[a-z]*\s+(\d{4})`)
)

const canonicalLayout = "2006-01-02"

var monthAbbrev = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

// NormalizeDate converts YYYY-MM-DD, DD.MM.YYYY, DD/MM/YYYY and "1 Nov 2025"
// into YYYY-MM-DD. Trailing time components are dropped. Unrecognized input is
// returned unchanged.
func NormalizeDate(raw string) string {
	s := strings.TrimSpace(raw)

	if m := isoDate.FindStringSubmatch(s); m != nil {
		return fmt.Sprintf("%s-%s-%s", m[1], m[2], m[3])
	}
	if m := dottedDate.FindStringSubmatch(s); m != nil {
		return fmt.Sprintf("%s-%s-%s", m[3], pad2(m[2]), pad2(m[1]))
	}
	if m := slashedDate.FindStringSubmatch(s); m != nil {
		return fmt.Sprintf("%s-%s-%s", m[3], pad2(m[2]), pad2(m[1]))
	}
	if m := textualDate.FindStringSubmatch(s); m != nil {
		if month, ok := monthAbbrev[strings.ToLower(m[2])]; ok {
			return fmt.Sprintf("%s-%02d-%s", m[3], month, pad2(m[1]))
		}
	}

	return s
}

// IsCanonicalDate reports whether s is a YYYY-MM-DD string naming a real
// calendar day, so 2024-02-31 is rejected.
func IsCanonicalDate(s string) bool {
	if len(s) != len(canonicalLayout) {
		return false
	}
	_, err := time.Parse(canonicalLayout, s)
	return err == nil
}

func isDateShaped(s string) bool {
	s = strings.TrimSpace(s)
	return isoDate.MatchString(s) || dottedDate.MatchString(s) || slashedDate.MatchString(s) || textualDate.MatchString(s)
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}
