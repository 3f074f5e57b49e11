package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// Amounts in the source documents use "." for thousands and "," for decimals.
var reLocaleAmount = regexp.MustCompile(`^(?:\d{1,3}(?:\.\d{3})+|\d+)(?:,\d+)?$`)

// ParseLocaleAmount converts "1.234,56" to 1234.56. It returns false when s is not
// a well-formed locale amount; callers treat that as absent, never as zero.
func ParseLocaleAmount(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if !reLocaleAmount.MatchString(s) {
		return 0, false
	}
	s = strings.ReplaceAll(s, ".", "")
	s = strings.Replace(s, ",", ".", 1)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
