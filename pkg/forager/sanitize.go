package forager

import (
	"regexp"
	"strings"
)

// specialChars matches characters with special meaning in the vendor's
// token query grammar (boolean operators, wildcards, braces, quotes).
var specialChars = regexp.MustCompile(`[&|!(){}\[\]^"~*?:\\]`)

// Sanitize prepares free text for a token-style search field: query syntax
// characters are stripped and whitespace runs collapse to underscores, so
// user input cannot be interpreted as query operators.
func Sanitize(s string) string {
	s = specialChars.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(s), "_")
}
