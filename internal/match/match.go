// Package match decides whether a search candidate plausibly corresponds to
// a queried name.
package match

import "strings"

// IsPlausibleMatch reports whether candidate plausibly names the person in
// query. Both strings are split on whitespace and compared lowercase: a
// single-token query matches if that token appears anywhere in the
// candidate; otherwise the query's first and last tokens must both appear
// as substrings of the candidate. Substring rather than word-boundary
// matching trades false positives for recall.
func IsPlausibleMatch(query, candidate string) bool {
	parts := strings.Fields(strings.ToLower(query))
	candidateLower := strings.ToLower(candidate)

	if len(parts) == 0 {
		return false
	}
	if len(parts) < 2 {
		return strings.Contains(candidateLower, parts[0])
	}

	first := parts[0]
	last := parts[len(parts)-1]

	return strings.Contains(candidateLower, first) && strings.Contains(candidateLower, last)
}
