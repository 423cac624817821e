package lookup

import (
	"fmt"
	"strings"

	"github.com/garygao333/chert-number-search/internal/model"
)

// headerKeywords mark lines that are column headers rather than names.
// Matched as case-insensitive substrings.
var headerKeywords = []string{
	"first_name", "last_name", "firstname", "lastname",
	"first name", "last name", "name", "full_name", "fullname",
}

// ParseNames parses newline-delimited bulk input into usable names. Lines
// are either comma-separated (first, last) or whitespace-separated (first
// token, remainder). Header lines are skipped; lines yielding no name are
// dropped silently.
func ParseNames(text string) []model.ParsedName {
	var names []model.ParsedName

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if isHeaderLine(line) {
			continue
		}

		var firstName, lastName string
		if strings.Contains(line, ",") {
			parts := strings.Split(line, ",")
			if len(parts) >= 2 {
				firstName = trimQuotes(strings.TrimSpace(parts[0]))
				lastName = trimQuotes(strings.TrimSpace(parts[1]))
			}
		} else {
			parts := strings.Fields(line)
			if len(parts) >= 2 {
				firstName = parts[0]
				lastName = strings.Join(parts[1:], " ")
			} else if len(parts) == 1 {
				firstName = parts[0]
			}
		}

		if firstName == "" && lastName == "" {
			continue
		}

		names = append(names, model.ParsedName{
			ID:        fmt.Sprintf("name-%d", len(names)),
			FirstName: firstName,
			LastName:  lastName,
			FullName:  strings.TrimSpace(firstName + " " + lastName),
		})
	}

	return names
}

func isHeaderLine(line string) bool {
	lower := strings.ToLower(line)
	for _, kw := range headerKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func trimQuotes(s string) string {
	s = strings.TrimPrefix(s, `"`)
	s = strings.TrimPrefix(s, "'")
	s = strings.TrimSuffix(s, `"`)
	s = strings.TrimSuffix(s, "'")
	return s
}
