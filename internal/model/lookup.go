package model

// ParsedName is one usable name parsed from bulk input.
type ParsedName struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	FullName  string `json:"fullName"`
}

// LookupStatus is the outcome of a single bulk-lookup item. A lookup that
// completed but found nothing is not_found; one that failed to complete is
// error. The two are kept distinct end to end.
type LookupStatus string

const (
	LookupFound    LookupStatus = "found"
	LookupNotFound LookupStatus = "not_found"
	LookupError    LookupStatus = "error"
)

// LookupResult is produced once per input name, in input order, regardless
// of individual failures.
type LookupResult struct {
	FullName     string       `json:"fullName"`
	MatchedName  string       `json:"matchedName,omitempty"`
	PersonID     string       `json:"personId,omitempty"`
	PhoneNumbers []string     `json:"phoneNumbers"`
	Email        string       `json:"email,omitempty"`
	Status       LookupStatus `json:"status"`
	Source       Source       `json:"source,omitempty"`
}
