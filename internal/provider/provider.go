// Package provider adapts the two vendor APIs to one normalized result
// shape. Each provider owns its own filter struct and vendor quirks; both
// reduce to model.SearchResponse and model.EnrichedPerson.
package provider

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/garygao333/chert-number-search/internal/model"
)

// Enricher turns an external person id into a full contact profile.
// (nil, nil) means the vendor does not know the person.
type Enricher interface {
	Source() model.Source
	// NumericIDs reports whether the provider's id space is strictly
	// numeric, which tightens the orchestrator's id pre-filter.
	NumericIDs() bool
	Enrich(ctx context.Context, personID string) (*model.EnrichedPerson, error)
}

// NameResolver performs one best-effort name-to-contact lookup for the bulk
// lookup pipeline.
type NameResolver interface {
	Source() model.Source
	LookupName(ctx context.Context, fullName string) (model.LookupResult, error)
}

func validatePage(page, pageSize int) error {
	if page < 1 {
		return eris.Errorf("provider: page must be >= 1, got %d", page)
	}
	if pageSize < 1 {
		return eris.Errorf("provider: pageSize must be >= 1, got %d", pageSize)
	}
	return nil
}

// normalizeURL ensures a profile link has an https:// scheme prefix.
func normalizeURL(u string) string {
	if u == "" {
		return ""
	}
	if strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
		return u
	}
	return "https://" + u
}
