// Package store persists reconciled contacts. The conflict key is the
// phone number: a later write for the same number overwrites the earlier
// row rather than merging.
package store

import (
	"context"

	"github.com/garygao333/chert-number-search/internal/model"
)

// Store defines the contact persistence interface.
type Store interface {
	// UpsertContacts writes contacts keyed by phone number, last write
	// wins, and returns the number of rows written.
	UpsertContacts(ctx context.Context, contacts []model.ContactRecord) (int, error)
	// ListContacts returns every contact sourced from either provider,
	// newest first.
	ListContacts(ctx context.Context) ([]model.ContactRecord, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
