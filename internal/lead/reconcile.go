// Package lead reconciles enriched profiles from multiple providers into
// contactable, de-duplicated leads and exports them.
package lead

import (
	"time"

	"github.com/rotisserie/eris"

	"github.com/garygao333/chert-number-search/internal/model"
)

// ErrNoLeads signals that reconciliation completed but nothing had a phone
// number. Distinct from a transport error: the caller should report "no
// phone numbers found", not a failed request.
var ErrNoLeads = eris.New("lead: no phone numbers found for the selected profiles")

// Reconcile filters enriched people down to contactable leads. Records
// without a phone number are counted in skippedNoPhone and dropped. Each
// kept record becomes a Lead with its first phone number; role and company
// prefer the search-time values in searchResults (keyed by provider person
// id) over whatever enrichment returned, since the search-time role is the
// listing that was actually matched. Leads whose id already appears in
// existing are dropped; existing leads are never overwritten.
func Reconcile(enriched []model.EnrichedPerson, existing []model.Lead, searchResults map[string]model.PersonSearchResult, now time.Time) (newLeads []model.Lead, skippedNoPhone int) {
	existingIDs := make(map[string]struct{}, len(existing))
	for _, l := range existing {
		existingIDs[l.ID] = struct{}{}
	}

	newLeads = []model.Lead{}
	for _, p := range enriched {
		if len(p.PhoneNumbers) == 0 {
			skippedNoPhone++
			continue
		}
		if _, dup := existingIDs[p.ID]; dup {
			continue
		}
		// Guard against duplicate ids within one enrichment pass too.
		existingIDs[p.ID] = struct{}{}

		newLeads = append(newLeads, buildLead(p, searchResults, now))
	}
	return newLeads, skippedNoPhone
}

func buildLead(p model.EnrichedPerson, searchResults map[string]model.PersonSearchResult, now time.Time) model.Lead {
	var roleTitle, companyName string
	if original, ok := searchResults[p.ID]; ok {
		roleTitle = original.Role.Title
		companyName = original.Role.CompanyName
	}
	if roleTitle == "" && p.CurrentRole != nil {
		roleTitle = p.CurrentRole.Title
	}
	if companyName == "" && p.CurrentRole != nil {
		companyName = p.CurrentRole.CompanyName
	}

	var email string
	if len(p.WorkEmails) > 0 {
		email = p.WorkEmails[0]
	} else if len(p.PersonalEmails) > 0 {
		email = p.PersonalEmails[0]
	}

	return model.Lead{
		ID:          p.ID,
		FullName:    p.FullName,
		RoleTitle:   roleTitle,
		CompanyName: companyName,
		// Additional numbers are discarded: a lead carries exactly one.
		PhoneNumber: p.PhoneNumbers[0].PhoneNumber,
		Email:       email,
		LinkedinURL: p.LinkedinURL,
		Location:    p.Location,
		Headline:    p.Headline,
		Source:      p.Source,
		AddedAt:     now.UTC(),
	}
}

// ToContactRecord maps a lead onto the phone-keyed persistence row.
func ToContactRecord(l model.Lead, searchQuery string) model.ContactRecord {
	return model.ContactRecord{
		PhoneNumber: l.PhoneNumber,
		FullName:    l.FullName,
		Role:        l.RoleTitle,
		Company:     l.CompanyName,
		Headline:    l.Headline,
		Location:    l.Location,
		LinkedinURL: l.LinkedinURL,
		Source:      string(l.Source),
		SourceID:    l.ID,
		RawData: map[string]any{
			"email":        l.Email,
			"search_query": searchQuery,
			"added_at":     l.AddedAt.Format(time.RFC3339),
		},
	}
}
