package provider

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/garygao333/chert-number-search/internal/batch"
	"github.com/garygao333/chert-number-search/internal/model"
	"github.com/garygao333/chert-number-search/pkg/aviato"
)

// companyResolvePageSize bounds how many companies one industry keyword can
// expand into.
const companyResolvePageSize = 10

// Aviato adapts the Aviato data API.
type Aviato struct {
	api aviato.Client
}

// NewAviato creates the Aviato adapter over a raw vendor client.
func NewAviato(api aviato.Client) *Aviato {
	return &Aviato{api: api}
}

func (a *Aviato) Source() model.Source { return model.SourceAviato }

// NumericIDs is false: Aviato person ids are opaque strings.
func (a *Aviato) NumericIDs() bool { return false }

// Search runs the two-step industry resolution when needed, then the simple
// person search, then a settle-all enrich pass to recover headline and role
// for every hit. Per-item enrich failures fall back to the search stub.
func (a *Aviato) Search(ctx context.Context, filters model.AviatoSearchFilters, page, pageSize int) (*model.SearchResponse, []model.CompanyMatch, error) {
	if err := validatePage(page, pageSize); err != nil {
		return nil, nil, err
	}

	filters, companyMatches, err := a.ResolveIndustry(ctx, filters)
	if err != nil {
		return nil, nil, err
	}

	params := aviato.SearchParams{
		Page:                   page,
		PerPage:                pageSize,
		Headline:               filters.Headline,
		Country:                filters.Country,
		CurrentCompanyNames:    filters.CompanyName,
		Skills:                 filters.Skills,
		MinLinkedinConnections: filters.LinkedinConnections,
		CompanyLinkedinSlugs:   filters.CompanyLinkedinSlugs,
	}

	data, err := a.api.SimpleSearch(ctx, params)
	if err != nil {
		return nil, nil, eris.Wrap(err, "aviato search")
	}

	if len(data.Items) == 0 {
		return &model.SearchResponse{
			Results:  []model.PersonSearchResult{},
			Page:     page,
			PageSize: pageSize,
		}, companyMatches, nil
	}

	// Search stubs carry no headline or role; enrich every hit to fill
	// them in.
	enriched := batch.Settle(ctx, data.Items, func(ctx context.Context, item aviato.SearchItem) (*aviato.Person, error) {
		return a.api.Enrich(ctx, item.ID)
	})

	results := make([]model.PersonSearchResult, 0, len(data.Items))
	for i, item := range data.Items {
		var person *aviato.Person
		if enriched[i].Err == nil {
			person = enriched[i].Value
		} else {
			zap.L().Debug("aviato result enrich failed",
				zap.String("person_id", item.ID),
				zap.Error(enriched[i].Err),
			)
		}
		results = append(results, a.normalizeResult(item, person, page, i))
	}

	return &model.SearchResponse{
		Results:    results,
		TotalCount: data.Total(),
		Page:       page,
		PageSize:   pageSize,
		// Heuristic: a full page implies another one. Wrong when the total
		// is an exact multiple of the page size.
		HasMore: len(results) == pageSize,
	}, companyMatches, nil
}

func (a *Aviato) normalizeResult(item aviato.SearchItem, person *aviato.Person, page, index int) model.PersonSearchResult {
	basic := model.PersonBasic{
		ID:       fmt.Sprintf("aviato-%s-%d-%d", item.ID, page, index),
		PersonID: item.ID,
		FullName: item.FullName,
		Source:   model.SourceAviato,
	}
	if item.URLs != nil {
		basic.LinkedinURL = normalizeURL(item.URLs.Linkedin)
	}

	role := model.RoleInfo{IsCurrent: true}

	if person != nil {
		if person.FullName != "" {
			basic.FullName = person.FullName
		}
		basic.FirstName = person.FirstName
		basic.LastName = person.LastName
		basic.Headline = person.Headline
		if person.URLs != nil && person.URLs.Linkedin != "" {
			basic.LinkedinURL = normalizeURL(person.URLs.Linkedin)
		}

		if current := currentRole(person.ExperienceList); current != nil {
			role.Title = current.Title
			role.CompanyName = current.CompanyName
			role.CompanyID = current.CompanyID
		}
		if role.Title == "" {
			role.Title = person.Headline
		}
	}

	return model.PersonSearchResult{Person: basic, Role: role}
}

// ResolveIndustry is the two-step company resolver: when CompanyIndustry is
// set, it is traded for a comma-joined list of company linkedin slugs. Zero
// company matches degrade to a people search unconstrained by company. The
// match list is returned for display only.
func (a *Aviato) ResolveIndustry(ctx context.Context, filters model.AviatoSearchFilters) (model.AviatoSearchFilters, []model.CompanyMatch, error) {
	if filters.CompanyIndustry == "" {
		return filters, nil, nil
	}

	companies, err := a.api.CompanySearch(ctx, filters.CompanyIndustry, companyResolvePageSize)
	if err != nil {
		return filters, nil, eris.Wrapf(err, "aviato company search %q", filters.CompanyIndustry)
	}

	// The industry keyword has no meaning to the people-search endpoint.
	out := filters
	out.CompanyIndustry = ""

	if len(companies) == 0 {
		return out, nil, nil
	}

	matches := make([]model.CompanyMatch, 0, len(companies))
	slugs := make([]string, 0, len(companies))
	for _, c := range companies {
		matches = append(matches, model.CompanyMatch{
			ID:           c.ID,
			Name:         c.Name,
			LinkedinSlug: c.LinkedinSlug,
		})
		if c.LinkedinSlug != "" {
			slugs = append(slugs, c.LinkedinSlug)
		}
	}
	out.CompanyLinkedinSlugs = strings.Join(slugs, ",")

	return out, matches, nil
}

// Enrich fetches the person profile, phones and emails concurrently. Phone
// and email lookups are optional facets that degrade to empty on failure; a
// failed profile lookup fails the enrichment; an unknown person returns
// (nil, nil).
func (a *Aviato) Enrich(ctx context.Context, personID string) (*model.EnrichedPerson, error) {
	var (
		wg        sync.WaitGroup
		person    *aviato.Person
		personErr error
		phones    []aviato.Phone
		emails    []aviato.Email
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		person, personErr = a.api.Enrich(ctx, personID)
	}()
	go func() {
		defer wg.Done()
		var err error
		phones, err = a.api.Phones(ctx, personID)
		if err != nil {
			zap.L().Warn("aviato phone lookup failed",
				zap.String("person_id", personID),
				zap.Error(err),
			)
			phones = nil
		}
	}()
	go func() {
		defer wg.Done()
		var err error
		emails, err = a.api.Emails(ctx, personID)
		if err != nil {
			zap.L().Warn("aviato email lookup failed",
				zap.String("person_id", personID),
				zap.Error(err),
			)
			emails = nil
		}
	}()
	wg.Wait()

	if personErr != nil {
		return nil, eris.Wrapf(personErr, "aviato enrich %s", personID)
	}
	if person == nil {
		return nil, nil
	}

	id := person.ID
	if id == "" {
		id = personID
	}

	fullName := person.FullName
	if fullName == "" {
		fullName = strings.TrimSpace(person.FirstName + " " + person.LastName)
	}

	var workEmails, personalEmails, allEmails []string
	for _, e := range emails {
		allEmails = append(allEmails, e.Email)
		switch e.Type {
		case "work":
			workEmails = append(workEmails, e.Email)
		case "personal":
			personalEmails = append(personalEmails, e.Email)
		}
	}
	// Untyped emails still beat none at all.
	if len(workEmails) == 0 {
		workEmails = allEmails
	}

	phoneNumbers := make([]model.PhoneNumber, 0, len(phones))
	for _, p := range phones {
		phoneNumbers = append(phoneNumbers, model.PhoneNumber{PhoneNumber: p.PhoneNumber})
	}

	var linkedinURL string
	if person.URLs != nil {
		linkedinURL = normalizeURL(person.URLs.Linkedin)
	}

	summary := person.About
	if summary == "" {
		summary = person.Headline
	}

	return &model.EnrichedPerson{
		ID:             id,
		FullName:       fullName,
		FirstName:      person.FirstName,
		LastName:       person.LastName,
		Headline:       person.Headline,
		LinkedinURL:    linkedinURL,
		WorkEmails:     workEmails,
		PersonalEmails: personalEmails,
		PhoneNumbers:   phoneNumbers,
		Skills:         person.Skills,
		Location:       person.Location,
		Summary:        summary,
		CurrentRole:    currentRole(person.ExperienceList),
		Source:         model.SourceAviato,
	}, nil
}

// LookupName trusts the vendor's top search hit for the name, then enriches
// it for phone/email. No re-matching: Aviato's name search is already exact
// enough.
func (a *Aviato) LookupName(ctx context.Context, fullName string) (model.LookupResult, error) {
	result := model.LookupResult{
		FullName:     fullName,
		PhoneNumbers: []string{},
		Source:       model.SourceAviato,
	}

	data, err := a.api.SimpleSearch(ctx, aviato.SearchParams{
		FullName: fullName,
		Page:     1,
		PerPage:  1,
	})
	if err != nil {
		return result, eris.Wrapf(err, "aviato lookup %q", fullName)
	}

	if len(data.Items) == 0 {
		result.Status = model.LookupNotFound
		return result, nil
	}

	top := data.Items[0]
	result.PersonID = top.ID
	result.MatchedName = top.FullName

	enriched, err := a.Enrich(ctx, top.ID)
	if err != nil {
		return result, eris.Wrapf(err, "aviato lookup enrich %q", fullName)
	}
	if enriched == nil {
		result.Status = model.LookupNotFound
		return result, nil
	}

	if enriched.FullName != "" {
		result.MatchedName = enriched.FullName
	}
	for _, p := range enriched.PhoneNumbers {
		if p.PhoneNumber != "" {
			result.PhoneNumbers = append(result.PhoneNumbers, p.PhoneNumber)
		}
	}
	if len(enriched.WorkEmails) > 0 {
		result.Email = enriched.WorkEmails[0]
	} else if len(enriched.PersonalEmails) > 0 {
		result.Email = enriched.PersonalEmails[0]
	}

	if len(result.PhoneNumbers) > 0 {
		result.Status = model.LookupFound
	} else {
		result.Status = model.LookupNotFound
	}
	return result, nil
}

// currentRole picks the ongoing experience entry (no end date), falling back
// to the vendor's first entry, and the same rule for the position within it.
// The vendor orders most-recent-first; the list is not re-sorted.
func currentRole(experiences []aviato.Experience) *model.RoleInfo {
	if len(experiences) == 0 {
		return nil
	}

	current := experiences[0]
	for _, e := range experiences {
		if e.EndDate == "" {
			current = e
			break
		}
	}

	var title string
	if len(current.PositionList) > 0 {
		position := current.PositionList[0]
		for _, p := range current.PositionList {
			if p.EndDate == "" {
				position = p
				break
			}
		}
		title = position.Title
	}

	return &model.RoleInfo{
		Title:       title,
		CompanyName: current.CompanyName,
		CompanyID:   current.CompanyID,
		IsCurrent:   true,
	}
}
