package provider

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/garygao333/chert-number-search/internal/match"
	"github.com/garygao333/chert-number-search/internal/model"
	"github.com/garygao333/chert-number-search/pkg/forager"
)

// Forager adapts the Forager datastorage API.
type Forager struct {
	api forager.Client
}

// NewForager creates the Forager adapter over a raw vendor client.
func NewForager(api forager.Client) *Forager {
	return &Forager{api: api}
}

func (f *Forager) Source() model.Source { return model.SourceForager }

// NumericIDs is true: Forager person ids are integers.
func (f *Forager) NumericIDs() bool { return true }

// Search maps the abstract filters onto the vendor's text-search fields and
// normalizes the response. Empty filter fields are not sent. Free-text
// fields are sanitized so user input cannot act as query syntax.
func (f *Forager) Search(ctx context.Context, filters model.SearchFilters, page, pageSize int) (*model.SearchResponse, error) {
	if err := validatePage(page, pageSize); err != nil {
		return nil, err
	}

	params := forager.SearchParams{
		RoleIsCurrent: true,
		Page:          page,
	}
	if filters.PersonIndustry != "" {
		params.PersonHeadline = forager.Sanitize(filters.PersonIndustry)
	}
	if filters.PersonLocation != "" {
		params.PersonLocations = []string{filters.PersonLocation}
	}
	if filters.CompanyIndustry != "" {
		params.OrganizationDescription = forager.Sanitize(filters.CompanyIndustry)
	}
	if filters.CompanyLocation != "" {
		params.OrgLocations = []string{filters.CompanyLocation}
	}
	if filters.CompanyKeywords != "" {
		// Role title search matches better than org name for keywords.
		params.RoleTitle = forager.Sanitize(filters.CompanyKeywords)
	}

	data, err := f.api.PersonRoleSearch(ctx, params)
	if err != nil {
		return nil, eris.Wrap(err, "forager search")
	}

	results := make([]model.PersonSearchResult, 0, len(data.SearchResults))
	for i, item := range data.SearchResults {
		results = append(results, f.normalizeResult(item, page, i))
	}

	total := data.TotalSearchResults
	if total == 0 {
		total = len(results)
	}

	return &model.SearchResponse{
		Results:    results,
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
		// Heuristic: a full page implies another one. Wrong when the total
		// is an exact multiple of the page size.
		HasMore: len(results) == pageSize,
	}, nil
}

func (f *Forager) normalizeResult(item forager.SearchResult, page, index int) model.PersonSearchResult {
	title := item.Title
	if title == "" {
		title = item.Person.Headline
	}

	var companyName, companyID string
	if item.Organization != nil {
		companyName = item.Organization.Name
		companyID = strconv.Itoa(item.Organization.ID)
	}

	var linkedinURL string
	if item.Person.LinkedinInfo != nil {
		linkedinURL = item.Person.LinkedinInfo.PublicProfileURL
	}

	return model.PersonSearchResult{
		Person: model.PersonBasic{
			// Raw person ids repeat across roles; the composite keeps list
			// keys unique across pages.
			ID:          fmt.Sprintf("%d-%d-%d-%d", item.ID, item.Person.ID, page, index),
			PersonID:    strconv.Itoa(item.Person.ID),
			FullName:    item.Person.FullName,
			FirstName:   item.Person.FirstName,
			LastName:    item.Person.LastName,
			Photo:       item.Person.Photo,
			Headline:    item.Person.Headline,
			LinkedinURL: linkedinURL,
			Source:      model.SourceForager,
		},
		Role: model.RoleInfo{
			Title:       title,
			CompanyName: companyName,
			CompanyID:   companyID,
			IsCurrent:   true,
		},
	}
}

// Enrich fetches the person detail and phone numbers concurrently. A failed
// phone lookup degrades to no numbers; a failed detail lookup fails the
// enrichment; an unknown person returns (nil, nil).
func (f *Forager) Enrich(ctx context.Context, personID string) (*model.EnrichedPerson, error) {
	numericID, err := strconv.Atoi(personID)
	if err != nil {
		return nil, eris.Wrapf(err, "forager enrich: non-numeric person id %q", personID)
	}

	var (
		wg        sync.WaitGroup
		detail    *forager.Detail
		detailErr error
		phones    []forager.Phone
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		detail, detailErr = f.api.PersonDetail(ctx, numericID)
	}()
	go func() {
		defer wg.Done()
		var phoneErr error
		phones, phoneErr = f.api.PhoneNumbers(ctx, numericID)
		if phoneErr != nil {
			zap.L().Warn("forager phone lookup failed",
				zap.String("person_id", personID),
				zap.Error(phoneErr),
			)
			phones = nil
		}
	}()
	wg.Wait()

	if detailErr != nil {
		return nil, eris.Wrapf(detailErr, "forager enrich %s", personID)
	}
	if detail == nil {
		return nil, nil
	}

	id := strconv.Itoa(detail.ID)
	if detail.ID == 0 {
		id = personID
	}

	linkedinURL := detail.LinkedinURL
	if linkedinURL == "" && detail.LinkedinInfo != nil {
		linkedinURL = detail.LinkedinInfo.PublicProfileURL
	}

	var location string
	if detail.Location != nil {
		location = detail.Location.Name
	}

	summary := detail.Summary
	if summary == "" {
		summary = detail.Description
	}

	phoneNumbers := make([]model.PhoneNumber, 0, len(phones))
	for _, p := range phones {
		phoneNumbers = append(phoneNumbers, model.PhoneNumber{PhoneNumber: p.Number, Type: p.Type})
	}

	var currentRole *model.RoleInfo
	if detail.CurrentRole != nil {
		currentRole = &model.RoleInfo{
			Title:       detail.CurrentRole.Title,
			CompanyName: detail.CurrentRole.CompanyName,
			CompanyID:   detail.CurrentRole.CompanyID,
			IsCurrent:   detail.CurrentRole.IsCurrent,
		}
	}

	return &model.EnrichedPerson{
		ID:             id,
		FullName:       detail.FullName,
		FirstName:      detail.FirstName,
		LastName:       detail.LastName,
		Photo:          detail.Photo,
		Headline:       detail.Headline,
		LinkedinURL:    linkedinURL,
		WorkEmails:     detail.WorkEmails,
		PersonalEmails: detail.PersonalEmails,
		PhoneNumbers:   phoneNumbers,
		Skills:         detail.Skills,
		Location:       location,
		Summary:        summary,
		CurrentRole:    currentRole,
		Source:         model.SourceForager,
	}, nil
}

// LookupName searches the headline field with the sanitized full name,
// picks the first plausible candidate, then enriches it for phone/email.
func (f *Forager) LookupName(ctx context.Context, fullName string) (model.LookupResult, error) {
	result := model.LookupResult{
		FullName:     fullName,
		PhoneNumbers: []string{},
		Source:       model.SourceForager,
	}

	data, err := f.api.PersonRoleSearch(ctx, forager.SearchParams{
		PersonHeadline: forager.Sanitize(fullName),
		Page:           1,
	})
	if err != nil {
		return result, eris.Wrapf(err, "forager lookup %q", fullName)
	}

	var candidate *forager.Person
	for i := range data.SearchResults {
		if match.IsPlausibleMatch(fullName, data.SearchResults[i].Person.FullName) {
			candidate = &data.SearchResults[i].Person
			break
		}
	}
	if candidate == nil {
		result.Status = model.LookupNotFound
		return result, nil
	}

	var (
		wg        sync.WaitGroup
		detail    *forager.Detail
		detailErr error
		phones    []forager.Phone
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		detail, detailErr = f.api.PersonDetail(ctx, candidate.ID)
	}()
	go func() {
		defer wg.Done()
		var phoneErr error
		phones, phoneErr = f.api.PhoneNumbers(ctx, candidate.ID)
		if phoneErr != nil {
			phones = nil
		}
	}()
	wg.Wait()

	if detailErr != nil {
		return result, eris.Wrapf(detailErr, "forager lookup enrich %q", fullName)
	}

	result.MatchedName = candidate.FullName
	result.PersonID = strconv.Itoa(candidate.ID)
	for _, p := range phones {
		result.PhoneNumbers = append(result.PhoneNumbers, p.Number)
	}
	if detail != nil {
		if len(detail.WorkEmails) > 0 {
			result.Email = detail.WorkEmails[0]
		} else if len(detail.PersonalEmails) > 0 {
			result.Email = detail.PersonalEmails[0]
		}
	}

	if len(result.PhoneNumbers) > 0 {
		result.Status = model.LookupFound
	} else {
		result.Status = model.LookupNotFound
	}
	return result, nil
}
