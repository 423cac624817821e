package model

// Source identifies which vendor a record came from.
type Source string

const (
	SourceForager Source = "forager"
	SourceAviato  Source = "aviato"
)

// Valid reports whether s is a known vendor source.
func (s Source) Valid() bool {
	return s == SourceForager || s == SourceAviato
}

// SearchFilters holds the Forager people-search filters. Empty fields are
// unconstrained and are never sent to the vendor.
type SearchFilters struct {
	PersonIndustry  string `json:"personIndustry,omitempty" yaml:"person_industry"`
	PersonLocation  string `json:"personLocation,omitempty" yaml:"person_location"`
	CompanyIndustry string `json:"companyIndustry,omitempty" yaml:"company_industry"`
	CompanyLocation string `json:"companyLocation,omitempty" yaml:"company_location"`
	CompanyKeywords string `json:"companyKeywords,omitempty" yaml:"company_keywords"`
}

// AviatoSearchFilters holds the Aviato people-search filters. The filter
// shapes of the two vendors are not interchangeable.
type AviatoSearchFilters struct {
	Headline            string `json:"headline,omitempty" yaml:"headline"`
	Country             string `json:"country,omitempty" yaml:"country"`
	CompanyName         string `json:"companyName,omitempty" yaml:"company_name"`
	Skills              string `json:"skills,omitempty" yaml:"skills"`
	LinkedinConnections int    `json:"linkedinConnections,omitempty" yaml:"linkedin_connections"`
	// CompanyIndustry triggers the two-step company resolver; it is never
	// sent to the people-search endpoint directly.
	CompanyIndustry string `json:"companyIndustry,omitempty" yaml:"company_industry"`
	// CompanyLinkedinSlugs is a comma-joined slug list injected by the
	// company resolver.
	CompanyLinkedinSlugs string `json:"companyLinkedinSlugs,omitempty" yaml:"company_linkedin_slugs"`
}

// PersonBasic is the search-result stub for a person.
//
// ID is a display-unique composite key (provider + raw ids + page + index)
// so duplicate raw ids render stably across pages. PersonID is the true
// external identifier and is the only field valid for enrichment calls and
// for joining enrichment results back to search results.
type PersonBasic struct {
	ID          string `json:"id"`
	PersonID    string `json:"forager_person_id"`
	FullName    string `json:"full_name"`
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	Photo       string `json:"photo,omitempty"`
	Headline    string `json:"headline,omitempty"`
	LinkedinURL string `json:"linkedin_url,omitempty"`
	Source      Source `json:"source"`
}

// RoleInfo describes a person's role as captured at search time.
type RoleInfo struct {
	Title       string `json:"title,omitempty"`
	CompanyName string `json:"company_name,omitempty"`
	CompanyID   string `json:"company_id,omitempty"`
	IsCurrent   bool   `json:"is_current,omitempty"`
	StartDate   string `json:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty"`
}

// PersonSearchResult pairs a person stub with their role.
type PersonSearchResult struct {
	Person PersonBasic `json:"person"`
	Role   RoleInfo    `json:"role"`
}

// SearchResponse is a normalized page of results from either provider.
//
// HasMore is computed, not vendor-reported: true iff the page came back
// full. When the total result count is an exact multiple of the page size
// the final page still reports HasMore = true.
type SearchResponse struct {
	Results    []PersonSearchResult `json:"results"`
	TotalCount int                  `json:"total_count"`
	Page       int                  `json:"page"`
	PageSize   int                  `json:"page_size"`
	HasMore    bool                 `json:"has_more"`
}

// PhoneNumber is a single contact phone entry.
type PhoneNumber struct {
	PhoneNumber string `json:"phone_number"`
	Type        string `json:"type,omitempty"`
}

// EnrichedPerson is a full contact profile. An empty PhoneNumbers list means
// the lookup ran and found nothing, not that the lookup was skipped.
type EnrichedPerson struct {
	ID             string        `json:"id"`
	FullName       string        `json:"full_name"`
	FirstName      string        `json:"first_name,omitempty"`
	LastName       string        `json:"last_name,omitempty"`
	Photo          string        `json:"photo,omitempty"`
	Headline       string        `json:"headline,omitempty"`
	LinkedinURL    string        `json:"linkedin_url,omitempty"`
	WorkEmails     []string      `json:"work_emails,omitempty"`
	PersonalEmails []string      `json:"personal_emails,omitempty"`
	PhoneNumbers   []PhoneNumber `json:"phone_numbers,omitempty"`
	Skills         []string      `json:"skills,omitempty"`
	Location       string        `json:"location,omitempty"`
	Summary        string        `json:"summary,omitempty"`
	CurrentRole    *RoleInfo     `json:"current_role,omitempty"`
	Source         Source        `json:"source"`
}

// CompanyMatch is an intermediate artifact of the industry-to-company
// resolver. It is surfaced for display and filter building, never persisted.
type CompanyMatch struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	LinkedinSlug string `json:"linkedinSlug"`
}
