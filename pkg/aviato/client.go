// Package aviato provides a client for the Aviato people and company data API.
package aviato

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// Client defines the Aviato data operations.
type Client interface {
	// SimpleSearch runs a simple person search and returns the raw page.
	SimpleSearch(ctx context.Context, params SearchParams) (*SearchResponse, error)
	// Enrich fetches a full person profile. Returns (nil, nil) when the
	// vendor reports the person as not found.
	Enrich(ctx context.Context, personID string) (*Person, error)
	// Phones looks up contact phone numbers for a person.
	Phones(ctx context.Context, personID string) ([]Phone, error)
	// Emails looks up contact emails for a person.
	Emails(ctx context.Context, personID string) ([]Email, error)
	// CompanySearch finds companies matching an industry keyword.
	CompanySearch(ctx context.Context, industry string, perPage int) ([]Company, error)
}

// SearchParams is the person/simple/search query. Zero-valued optional
// fields are omitted from the request.
type SearchParams struct {
	Page                   int
	PerPage                int
	FullName               string
	Headline               string
	Country                string
	CurrentCompanyNames    string
	Skills                 string
	MinLinkedinConnections int
	CompanyLinkedinSlugs   string
}

func (p SearchParams) values() url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(p.Page))
	v.Set("perPage", strconv.Itoa(p.PerPage))
	if p.FullName != "" {
		v.Set("fullName", p.FullName)
	}
	if p.Headline != "" {
		v.Set("headline", p.Headline)
	}
	if p.Country != "" {
		v.Set("country", p.Country)
	}
	if p.CurrentCompanyNames != "" {
		v.Set("currentCompanyNames", p.CurrentCompanyNames)
	}
	if p.Skills != "" {
		v.Set("skills", p.Skills)
	}
	if p.MinLinkedinConnections > 0 {
		v.Set("minLinkedinConnections", strconv.Itoa(p.MinLinkedinConnections))
	}
	if p.CompanyLinkedinSlugs != "" {
		v.Set("currentCompanyLinkedinSlugs", p.CompanyLinkedinSlugs)
	}
	return v
}

// SearchResponse is the raw simple-search response.
type SearchResponse struct {
	Items        []SearchItem `json:"items"`
	TotalResults *int         `json:"totalResults,omitempty"`
	Count        *Count       `json:"count,omitempty"`
}

// Count is the alternate result-count shape some endpoints return.
type Count struct {
	Value json.Number `json:"value"`
}

// Total resolves the vendor's two result-count shapes, falling back to the
// item count on the page.
func (r *SearchResponse) Total() int {
	if r.TotalResults != nil {
		return *r.TotalResults
	}
	if r.Count != nil {
		if n, err := r.Count.Value.Int64(); err == nil {
			return int(n)
		}
	}
	return len(r.Items)
}

// SearchItem is one raw search hit.
type SearchItem struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Location string `json:"location"`
	URLs     *URLs  `json:"URLs,omitempty"`
}

// URLs carries external profile links.
type URLs struct {
	Linkedin string `json:"linkedin"`
}

// Position is one role within an experience entry. An empty EndDate means
// the position is ongoing.
type Position struct {
	Title      string `json:"title"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
	Department string `json:"department"`
}

// Experience is one employer entry in a person's history. The vendor orders
// the list most-recent-first.
type Experience struct {
	CompanyName  string     `json:"companyName"`
	CompanyID    string     `json:"companyID"`
	PositionList []Position `json:"positionList"`
	StartDate    string     `json:"startDate"`
	EndDate      string     `json:"endDate"`
}

// Person is the raw person/enrich response.
type Person struct {
	ID             string       `json:"id"`
	FullName       string       `json:"fullName"`
	FirstName      string       `json:"firstName"`
	LastName       string       `json:"lastName"`
	Headline       string       `json:"headline"`
	Location       string       `json:"location"`
	LinkedinID     string       `json:"linkedinID"`
	URLs           *URLs        `json:"URLs,omitempty"`
	ExperienceList []Experience `json:"experienceList"`
	Skills         []string     `json:"skills"`
	About          string       `json:"about"`
}

// Phone is one phone-lookup entry.
type Phone struct {
	PhoneNumber string  `json:"phoneNumber"`
	Score       float64 `json:"score,omitempty"`
}

// Email is one email-lookup entry. Type is "work" or "personal" when known.
type Email struct {
	Email     string `json:"email"`
	Type      string `json:"type,omitempty"`
	CompanyID string `json:"companyID,omitempty"`
}

// Company is one company-search hit.
type Company struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	LinkedinSlug string `json:"linkedinSlug"`
}

// APIError is a non-2xx vendor response.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("aviato: status %d: %s", e.StatusCode, e.Body)
}

// Option configures the Aviato client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithTimeout overrides the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *httpClient) {
		c.http.Timeout = d
	}
}

// WithRateLimit sets the outbound request rate.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *httpClient) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a new Aviato client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: "https://data.api.aviato.co",
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: rate.NewLimiter(rate.Limit(10), 10),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// get issues a GET with query params and returns the response body.
// Non-2xx responses become *APIError.
func (c *httpClient) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "aviato: rate limit wait")
	}

	reqURL := c.baseURL + endpoint
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "aviato: create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrapf(err, "aviato: GET %s", endpoint)
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "aviato: read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return body, nil
}

func (c *httpClient) SimpleSearch(ctx context.Context, params SearchParams) (*SearchResponse, error) {
	body, err := c.get(ctx, "/person/simple/search", params.values())
	if err != nil {
		return nil, err
	}

	var result SearchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "aviato: unmarshal search response")
	}
	return &result, nil
}

func (c *httpClient) Enrich(ctx context.Context, personID string) (*Person, error) {
	body, err := c.get(ctx, "/person/enrich", url.Values{"id": {personID}})
	if err != nil {
		var apiErr *APIError
		if eris.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}

	var result Person
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "aviato: unmarshal enrich response")
	}
	if result.ID == "" {
		return nil, nil
	}
	return &result, nil
}

func (c *httpClient) Phones(ctx context.Context, personID string) ([]Phone, error) {
	body, err := c.get(ctx, "/person/phone", url.Values{"id": {personID}})
	if err != nil {
		return nil, err
	}

	var result struct {
		Phones []Phone `json:"phones"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "aviato: unmarshal phone response")
	}

	phones := make([]Phone, 0, len(result.Phones))
	for _, p := range result.Phones {
		if p.PhoneNumber == "" {
			continue
		}
		phones = append(phones, p)
	}
	return phones, nil
}

func (c *httpClient) Emails(ctx context.Context, personID string) ([]Email, error) {
	body, err := c.get(ctx, "/person/email", url.Values{"id": {personID}})
	if err != nil {
		return nil, err
	}

	var result struct {
		Emails []Email `json:"emails"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "aviato: unmarshal email response")
	}

	emails := make([]Email, 0, len(result.Emails))
	for _, e := range result.Emails {
		if e.Email == "" {
			continue
		}
		emails = append(emails, e)
	}
	return emails, nil
}

func (c *httpClient) CompanySearch(ctx context.Context, industry string, perPage int) ([]Company, error) {
	params := url.Values{"industry": {industry}}
	if perPage > 0 {
		params.Set("perPage", strconv.Itoa(perPage))
	}

	body, err := c.get(ctx, "/company/search", params)
	if err != nil {
		return nil, err
	}

	var result struct {
		Items []Company `json:"items"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "aviato: unmarshal company search response")
	}
	return result.Items, nil
}
