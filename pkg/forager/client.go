// Package forager provides a client for the Forager people-search API.
package forager

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// Client defines the Forager datastorage operations.
type Client interface {
	// PersonRoleSearch runs a person/role search and returns the raw page.
	PersonRoleSearch(ctx context.Context, params SearchParams) (*SearchResponse, error)
	// PersonDetail fetches a full person profile. Returns (nil, nil) when
	// the vendor reports the person as not found.
	PersonDetail(ctx context.Context, personID int) (*Detail, error)
	// PhoneNumbers looks up contact phone numbers for a person.
	PhoneNumbers(ctx context.Context, personID int) ([]Phone, error)
}

// SearchParams is the person_role_search request body. Zero-valued optional
// fields are omitted so they do not over-constrain the query.
type SearchParams struct {
	RoleIsCurrent           bool     `json:"role_is_current,omitempty"`
	Page                    int      `json:"page"`
	PersonHeadline          string   `json:"person_headline,omitempty"`
	PersonLocations         []string `json:"person_locations,omitempty"`
	OrganizationDescription string   `json:"organization_description,omitempty"`
	OrgLocations            []string `json:"org_locations,omitempty"`
	RoleTitle               string   `json:"role_title,omitempty"`
}

// SearchResponse is the raw person_role_search response.
type SearchResponse struct {
	SearchResults      []SearchResult `json:"search_results"`
	TotalSearchResults int            `json:"total_search_results"`
}

// SearchResult is one raw search hit: a role with its person and organization.
type SearchResult struct {
	ID           int           `json:"id"`
	Title        string        `json:"title"`
	Person       Person        `json:"person"`
	Organization *Organization `json:"organization,omitempty"`
}

// Person is the person stub embedded in a search result.
type Person struct {
	ID           int           `json:"id"`
	FullName     string        `json:"full_name"`
	FirstName    string        `json:"first_name"`
	LastName     string        `json:"last_name"`
	Photo        string        `json:"photo"`
	Headline     string        `json:"headline"`
	LinkedinInfo *LinkedinInfo `json:"linkedin_info,omitempty"`
}

// LinkedinInfo carries the public profile URL when the vendor has one.
type LinkedinInfo struct {
	PublicProfileURL string `json:"public_profile_url"`
}

// Organization is the employer stub embedded in a search result.
type Organization struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// RoleDetail is the current-role block of a person detail.
type RoleDetail struct {
	Title       string `json:"title"`
	CompanyName string `json:"company_name"`
	CompanyID   string `json:"company_id"`
	IsCurrent   bool   `json:"is_current"`
}

// Detail is the raw person_detail_lookup response.
type Detail struct {
	ID             int           `json:"id"`
	FullName       string        `json:"full_name"`
	FirstName      string        `json:"first_name"`
	LastName       string        `json:"last_name"`
	Photo          string        `json:"photo"`
	Headline       string        `json:"headline"`
	LinkedinURL    string        `json:"linkedin_url"`
	LinkedinInfo   *LinkedinInfo `json:"linkedin_info,omitempty"`
	WorkEmails     []string      `json:"work_emails"`
	PersonalEmails []string      `json:"personal_emails"`
	Skills         []string      `json:"skills"`
	Location       *Location     `json:"location,omitempty"`
	Summary        string        `json:"summary"`
	Description    string        `json:"description"`
	CurrentRole    *RoleDetail   `json:"current_role,omitempty"`
}

// Location is the nested location object of a person detail.
type Location struct {
	Name string `json:"name"`
}

// Phone is one normalized phone-lookup entry.
type Phone struct {
	Number string `json:"phone_number"`
	Type   string `json:"type,omitempty"`
}

// APIError is a non-2xx vendor response.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("forager: status %d: %s", e.StatusCode, e.Body)
}

// Option configures the Forager client.
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
	apiKey    string
	accountID string
	baseURL   string
	http      *http.Client
	limiter   *rate.Limiter
}

// NewClient creates a new Forager client.
func NewClient(apiKey, accountID string, opts ...Option) Client {
	c := &httpClient{
		apiKey:    apiKey,
		accountID: accountID,
		baseURL:   "https://api-v2.forager.ai",
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

// post issues a JSON POST to /api/{account_id}/datastorage{endpoint} and
// returns the response body. Non-2xx responses become *APIError.
func (c *httpClient) post(ctx context.Context, endpoint string, body any) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "forager: rate limit wait")
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, eris.Wrap(err, "forager: marshal request")
	}

	reqURL := fmt.Sprintf("%s/api/%s/datastorage%s", c.baseURL, c.accountID, endpoint)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(payload))
	if err != nil {
		return nil, eris.Wrap(err, "forager: create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-KEY", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrapf(err, "forager: POST %s", endpoint)
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "forager: read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	return respBody, nil
}

func (c *httpClient) PersonRoleSearch(ctx context.Context, params SearchParams) (*SearchResponse, error) {
	body, err := c.post(ctx, "/person_role_search/", params)
	if err != nil {
		return nil, err
	}

	var result SearchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "forager: unmarshal search response")
	}
	return &result, nil
}

func (c *httpClient) PersonDetail(ctx context.Context, personID int) (*Detail, error) {
	body, err := c.post(ctx, "/person_detail_lookup/", map[string]int{"person_id": personID})
	if err != nil {
		var apiErr *APIError
		if eris.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}

	// The vendor returns a JSON null body for unknown persons.
	if len(bytes.TrimSpace(body)) == 0 || string(bytes.TrimSpace(body)) == "null" {
		return nil, nil
	}

	var result Detail
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "forager: unmarshal detail response")
	}
	return &result, nil
}

func (c *httpClient) PhoneNumbers(ctx context.Context, personID int) ([]Phone, error) {
	body, err := c.post(ctx, "/person_contacts_lookup/phone_numbers/", map[string]int{"person_id": personID})
	if err != nil {
		return nil, err
	}

	// The vendor has shipped both {phone_number} and {number} shapes.
	var raw []struct {
		PhoneNumber string `json:"phone_number"`
		Number      string `json:"number"`
		Type        string `json:"type"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		// Non-array payloads (e.g. an error object with a 2xx status) mean
		// no numbers, not a failure.
		return nil, nil
	}

	phones := make([]Phone, 0, len(raw))
	for _, p := range raw {
		number := p.PhoneNumber
		if number == "" {
			number = p.Number
		}
		if number == "" {
			continue
		}
		phones = append(phones, Phone{Number: number, Type: p.Type})
	}
	return phones, nil
}
