package forager

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(srv *httptest.Server) Client {
	return NewClient("test-key", "acct-1", WithBaseURL(srv.URL), WithRateLimit(1000, 1000))
}

func TestPersonRoleSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/acct-1/datastorage/person_role_search/", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-API-KEY"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var params SearchParams
		require.NoError(t, json.NewDecoder(r.Body).Decode(&params))
		assert.Equal(t, 2, params.Page)
		assert.Equal(t, "software", params.PersonHeadline)

		json.NewEncoder(w).Encode(SearchResponse{
			TotalSearchResults: 42,
			SearchResults: []SearchResult{
				{
					ID:    100,
					Title: "CTO",
					Person: Person{
						ID:       7,
						FullName: "Ada Lovelace",
						LinkedinInfo: &LinkedinInfo{
							PublicProfileURL: "https://linkedin.com/in/ada",
						},
					},
					Organization: &Organization{ID: 9, Name: "Analytical Engines"},
				},
			},
		})
	}))
	defer srv.Close()

	c := newTestClient(srv)
	resp, err := c.PersonRoleSearch(context.Background(), SearchParams{
		RoleIsCurrent:  true,
		Page:           2,
		PersonHeadline: "software",
	})
	require.NoError(t, err)
	assert.Equal(t, 42, resp.TotalSearchResults)
	require.Len(t, resp.SearchResults, 1)
	assert.Equal(t, "Ada Lovelace", resp.SearchResults[0].Person.FullName)
	assert.Equal(t, "Analytical Engines", resp.SearchResults[0].Organization.Name)
}

func TestPersonRoleSearchAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream broke", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := newTestClient(srv)
	_, err := c.PersonRoleSearch(context.Background(), SearchParams{Page: 1})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Contains(t, apiErr.Error(), "502")
}

func TestPersonDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/acct-1/datastorage/person_detail_lookup/", r.URL.Path)

		var body map[string]int
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, 7, body["person_id"])

		json.NewEncoder(w).Encode(Detail{
			ID:         7,
			FullName:   "Ada Lovelace",
			WorkEmails: []string{"ada@analytical.engines"},
			Location:   &Location{Name: "London"},
			CurrentRole: &RoleDetail{
				Title:       "CTO",
				CompanyName: "Analytical Engines",
				IsCurrent:   true,
			},
		})
	}))
	defer srv.Close()

	c := newTestClient(srv)
	detail, err := c.PersonDetail(context.Background(), 7)
	require.NoError(t, err)
	require.NotNil(t, detail)
	assert.Equal(t, "Ada Lovelace", detail.FullName)
	assert.Equal(t, "London", detail.Location.Name)
	assert.Equal(t, "CTO", detail.CurrentRole.Title)
}

func TestPersonDetailNotFound(t *testing.T) {
	t.Run("404 status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "not found", http.StatusNotFound)
		}))
		defer srv.Close()

		c := newTestClient(srv)
		detail, err := c.PersonDetail(context.Background(), 404)
		require.NoError(t, err)
		assert.Nil(t, detail)
	})

	t.Run("null body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("null"))
		}))
		defer srv.Close()

		c := newTestClient(srv)
		detail, err := c.PersonDetail(context.Background(), 7)
		require.NoError(t, err)
		assert.Nil(t, detail)
	})
}

func TestPhoneNumbers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/acct-1/datastorage/person_contacts_lookup/phone_numbers/", r.URL.Path)
		// Mixed field names, as the vendor has shipped both.
		w.Write([]byte(`[
			{"phone_number": "+15551234567", "type": "mobile"},
			{"number": "+15559876543"},
			{"type": "empty-entry"}
		]`))
	}))
	defer srv.Close()

	c := newTestClient(srv)
	phones, err := c.PhoneNumbers(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, phones, 2)
	assert.Equal(t, "+15551234567", phones[0].Number)
	assert.Equal(t, "mobile", phones[0].Type)
	assert.Equal(t, "+15559876543", phones[1].Number)
}

func TestPhoneNumbersNonArrayBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"detail": "no contact data"}`))
	}))
	defer srv.Close()

	c := newTestClient(srv)
	phones, err := c.PhoneNumbers(context.Background(), 7)
	require.NoError(t, err)
	assert.Empty(t, phones)
}

func TestSearchParamsOmitsZeroFields(t *testing.T) {
	data, err := json.Marshal(SearchParams{Page: 1, PersonHeadline: "eng"})
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	assert.NotContains(t, m, "role_is_current")
	assert.NotContains(t, m, "person_locations")
	assert.NotContains(t, m, "org_locations")
	assert.Contains(t, m, "page")
}
