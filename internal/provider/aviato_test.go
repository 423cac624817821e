package provider

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garygao333/chert-number-search/internal/model"
	"github.com/garygao333/chert-number-search/pkg/aviato"
)

// mockAviatoClient implements aviato.Client for testing.
type mockAviatoClient struct {
	searchFn  func(ctx context.Context, params aviato.SearchParams) (*aviato.SearchResponse, error)
	enrichFn  func(ctx context.Context, personID string) (*aviato.Person, error)
	phonesFn  func(ctx context.Context, personID string) ([]aviato.Phone, error)
	emailsFn  func(ctx context.Context, personID string) ([]aviato.Email, error)
	companyFn func(ctx context.Context, industry string, perPage int) ([]aviato.Company, error)
}

func (m *mockAviatoClient) SimpleSearch(ctx context.Context, params aviato.SearchParams) (*aviato.SearchResponse, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, params)
	}
	return &aviato.SearchResponse{}, nil
}

func (m *mockAviatoClient) Enrich(ctx context.Context, personID string) (*aviato.Person, error) {
	if m.enrichFn != nil {
		return m.enrichFn(ctx, personID)
	}
	return nil, nil
}

func (m *mockAviatoClient) Phones(ctx context.Context, personID string) ([]aviato.Phone, error) {
	if m.phonesFn != nil {
		return m.phonesFn(ctx, personID)
	}
	return nil, nil
}

func (m *mockAviatoClient) Emails(ctx context.Context, personID string) ([]aviato.Email, error) {
	if m.emailsFn != nil {
		return m.emailsFn(ctx, personID)
	}
	return nil, nil
}

func (m *mockAviatoClient) CompanySearch(ctx context.Context, industry string, perPage int) ([]aviato.Company, error) {
	if m.companyFn != nil {
		return m.companyFn(ctx, industry, perPage)
	}
	return nil, nil
}

func TestAviatoSearchNormalization(t *testing.T) {
	mock := &mockAviatoClient{
		searchFn: func(_ context.Context, params aviato.SearchParams) (*aviato.SearchResponse, error) {
			assert.Equal(t, 1, params.Page)
			assert.Equal(t, 2, params.PerPage)
			total := 30
			return &aviato.SearchResponse{
				TotalResults: &total,
				Items: []aviato.SearchItem{
					{ID: "av-1", FullName: "Grace Hopper", URLs: &aviato.URLs{Linkedin: "linkedin.com/in/grace"}},
					{ID: "av-2", FullName: "Alan Turing"},
				},
			}, nil
		},
		enrichFn: func(_ context.Context, personID string) (*aviato.Person, error) {
			if personID == "av-2" {
				return nil, eris.New("enrich down")
			}
			return &aviato.Person{
				ID:       "av-1",
				FullName: "Grace B. Hopper",
				Headline: "Computing pioneer",
				ExperienceList: []aviato.Experience{
					{CompanyName: "Navy", CompanyID: "c-n", PositionList: []aviato.Position{{Title: "Rear Admiral"}}},
				},
			}, nil
		},
	}

	resp, matches, err := NewAviato(mock).Search(context.Background(), model.AviatoSearchFilters{Headline: "pioneer"}, 1, 2)
	require.NoError(t, err)
	assert.Nil(t, matches)

	require.Len(t, resp.Results, 2)
	first, second := resp.Results[0], resp.Results[1]

	assert.Equal(t, "aviato-av-1-1-0", first.Person.ID)
	assert.Equal(t, "av-1", first.Person.PersonID)
	// Enriched data overrides the stub.
	assert.Equal(t, "Grace B. Hopper", first.Person.FullName)
	assert.Equal(t, "Computing pioneer", first.Person.Headline)
	assert.Equal(t, "https://linkedin.com/in/grace", first.Person.LinkedinURL)
	assert.Equal(t, "Rear Admiral", first.Role.Title)
	assert.Equal(t, "Navy", first.Role.CompanyName)

	// Per-item enrich failure falls back to the search stub.
	assert.Equal(t, "aviato-av-2-1-1", second.Person.ID)
	assert.Equal(t, "Alan Turing", second.Person.FullName)
	assert.Empty(t, second.Person.Headline)

	assert.Equal(t, 30, resp.TotalCount)
	assert.True(t, resp.HasMore)
}

func TestAviatoSearchEmptyPage(t *testing.T) {
	mock := &mockAviatoClient{
		searchFn: func(_ context.Context, _ aviato.SearchParams) (*aviato.SearchResponse, error) {
			return &aviato.SearchResponse{}, nil
		},
		enrichFn: func(_ context.Context, _ string) (*aviato.Person, error) {
			t.Fatal("enrich should not run for an empty page")
			return nil, nil
		},
	}

	resp, _, err := NewAviato(mock).Search(context.Background(), model.AviatoSearchFilters{}, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, resp.Results)
	assert.False(t, resp.HasMore)
}

func TestResolveIndustry(t *testing.T) {
	t.Run("no industry passes through", func(t *testing.T) {
		mock := &mockAviatoClient{
			companyFn: func(_ context.Context, _ string, _ int) ([]aviato.Company, error) {
				t.Fatal("company search should not run")
				return nil, nil
			},
		}
		in := model.AviatoSearchFilters{Headline: "founder"}
		out, matches, err := NewAviato(mock).ResolveIndustry(context.Background(), in)
		require.NoError(t, err)
		assert.Equal(t, in, out)
		assert.Nil(t, matches)
	})

	t.Run("industry becomes slugs", func(t *testing.T) {
		mock := &mockAviatoClient{
			companyFn: func(_ context.Context, industry string, perPage int) ([]aviato.Company, error) {
				assert.Equal(t, "fintech", industry)
				assert.Equal(t, 10, perPage)
				return []aviato.Company{
					{ID: "c-1", Name: "Acme Pay", LinkedinSlug: "acme-pay"},
					{ID: "c-2", Name: "Globex Bank", LinkedinSlug: "globex-bank"},
					{ID: "c-3", Name: "No Slug Inc"},
				}, nil
			},
		}
		out, matches, err := NewAviato(mock).ResolveIndustry(context.Background(), model.AviatoSearchFilters{CompanyIndustry: "fintech"})
		require.NoError(t, err)
		assert.Empty(t, out.CompanyIndustry)
		assert.Equal(t, "acme-pay,globex-bank", out.CompanyLinkedinSlugs)
		require.Len(t, matches, 3)
		assert.Equal(t, "Acme Pay", matches[0].Name)
	})

	t.Run("zero matches drop the constraint", func(t *testing.T) {
		mock := &mockAviatoClient{
			companyFn: func(_ context.Context, _ string, _ int) ([]aviato.Company, error) {
				return nil, nil
			},
		}
		out, matches, err := NewAviato(mock).ResolveIndustry(context.Background(), model.AviatoSearchFilters{CompanyIndustry: "underwater basket weaving"})
		require.NoError(t, err)
		assert.Empty(t, out.CompanyIndustry)
		assert.Empty(t, out.CompanyLinkedinSlugs)
		assert.Nil(t, matches)
	})

	t.Run("company search error propagates", func(t *testing.T) {
		mock := &mockAviatoClient{
			companyFn: func(_ context.Context, _ string, _ int) ([]aviato.Company, error) {
				return nil, eris.New("company search down")
			},
		}
		_, _, err := NewAviato(mock).ResolveIndustry(context.Background(), model.AviatoSearchFilters{CompanyIndustry: "fintech"})
		require.Error(t, err)
	})
}

func TestAviatoEnrich(t *testing.T) {
	mock := &mockAviatoClient{
		enrichFn: func(_ context.Context, personID string) (*aviato.Person, error) {
			assert.Equal(t, "av-1", personID)
			return &aviato.Person{
				ID:       "av-1",
				FullName: "Grace Hopper",
				Location: "Arlington",
				Skills:   []string{"COBOL"},
				ExperienceList: []aviato.Experience{
					{CompanyName: "Retired", EndDate: "1986-08"},
					{CompanyName: "Navy", CompanyID: "c-n", PositionList: []aviato.Position{
						{Title: "Consultant", EndDate: "1971-01"},
						{Title: "Rear Admiral"},
					}},
				},
			}, nil
		},
		phonesFn: func(_ context.Context, _ string) ([]aviato.Phone, error) {
			return []aviato.Phone{{PhoneNumber: "+15551112222"}}, nil
		},
		emailsFn: func(_ context.Context, _ string) ([]aviato.Email, error) {
			return []aviato.Email{
				{Email: "grace@navy.mil", Type: "work"},
				{Email: "grace@home.net", Type: "personal"},
			}, nil
		},
	}

	p, err := NewAviato(mock).Enrich(context.Background(), "av-1")
	require.NoError(t, err)
	require.NotNil(t, p)

	assert.Equal(t, "av-1", p.ID)
	assert.Equal(t, []string{"grace@navy.mil"}, p.WorkEmails)
	assert.Equal(t, []string{"grace@home.net"}, p.PersonalEmails)
	require.Len(t, p.PhoneNumbers, 1)

	// The ongoing experience and position win over more recent closed ones.
	require.NotNil(t, p.CurrentRole)
	assert.Equal(t, "Navy", p.CurrentRole.CompanyName)
	assert.Equal(t, "Rear Admiral", p.CurrentRole.Title)
	assert.Equal(t, model.SourceAviato, p.Source)
}

func TestAviatoEnrichUntypedEmailsBecomeWork(t *testing.T) {
	mock := &mockAviatoClient{
		enrichFn: func(_ context.Context, _ string) (*aviato.Person, error) {
			return &aviato.Person{ID: "av-1", FullName: "Grace Hopper"}, nil
		},
		emailsFn: func(_ context.Context, _ string) ([]aviato.Email, error) {
			return []aviato.Email{{Email: "grace@somewhere.org"}}, nil
		},
	}

	p, err := NewAviato(mock).Enrich(context.Background(), "av-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"grace@somewhere.org"}, p.WorkEmails)
	assert.Empty(t, p.PersonalEmails)
}

func TestAviatoEnrichFacetFailuresDegrade(t *testing.T) {
	mock := &mockAviatoClient{
		enrichFn: func(_ context.Context, _ string) (*aviato.Person, error) {
			return &aviato.Person{ID: "av-1", FullName: "Grace Hopper"}, nil
		},
		phonesFn: func(_ context.Context, _ string) ([]aviato.Phone, error) {
			return nil, eris.New("phones down")
		},
		emailsFn: func(_ context.Context, _ string) ([]aviato.Email, error) {
			return nil, eris.New("emails down")
		},
	}

	p, err := NewAviato(mock).Enrich(context.Background(), "av-1")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Empty(t, p.PhoneNumbers)
	assert.Empty(t, p.WorkEmails)
}

func TestAviatoEnrichProfileFailureFails(t *testing.T) {
	mock := &mockAviatoClient{
		enrichFn: func(_ context.Context, _ string) (*aviato.Person, error) {
			return nil, eris.New("profile down")
		},
	}

	_, err := NewAviato(mock).Enrich(context.Background(), "av-1")
	require.Error(t, err)
}

func TestAviatoEnrichUnknownPerson(t *testing.T) {
	p, err := NewAviato(&mockAviatoClient{}).Enrich(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestAviatoLookupName(t *testing.T) {
	mock := &mockAviatoClient{
		searchFn: func(_ context.Context, params aviato.SearchParams) (*aviato.SearchResponse, error) {
			assert.Equal(t, "Grace Hopper", params.FullName)
			assert.Equal(t, 1, params.PerPage)
			return &aviato.SearchResponse{
				Items: []aviato.SearchItem{{ID: "av-1", FullName: "Grace Hopper"}},
			}, nil
		},
		enrichFn: func(_ context.Context, _ string) (*aviato.Person, error) {
			return &aviato.Person{ID: "av-1", FullName: "Grace B. Hopper"}, nil
		},
		phonesFn: func(_ context.Context, _ string) ([]aviato.Phone, error) {
			return []aviato.Phone{{PhoneNumber: "+15551112222"}}, nil
		},
	}

	r, err := NewAviato(mock).LookupName(context.Background(), "Grace Hopper")
	require.NoError(t, err)
	assert.Equal(t, model.LookupFound, r.Status)
	assert.Equal(t, "Grace B. Hopper", r.MatchedName)
	assert.Equal(t, "av-1", r.PersonID)
	assert.Equal(t, []string{"+15551112222"}, r.PhoneNumbers)
}

func TestAviatoLookupNameNoHits(t *testing.T) {
	r, err := NewAviato(&mockAviatoClient{}).LookupName(context.Background(), "Nobody Here")
	require.NoError(t, err)
	assert.Equal(t, model.LookupNotFound, r.Status)
	assert.NotNil(t, r.PhoneNumbers)
	assert.Empty(t, r.PhoneNumbers)
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"linkedin.com/in/grace", "https://linkedin.com/in/grace"},
		{"https://linkedin.com/in/grace", "https://linkedin.com/in/grace"},
		{"http://linkedin.com/in/grace", "http://linkedin.com/in/grace"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeURL(tt.in), tt.in)
	}
}
