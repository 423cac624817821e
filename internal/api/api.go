// Package api exposes the search, enrichment, lookup and contact routes
// over HTTP.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/garygao333/chert-number-search/internal/config"
	"github.com/garygao333/chert-number-search/internal/enrich"
	"github.com/garygao333/chert-number-search/internal/lookup"
	"github.com/garygao333/chert-number-search/internal/model"
	"github.com/garygao333/chert-number-search/internal/provider"
	"github.com/garygao333/chert-number-search/internal/store"
)

// Server wires the providers and store into HTTP handlers.
type Server struct {
	forager *provider.Forager
	aviato  *provider.Aviato
	store   store.Store
	batch   config.BatchConfig
}

// New creates a Server.
func New(foragerAdapter *provider.Forager, aviatoAdapter *provider.Aviato, st store.Store, batch config.BatchConfig) *Server {
	return &Server{
		forager: foragerAdapter,
		aviato:  aviatoAdapter,
		store:   st,
		batch:   batch,
	}
}

// Router builds the chi route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Post("/forager/search", s.handleForagerSearch)
		r.Post("/forager/enrich", s.handleForagerEnrich)
		r.Post("/aviato/search", s.handleAviatoSearch)
		r.Post("/aviato/enrich", s.handleAviatoEnrich)
		r.Post("/lookup/forager", s.handleLookup(s.forager))
		r.Post("/lookup/aviato", s.handleLookup(s.aviato))
		r.Post("/contacts", s.handleSaveContacts)
		r.Get("/contacts", s.handleListContacts)
	})
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type searchRequest[F any] struct {
	Filters  F   `json:"filters"`
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

func decodeSearchRequest[F any](r *http.Request) (searchRequest[F], error) {
	req := searchRequest[F]{Page: 1, PageSize: 10}
	err := json.NewDecoder(r.Body).Decode(&req)
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 10
	}
	return req, err
}

func (s *Server) handleForagerSearch(w http.ResponseWriter, r *http.Request) {
	req, err := decodeSearchRequest[model.SearchFilters](r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := s.forager.Search(r.Context(), req.Filters, req.Page, req.PageSize)
	if err != nil {
		zap.L().Error("forager search failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// aviatoSearchResponse adds the resolver's company matches to the normal
// search page.
type aviatoSearchResponse struct {
	*model.SearchResponse
	CompanyMatches []model.CompanyMatch `json:"companyMatches,omitempty"`
}

func (s *Server) handleAviatoSearch(w http.ResponseWriter, r *http.Request) {
	req, err := decodeSearchRequest[model.AviatoSearchFilters](r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, matches, err := s.aviato.Search(r.Context(), req.Filters, req.Page, req.PageSize)
	if err != nil {
		zap.L().Error("aviato search failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, aviatoSearchResponse{SearchResponse: resp, CompanyMatches: matches})
}

type enrichRequest struct {
	PersonIDs []string `json:"personIds"`
}

func (s *Server) handleForagerEnrich(w http.ResponseWriter, r *http.Request) {
	s.handleEnrich(w, r, s.forager)
}

func (s *Server) handleAviatoEnrich(w http.ResponseWriter, r *http.Request) {
	s.handleEnrich(w, r, s.aviato)
}

func (s *Server) handleEnrich(w http.ResponseWriter, r *http.Request, enricher provider.Enricher) {
	var req enrichRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.PersonIDs) == 0 {
		writeError(w, http.StatusBadRequest, "personIds array is required")
		return
	}

	orchestrator := enrich.NewOrchestrator(enricher, s.batch.EnrichSize)
	enriched := orchestrator.EnrichMany(r.Context(), req.PersonIDs)
	writeJSON(w, http.StatusOK, map[string]any{"enrichedPeople": enriched})
}

type lookupRequest struct {
	Names []string `json:"names"`
}

func (s *Server) handleLookup(resolver provider.NameResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req lookupRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		pipeline := lookup.NewPipeline(resolver, s.batch.LookupSize)
		results, err := pipeline.LookupAll(r.Context(), req.Names)
		if err != nil {
			// The only pipeline-level error is empty input, rejected
			// before any vendor call.
			writeError(w, http.StatusBadRequest, "names array is required")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"results": results})
	}
}

type contactsRequest struct {
	Contacts []model.ContactRecord `json:"contacts"`
}

func (s *Server) handleSaveContacts(w http.ResponseWriter, r *http.Request) {
	var req contactsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Contacts) == 0 {
		writeError(w, http.StatusBadRequest, "contacts array is required")
		return
	}

	saved, err := s.store.UpsertContacts(r.Context(), req.Contacts)
	if err != nil {
		zap.L().Error("save contacts failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to save contacts: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "savedCount": saved})
}

func (s *Server) handleListContacts(w http.ResponseWriter, r *http.Request) {
	contacts, err := s.store.ListContacts(r.Context())
	if err != nil {
		zap.L().Error("list contacts failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to fetch contacts: "+err.Error())
		return
	}
	if contacts == nil {
		contacts = []model.ContactRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"contacts": contacts})
}
