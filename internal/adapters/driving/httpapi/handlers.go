package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/galeria-labs/galeria/internal/core/domain"
	"github.com/galeria-labs/galeria/internal/logger"
	"github.com/galeria-labs/galeria/internal/textmatch"
)

// resultPayload is the JSON shape of one result item.
type resultPayload struct {
	ID          string `json:"id"`
	Kind        string `json:"kind"`
	DisplayName string `json:"display_name"`
	Href        string `json:"href"`
	UpdatedAt   string `json:"updated_at,omitempty"`
}

// searchResponse is the payload of /search and /artists.
type searchResponse struct {
	Query   string          `json:"query"`
	Results []resultPayload `json:"results"`
}

// tagResponse is the payload of /tag/{slug}.
type tagResponse struct {
	Slug    string          `json:"slug"`
	Label   string          `json:"label"`
	Results []resultPayload `json:"results"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	items := s.discovery.Search(r.Context(), query)
	writeJSON(w, http.StatusOK, searchResponse{
		Query:   query,
		Results: toPayload(items),
	})
}

func (s *Server) handleTag(w http.ResponseWriter, r *http.Request) {
	// Re-slugify so a raw label pasted into the URL still canonicalizes.
	slug := textmatch.Slugify(r.PathValue("slug"))
	if slug == "" {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown tag"})
		return
	}
	items := s.discovery.SearchByTag(r.Context(), slug)
	writeJSON(w, http.StatusOK, tagResponse{
		Slug:    slug,
		Label:   textmatch.LabelFromSlug(slug),
		Results: toPayload(items),
	})
}

func (s *Server) handleArtists(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	items := s.directory.SearchArtists(r.Context(), query)
	writeJSON(w, http.StatusOK, searchResponse{
		Query:   query,
		Results: toPayload(items),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func toPayload(items []domain.ResultItem) []resultPayload {
	// An empty result set renders as [] rather than null: the client
	// shows an explicit "no results" state.
	out := make([]resultPayload, 0, len(items))
	for _, item := range items {
		p := resultPayload{
			ID:          item.ID,
			Kind:        item.Kind,
			DisplayName: item.DisplayName,
			Href:        item.Href,
		}
		if !item.UpdatedAt.IsZero() {
			p.UpdatedAt = item.UpdatedAt.UTC().Format(time.RFC3339)
		}
		out = append(out, p)
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Warn("http: writing response: %v", err)
	}
}
