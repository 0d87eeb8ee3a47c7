package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/proofolio/proofolio/internal/server/models"
	"github.com/proofolio/proofolio/internal/server/services"
)

type publicUser struct {
	Username string `json:"username"`
}

type profileResponse struct {
	User    publicUser               `json:"user"`
	Entries []*models.Entry          `json:"entries"`
	Counts  map[models.EntryType]int `json:"counts"`
}

type publicEntryResponse struct {
	Entry     *models.Entry       `json:"entry"`
	ProofURLs []services.ProofURL `json:"proofUrls"`
}

func (s *HTTPServer) publicProfile(w http.ResponseWriter, r *http.Request) {
	f, err := services.ParseFilter(r.URL.Query().Get("q"), r.URL.Query().Get("type"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	p, err := s.entries.ListPublic(r.Context(), chi.URLParam(r, "handle"), f)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, profileResponse{
		User:    publicUser{Username: p.Account.Handle},
		Entries: p.Entries,
		Counts:  p.Counts,
	})
}

// publicEntry answers with download URLs that expire; it must not be cached.
func (s *HTTPServer) publicEntry(w http.ResponseWriter, r *http.Request) {
	e, err := s.entries.GetPublic(r.Context(), chi.URLParam(r, "handle"), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	urls, err := s.proofs.PresignPublicProofs(r.Context(), e)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, publicEntryResponse{Entry: e, ProofURLs: urls})
}
