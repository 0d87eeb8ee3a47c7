package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/proofolio/proofolio/internal/server/models"
	"github.com/proofolio/proofolio/internal/server/services"
)

type entryResponse struct {
	Entry *models.Entry `json:"entry"`
}

type entriesResponse struct {
	Entries []*models.Entry `json:"entries"`
}

func (s *HTTPServer) listEntries(w http.ResponseWriter, r *http.Request) {
	f, err := services.ParseFilter(r.URL.Query().Get("q"), r.URL.Query().Get("type"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	list, err := s.entries.ListOwned(r.Context(), accountID(r.Context()), f)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entriesResponse{Entries: list})
}

func (s *HTTPServer) createEntry(w http.ResponseWriter, r *http.Request) {
	var in services.EntryInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	e, err := s.entries.Create(r.Context(), accountID(r.Context()), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, entryResponse{Entry: e})
}

func (s *HTTPServer) getEntry(w http.ResponseWriter, r *http.Request) {
	e, err := s.entries.GetOwned(r.Context(), accountID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entryResponse{Entry: e})
}

func (s *HTTPServer) updateEntry(w http.ResponseWriter, r *http.Request) {
	var in services.EntryInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	e, err := s.entries.UpdateOwned(r.Context(), accountID(r.Context()), chi.URLParam(r, "id"), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entryResponse{Entry: e})
}

func (s *HTTPServer) deleteEntry(w http.ResponseWriter, r *http.Request) {
	if err := s.entries.DeleteOwned(r.Context(), accountID(r.Context()), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "entry deleted"})
}
