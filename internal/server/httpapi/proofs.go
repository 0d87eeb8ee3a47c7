package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/proofolio/proofolio/internal/server/services"
)

func (s *HTTPServer) presignUpload(w http.ResponseWriter, r *http.Request) {
	var req services.UploadRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	grant, err := s.proofs.RequestUpload(r.Context(), accountID(r.Context()), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, grant)
}

func (s *HTTPServer) attachProof(w http.ResponseWriter, r *http.Request) {
	var in services.ProofInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	e, err := s.proofs.Attach(r.Context(), accountID(r.Context()), chi.URLParam(r, "id"), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entryResponse{Entry: e})
}
