package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/proofolio/proofolio/internal/common"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errResponse struct {
	Error string `json:"error"`
}

func errorBody(msg string) errResponse {
	return errResponse{Error: msg}
}

type messageResponse struct {
	Message string `json:"message"`
}

// decodeJSON reads a single JSON object from the request body into v.
// Any decoding problem is a validation error.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return fmt.Errorf("%w: request body too large", common.ErrValidation)
		case errors.Is(err, io.EOF):
			return fmt.Errorf("%w: request body is empty", common.ErrValidation)
		default:
			return fmt.Errorf("%w: malformed JSON: %v", common.ErrValidation, err)
		}
	}
	return nil
}

// writeError answers with the status matching err. Internal failures are
// logged with detail and reported with a generic message.
func (s *HTTPServer) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrValidation), errors.Is(err, common.ErrInvalidID):
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
	case errors.Is(err, common.ErrNotAuthenticated):
		writeJSON(w, http.StatusUnauthorized, errorBody(common.ErrNotAuthenticated.Error()))
	case errors.Is(err, common.ErrorUnauthorized):
		writeJSON(w, http.StatusUnauthorized, errorBody(common.ErrorUnauthorized.Error()))
	case errors.Is(err, common.ErrorNotFound):
		writeJSON(w, http.StatusNotFound, errorBody(common.ErrorNotFound.Error()))
	case errors.Is(err, common.ErrConflict):
		writeJSON(w, http.StatusConflict, errorBody(err.Error()))
	default:
		s.logger.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody(common.ErrorInternal.Error()))
	}
}
