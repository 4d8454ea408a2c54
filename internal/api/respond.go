package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/roach88/investcrm/internal/domain"
	"github.com/roach88/investcrm/internal/resource"
)

// errorBody is the JSON shape for every non-2xx response that carries one.
type errorBody struct {
	Error string `json:"error"`
}

// writeJSON encodes v as the response body. Encoding failures at this point
// can only be logged; the status line has already been sent.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("encode response", zap.Error(err))
	}
}

// writeError maps an error onto the failure taxonomy:
//
//	NotFound          → 404, no retry, user-visible
//	ValidationFailure → 422, rejected before any store access
//	malformed request → 400
//	StoreFailure      → 500, propagated unmodified, never retried
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, resource.ErrNotFound):
		w.WriteHeader(http.StatusNotFound)
	case errors.Is(err, domain.ErrValidation), errors.Is(err, resource.ErrEmptyPatch):
		s.writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: err.Error()})
	case errors.Is(err, errBadRequest):
		s.writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	default:
		s.log.Error("store failure",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		s.writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

// errBadRequest marks requests that never made it to validation: unreadable
// bodies, syntactically broken JSON, non-integer ids.
var errBadRequest = errors.New("bad request")
