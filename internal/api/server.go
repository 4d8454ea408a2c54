// Package api is the transport adapter: it decodes HTTP requests into typed
// field sets, hands them to the semantics engine, and maps engine outcomes
// back to status codes and headers. The mapping is identical for all five
// collections; see resourceHandler.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/roach88/investcrm/internal/domain"
	"github.com/roach88/investcrm/internal/resource"
	"github.com/roach88/investcrm/internal/store"
)

// Server holds the router and shared dependencies.
type Server struct {
	log    *zap.Logger
	store  *store.Store
	router chi.Router
}

// New wires every resource collection onto a fresh router.
func New(st *store.Store, log *zap.Logger) *Server {
	s := &Server{log: log, store: st}

	r := chi.NewRouter()
	r.Use(middleware.StripSlashes)
	r.Use(requestID)
	r.Use(logRequests(log))
	r.Use(recoverPanics(log))

	r.Get("/healthz", s.handleHealth)

	for _, def := range domain.Definitions() {
		tbl := store.NewTable(st, def.Table, def.Columns)
		h := &resourceHandler{
			srv:    s,
			def:    def,
			engine: resource.NewEngine(tbl, def.RefColumns...),
		}
		h.mount(r)
	}

	s.router = r
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// handleHealth reports liveness and store reachability.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		s.writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: "database unreachable"})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
