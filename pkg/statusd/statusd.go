// Package statusd implements the gatherer daemon's status/metrics HTTP
// server: GET /healthz, GET /queue, GET /hosts/{host} (SPEC_FULL.md's
// domain-stack wiring of github.com/go-chi/chi/v5) — ambient
// observability surfaced alongside the scheduler, not the admin CLI
// the distilled spec explicitly scopes out.
package statusd

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sherlocksearch/holmes/pkg/scheduler"
)

// HostLister is the subset of *scheduler.Scheduler the status server
// needs; kept as an interface so tests can supply a fake.
type HostLister interface {
	Len() int
	HostState(key scheduler.HostKey) (scheduler.State, int, bool)
}

// Server is the status HTTP server.
type Server struct {
	sched HostLister
	mux   *chi.Mux
}

// New builds a Server wired to sched. Call Handler to get the
// http.Handler to pass to http.Server / httptest.
func New(sched HostLister) *Server {
	s := &Server{sched: sched, mux: chi.NewRouter()}
	s.mux.Get("/healthz", s.handleHealthz)
	s.mux.Get("/queue", s.handleQueue)
	s.mux.Get("/hosts/{host}", s.handleHost)
	return s
}

func (s *Server) Handler() http.Handler { return s.mux }

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleQueue(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"hosts": s.sched.Len()})
}

func (s *Server) handleHost(w http.ResponseWriter, r *http.Request) {
	host := chi.URLParam(r, "host")
	state, depth, ok := s.sched.HostState(scheduler.HostKey{Protocol: "http", Hostname: host, Port: 80})
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown host"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"host":       host,
		"state":      state.String(),
		"queueDepth": depth,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
