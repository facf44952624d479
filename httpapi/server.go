// Package httpapi exposes the translate-prep pipeline over HTTP: one
// route, chi-routed, with request-id tagging and panic recovery so a
// single request's failure never takes down another in-flight request.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/gaurav-prasanna/cxserver/pipeline"
)

// maxBodyBytes caps the accepted request body so a single oversized
// upload can't exhaust memory before json.Decode ever sees it.
const maxBodyBytes = 50 << 20 // 50 MiB

// Server is the HTTP API server for the translate-prep pipeline.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	log          *zap.Logger
}

// NewServer builds a Server wired to orch, logging through log.
func NewServer(orch *pipeline.Orchestrator, log *zap.Logger) *Server {
	s := &Server{orchestrator: orch, log: log}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/healthz", s.handleHealth)
	r.Post("/v1/translate-prep", s.handleTranslatePrep)

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
