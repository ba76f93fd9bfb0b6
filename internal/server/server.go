// Package server exposes the analysis pipeline over HTTP: analysis
// submission, profile and graph reads, and a server-sent-events progress
// channel.
package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/sells-group/companyintel/internal/cache"
	"github.com/sells-group/companyintel/internal/model"
)

// Version is reported by the health and root endpoints.
const Version = "1.0.0"

// estimatedTimeSecs is the analysis estimate returned on submission.
const estimatedTimeSecs = 30

// Analyzer runs the full analysis pipeline for a company.
type Analyzer interface {
	RunAnalysis(ctx context.Context, companyName, sessionID string, opts model.AnalyzeOptions) (*model.CompanyProfile, error)
}

// GraphReader serves knowledge-graph subgraphs and backend health.
type GraphReader interface {
	GetGraphData(ctx context.Context, companyID string, depth int) (*model.GraphData, error)
	Ping(ctx context.Context) error
}

// ProgressStreamer forwards a session's progress events to an emitter.
type ProgressStreamer interface {
	Stream(ctx context.Context, sessionID string, emit func(model.ProgressEvent) error) error
}

// Spawner runs analysis work in the background.
type Spawner interface {
	Go(fn func())
}

// Deps are the server's collaborators.
type Deps struct {
	Cache    *cache.Cache
	Graph    GraphReader
	Analyzer Analyzer
	Progress ProgressStreamer
	Spawn    Spawner
	// Credentials maps external service names to whether an API key is
	// configured, surfaced by the health endpoint.
	Credentials map[string]bool
}

type Server struct {
	deps Deps
}

func New(deps Deps) *Server {
	return &Server{deps: deps}
}

// Router builds the HTTP handler. All JSON endpoints live under /api.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
	}))

	r.Get("/", s.handleRoot)
	r.Route("/api", func(r chi.Router) {
		r.Post("/analyze", s.handleAnalyze)
		r.Get("/company/{companyID}", s.handleGetCompany)
		r.Get("/graph/{companyID}", s.handleGetGraph)
		r.Get("/companies", s.handleListCompanies)
		r.Get("/progress/{sessionID}", s.handleProgress)
		r.Get("/health", s.handleHealth)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Debug("response encode failed", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
