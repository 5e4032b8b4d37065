// Package api serves the ingestion service over HTTP.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/okian/healthfetch/internal/adapters/http/swagger"
	"github.com/okian/healthfetch/internal/app"
	"github.com/okian/healthfetch/internal/domain/endpoint"
	"github.com/okian/healthfetch/pkg/logger"
	"github.com/okian/healthfetch/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Service is what the handlers need from the application layer.
type Service interface {
	Endpoints() []endpoint.Descriptor
	Today() []string
	Run(ctx context.Context, dates []string, emit app.Emitter) app.Summary
	Status(ctx context.Context) app.StatusReport
	SetupTable(ctx context.Context) app.SetupReport
	Debug(ctx context.Context) app.DebugReport
}

// Server wires HTTP routes for the ingestion API.
type Server struct {
	svc    Service
	logger logger.Logger
}

// NewServer creates a new API server over svc.
func NewServer(svc Service, opts ...Option) *Server {
	s := &Server{svc: svc, logger: logger.Get().Named("api")}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Routes returns the router with every API route and the docs attached.
func (s *Server) Routes(ctx context.Context) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", MetricsMiddleware(s.HandleHealth, "health"))
		r.Get("/status", MetricsMiddleware(s.HandleStatus, "status"))
		r.Get("/endpoints", MetricsMiddleware(s.HandleEndpoints, "endpoints"))
		r.Post("/setup-table", MetricsMiddleware(s.HandleSetupTable, "setup_table"))
		r.Get("/debug", MetricsMiddleware(s.HandleDebug, "debug"))
		r.Get("/fetch/today", MetricsMiddleware(s.HandleFetchToday, "fetch_today"))
		r.Post("/fetch/range", MetricsMiddleware(s.HandleFetchRange, "fetch_range"))
	})
	swagger.Register(ctx, r)
	r.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
	return r
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
