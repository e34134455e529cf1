package server

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tour-analytics/internal/handlers"
	"tour-analytics/internal/services"
)

type Server struct {
	analytics   *services.Analytics
	mux         *http.ServeMux
	logger      *slog.Logger
	apiHandlers *handlers.APIHandlers
	sseHandlers *handlers.SSEHandlers
}

type TemplateHandlers struct {
	Dashboard http.HandlerFunc
}

func NewServer(analytics *services.Analytics, logger *slog.Logger, templateHandlers *TemplateHandlers) *Server {
	s := &Server{
		analytics:   analytics,
		mux:         http.NewServeMux(),
		logger:      logger,
		apiHandlers: handlers.NewAPIHandlers(analytics, logger),
		sseHandlers: handlers.NewSSEHandlers(analytics, logger),
	}
	s.setupRoutes(templateHandlers)
	return s
}

func (s *Server) setupRoutes(templateHandlers *TemplateHandlers) {
	// Dashboard and operations
	s.mux.HandleFunc("GET /{$}", templateHandlers.Dashboard)
	s.mux.HandleFunc("GET /health", s.apiHandlers.HandleHealth)
	s.mux.HandleFunc("GET /admin/stats", s.apiHandlers.HandleStats)
	s.mux.Handle("GET /metrics", promhttp.Handler())

	// REST API endpoints
	s.mux.HandleFunc("GET /api/analytics", s.apiHandlers.HandleSnapshot)
	s.mux.HandleFunc("GET /api/analytics/clients", s.apiHandlers.HandleClients)
	s.mux.HandleFunc("GET /api/analytics/tours", s.apiHandlers.HandleTours)
	s.mux.HandleFunc("GET /api/analytics/applications", s.apiHandlers.HandleApplications)
	s.mux.HandleFunc("GET /api/analytics/mixed", s.apiHandlers.HandleMixed)

	// Datastar SSE endpoints
	s.mux.HandleFunc("GET /sse/clients", s.sseHandlers.HandleClients)
	s.mux.HandleFunc("GET /sse/tours", s.sseHandlers.HandleTours)
	s.mux.HandleFunc("GET /sse/applications", s.sseHandlers.HandleApplications)
	s.mux.HandleFunc("GET /sse/mixed", s.sseHandlers.HandleMixed)
	s.mux.HandleFunc("GET /sse/refresh-all", s.sseHandlers.HandleRefreshAll)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
