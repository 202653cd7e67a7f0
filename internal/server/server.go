package server

import (
	"log/slog"
	"net/http"

	"vip-hunter/internal/handlers"
	"vip-hunter/internal/services"
)

type Server struct {
	scorer      *services.Scorer
	mux         *http.ServeMux
	logger      *slog.Logger
	apiHandlers *handlers.APIHandlers
	sseHandlers *handlers.SSEHandlers
}

type TemplateHandlers struct {
	Dashboard http.HandlerFunc
}

func NewServer(scorer *services.Scorer, logger *slog.Logger, templateHandlers *TemplateHandlers) *Server {
	s := &Server{
		scorer:      scorer,
		mux:         http.NewServeMux(),
		logger:      logger,
		apiHandlers: handlers.NewAPIHandlers(scorer, logger),
		sseHandlers: handlers.NewSSEHandlers(scorer, logger),
	}
	s.setupRoutes(templateHandlers)
	return s
}

func (s *Server) setupRoutes(templateHandlers *TemplateHandlers) {
	// Dashboard routes
	s.mux.HandleFunc("GET /", templateHandlers.Dashboard)
	s.mux.HandleFunc("GET /health", s.apiHandlers.HandleHealth)
	s.mux.HandleFunc("GET /admin/stats", s.apiHandlers.HandleStats)

	// Prediction API
	s.mux.HandleFunc("POST /api/predict/batch", s.apiHandlers.HandlePredictBatch)
	s.mux.HandleFunc("POST /api/predict/single", s.apiHandlers.HandlePredictSingle)

	// Datastar SSE endpoints backing the dashboard
	s.mux.HandleFunc("POST /sse/score-customer", s.sseHandlers.HandleScoreCustomer)
	s.mux.HandleFunc("GET /sse/model-info", s.sseHandlers.HandleModelInfo)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
