package server

import (
	"log/slog"
	"net/http"

	"pasale-dashboard/internal/handlers"
	"pasale-dashboard/internal/middleware"
)

const loginPath = "/login"

type Server struct {
	mux         *http.ServeMux
	logger      *slog.Logger
	apiHandlers *handlers.APIHandlers
	sseHandlers *handlers.SSEHandlers
}

type TemplateHandlers struct {
	Dashboard http.HandlerFunc
	Login     http.HandlerFunc
}

func NewServer(deps handlers.Deps, logger *slog.Logger, templateHandlers *TemplateHandlers) *Server {
	s := &Server{
		mux:         http.NewServeMux(),
		logger:      logger,
		apiHandlers: handlers.NewAPIHandlers(deps, logger),
		sseHandlers: handlers.NewSSEHandlers(deps, logger),
	}
	s.setupRoutes(deps, templateHandlers)
	return s
}

func (s *Server) setupRoutes(deps handlers.Deps, templateHandlers *TemplateHandlers) {
	guard := middleware.RequireSession(deps.Session, loginPath, s.logger)
	private := func(pattern string, h http.HandlerFunc) {
		s.mux.Handle(pattern, guard(h))
	}

	// Public routes
	s.mux.HandleFunc("GET /health", s.apiHandlers.HandleHealth)
	s.mux.HandleFunc("GET "+loginPath, templateHandlers.Login)
	s.mux.HandleFunc("POST /api/auth/login", s.apiHandlers.HandleLogin)
	s.mux.HandleFunc("POST /api/auth/register", s.apiHandlers.HandleRegister)
	s.mux.HandleFunc("POST /api/auth/logout", s.apiHandlers.HandleLogout)
	s.mux.HandleFunc("GET /api/session", s.apiHandlers.HandleSession)

	// Dashboard
	private("GET /{$}", templateHandlers.Dashboard)

	// REST API endpoints
	private("GET /api/overview", s.apiHandlers.HandleOverview)
	private("GET /api/revenue", s.apiHandlers.HandleRevenue)
	private("GET /api/products", s.apiHandlers.HandleProducts)
	private("GET /api/ai-analytics", s.apiHandlers.HandleAIAnalytics)
	private("GET /api/reports/templates", s.apiHandlers.HandleReportTemplates)
	private("POST /api/reports/templates/{id}/quick", s.apiHandlers.HandleQuickGenerate)
	private("GET /api/reports", s.apiHandlers.HandleReports)
	private("POST /api/reports/generate", s.apiHandlers.HandleGenerateReport)
	private("GET /api/reports/export", s.apiHandlers.HandleExport)
	private("GET /api/downloads/{token}", s.apiHandlers.HandleDownload)

	// Datastar SSE endpoints
	private("GET /sse/revenue", s.sseHandlers.HandleRevenue)
	private("GET /sse/ai-analytics", s.sseHandlers.HandleAIAnalytics)
	private("GET /sse/reports", s.sseHandlers.HandleReports)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
