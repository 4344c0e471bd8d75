package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/a-h/templ"

	"pasale-dashboard/internal/client"
	"pasale-dashboard/internal/config"
	"pasale-dashboard/internal/forms"
	"pasale-dashboard/internal/handlers"
	"pasale-dashboard/internal/middleware"
	"pasale-dashboard/internal/observability"
	"pasale-dashboard/internal/server"
	"pasale-dashboard/internal/services"
	"pasale-dashboard/internal/session"
	"pasale-dashboard/internal/ui/templates"
)

const renderTimeout = 10 * time.Second

type app struct {
	handler   http.Handler
	state     *session.AppState
	reports   *services.ReportService
	downloads *services.DownloadStore
}

func renderPage(page func() templ.Component) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
		defer cancel()

		w.Header().Set("Cache-Control", "no-store")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := page().Render(ctx, w); err != nil {
			http.Error(w, "render error", http.StatusInternalServerError)
		}
	}
}

// newApp wires the services over one session and returns the full handler
// chain.
func newApp(cfg *config.Config, logger *slog.Logger) (*app, error) {
	state := session.NewAppState(session.NewFileStore(cfg.Session.File))
	if err := state.Restore(); err != nil {
		logger.Warn("discarding unreadable session", "file", cfg.Session.File, "error", err)
		if err := state.SignOut(); err != nil {
			return nil, fmt.Errorf("reset session: %w", err)
		}
	}

	formatter, err := services.NewFormatter(cfg.Formatter.Locale, cfg.Formatter.Currency)
	if err != nil {
		return nil, err
	}

	api := client.New(cfg.Upstream.BaseURL, cfg.Upstream.Timeout, state, logger)
	dashboard := services.NewDashboard(api, services.NewFallbackSupplier(), logger)
	downloads := services.NewDownloadStore(cfg.Reports.DownloadTTL)
	reports := services.NewReportService(dashboard, services.NewExporter(formatter, logger), downloads, logger)
	auth := services.NewAuthService(api, state, forms.New(), logger)

	deps := handlers.Deps{
		Dashboard:     dashboard,
		Reports:       reports,
		Auth:          auth,
		Downloads:     downloads,
		Formatter:     formatter,
		Session:       state,
		ForecastWeeks: cfg.Reports.ForecastWeeks,
	}

	templateHandlers := &server.TemplateHandlers{
		Dashboard: renderPage(func() templ.Component { return templates.Dashboard(state.User()) }),
		Login:     renderPage(templates.Login),
	}

	srv := server.NewServer(deps, logger, templateHandlers)
	rateLimiter := middleware.NewRateLimiter(cfg.Security)

	middlewareChain := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Tracing(logger),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.Security),
		middleware.TrustedProxy(cfg.Security),
		middleware.RateLimit(rateLimiter, logger),
	)

	return &app{
		handler:   middlewareChain(srv),
		state:     state,
		reports:   reports,
		downloads: downloads,
	}, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Logger)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"version", "1.0.0",
		"api_base_url", cfg.Upstream.BaseURL,
		"addr", cfg.Address(),
	)

	a, err := newApp(cfg, logger)
	if err != nil {
		logger.Error("failed to initialise application", "error", err)
		os.Exit(1)
	}
	logger.Info("session restored", "authenticated", a.state.Authenticated())

	httpServer := &http.Server{
		Addr:         cfg.Address(),
		Handler:      a.handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	gracefulServer := server.NewGracefulServer(httpServer, logger, cfg)
	gracefulServer.RegisterShutdownHook("reports", func(ctx context.Context) error {
		logger.Info("discarding generated reports",
			"reports", len(a.reports.Reports(services.ReportFilter{})),
			"pending_downloads", a.downloads.Len(),
		)
		return nil
	})

	if err := gracefulServer.ListenAndServe(context.Background()); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("application stopped gracefully")
}
