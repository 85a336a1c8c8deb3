package web

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Wiz-2/frontend-login/internal/authflow"
	"github.com/Wiz-2/frontend-login/internal/config"
	"github.com/Wiz-2/frontend-login/internal/metrics"
	"github.com/Wiz-2/frontend-login/internal/web/handlers"
	webmiddleware "github.com/Wiz-2/frontend-login/internal/web/middleware"
)

// NewRouter maps the UI paths to their handlers.
// m may be nil when metrics are disabled.
func NewRouter(cfg *config.Config, h *handlers.Handlers, m *metrics.Metrics, logger *log.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(webmiddleware.LoggingMiddleware(logger))
	r.Use(webmiddleware.Recoverer(logger, h.InternalError))
	r.Use(webmiddleware.MaxBytesMiddleware(cfg.Server.MaxRequestBytes))

	// Credential form
	r.Get(handlers.RootPath, h.Landing)
	r.Post(handlers.RootPath, h.Submit)
	r.Post("/toggle", h.Toggle)

	// Welcome screen; reachable without logging in
	r.Get(authflow.WelcomePath, h.Welcome)
	r.Post("/logout", h.Logout)

	// Static files
	r.Handle("/static/*", h.Static())

	if m != nil && cfg.Metrics.Enabled {
		r.Method(http.MethodGet, cfg.Metrics.Path, m.Handler())
	}

	// 404 handler (must be last)
	r.NotFound(h.NotFound)

	return r
}
