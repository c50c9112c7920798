package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"git.home.luguber.info/inful/docnav/internal/server/handlers"
	smw "git.home.luguber.info/inful/docnav/internal/server/middleware"
)

// AdminHandler returns the admin router: health, readiness, metrics and
// registry status.
func (s *Server) AdminHandler() http.Handler {
	mon := handlers.NewMonitoringHandlers(s.store, s.startTime)

	r := chi.NewRouter()
	r.Use(smw.Chain(s.opts.Logger, s.errorAdapter))

	r.Get(s.cfg.Monitoring.Health.Path, mon.HandleHealthCheck)
	if s.cfg.Monitoring.Health.Path != "/healthz" {
		r.Get("/healthz", mon.HandleHealthCheck)
	}
	r.Get("/ready", mon.HandleReadiness)
	r.Get("/readyz", mon.HandleReadiness)
	r.Get("/api/registry", mon.HandleRegistry)

	if s.cfg.Monitoring.Metrics.Enabled && s.opts.MetricsHandler != nil {
		r.Method(http.MethodGet, s.cfg.Monitoring.Metrics.Path, s.opts.MetricsHandler)
	}
	return r
}
