package apiserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"github.com/jw6ventures/eventcal/internal/config"
	"github.com/jw6ventures/eventcal/internal/http/ratelimit"
	"github.com/jw6ventures/eventcal/internal/metrics"
	"github.com/jw6ventures/eventcal/internal/store"
)

// NewRouter serves the reference events API backed by st.
func NewRouter(cfg *config.APIServerConfig, st *store.Store) http.Handler {
	r := chi.NewRouter()

	limiter := ratelimit.NewIPRateLimiter(rate.Limit(20), 40, 5*time.Minute, cfg.TrustedProxies)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware())

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := st.HealthCheck(r.Context()); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if cfg.PrometheusEnabled {
		r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			metrics.Handler().ServeHTTP(w, r)
		})
	}

	h := NewHandler(st.Events)
	r.Route("/api/calendar/events", func(r chi.Router) {
		r.Use(limiter.Middleware())
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})

	return r
}
