package httpserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"github.com/jw6ventures/eventcal/internal/config"
	"github.com/jw6ventures/eventcal/internal/events"
	"github.com/jw6ventures/eventcal/internal/http/basicauth"
	"github.com/jw6ventures/eventcal/internal/http/csrf"
	"github.com/jw6ventures/eventcal/internal/http/ratelimit"
	"github.com/jw6ventures/eventcal/internal/metrics"
	"github.com/jw6ventures/eventcal/internal/ui"
)

// NewRouter wires the widget's HTTP routes.
func NewRouter(cfg *config.Config, store *events.Store) http.Handler {
	r := chi.NewRouter()

	// Mutations hit the remote API: 5 requests per second, burst of 10
	writeLimiter := ratelimit.NewIPRateLimiter(rate.Limit(5), 10, 5*time.Minute, cfg.TrustedProxies)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(overrideMethod)
	r.Use(metrics.Middleware())
	if cfg.BasicAuthEnabled() {
		r.Use(basicauth.Middleware(cfg.BasicAuth.Username, cfg.BasicAuth.PasswordHash, "/healthz", "/readyz"))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Ready once the first load has succeeded.
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if loaded, _ := store.Loaded(); !loaded {
			http.Error(w, "unready", http.StatusServiceUnavailable)
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

	uiHandler := ui.NewHandler(cfg, store)

	r.Get("/api/events", uiHandler.MonthEventsJSON)
	r.Get("/calendar.ics", uiHandler.CalendarFeed)

	r.Group(func(r chi.Router) {
		r.Use(csrf.Middleware(cfg.BaseURL))
		r.Get("/", uiHandler.Calendar)

		r.Group(func(r chi.Router) {
			r.Use(writeLimiter.Middleware())
			r.Post("/refresh", uiHandler.Refresh)
			r.Post("/events", uiHandler.CreateEvent)
			r.Put("/events/{id}", uiHandler.UpdateEvent)
			r.Delete("/events/{id}", uiHandler.DeleteEvent)
			r.Post("/events/{id}/delete", uiHandler.DeleteEvent) // HTML form fallback
		})
	})

	return r
}

func overrideMethod(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method := r.Method
		if r.Method == http.MethodPost {
			if m := strings.TrimSpace(r.PostFormValue("_method")); m != "" {
				method = m
			} else if m := strings.TrimSpace(r.URL.Query().Get("_method")); m != "" {
				method = m
			}
		}
		switch strings.ToUpper(method) {
		case http.MethodPut, http.MethodDelete:
			r.Method = strings.ToUpper(method)
		}
		next.ServeHTTP(w, r)
	})
}
