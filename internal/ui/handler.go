package ui

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/jw6ventures/eventcal/internal/config"
	"github.com/jw6ventures/eventcal/internal/events"
	"github.com/jw6ventures/eventcal/internal/http/csrf"
	"github.com/jw6ventures/eventcal/internal/http/errors"
)

// Handler serves the server-rendered calendar widget.
type Handler struct {
	cfg        *config.Config
	store      *events.Store
	templates  map[string]*template.Template
	categories []string
	now        func() time.Time
}

func NewHandler(cfg *config.Config, store *events.Store) *Handler {
	categories := cfg.Categories
	if len(categories) == 0 {
		categories = events.DefaultCategories
	}
	return &Handler{
		cfg:        cfg,
		store:      store,
		templates:  templates,
		categories: categories,
		now:        time.Now,
	}
}

// redirect sends the browser back to the calendar page for v.
func (h *Handler) redirect(w http.ResponseWriter, r *http.Request, v events.View) {
	http.Redirect(w, r, v.URL("/"), http.StatusSeeOther)
}

// withCSRF adds the request's CSRF token to template data.
func (h *Handler) withCSRF(r *http.Request, data map[string]any) map[string]any {
	data["CSRFToken"] = csrf.TokenFromContext(r.Context())
	return data
}

// render executes a template into a buffer and writes it with status.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	tmpl, ok := h.templates[name]
	if !ok {
		errors.InternalError(w, r, fmt.Errorf("template not found"), fmt.Sprintf("template %q not found", name))
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		errors.InternalError(w, r, err, fmt.Sprintf("template render error for %q", name))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
