package apiserver

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/jw6ventures/eventcal/internal/datekey"
	"github.com/jw6ventures/eventcal/internal/events"
	"github.com/jw6ventures/eventcal/internal/http/errors"
	"github.com/jw6ventures/eventcal/internal/store"
)

const maxBodyBytes = 64 << 10

// Handler serves the events collection the widget talks to.
type Handler struct {
	repo store.EventRepository
}

func NewHandler(repo store.EventRepository) *Handler {
	return &Handler{repo: repo}
}

type eventPayload struct {
	Date     string `json:"date"`
	Event    string `json:"event"`
	Category string `json:"category"`
}

func toWire(e store.Event) events.Event {
	return events.Event{
		ID:       events.ID(e.ID),
		Date:     datekey.Key(e.Date),
		Event:    e.Title,
		Category: e.Category,
	}
}

// decode reads a payload and returns the canonical record it describes.
func decode(r *http.Request) (store.Event, string) {
	var p eventPayload
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(&p); err != nil {
		return store.Event{}, "invalid JSON body"
	}
	key, err := datekey.Parse(p.Date)
	if err != nil {
		return store.Event{}, "date must be YYYY-MM-DD"
	}
	title := strings.TrimSpace(p.Event)
	if title == "" {
		return store.Event{}, "event must not be empty"
	}
	return store.Event{Date: key.String(), Title: title, Category: strings.TrimSpace(p.Category)}, ""
}

// List handles GET /api/calendar/events/.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.repo.List(r.Context())
	if err != nil {
		h.fail(w, r, err, "list events")
		return
	}
	out := make([]events.Event, 0, len(list))
	for _, e := range list {
		out = append(out, toWire(e))
	}
	writeJSON(w, r, http.StatusOK, out)
}

// Get handles GET /api/calendar/events/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	e, err := h.repo.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err, "get event")
		return
	}
	writeJSON(w, r, http.StatusOK, toWire(*e))
}

// Create handles POST /api/calendar/events/.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	e, msg := decode(r)
	if msg != "" {
		writeError(w, r, http.StatusBadRequest, msg)
		return
	}
	created, err := h.repo.Create(r.Context(), e)
	if err != nil {
		h.fail(w, r, err, "create event")
		return
	}
	errors.LogInfo(r, "created event "+created.ID)
	writeJSON(w, r, http.StatusCreated, toWire(*created))
}

// Update handles PUT /api/calendar/events/{id}. The path id wins over any id in the body.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	e, msg := decode(r)
	if msg != "" {
		writeError(w, r, http.StatusBadRequest, msg)
		return
	}
	e.ID = chi.URLParam(r, "id")
	updated, err := h.repo.Update(r.Context(), e)
	if err != nil {
		h.fail(w, r, err, "update event")
		return
	}
	writeJSON(w, r, http.StatusOK, toWire(*updated))
}

// Delete handles DELETE /api/calendar/events/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, err, "delete event")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, op string) {
	if stderrors.Is(err, store.ErrNotFound) {
		writeError(w, r, http.StatusNotFound, "event not found")
		return
	}
	errors.LogError(r, op, err)
	writeError(w, r, http.StatusInternalServerError, "internal server error")
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		errors.LogError(r, "encode response", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}
