package ui

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jw6ventures/eventcal/internal/datekey"
	"github.com/jw6ventures/eventcal/internal/events"
	"github.com/jw6ventures/eventcal/internal/feed"
	"github.com/jw6ventures/eventcal/internal/http/errors"
)

type monthJSON struct {
	Year     int            `json:"year"`
	Month    int            `json:"month"`
	Category string         `json:"category"`
	Days     []dayJSON      `json:"days"`
	Today    []events.Event `json:"today"`
	Loading  bool           `json:"loading"`
	Error    string         `json:"error,omitempty"`
}

type dayJSON struct {
	Date   datekey.Key    `json:"date"`
	Events []events.Event `json:"events"`
}

// MonthEventsJSON returns the month grid projection as JSON.
// Query: month=YYYY-MM (default: current month), category.
func (h *Handler) MonthEventsJSON(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	year, month := now.Year(), now.Month()
	if m := strings.TrimSpace(r.URL.Query().Get("month")); m != "" {
		t, err := time.ParseInLocation("2006-01", m, now.Location())
		if err != nil {
			errors.BadRequestError(w, r, err, "month must be YYYY-MM")
			return
		}
		year, month = t.Year(), t.Month()
	}

	filter := events.View{}.SetFilter(r.URL.Query().Get("category")).Filter
	grid := events.BuildMonth(year, month, h.store.Lookup, filter, datekey.FromTime(now), "")

	out := monthJSON{
		Year:     grid.Year,
		Month:    int(grid.Month),
		Category: filter,
		Days:     make([]dayJSON, 0, len(grid.Days)),
		Today:    events.Today(h.store.Lookup, now),
		Loading:  h.store.Loading(),
		Error:    h.store.Err(),
	}
	if out.Today == nil {
		out.Today = []events.Event{}
	}
	for _, d := range grid.Days {
		list := d.Events
		if list == nil {
			list = []events.Event{}
		}
		out.Days = append(out.Days, dayJSON{Date: d.Key, Events: list})
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(out); err != nil {
		errors.LogError(r, "encode month json", err)
	}
}

// CalendarFeed exports every loaded event as an iCalendar document.
func (h *Handler) CalendarFeed(w http.ResponseWriter, r *http.Request) {
	body := feed.Build(h.store.All(), "Event Calendar", h.now())
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "calendar.ics"))
	_, _ = w.Write([]byte(body))
}
