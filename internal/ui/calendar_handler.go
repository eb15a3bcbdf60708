package ui

import (
	stderrors "errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/jw6ventures/eventcal/internal/datekey"
	"github.com/jw6ventures/eventcal/internal/events"
	"github.com/jw6ventures/eventcal/internal/http/errors"
)

type eventView struct {
	ID        events.ID
	Date      datekey.Key
	Title     string
	Category  string
	DetailURL string
	EditURL   string
}

type dayView struct {
	Number    int
	Key       datekey.Key
	Today     bool
	Selected  bool
	SelectURL string
	Events    []eventView
}

// composer is what the event form shows. Editing is nil in create mode.
type composer struct {
	Text     string
	Date     datekey.Key
	Category string
	Editing  *events.Event
}

// Calendar renders the widget page for the view encoded in the query string.
func (h *Handler) Calendar(w http.ResponseWriter, r *http.Request) {
	v := events.ParseView(r.URL.Query(), h.now())
	c := composer{Date: v.Selected}
	if ev, ok := v.Editing(h.store); ok {
		c.Editing = &ev
		c.Text = ev.Event
		c.Date = ev.Date
		c.Category = ev.Category
	}
	h.renderCalendar(w, r, http.StatusOK, v, c, "")
}

func (h *Handler) renderCalendar(w http.ResponseWriter, r *http.Request, status int, v events.View, c composer, formError string) {
	now := h.now()
	today := datekey.FromTime(now)
	selected := v.Selected.Time(now.Location())
	if selected.IsZero() {
		selected = now
	}

	month := events.BuildMonth(selected.Year(), selected.Month(), h.store.Lookup, v.Filter, today, v.Selected)
	days := make([]dayView, 0, len(month.Days))
	for _, d := range month.Days {
		dv := dayView{
			Number:    d.Number,
			Key:       d.Key,
			Today:     d.Today,
			Selected:  d.Selected,
			SelectURL: v.SelectDay(d.Key).ClearEditing().CloseDetail().URL("/"),
		}
		for _, ev := range d.Events {
			dv.Events = append(dv.Events, h.eventView(v, ev))
		}
		days = append(days, dv)
	}

	base := v.ClearEditing().CloseDetail()
	data := map[string]any{
		"Title":         "Event Calendar",
		"Year":          month.Year,
		"MonthName":     month.Month.String(),
		"Leading":       month.Leading,
		"Days":          days,
		"PrevYearURL":   base.SelectDay(events.Shift(v.Selected, -1, 0)).URL("/"),
		"NextYearURL":   base.SelectDay(events.Shift(v.Selected, 1, 0)).URL("/"),
		"PrevMonthURL":  base.SelectDay(events.Shift(v.Selected, 0, -1)).URL("/"),
		"NextMonthURL":  base.SelectDay(events.Shift(v.Selected, 0, 1)).URL("/"),
		"CancelEditURL": base.URL("/"),
		"Selected":      v.Selected,
		"Filter":        v.Filter,
		"Categories":    h.categories,
		"AllCategories": events.AllCategories,
		"Composer":      c,
		"Error":         h.store.Err(),
		"FormError":     formError,
		"Loading":       h.store.Loading(),
		"TodayEvents":   events.Today(h.store.Lookup, now),
	}
	if ev, ok := v.Detail(h.store); ok {
		data["Detail"] = ev
		data["CloseDetailURL"] = v.CloseDetail().URL("/")
	}

	h.render(w, r, status, "calendar.html", h.withCSRF(r, data))
}

func (h *Handler) eventView(v events.View, ev events.Event) eventView {
	return eventView{
		ID:        ev.ID,
		Date:      ev.Date,
		Title:     ev.Event,
		Category:  ev.Category,
		DetailURL: v.ClearEditing().OpenDetail(ev).URL("/"),
		EditURL:   v.SelectDay(ev.Date).CloseDetail().SetEditing(ev).URL("/"),
	}
}

// viewFromForm restores the page state a form was submitted from.
func (h *Handler) viewFromForm(r *http.Request) events.View {
	q := url.Values{}
	for _, k := range []string{"date", "category"} {
		if v := r.FormValue("view_" + k); v != "" {
			q.Set(k, v)
		}
	}
	return events.ParseView(q, h.now())
}

// CreateEvent handles the composer in create mode.
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		errors.BadRequestError(w, r, err, "invalid form")
		return
	}
	v := h.viewFromForm(r)
	c := composer{
		Text:     r.FormValue("event"),
		Date:     datekey.Key(strings.TrimSpace(r.FormValue("date"))),
		Category: strings.TrimSpace(r.FormValue("category")),
	}

	key, err := datekey.Parse(string(c.Date))
	if err != nil {
		errors.LogInfo(r, "create rejected: "+err.Error())
		h.renderCalendar(w, r, http.StatusBadRequest, v, c, "Please pick a valid date")
		return
	}

	created, err := h.store.Create(r.Context(), key, c.Text, c.Category)
	switch {
	case stderrors.Is(err, events.ErrEmptyTitle):
		h.redirect(w, r, v.SelectDay(key))
	case err != nil:
		c.Date = key
		h.renderCalendar(w, r, http.StatusBadGateway, v.SelectDay(key), c, "")
	default:
		h.redirect(w, r, v.SelectDay(created.Date))
	}
}

// UpdateEvent handles the composer in edit mode.
func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		errors.BadRequestError(w, r, err, "invalid form")
		return
	}
	id := events.ID(chi.URLParam(r, "id"))
	existing, ok := h.store.Find(id)
	if !ok {
		errors.NotFound(w, r, "event")
		return
	}

	v := h.viewFromForm(r)
	title := r.FormValue("event")
	_, err := h.store.Update(r.Context(), existing, title)
	switch {
	case stderrors.Is(err, events.ErrEmptyTitle):
		h.redirect(w, r, v.SetEditing(existing))
	case err != nil:
		c := composer{Text: title, Date: existing.Date, Category: existing.Category, Editing: &existing}
		h.renderCalendar(w, r, http.StatusBadGateway, v.SetEditing(existing), c, "")
	default:
		h.redirect(w, r, v.ClearEditing())
	}
}

// DeleteEvent removes an event. The stored record's day wins; the form's
// date is only used for records the store does not hold.
func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	id := events.ID(chi.URLParam(r, "id"))
	v := h.viewFromForm(r)

	var key datekey.Key
	if ev, ok := h.store.Find(id); ok {
		key = ev.Date
	} else if key = datekey.Normalize(r.FormValue("date")); key == "" {
		errors.NotFound(w, r, "event")
		return
	}

	// A failure is reported through the store's shared error message.
	_ = h.store.Remove(r.Context(), key, id)
	h.redirect(w, r, v)
}

// Refresh reloads every event from the API.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	_ = h.store.Load(r.Context())
	h.redirect(w, r, h.viewFromForm(r))
}
