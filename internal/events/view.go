package events

import (
	"net/url"
	"strings"
	"time"

	"github.com/jw6ventures/eventcal/internal/datekey"
)

// View is the widget's UI state that is not event data: the selected day,
// the category filter, the record being edited and the record whose details
// are open. It travels in the page URL.
type View struct {
	Selected  datekey.Key
	Filter    string
	EditingID ID
	DetailID  ID
}

// NewView returns a view selecting now's day with no filter.
func NewView(now time.Time) View {
	return View{Selected: datekey.FromTime(now), Filter: AllCategories}
}

// ParseView restores a view from query parameters, falling back to now for
// a missing or unparseable date.
func ParseView(q url.Values, now time.Time) View {
	v := NewView(now)
	if d := q.Get("date"); d != "" {
		if k, err := datekey.Parse(d); err == nil {
			v.Selected = k
		}
	}
	v = v.SetFilter(q.Get("category"))
	v.EditingID = ID(strings.TrimSpace(q.Get("edit")))
	v.DetailID = ID(strings.TrimSpace(q.Get("event")))
	return v
}

// Query encodes the view as query parameters, omitting defaults.
func (v View) Query() url.Values {
	q := url.Values{}
	if v.Selected != "" {
		q.Set("date", string(v.Selected))
	}
	if v.Filter != "" && v.Filter != AllCategories {
		q.Set("category", v.Filter)
	}
	if v.EditingID != "" {
		q.Set("edit", string(v.EditingID))
	}
	if v.DetailID != "" {
		q.Set("event", string(v.DetailID))
	}
	return q
}

// URL returns path with the view's query string.
func (v View) URL(path string) string {
	if enc := v.Query().Encode(); enc != "" {
		return path + "?" + enc
	}
	return path
}

// SelectDay selects key as the composer's target date.
func (v View) SelectDay(key datekey.Key) View {
	v.Selected = key
	return v
}

// SetFilter sets the category filter; blank means all categories.
func (v View) SetFilter(category string) View {
	category = strings.TrimSpace(category)
	if category == "" {
		category = AllCategories
	}
	v.Filter = category
	return v
}

// SetEditing puts the composer into edit mode for ev.
func (v View) SetEditing(ev Event) View {
	v.EditingID = ev.ID
	return v
}

// ClearEditing returns the composer to create mode.
func (v View) ClearEditing() View {
	v.EditingID = ""
	return v
}

// OpenDetail shows the detail overlay for ev.
func (v View) OpenDetail(ev Event) View {
	v.DetailID = ev.ID
	return v
}

// CloseDetail hides the detail overlay.
func (v View) CloseDetail() View {
	v.DetailID = ""
	return v
}

// Editing resolves the record being edited. Create mode when it is absent.
func (v View) Editing(s *Store) (Event, bool) {
	return s.Find(v.EditingID)
}

// Detail resolves the record whose details are open.
func (v View) Detail(s *Store) (Event, bool) {
	return s.Find(v.DetailID)
}
