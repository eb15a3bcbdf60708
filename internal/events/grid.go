package events

import (
	"time"

	"github.com/jw6ventures/eventcal/internal/datekey"
)

// Day is one cell of the month grid.
type Day struct {
	Number   int
	Key      datekey.Key
	Events   []Event
	Today    bool
	Selected bool
}

// Month is the grid projection of a single month.
type Month struct {
	Year  int
	Month time.Month
	// Leading is the number of blank cells before day 1 in a Sunday-first week.
	Leading int
	Days    []Day
}

// Lookup returns the events stored for a day, or nil.
type Lookup func(datekey.Key) []Event

// BuildMonth projects the events of year/month into one cell per day.
// The store is never mutated; filter narrows what each cell shows.
func BuildMonth(year int, month time.Month, lookup Lookup, filter string, today, selected datekey.Key) Month {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	n := datekey.DaysInMonth(year, month)

	m := Month{
		Year:    first.Year(),
		Month:   first.Month(),
		Leading: int(first.Weekday()),
		Days:    make([]Day, 0, n),
	}
	for day := 1; day <= n; day++ {
		key := datekey.New(m.Year, m.Month, day)
		var list []Event
		if lookup != nil {
			list = lookup(key)
		}
		m.Days = append(m.Days, Day{
			Number:   day,
			Key:      key,
			Events:   FilterByCategory(list, filter),
			Today:    key == today,
			Selected: key == selected,
		})
	}
	return m
}

// FilterByCategory returns the events matching filter. "All" or an empty
// filter returns the list unfiltered.
func FilterByCategory(list []Event, filter string) []Event {
	if filter == "" || filter == AllCategories {
		return append([]Event(nil), list...)
	}
	var out []Event
	for _, ev := range list {
		if ev.Category == filter {
			out = append(out, ev)
		}
	}
	return out
}

// Shift moves key by the given number of years and months, clamping the day
// to the length of the target month.
func Shift(key datekey.Key, years, months int) datekey.Key {
	t := key.Time(time.Local)
	if t.IsZero() {
		t = time.Now()
	}
	target := time.Date(t.Year()+years, t.Month()+time.Month(months), 1, 0, 0, 0, 0, time.Local)
	day := t.Day()
	if last := datekey.DaysInMonth(target.Year(), target.Month()); day > last {
		day = last
	}
	return datekey.New(target.Year(), target.Month(), day)
}

// Today returns the events for the current local day. It keeps no state.
func Today(lookup Lookup, now time.Time) []Event {
	if lookup == nil {
		return nil
	}
	return lookup(datekey.FromTime(now))
}
