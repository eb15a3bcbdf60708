// Package feed renders loaded events as an iCalendar document.
package feed

import (
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/jw6ventures/eventcal/internal/events"
)

const productID = "-//eventcal//calendar widget//EN"

// Build returns an iCalendar feed with one all-day VEVENT per event. Events
// whose date is not a canonical day key are skipped.
func Build(list []events.Event, name string, now time.Time) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)
	if name != "" {
		cal.SetXWRCalName(name)
	}

	for _, ev := range list {
		if !ev.Date.Valid() {
			continue
		}
		day := ev.Date.Time(time.UTC)

		vevent := cal.AddEvent(uid(ev))
		vevent.SetDtStampTime(now.UTC())
		vevent.SetAllDayStartAt(day)
		vevent.SetAllDayEndAt(day.AddDate(0, 0, 1))
		vevent.SetSummary(ev.Event)
		if ev.Category != "" {
			vevent.SetProperty(ical.ComponentPropertyCategories, ev.Category)
		}
	}
	return cal.Serialize()
}

func uid(ev events.Event) string {
	if ev.ID != "" {
		return string(ev.ID) + "@eventcal"
	}
	return string(ev.Date) + "-" + ev.Event + "@eventcal"
}
