package feed

import (
	"strings"
	"testing"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jw6ventures/eventcal/internal/events"
)

func TestBuildProducesParseableFeed(t *testing.T) {
	list := []events.Event{
		{ID: "1", Date: "2024-06-15", Event: "Standup", Category: "Work"},
		{ID: "2", Date: "2024-06-16", Event: "Gym"},
		{ID: "3", Date: "someday", Event: "Skipped"},
	}

	out := Build(list, "Team", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	assert.Contains(t, out, "X-WR-CALNAME:Team")
	assert.Contains(t, out, "CATEGORIES:Work")
	assert.NotContains(t, out, "Skipped")

	cal, err := ical.ParseCalendar(strings.NewReader(out))
	require.NoError(t, err)
	vevents := cal.Events()
	require.Len(t, vevents, 2)

	assert.Equal(t, "1@eventcal", vevents[0].Id())
	assert.Equal(t, "Standup", vevents[0].GetProperty(ical.ComponentPropertySummary).Value)
	start := vevents[0].GetProperty(ical.ComponentPropertyDtStart)
	require.NotNil(t, start)
	assert.Equal(t, "20240615", start.Value)
}

func TestBuildEmpty(t *testing.T) {
	out := Build(nil, "", time.Now())
	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.NotContains(t, out, "BEGIN:VEVENT")
}
