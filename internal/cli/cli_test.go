package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jw6ventures/eventcal/internal/datekey"
	"github.com/jw6ventures/eventcal/internal/events"
)

// memoryAPI is an in-memory events.API.
type memoryAPI struct {
	mu     sync.Mutex
	list   []events.Event
	nextID int
	err    error
}

func (m *memoryAPI) List(ctx context.Context) ([]events.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return append([]events.Event(nil), m.list...), nil
}

func (m *memoryAPI) Create(ctx context.Context, d events.Draft) (events.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return events.Event{}, m.err
	}
	m.nextID++
	ev := events.Event{ID: events.ID(fmt.Sprintf("e%d", m.nextID)), Date: d.Date, Event: d.Event, Category: d.Category}
	m.list = append(m.list, ev)
	return ev, nil
}

func (m *memoryAPI) Update(ctx context.Context, ev events.Event) (events.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return events.Event{}, m.err
	}
	for i := range m.list {
		if m.list[i].ID == ev.ID {
			m.list[i] = ev
		}
	}
	return ev, nil
}

func (m *memoryAPI) Delete(ctx context.Context, id events.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	kept := m.list[:0]
	for _, ev := range m.list {
		if ev.ID != id {
			kept = append(kept, ev)
		}
	}
	m.list = kept
	return nil
}

func run(t *testing.T, api events.API, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := RunWithArgs("test", args, &out, api)
	return out.String(), err
}

func sampleAPI() *memoryAPI {
	return &memoryAPI{nextID: 10, list: []events.Event{
		{ID: "1", Date: "2024-6-15", Event: "Standup", Category: "Work"},
		{ID: "2", Date: "2024-06-15", Event: "Lunch", Category: "Personal"},
		{ID: "3", Date: "2024-07-01", Event: "Launch", Category: "Work"},
	}}
}

func TestBuildParser_RegistersCommands(t *testing.T) {
	parser, _, _ := buildParser(&bytes.Buffer{}, nil)
	for _, name := range []string{"month", "today", "add", "edit", "rm"} {
		assert.NotNil(t, parser.Find(name), "missing command %s", name)
	}
}

func TestVersionFlag(t *testing.T) {
	out, err := run(t, nil, "--version")
	require.NoError(t, err)
	assert.Equal(t, "calctl test\n", out)
}

func TestMonthCommand(t *testing.T) {
	out, err := run(t, sampleAPI(), "month", "--month", "2024-06")
	require.NoError(t, err)
	assert.Contains(t, out, "June 2024")
	assert.Contains(t, out, "2024-06-15")
	assert.Contains(t, out, "Standup [Work]  (id 1)")
	assert.Contains(t, out, "Lunch [Personal]")
	assert.NotContains(t, out, "Launch")
}

func TestMonthCommand_CategoryFilter(t *testing.T) {
	out, err := run(t, sampleAPI(), "month", "--month", "2024-06", "--category", "Personal")
	require.NoError(t, err)
	assert.NotContains(t, out, "Standup")
	assert.Contains(t, out, "Lunch")
}

func TestMonthCommand_JSON(t *testing.T) {
	out, err := run(t, sampleAPI(), "--json", "month", "--month", "2024-07")
	require.NoError(t, err)

	var days []monthDay
	require.NoError(t, json.Unmarshal([]byte(out), &days))
	require.Len(t, days, 1)
	assert.Equal(t, datekey.Key("2024-07-01"), days[0].Date)
}

func TestMonthCommand_InvalidMonth(t *testing.T) {
	_, err := run(t, sampleAPI(), "month", "--month", "June")
	assert.Error(t, err)
}

func TestTodayCommand(t *testing.T) {
	api := sampleAPI()
	out, err := run(t, api, "today")
	require.NoError(t, err)
	assert.Contains(t, out, "No events for today.")

	api.list = append(api.list, events.Event{ID: "9", Date: datekey.FromTime(time.Now()), Event: "Now"})
	out, err = run(t, api, "today")
	require.NoError(t, err)
	assert.Contains(t, out, "Now  (id 9)")
}

func TestAddCommand(t *testing.T) {
	api := sampleAPI()
	out, err := run(t, api, "add", "--date", "2024-6-20", "--title", "Review", "--category", "Work")
	require.NoError(t, err)
	assert.Equal(t, "Added e11 on 2024-06-20\n", out)
	assert.Len(t, api.list, 4)
}

func TestAddCommand_Validation(t *testing.T) {
	api := sampleAPI()
	_, err := run(t, api, "add", "--title", "Review")
	assert.ErrorContains(t, err, "--date is required")

	_, err = run(t, api, "add", "--date", "2024-06-20", "--title", "  ")
	assert.ErrorContains(t, err, "--title is required")

	_, err = run(t, api, "add", "--date", "tomorrow", "--title", "Review")
	assert.Error(t, err)
	assert.Len(t, api.list, 3)
}

func TestAddCommand_APIFailure(t *testing.T) {
	api := sampleAPI()
	api.err = errors.New("503")
	_, err := run(t, api, "add", "--date", "2024-06-20", "--title", "Review")
	assert.ErrorContains(t, err, "Error adding event")
}

func TestEditCommand(t *testing.T) {
	api := sampleAPI()
	out, err := run(t, api, "edit", "--id", "1", "--title", "Daily sync")
	require.NoError(t, err)
	assert.Equal(t, "Updated 1: Daily sync\n", out)
	assert.Equal(t, "Daily sync", api.list[0].Event)
	assert.Equal(t, "Work", api.list[0].Category)

	_, err = run(t, api, "edit", "--id", "404", "--title", "x")
	assert.ErrorContains(t, err, "not found")
}

func TestRemoveCommand(t *testing.T) {
	api := sampleAPI()
	out, err := run(t, api, "rm", "--id", "3")
	require.NoError(t, err)
	assert.Equal(t, "Deleted 3\n", out)
	assert.Len(t, api.list, 2)

	_, err = run(t, api, "rm", "--id", "3")
	assert.ErrorContains(t, err, "not found")
}

func TestLoadFailureIsReported(t *testing.T) {
	api := sampleAPI()
	api.err = errors.New("down")
	_, err := run(t, api, "today")
	assert.ErrorContains(t, err, "Error fetching events")
}
