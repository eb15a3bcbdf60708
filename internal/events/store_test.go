package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jw6ventures/eventcal/internal/datekey"
)

// fakeAPI is an in-memory events API that counts calls and can be told to fail.
type fakeAPI struct {
	mu      sync.Mutex
	events  []Event
	nextID  int
	calls   int
	failAll error
}

func (f *fakeAPI) List(ctx context.Context) ([]Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.failAll != nil {
		return nil, f.failAll
	}
	return append([]Event(nil), f.events...), nil
}

func (f *fakeAPI) Create(ctx context.Context, d Draft) (Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.failAll != nil {
		return Event{}, f.failAll
	}
	f.nextID++
	ev := Event{ID: ID(fmt.Sprintf("srv-%d", f.nextID)), Date: d.Date, Event: d.Event, Category: d.Category}
	f.events = append(f.events, ev)
	return ev, nil
}

func (f *fakeAPI) Update(ctx context.Context, ev Event) (Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.failAll != nil {
		return Event{}, f.failAll
	}
	for i := range f.events {
		if f.events[i].ID == ev.ID {
			f.events[i] = ev
		}
	}
	return ev, nil
}

func (f *fakeAPI) Delete(ctx context.Context, id ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.failAll
}

func sampleEvents() []Event {
	return []Event{
		{ID: "1", Date: "2024-6-15", Event: "Standup", Category: "Work"},
		{ID: "2", Date: "2024-06-15", Event: "Lunch", Category: "Personal"},
		{ID: "3", Date: "2024-06-16", Event: "Gym", Category: "Personal"},
		{ID: "4", Date: "2024-07-01", Event: "Planning", Category: "Work"},
		{ID: "5", Date: "2024-06-15", Event: "Retro"},
	}
}

func loadedStore(t *testing.T) (*Store, *fakeAPI) {
	t.Helper()
	api := &fakeAPI{events: sampleEvents()}
	s := NewStore(api)
	require.NoError(t, s.Load(context.Background()))
	return s, api
}

func TestGroupFlattenRoundTrip(t *testing.T) {
	list := sampleEvents()
	flat := Flatten(Group(list))

	require.Len(t, flat, len(list))
	byID := make(map[ID]Event)
	for _, ev := range flat {
		byID[ev.ID] = ev
	}
	for _, ev := range list {
		got, ok := byID[ev.ID]
		require.True(t, ok, "missing %s", ev.ID)
		assert.Equal(t, ev.Event, got.Event)
		assert.Equal(t, datekey.Normalize(string(ev.Date)), got.Date)
	}
}

func TestLoadGroupsByNormalizedDate(t *testing.T) {
	s, _ := loadedStore(t)

	got := s.Lookup("2024-06-15")
	require.Len(t, got, 3)
	assert.Equal(t, "Standup", got[0].Event)
	assert.Equal(t, "Lunch", got[1].Event)
	assert.Equal(t, "Retro", got[2].Event)
	assert.False(t, s.Loading())
	assert.Empty(t, s.Err())
	loaded, _ := s.Loaded()
	assert.True(t, loaded)
}

func TestLoadReplacesPriorState(t *testing.T) {
	s, api := loadedStore(t)
	api.events = []Event{{ID: "9", Date: "2024-08-01", Event: "Offsite"}}

	require.NoError(t, s.Load(context.Background()))
	assert.Nil(t, s.Lookup("2024-06-15"))
	assert.Len(t, s.Lookup("2024-08-01"), 1)
}

func TestLoadFailureKeepsState(t *testing.T) {
	s, api := loadedStore(t)
	api.failAll = errors.New("boom")

	err := s.Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, FetchFailed, KindOf(err))
	assert.Equal(t, "Error fetching events", s.Err())
	assert.False(t, s.Loading())
	assert.Len(t, s.Lookup("2024-06-15"), 3)
}

func TestCreateBlankTitleIsNoop(t *testing.T) {
	s, api := loadedStore(t)
	before := s.Snapshot()
	calls := api.calls

	for _, title := range []string{"", "   ", "\t\n"} {
		_, err := s.Create(context.Background(), "2024-06-15", title, "")
		assert.ErrorIs(t, err, ErrEmptyTitle)
	}
	assert.Equal(t, calls, api.calls)
	assert.Equal(t, before, s.Snapshot())
}

func TestCreateAppendsServerRecord(t *testing.T) {
	s, _ := loadedStore(t)
	before := len(s.Lookup("2024-06-15"))

	ev, err := s.Create(context.Background(), "2024-06-15", "  Demo  ", "Work")
	require.NoError(t, err)
	assert.Equal(t, ID("srv-1"), ev.ID)
	assert.Equal(t, "Demo", ev.Event)

	got := s.Lookup("2024-06-15")
	require.Len(t, got, before+1)
	assert.Equal(t, ID("srv-1"), got[len(got)-1].ID)
}

func TestCreateOnEmptyDayCreatesList(t *testing.T) {
	s, _ := loadedStore(t)
	require.False(t, s.Has("2024-12-25"))

	_, err := s.Create(context.Background(), "2024-12-25", "Holiday", "")
	require.NoError(t, err)
	assert.Len(t, s.Lookup("2024-12-25"), 1)
}

func TestCreateFailureLeavesState(t *testing.T) {
	s, api := loadedStore(t)
	before := s.Snapshot()
	api.failAll = errors.New("503")

	_, err := s.Create(context.Background(), "2024-06-15", "Demo", "")
	require.Error(t, err)
	assert.Equal(t, CreateFailed, KindOf(err))
	assert.Equal(t, "Error adding event", s.Err())
	assert.Equal(t, before, s.Snapshot())
}

func TestUpdateReplacesOnlyMatchingRecord(t *testing.T) {
	s, _ := loadedStore(t)
	before := s.Snapshot()
	target := s.Lookup("2024-06-15")[1]

	updated, err := s.Update(context.Background(), target, "Team lunch")
	require.NoError(t, err)
	assert.Equal(t, target.ID, updated.ID)
	assert.Equal(t, target.Category, updated.Category)

	after := s.Snapshot()
	day := after["2024-06-15"]
	require.Len(t, day, 3)
	assert.Equal(t, before["2024-06-15"][0], day[0])
	assert.Equal(t, "Team lunch", day[1].Event)
	assert.Equal(t, before["2024-06-15"][2], day[2])
	assert.Equal(t, before["2024-06-16"], after["2024-06-16"])
	assert.Equal(t, before["2024-07-01"], after["2024-07-01"])
}

func TestUpdateFailureLeavesState(t *testing.T) {
	s, api := loadedStore(t)
	before := s.Snapshot()
	api.failAll = errors.New("timeout")

	_, err := s.Update(context.Background(), s.Lookup("2024-06-16")[0], "Swim")
	assert.Equal(t, UpdateFailed, KindOf(err))
	assert.Equal(t, "Error updating event", s.Err())
	assert.Equal(t, before, s.Snapshot())
}

type movingAPI struct {
	fakeAPI
	moveTo datekey.Key
}

func (m *movingAPI) Update(ctx context.Context, ev Event) (Event, error) {
	ev.Date = m.moveTo
	return ev, nil
}

func TestUpdateMovesRecordWhenServerChangesDate(t *testing.T) {
	api := &movingAPI{fakeAPI: fakeAPI{events: sampleEvents()}, moveTo: "2024-6-20"}
	s := NewStore(api)
	require.NoError(t, s.Load(context.Background()))

	_, err := s.Update(context.Background(), s.Lookup("2024-06-16")[0], "Gym")
	require.NoError(t, err)
	assert.False(t, s.Has("2024-06-16"))
	assert.Len(t, s.Lookup("2024-06-20"), 1)
}

// sparseAPI replies with only the fields a minimal server echoes back.
type sparseAPI struct {
	fakeAPI
}

func (a *sparseAPI) Create(ctx context.Context, d Draft) (Event, error) {
	return Event{ID: "42"}, nil
}

func (a *sparseAPI) Update(ctx context.Context, ev Event) (Event, error) {
	return Event{ID: ev.ID, Event: ev.Event}, nil
}

func TestCreateSparseReplyFilesUnderRequestedDay(t *testing.T) {
	api := &sparseAPI{fakeAPI: fakeAPI{events: sampleEvents()}}
	s := NewStore(api)
	require.NoError(t, s.Load(context.Background()))
	before := len(s.Lookup("2024-06-15"))

	created, err := s.Create(context.Background(), "2024-06-15", "Demo", "Work")
	require.NoError(t, err)

	day := s.Lookup("2024-06-15")
	require.Len(t, day, before+1)
	assert.Equal(t, Event{ID: "42", Date: "2024-06-15", Event: "Demo", Category: "Work"}, day[len(day)-1])
	assert.Equal(t, created, day[len(day)-1])
	assert.False(t, s.Has(""))
}

func TestCreateReplyWithOtherDateStaysOnRequestedDay(t *testing.T) {
	api := &movingCreateAPI{fakeAPI: fakeAPI{events: sampleEvents()}}
	s := NewStore(api)
	require.NoError(t, s.Load(context.Background()))

	_, err := s.Create(context.Background(), "2024-06-16", "Swim", "")
	require.NoError(t, err)
	assert.Len(t, s.Lookup("2024-06-16"), 2)
	assert.False(t, s.Has("1999-01-01"))
}

type movingCreateAPI struct {
	fakeAPI
}

func (a *movingCreateAPI) Create(ctx context.Context, d Draft) (Event, error) {
	return Event{ID: "77", Date: "1999-01-01", Event: d.Event}, nil
}

func TestUpdateSparseReplyKeepsDateAndCategory(t *testing.T) {
	api := &sparseAPI{fakeAPI: fakeAPI{events: sampleEvents()}}
	s := NewStore(api)
	require.NoError(t, s.Load(context.Background()))

	updated, err := s.Update(context.Background(), s.Lookup("2024-06-16")[0], "Yoga")
	require.NoError(t, err)
	assert.Equal(t, Event{ID: "3", Date: "2024-06-16", Event: "Yoga", Category: "Personal"}, updated)
	assert.Equal(t, []Event{updated}, s.Lookup("2024-06-16"))
	assert.False(t, s.Has(""))
}

// blockingAPI holds List calls until release is closed.
type blockingAPI struct {
	fakeAPI
	started chan struct{}
	release chan struct{}
}

func (a *blockingAPI) List(ctx context.Context) ([]Event, error) {
	a.started <- struct{}{}
	<-a.release
	return a.fakeAPI.List(ctx)
}

func TestOverlappingLoadsStayLoadingUntilLastFinishes(t *testing.T) {
	api := &blockingAPI{
		fakeAPI: fakeAPI{events: sampleEvents()},
		started: make(chan struct{}, 2),
		release: make(chan struct{}),
	}
	s := NewStore(api)

	done := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() { done <- s.Load(context.Background()) }()
		<-api.started
	}
	assert.True(t, s.Loading())

	api.release <- struct{}{}
	require.NoError(t, <-done)
	assert.True(t, s.Loading(), "one load is still in flight")

	api.release <- struct{}{}
	require.NoError(t, <-done)
	assert.False(t, s.Loading())
	assert.Len(t, s.Lookup("2024-06-15"), 3)
}

func TestRemoveEmptiedDayIsAbsent(t *testing.T) {
	s, _ := loadedStore(t)

	require.NoError(t, s.Remove(context.Background(), "2024-06-16", "3"))
	assert.False(t, s.Has("2024-06-16"))
	assert.Nil(t, s.Lookup("2024-06-16"))
	assert.Equal(t, s.Lookup("2030-01-01"), s.Lookup("2024-06-16"))
	_, present := s.Snapshot()["2024-06-16"]
	assert.False(t, present)
}

func TestRemoveKeepsSiblings(t *testing.T) {
	s, _ := loadedStore(t)

	require.NoError(t, s.Remove(context.Background(), "2024-06-15", "2"))
	got := s.Lookup("2024-06-15")
	require.Len(t, got, 2)
	assert.Equal(t, ID("1"), got[0].ID)
	assert.Equal(t, ID("5"), got[1].ID)
}

func TestRemoveFailureSetsError(t *testing.T) {
	s, api := loadedStore(t)
	api.failAll = errors.New("404")

	err := s.Remove(context.Background(), "2024-06-16", "3")
	assert.Equal(t, DeleteFailed, KindOf(err))
	assert.Equal(t, "Error deleting event", s.Err())
	assert.True(t, s.Has("2024-06-16"))
}

func TestNextOperationClearsError(t *testing.T) {
	s, api := loadedStore(t)
	api.failAll = errors.New("down")
	_, _ = s.Create(context.Background(), "2024-06-15", "x", "")
	require.NotEmpty(t, s.Err())

	api.failAll = nil
	_, err := s.Create(context.Background(), "2024-06-15", "x", "")
	require.NoError(t, err)
	assert.Empty(t, s.Err())
}

func TestFindAndAll(t *testing.T) {
	s, _ := loadedStore(t)

	ev, ok := s.Find("4")
	require.True(t, ok)
	assert.Equal(t, "Planning", ev.Event)
	_, ok = s.Find("")
	assert.False(t, ok)

	all := s.All()
	require.Len(t, all, 5)
	assert.Equal(t, datekey.Key("2024-07-01"), all[len(all)-1].Date)
}

func TestPersisted(t *testing.T) {
	assert.False(t, Event{Date: "2024-06-15", Event: "Draft"}.Persisted())
	assert.True(t, Event{ID: "1"}.Persisted())
}
