package events

import (
	"context"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jw6ventures/eventcal/internal/datekey"
	"github.com/jw6ventures/eventcal/internal/metrics"
)

// API is the remote events service the store synchronizes with.
type API interface {
	List(ctx context.Context) ([]Event, error)
	Create(ctx context.Context, draft Draft) (Event, error)
	Update(ctx context.Context, event Event) (Event, error)
	Delete(ctx context.Context, id ID) error
}

// Store holds events grouped by day and applies API results to that mapping.
//
// State only changes after the API call succeeds. Calls are not coordinated
// with each other: when two operations race, whichever response is applied
// last determines the final state.
type Store struct {
	api API

	mu       sync.RWMutex
	byDate   map[datekey.Key][]Event
	loads    int // in-flight Load calls
	loaded   bool
	lastLoad time.Time
	errMsg   string
}

// NewStore returns an empty store backed by api.
func NewStore(api API) *Store {
	return &Store{api: api, byDate: make(map[datekey.Key][]Event)}
}

// Load replaces the whole mapping with the API's current event list.
func (s *Store) Load(ctx context.Context) error {
	s.begin(true)

	list, err := s.api.List(ctx)
	if err != nil {
		return s.fail(FetchFailed, err)
	}

	grouped := Group(list)

	s.mu.Lock()
	s.byDate = grouped
	s.loads--
	s.loaded = true
	s.lastLoad = time.Now()
	s.mu.Unlock()

	s.recordSize()
	return nil
}

// Create persists a new event for key and appends the server's record to
// the list at key. Fields missing from the reply are taken from the request.
func (s *Store) Create(ctx context.Context, key datekey.Key, title, category string) (Event, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Event{}, ErrEmptyTitle
	}
	s.begin(false)

	created, err := s.api.Create(ctx, Draft{
		Date:     key,
		Event:    title,
		Category: strings.TrimSpace(category),
	})
	if err != nil {
		return Event{}, s.fail(CreateFailed, err)
	}
	created.Date = key
	if created.Event == "" {
		created.Event = title
	}
	if created.Category == "" {
		created.Category = strings.TrimSpace(category)
	}

	s.mu.Lock()
	s.byDate[key] = append(s.byDate[key], created)
	s.mu.Unlock()

	s.recordSize()
	return created, nil
}

// Update replaces the title of existing and swaps in the server's record.
// Date and category are sent unchanged. Fields missing from the reply keep
// the values that were sent; a reply with a different valid date moves the
// record to that day.
func (s *Store) Update(ctx context.Context, existing Event, title string) (Event, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Event{}, ErrEmptyTitle
	}
	s.begin(false)

	next := existing
	next.Event = title
	updated, err := s.api.Update(ctx, next)
	if err != nil {
		return Event{}, s.fail(UpdateFailed, err)
	}
	if !updated.Persisted() {
		updated.ID = next.ID
	}
	if updated.Event == "" {
		updated.Event = next.Event
	}
	if updated.Category == "" {
		updated.Category = next.Category
	}
	if key, err := datekey.Parse(string(updated.Date)); err == nil {
		updated.Date = key
	} else {
		updated.Date = next.Date
	}

	s.mu.Lock()
	s.replace(existing.Date, updated)
	s.mu.Unlock()

	s.recordSize()
	return updated, nil
}

// Remove deletes the event with id and drops it from the list at key.
// A list left empty is removed from the mapping entirely.
func (s *Store) Remove(ctx context.Context, key datekey.Key, id ID) error {
	s.begin(false)

	if err := s.api.Delete(ctx, id); err != nil {
		return s.fail(DeleteFailed, err)
	}

	s.mu.Lock()
	s.removeLocked(key, id)
	s.mu.Unlock()

	s.recordSize()
	return nil
}

// replace must be called with s.mu held.
func (s *Store) replace(oldKey datekey.Key, updated Event) {
	list := s.byDate[oldKey]
	for i := range list {
		if list[i].ID != updated.ID {
			continue
		}
		if oldKey == updated.Date {
			list[i] = updated
			return
		}
		s.removeLocked(oldKey, updated.ID)
		break
	}
	s.byDate[updated.Date] = append(s.byDate[updated.Date], updated)
}

func (s *Store) removeLocked(key datekey.Key, id ID) {
	list, ok := s.byDate[key]
	if !ok {
		return
	}
	kept := make([]Event, 0, len(list))
	for _, ev := range list {
		if ev.ID != id {
			kept = append(kept, ev)
		}
	}
	if len(kept) == 0 {
		delete(s.byDate, key)
		return
	}
	s.byDate[key] = kept
}

// begin clears the shared error slot before a network call.
func (s *Store) begin(loading bool) {
	s.mu.Lock()
	s.errMsg = ""
	if loading {
		s.loads++
	}
	s.mu.Unlock()
}

func (s *Store) fail(kind ErrorKind, cause error) error {
	opErr := &OpError{Kind: kind, Err: cause}
	log.Printf("[ERROR] events store: %v", opErr)

	s.mu.Lock()
	s.errMsg = kind.Message()
	if kind == FetchFailed {
		s.loads--
	}
	s.mu.Unlock()
	return opErr
}

func (s *Store) recordSize() {
	s.mu.RLock()
	n := 0
	for _, list := range s.byDate {
		n += len(list)
	}
	s.mu.RUnlock()
	metrics.SetStoredEvents(n)
}

// Lookup returns a copy of the events for key, or nil when the day has none.
func (s *Store) Lookup(key datekey.Key) []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list, ok := s.byDate[key]
	if !ok {
		return nil
	}
	return append([]Event(nil), list...)
}

// Has reports whether key has an entry in the mapping.
func (s *Store) Has(key datekey.Key) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byDate[key]
	return ok
}

// Find looks an event up by id across all days.
func (s *Store) Find(id ID) (Event, bool) {
	if id == "" {
		return Event{}, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, list := range s.byDate {
		for _, ev := range list {
			if ev.ID == id {
				return ev, true
			}
		}
	}
	return Event{}, false
}

// Snapshot returns a deep copy of the mapping.
func (s *Store) Snapshot() map[datekey.Key][]Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[datekey.Key][]Event, len(s.byDate))
	for k, list := range s.byDate {
		out[k] = append([]Event(nil), list...)
	}
	return out
}

// All returns every event ordered by day, then insertion order.
func (s *Store) All() []Event {
	return Flatten(s.Snapshot())
}

// Loading reports whether a Load is in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loads > 0
}

// Loaded reports whether a Load has ever succeeded, and when the last one did.
func (s *Store) Loaded() (bool, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded, s.lastLoad
}

// Err returns the user-facing message of the last failure, if any.
func (s *Store) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errMsg
}

// Group indexes list by normalized date, keeping the list order per day.
func Group(list []Event) map[datekey.Key][]Event {
	out := make(map[datekey.Key][]Event)
	for _, ev := range list {
		ev.Date = datekey.Normalize(string(ev.Date))
		out[ev.Date] = append(out[ev.Date], ev)
	}
	return out
}

// Flatten is the inverse of Group: days in key order, events in list order.
func Flatten(byDate map[datekey.Key][]Event) []Event {
	keys := make([]datekey.Key, 0, len(byDate))
	for k := range byDate {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	var out []Event
	for _, k := range keys {
		out = append(out, byDate[k]...)
	}
	return out
}
