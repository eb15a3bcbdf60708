package store

import "context"

// EventRepository persists events for the reference API.
type EventRepository interface {
	// List returns every event ordered by date, then creation time.
	List(ctx context.Context) ([]Event, error)
	Get(ctx context.Context, id string) (*Event, error)
	// Create assigns a new id and timestamps.
	Create(ctx context.Context, event Event) (*Event, error)
	// Update rewrites date, title and category. Returns ErrNotFound for unknown ids.
	Update(ctx context.Context, event Event) (*Event, error)
	Delete(ctx context.Context, id string) error
}
