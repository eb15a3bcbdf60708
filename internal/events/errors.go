package events

import (
	"errors"
	"fmt"
)

// ErrEmptyTitle is returned when a create or update carries no title.
var ErrEmptyTitle = errors.New("event title is required")

// ErrorKind classifies a failed store operation.
type ErrorKind int

const (
	FetchFailed ErrorKind = iota + 1
	CreateFailed
	UpdateFailed
	DeleteFailed
)

// Message is the generic user-facing text for the kind.
func (k ErrorKind) Message() string {
	switch k {
	case FetchFailed:
		return "Error fetching events"
	case CreateFailed:
		return "Error adding event"
	case UpdateFailed:
		return "Error updating event"
	case DeleteFailed:
		return "Error deleting event"
	default:
		return "Unexpected error"
	}
}

func (k ErrorKind) String() string {
	switch k {
	case FetchFailed:
		return "FetchFailed"
	case CreateFailed:
		return "CreateFailed"
	case UpdateFailed:
		return "UpdateFailed"
	case DeleteFailed:
		return "DeleteFailed"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// OpError wraps the cause of a failed API call. The cause is for logs only.
type OpError struct {
	Kind ErrorKind
	Err  error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

// KindOf returns the kind of a store error, or zero when err is not an OpError.
func KindOf(err error) ErrorKind {
	var opErr *OpError
	if errors.As(err, &opErr) {
		return opErr.Kind
	}
	return 0
}
