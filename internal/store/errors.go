package store

import "errors"

// ErrNotFound indicates no event exists with the requested id.
var ErrNotFound = errors.New("record not found")
