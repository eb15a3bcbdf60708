package events

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/jw6ventures/eventcal/internal/datekey"
)

// AllCategories is the filter value that disables category filtering.
const AllCategories = "All"

// DefaultCategories are offered by the composer when none are configured.
var DefaultCategories = []string{"Work", "Personal", "Other"}

// ID is the opaque identifier the remote API assigns to an event. It decodes
// from either a JSON string or a JSON number.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("event id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// Event is a single calendar entry as exchanged with the events API.
type Event struct {
	ID       ID          `json:"id,omitempty"`
	Date     datekey.Key `json:"date"`
	Event    string      `json:"event"`
	Category string      `json:"category,omitempty"`
}

// Persisted reports whether the API has assigned an id to the event.
func (e Event) Persisted() bool { return e.ID != "" }

// Draft is the payload for creating an event.
type Draft struct {
	Date     datekey.Key `json:"date"`
	Event    string      `json:"event"`
	Category string      `json:"category,omitempty"`
}
