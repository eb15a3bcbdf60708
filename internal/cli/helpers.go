package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jw6ventures/eventcal/internal/config"
	"github.com/jw6ventures/eventcal/internal/events"
	"github.com/jw6ventures/eventcal/internal/remote"
)

// client returns the injected API or a remote client built from the flags.
func (e env) client() (events.API, error) {
	if e.api != nil {
		return e.api, nil
	}
	url := e.globals.APIURL
	if url == "" {
		url = config.DefaultEventsAPIURL
	}
	var opts []remote.Option
	if e.globals.Token != "" {
		opts = append(opts, remote.WithToken(e.globals.Token))
	}
	return remote.New(url, e.globals.Timeout, opts...)
}

// loadStore fetches every event into a fresh store.
func (e env) loadStore(ctx context.Context) (*events.Store, error) {
	api, err := e.client()
	if err != nil {
		return nil, err
	}
	s := events.NewStore(api)
	if err := s.Load(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", s.Err(), err)
	}
	return s, nil
}

// failure reports a store error with its user-facing message.
func failure(s *events.Store, err error) error {
	if msg := s.Err(); msg != "" {
		return fmt.Errorf("%s: %w", msg, err)
	}
	return err
}

func (e env) printJSON(v any) error {
	enc := json.NewEncoder(e.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatEvent(ev events.Event) string {
	line := ev.Event
	if ev.Category != "" {
		line += " [" + ev.Category + "]"
	}
	return fmt.Sprintf("%s  (id %s)", line, ev.ID)
}
