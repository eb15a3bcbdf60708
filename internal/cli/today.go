package cli

import (
	"context"
	"fmt"

	"github.com/jw6ventures/eventcal/internal/events"
)

// Execute implements the go-flags Commander interface for TodayCommand.
func (c *TodayCommand) Execute(args []string) error {
	s, err := c.loadStore(context.Background())
	if err != nil {
		return err
	}
	list := events.Today(s.Lookup, c.now())

	if c.globals.JSON {
		if list == nil {
			list = []events.Event{}
		}
		return c.printJSON(list)
	}

	if len(list) == 0 {
		fmt.Fprintln(c.out, "No events for today.")
		return nil
	}
	for _, ev := range list {
		fmt.Fprintln(c.out, formatEvent(ev))
	}
	return nil
}
