package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jw6ventures/eventcal/internal/datekey"
	"github.com/jw6ventures/eventcal/internal/events"
)

type monthDay struct {
	Date   datekey.Key    `json:"date"`
	Events []events.Event `json:"events"`
}

// Execute implements the go-flags Commander interface for MonthCommand.
func (c *MonthCommand) Execute(args []string) error {
	now := c.now()
	year, month := now.Year(), now.Month()
	if m := strings.TrimSpace(c.Month); m != "" {
		t, err := time.ParseInLocation("2006-01", m, now.Location())
		if err != nil {
			return fmt.Errorf("invalid --month %q: want YYYY-MM", c.Month)
		}
		year, month = t.Year(), t.Month()
	}

	s, err := c.loadStore(context.Background())
	if err != nil {
		return err
	}

	filter := events.View{}.SetFilter(c.Category).Filter
	grid := events.BuildMonth(year, month, s.Lookup, filter, datekey.FromTime(now), "")

	var days []monthDay
	for _, d := range grid.Days {
		if len(d.Events) > 0 {
			days = append(days, monthDay{Date: d.Key, Events: d.Events})
		}
	}

	if c.globals.JSON {
		if days == nil {
			days = []monthDay{}
		}
		return c.printJSON(days)
	}

	fmt.Fprintf(c.out, "%s %d\n", grid.Month, grid.Year)
	if len(days) == 0 {
		fmt.Fprintln(c.out, "No events.")
		return nil
	}
	for _, d := range days {
		fmt.Fprintln(c.out, d.Date)
		for _, ev := range d.Events {
			fmt.Fprintf(c.out, "  %s\n", formatEvent(ev))
		}
	}
	return nil
}
