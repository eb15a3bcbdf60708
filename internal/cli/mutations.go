package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jw6ventures/eventcal/internal/datekey"
	"github.com/jw6ventures/eventcal/internal/events"
)

// Execute implements the go-flags Commander interface for AddCommand.
func (c *AddCommand) Execute(args []string) error {
	if c.Date == "" {
		return fmt.Errorf("--date is required for add command")
	}
	if strings.TrimSpace(c.Title) == "" {
		return fmt.Errorf("--title is required for add command")
	}
	key, err := datekey.Parse(c.Date)
	if err != nil {
		return err
	}

	api, err := c.client()
	if err != nil {
		return err
	}
	s := events.NewStore(api)
	created, err := s.Create(context.Background(), key, c.Title, c.Category)
	if err != nil {
		return failure(s, err)
	}

	if c.globals.JSON {
		return c.printJSON(created)
	}
	fmt.Fprintf(c.out, "Added %s on %s\n", created.ID, created.Date)
	return nil
}

// Execute implements the go-flags Commander interface for EditCommand.
func (c *EditCommand) Execute(args []string) error {
	if c.ID == "" {
		return fmt.Errorf("--id is required for edit command")
	}
	if strings.TrimSpace(c.Title) == "" {
		return fmt.Errorf("--title is required for edit command")
	}

	ctx := context.Background()
	s, err := c.loadStore(ctx)
	if err != nil {
		return err
	}
	existing, ok := s.Find(events.ID(c.ID))
	if !ok {
		return fmt.Errorf("event %s not found", c.ID)
	}
	updated, err := s.Update(ctx, existing, c.Title)
	if errors.Is(err, events.ErrEmptyTitle) {
		return err
	}
	if err != nil {
		return failure(s, err)
	}

	if c.globals.JSON {
		return c.printJSON(updated)
	}
	fmt.Fprintf(c.out, "Updated %s: %s\n", updated.ID, updated.Event)
	return nil
}

// Execute implements the go-flags Commander interface for RemoveCommand.
func (c *RemoveCommand) Execute(args []string) error {
	if c.ID == "" {
		return fmt.Errorf("--id is required for rm command")
	}

	ctx := context.Background()
	s, err := c.loadStore(ctx)
	if err != nil {
		return err
	}
	existing, ok := s.Find(events.ID(c.ID))
	if !ok {
		return fmt.Errorf("event %s not found", c.ID)
	}
	if err := s.Remove(ctx, existing.Date, existing.ID); err != nil {
		return failure(s, err)
	}
	fmt.Fprintf(c.out, "Deleted %s\n", existing.ID)
	return nil
}
