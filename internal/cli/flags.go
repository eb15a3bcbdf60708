package cli

import (
	"io"
	"time"

	"github.com/jw6ventures/eventcal/internal/events"
)

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	APIURL  string        `long:"api-url" env:"APP_EVENTS_API_URL" description:"Events API collection URL"`
	Token   string        `long:"token" env:"APP_EVENTS_API_TOKEN" description:"Bearer token for the events API"`
	Timeout time.Duration `long:"timeout" description:"Per-request timeout" default:"10s"`
	JSON    bool          `long:"json" description:"Output in JSON format"`
	Version bool          `long:"version" description:"Show version and exit"`
}

// env is what every command needs to reach the API and print results.
type env struct {
	globals *GlobalFlags
	out     io.Writer
	now     func() time.Time
	api     events.API // injectable for testing; nil means build a remote client
}

// MonthCommand prints the month grid.
type MonthCommand struct {
	Month    string `long:"month" description:"Month to show as YYYY-MM (default: current month)"`
	Category string `long:"category" description:"Only show this category" default:"All"`

	env `no-flag:"true"`
}

// TodayCommand prints today's events.
type TodayCommand struct {
	env `no-flag:"true"`
}

// AddCommand creates an event.
type AddCommand struct {
	Date     string `long:"date" description:"Day of the event as YYYY-MM-DD (required)"`
	Title    string `long:"title" description:"Event text (required)"`
	Category string `long:"category" description:"Optional category"`

	env `no-flag:"true"`
}

// EditCommand changes the text of an event.
type EditCommand struct {
	ID    string `long:"id" description:"Event ID (required)"`
	Title string `long:"title" description:"New event text (required)"`

	env `no-flag:"true"`
}

// RemoveCommand deletes an event.
type RemoveCommand struct {
	ID string `long:"id" description:"Event ID (required)"`

	env `no-flag:"true"`
}
