package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	goflags "github.com/jessevdk/go-flags"

	"github.com/jw6ventures/eventcal/internal/events"
)

type commands struct {
	Month  *MonthCommand
	Today  *TodayCommand
	Add    *AddCommand
	Edit   *EditCommand
	Remove *RemoveCommand
}

// buildParser constructs the go-flags parser with all subcommands registered.
func buildParser(out io.Writer, api events.API) (*goflags.Parser, *GlobalFlags, *commands) {
	var globals GlobalFlags

	parser := goflags.NewParser(&globals, goflags.Default)
	parser.Name = "calctl"
	parser.LongDescription = "Browse and edit the event calendar from the terminal."

	e := env{globals: &globals, out: out, now: time.Now, api: api}
	cmds := &commands{
		Month:  &MonthCommand{env: e},
		Today:  &TodayCommand{env: e},
		Add:    &AddCommand{env: e},
		Edit:   &EditCommand{env: e},
		Remove: &RemoveCommand{env: e},
	}

	parser.AddCommand("month", "Show a month", "Show every day of a month that has events, optionally filtered by category.", cmds.Month)
	parser.AddCommand("today", "Show today's events", "Show the events stored for the current day.", cmds.Today)
	parser.AddCommand("add", "Add an event", "Add an event on the given day.", cmds.Add)
	parser.AddCommand("edit", "Change an event's text", "Replace the text of an existing event.", cmds.Edit)
	parser.AddCommand("rm", "Delete an event", "Delete an event by id.", cmds.Remove)

	return parser, &globals, cmds
}

// Run is the entry point for calctl using os.Args.
func Run(version string) error {
	return RunWithArgs(version, nil, os.Stdout, nil)
}

// RunWithArgs parses args (or os.Args if nil) and executes the matched
// subcommand. A nil api builds a remote client from the global flags.
func RunWithArgs(version string, args []string, out io.Writer, api events.API) error {
	checkArgs := args
	if checkArgs == nil {
		checkArgs = os.Args[1:]
	}
	for _, arg := range checkArgs {
		if arg == "--version" {
			fmt.Fprintf(out, "calctl %s\n", version)
			return nil
		}
		if arg == "--" {
			break
		}
	}

	parser, _, _ := buildParser(out, api)

	var err error
	if args != nil {
		_, err = parser.ParseArgs(args)
	} else {
		_, err = parser.Parse()
	}
	if err != nil {
		if flagsErr, ok := err.(*goflags.Error); ok && flagsErr.Type == goflags.ErrHelp {
			return nil
		}
		return err
	}
	return nil
}
