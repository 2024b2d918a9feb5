// Command generator writes procedurally generated meshes to files.
//
//	generator sphere <radius> <slices> <stacks> <output_file>
//	generator script <script_file>
//
// Run without arguments for the full command list.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/chazu/meshgen/pkg/config"
	"github.com/chazu/meshgen/pkg/plan"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// command is one non-shape subcommand.
type command struct {
	args  []string
	about string
	run   func(a *App, ctx context.Context, args []string) error
}

var commands = map[string]command{
	"script": {
		args:  []string{"script_file"},
		about: "evaluate a generation script and write every model it queues",
		run:   func(a *App, ctx context.Context, args []string) error { return a.Script(ctx, args[0]) },
	},
	"batch": {
		args:  []string{"plan.yaml"},
		about: "write every model listed in a YAML batch file",
		run:   func(a *App, ctx context.Context, args []string) error { return a.Batch(ctx, args[0]) },
	},
	"watch": {
		args:  []string{"script_file"},
		about: "re-run a script whenever it changes",
		run:   func(a *App, ctx context.Context, args []string) error { return a.Watch(ctx, args[0]) },
	},
	"compile": {
		args:  []string{"script_file", "plan.yaml"},
		about: "evaluate a script and save its jobs as a batch file",
		run:   func(a *App, ctx context.Context, args []string) error { return a.Compile(args[0], args[1]) },
	},
	"rib2patch": {
		args:  []string{"input.rib", "output.patch"},
		about: "convert bicubic RIB patches to a patch file",
		run:   func(a *App, ctx context.Context, args []string) error { return a.RIBToPatch(args[0], args[1]) },
	},
}

var commandOrder = []string{"script", "batch", "watch", "compile", "rib2patch"}

// usageError is reported with the usage text and exit status 1.
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	for _, k := range plan.Kinds() {
		fmt.Fprintf(w, "  %s\n", k.Usage())
	}
	for _, name := range commandOrder {
		c := commands[name]
		fmt.Fprintf(w, "  generator %s <%s>\n      %s\n", name, strings.Join(c.args, "> <"), c.about)
	}
}

// run executes one command line and returns the exit status.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	if cfg.Path != "" {
		logger.Debug("loaded config", "path", cfg.Path)
	}

	app := NewApp(cfg, logger, stdout)
	err = dispatch(ctx, app, args)

	var ue *usageError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &ue):
		fmt.Fprintf(stderr, "Error: %s\n", ue.msg)
		printUsage(stderr)
		return 1
	case errors.Is(err, context.Canceled):
		return 0
	default:
		logger.Error("command failed", "err", err)
		return 1
	}
}

func dispatch(ctx context.Context, app *App, args []string) error {
	if len(args) == 0 {
		return usagef("No command provided.")
	}
	name, rest := args[0], args[1:]

	if k, err := plan.ParseKind(name); err == nil {
		job, err := plan.ParseArgs(k, rest)
		if err != nil {
			return &usageError{msg: err.Error()}
		}
		return app.Shape(job)
	}

	c, ok := commands[name]
	if !ok {
		return usagef("Unknown command '%s'", name)
	}
	if len(rest) != len(c.args) {
		return usagef("Incorrect number of arguments for '%s' (expected %d after command).", name, len(c.args))
	}
	return c.run(app, ctx, rest)
}
