package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/gridbuild/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
// Positional arguments are the targets to invoke.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("gridbuild", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
GridBuild - A programmable, incremental build orchestrator.

Usage:
  gridbuild [options] [TARGET...]

Arguments:
  TARGET
    A task to invoke, optionally with arguments: name[arg1,arg2].
    Defaults to "build".

Options:
`)
		flagSet.PrintDefaults()
	}

	buildFlag := flagSet.String("build", ".", "Path to the build file or directory.")
	fFlag := flagSet.String("f", "", "Path to the build file or directory (shorthand).")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	eventsFlag := flagSet.String("events-url", "", "Socket.IO server to stream build events to. Empty is disabled.")
	listFlag := flagSet.Bool("list", false, "List the described tasks and exit.")
	tFlag := flagSet.Bool("T", false, "List the described tasks and exit (shorthand).")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := *buildFlag
	if *fFlag != "" {
		path = *fFlag
	}
	slog.Debug("Build path determined.", "path", path)

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	for _, target := range flagSet.Args() {
		if strings.HasPrefix(target, "[") || strings.Count(target, "[") > 1 {
			return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("invalid target %q", target)}
		}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		BuildPath: path,
		Targets:   flagSet.Args(),
		LogFormat: logFormat,
		LogLevel:  logLevel,
		EventsURL: *eventsFlag,
		List:      *listFlag || *tFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
