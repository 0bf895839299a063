// Package cli parses the wgslpp command line into an app.Config.
package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/wgslpp/internal/app"
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

// defineList collects repeated -D flags.
type defineList []app.Define

func (d *defineList) String() string {
	parts := make([]string, 0, len(*d))
	for _, def := range *d {
		parts = append(parts, def.Name+"="+def.Raw)
	}
	return strings.Join(parts, ",")
}

func (d *defineList) Set(raw string) error {
	name, val, ok := strings.Cut(raw, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return fmt.Errorf("define must be name=value, got %q", raw)
	}
	*d = append(*d, app.Define{Name: name, Raw: val})
	return nil
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("wgslpp", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
wgslpp - a WGSL shader preprocessor.

Usage:
  wgslpp [options] ENTRY_PATH

Arguments:
  ENTRY_PATH
    Workspace-relative path of the shader to expand.

Options:
`)
		flagSet.PrintDefaults()
	}

	var defines defineList
	rootFlag := flagSet.String("root", ".", "Workspace root directory to scan for .wgsl files.")
	outFlag := flagSet.String("o", "", "Write expanded output to this file instead of stdout.")
	flagSet.Var(&defines, "D", "Define a global as name=value (repeatable). The value is parsed as an integer, float, or boolean.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	entry := ""
	if flagSet.NArg() > 0 {
		entry = flagSet.Arg(0)
	}
	slog.Debug("Entry path determined.", "entry", entry)

	if entry == "" {
		slog.Debug("No entry path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

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
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		EntryPath:  entry,
		RootPath:   *rootFlag,
		OutputPath: *outFlag,
		Defines:    defines,
		LogFormat:  logFormat,
		LogLevel:   logLevel,
	})

	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.")
	return config, false, nil
}
