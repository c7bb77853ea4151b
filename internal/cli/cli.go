// Package cli parses command-line arguments, validates user input, and
// translates flags plus an optional INI file into a config.Settings,
// the way burstgridgo's internal/cli.Parse feeds an app.Config.
package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"reflectgen/internal/config"
)

// ExitError carries a process exit code alongside its message, so main
// can recover cleanly instead of printing a bare stack trace.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string { return e.Message }

// Options is the resolved command line: a settings overlay plus the
// run-level switches that are not part of CodeGenUnitSettings.
type Options struct {
	Settings  config.Settings
	LogLevel  string
	LogFormat string
	ForceAll  bool
}

// Parse processes args into Options. It returns shouldExit=true for
// -h/-help with no error, an *ExitError for malformed input, or a
// populated Options on success.
func Parse(args []string, output io.Writer) (Options, bool, error) {
	flagSet := flag.NewFlagSet("reflectgen", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
reflectgen - a reflection code generator for a C++-like header corpus.

Usage:
  reflectgen [options] [INPUT_ROOT...]

Arguments:
  INPUT_ROOT
    One or more directories or files to scan. Overrides the config
    file's InputRoots when given.

Options:
`)
		flagSet.PrintDefaults()
	}

	configFlag := flagSet.String("config", "", "Path to an INI config file overlaying the defaults.")
	outputDirFlag := flagSet.String("output", "", "Directory generated artifacts are written to.")
	workersFlag := flagSet.Int("workers", 0, "Worker pool width. 0 uses hardware concurrency.")
	strictFlag := flagSet.Bool("strict", true, "Fail (and retry) on genuine parse diagnostics instead of ignoring them.")
	forceFlag := flagSet.Bool("force", false, "Reprocess every file, ignoring up-to-date artifacts.")
	logLevelFlag := flagSet.String("log-level", "info", "Logging level: debug, info, warn, or error.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format: text or json.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return Options{}, true, nil
		}
		return Options{}, false, &ExitError{Code: 2, Message: err.Error()}
	}

	settings := config.Default()
	if *configFlag != "" {
		loaded, err := config.Load(*configFlag, settings)
		if err != nil {
			return Options{}, false, &ExitError{Code: 2, Message: err.Error()}
		}
		settings = loaded
	}

	if *outputDirFlag != "" {
		settings.OutputDir = *outputDirFlag
	}
	if *workersFlag != 0 {
		settings.WorkerCount = *workersFlag
	}
	flagSet.Visit(func(f *flag.Flag) {
		if f.Name == "strict" {
			settings.ShouldFailCodeGenerationOnClangErrors = *strictFlag
		}
	})
	if flagSet.NArg() > 0 {
		settings.InputRoots = flagSet.Args()
	}
	if len(settings.InputRoots) == 0 {
		flagSet.Usage()
		return Options{}, true, nil
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
	default:
		return Options{}, false, &ExitError{Code: 2, Message: "invalid log-level: must be debug, info, warn, or error"}
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return Options{}, false, &ExitError{Code: 2, Message: "invalid log-format: must be text or json"}
	}

	return Options{
		Settings:  settings,
		LogLevel:  logLevel,
		LogFormat: logFormat,
		ForceAll:  *forceFlag || settings.ForceAll,
	}, false, nil
}
