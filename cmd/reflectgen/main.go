// Command reflectgen runs the reflection code generator over a C++-like
// header corpus. CLI, config, and logging plumbing mirror burstgridgo's
// cmd/cli/main.go shape: parse flags, build the app, run, recover once
// at the top for a clean exit code.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"reflectgen/internal/cli"
	"reflectgen/internal/codegen"
	"reflectgen/internal/ctxlog"
	"reflectgen/internal/tu"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})))

	if err := run(os.Stdout, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(outW io.Writer, args []string) error {
	opts, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	logger := newLogger(opts.LogFormat, opts.LogLevel)
	slog.SetDefault(logger)

	// Configuration-shape problems are startup errors; an implementer
	// may fail fast on them the way app.NewApp panics on unrecoverable
	// startup errors, recovered once here for a clean exit.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(outW, "a critical startup error occurred: %v\n", r)
			os.Exit(1)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = ctxlog.WithLogger(ctx, logger)

	driver := codegen.New(tu.NewScanner(), opts.Settings.WorkerCount)
	defer driver.Close()

	unit := codegen.NewDefault(opts.Settings)
	result, err := driver.Run(ctx, unit, opts.ForceAll)
	if err != nil {
		return err
	}

	logger.Info("reflectgen run finished",
		"completed", result.Completed,
		"files_parsed", len(result.ParsedFiles),
		"duration_s", result.DurationSeconds,
	)
	for _, e := range result.Errors {
		logger.Error(e)
	}
	if !result.Completed {
		return &cli.ExitError{Code: 1, Message: "reflectgen run did not complete successfully"}
	}
	return nil
}

func newLogger(format, level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: lvl}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
