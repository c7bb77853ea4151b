package codegen

import (
	"context"
	"fmt"
	"sync"

	"reflectgen/internal/config"
	"reflectgen/internal/ctxlog"
	"reflectgen/internal/entities"
	"reflectgen/internal/macrofile"
	"reflectgen/internal/parsing"
	"reflectgen/internal/task"
	"reflectgen/internal/tu"
)

// processFilesIgnoreErrors is the lenient engine: a fixed number of
// unconditional passes over every file, no pre-parse round, no retry.
// Diagnostics are discarded entirely; whichever generation ran in the
// final pass is what lands on disk.
func processFilesIgnoreErrors(ctx context.Context, pool *task.Pool, parser tu.Parser, pd *parsing.Driver, unit Unit, writer macrofile.Writer, files []entities.SourcePath, settings config.Settings) CodeGenResult {
	var mu sync.Mutex
	var errs []string
	last := make(map[entities.SourcePath]*entities.FileParsingResult, len(files))

	iterations := unit.IterationCount()
	if iterations <= 0 {
		iterations = 1
	}

	for i := 0; i < iterations; i++ {
		pool.SetIsRunning(false)
		parseHandles := make(map[entities.SourcePath]*task.Handle, len(files))
		for _, f := range files {
			f := f
			parseHandles[f] = pool.Submit("parse:"+string(f), nil, func(ctx context.Context, deps []*task.Handle) (any, error) {
				result := pd.ParseIgnoreErrors(ctx, parser.Clone(), string(f), settings)
				return &result, nil
			})
		}
		pool.SetIsRunning(true)
		pool.JoinWorkers()

		pool.SetIsRunning(false)
		for _, f := range files {
			f, p, genUnit := f, parseHandles[f], unit.Clone()
			pool.Submit("generate:"+string(f), []*task.Handle{p}, func(ctx context.Context, deps []*task.Handle) (any, error) {
				result, _ := task.DepResult[*entities.FileParsingResult](deps[0])
				if result == nil {
					return nil, nil
				}
				mu.Lock()
				last[f] = result
				mu.Unlock()
				return nil, generateAndWrite(writer, genUnit, f, result, settings, &mu, &errs)
			})
		}
		pool.SetIsRunning(true)
		pool.JoinWorkers()
	}

	successful := make([]*entities.FileParsingResult, 0, len(last))
	for _, r := range last {
		successful = append(successful, r)
	}

	if len(errs) > 0 {
		logger := ctxlog.FromContext(ctx)
		for _, e := range errs {
			logger.Error(e)
		}
	}

	return CodeGenResult{
		Completed:   len(errs) == 0,
		ParsedFiles: append([]entities.SourcePath{}, files...),
		Errors:      errs,
		successful:  successful,
	}
}

// generateAndWrite renders genUnit's output for result and writes it to
// f's artifact, recording any failure into errs under mu. Shared by
// both engines' generate-task bodies.
func generateAndWrite(writer macrofile.Writer, genUnit Unit, f entities.SourcePath, result *entities.FileParsingResult, settings config.Settings, mu *sync.Mutex, errs *[]string) error {
	content, ok := genUnit.GenerateCode(f, result)
	if !ok {
		mu.Lock()
		*errs = append(*errs, fmt.Sprintf("generation failed for %s", f))
		mu.Unlock()
		return nil
	}
	path, err := artifactPath(f, settings)
	if err != nil {
		mu.Lock()
		*errs = append(*errs, err.Error())
		mu.Unlock()
		return nil
	}
	if err := writer.WriteGenerated(path, content); err != nil {
		mu.Lock()
		*errs = append(*errs, err.Error())
		mu.Unlock()
	}
	return nil
}
