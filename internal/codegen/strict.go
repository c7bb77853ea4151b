package codegen

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/exp/slices"

	"reflectgen/internal/config"
	"reflectgen/internal/ctxlog"
	"reflectgen/internal/entities"
	"reflectgen/internal/macrofile"
	"reflectgen/internal/parsing"
	"reflectgen/internal/task"
	"reflectgen/internal/tu"
)

// processFilesFailOnErrors is the strict engine: a fixed-point
// iteration over a shrinking retry set. Remaining₀ is every file to
// process; each round pre-parses to discover this round's missing
// macros, appends them, reparses, and only truncates+generates the
// files that parsed cleanly. The loop stops the moment an iteration's
// retry set stops shrinking relative to the batch that fed it, the
// monotone-decrease termination bound.
func processFilesFailOnErrors(ctx context.Context, pool *task.Pool, parser tu.Parser, pd *parsing.Driver, unit Unit, writer macrofile.Writer, files []entities.SourcePath, settings config.Settings) CodeGenResult {
	logger := ctxlog.FromContext(ctx)

	var mu sync.Mutex
	failedErrors := map[entities.SourcePath][]string{}
	successful := map[entities.SourcePath]*entities.FileParsingResult{}

	remaining := append([]entities.SourcePath{}, files...)

	for len(remaining) > 0 {
		batch := remaining
		remaining = nil

		// Pre-parse round: discover this round's missing macros.
		pool.SetIsRunning(false)
		preHandles := make(map[entities.SourcePath]*task.Handle, len(batch))
		for _, f := range batch {
			f := f
			preHandles[f] = pool.Submit("preparse:"+string(f), nil, func(ctx context.Context, deps []*task.Handle) (any, error) {
				pending, _ := pd.PrepareForParsing(ctx, parser.Clone(), string(f), settings)
				return pending, nil
			})
		}
		pool.SetIsRunning(true)
		pool.JoinWorkers()

		// Append every discovered macro before the real parse.
		for _, f := range batch {
			pending, _ := task.AwaitTyped[[]string](context.Background(), preHandles[f])
			if len(pending) == 0 {
				continue
			}
			path, err := artifactPath(f, settings)
			if err != nil {
				recordFailure(&mu, failedErrors, f, err.Error())
				remaining = append(remaining, f)
				continue
			}
			if err := writer.AppendDefines(path, pending); err != nil {
				recordFailure(&mu, failedErrors, f, err.Error())
				remaining = append(remaining, f)
			}
		}
		skip := toSkipSet(remaining)

		// Real parse round, diagnostics filtered by filterDiagnostics.
		pool.SetIsRunning(false)
		parseHandles := make(map[entities.SourcePath]*task.Handle, len(batch))
		for _, f := range batch {
			if _, skipped := skip[f]; skipped {
				continue
			}
			f := f
			parseHandles[f] = pool.Submit("parse:"+string(f), nil, func(ctx context.Context, deps []*task.Handle) (any, error) {
				result := pd.ParseFailOnErrors(ctx, parser.Clone(), string(f), settings)
				return &result, nil
			})
		}
		pool.SetIsRunning(true)
		pool.JoinWorkers()

		for f, h := range parseHandles {
			result, _ := task.AwaitTyped[*entities.FileParsingResult](context.Background(), h)
			if result == nil {
				continue
			}
			if len(result.Errors) > 0 {
				for _, e := range result.Errors {
					logger.Error(fmt.Sprintf("while processing the following file: %s: %s", f, e))
				}
				recordFailure(&mu, failedErrors, f, result.Errors...)
				remaining = append(remaining, f)
				continue
			}
			mu.Lock()
			successful[f] = result
			delete(failedErrors, f)
			mu.Unlock()
		}
		skip = toSkipSet(remaining)

		// Truncate + generate every file that survived parsing this round.
		pool.SetIsRunning(false)
		for _, f := range batch {
			if _, skipped := skip[f]; skipped {
				continue
			}
			result, ok := successful[f]
			if !ok {
				continue
			}
			path, err := artifactPath(f, settings)
			if err != nil {
				recordFailure(&mu, failedErrors, f, err.Error())
				continue
			}
			if err := writer.Truncate(path); err != nil {
				recordFailure(&mu, failedErrors, f, err.Error())
				continue
			}
			f, result, path, genUnit := f, result, path, unit.Clone()
			pool.Submit("generate:"+string(f), nil, func(ctx context.Context, deps []*task.Handle) (any, error) {
				return nil, generateAndWriteStrict(writer, genUnit, f, result, path, &mu, failedErrors)
			})
		}
		pool.SetIsRunning(true)
		pool.JoinWorkers()

		if len(remaining) == 0 || len(remaining) == len(batch) {
			break
		}
	}

	var errs []string
	mu.Lock()
	completed := len(remaining) == 0 && len(failedErrors) == 0
	for f, fe := range failedErrors {
		for _, e := range fe {
			errs = append(errs, fmt.Sprintf("while processing the following file: %s: %s", f, e))
		}
	}
	mu.Unlock()
	slices.SortFunc(errs, func(a, b string) int { return strings.Compare(a, b) })

	parsedFiles := make([]entities.SourcePath, 0, len(successful))
	successfulResults := make([]*entities.FileParsingResult, 0, len(successful))
	for f, r := range successful {
		parsedFiles = append(parsedFiles, f)
		successfulResults = append(successfulResults, r)
	}
	slices.SortFunc(parsedFiles, func(a, b entities.SourcePath) int { return strings.Compare(string(a), string(b)) })

	return CodeGenResult{
		Completed:   completed,
		ParsedFiles: parsedFiles,
		Errors:      errs,
		successful:  successfulResults,
	}
}

// generateAndWriteStrict writes the final generation for a file that
// just had its artifact truncated. A generation failure is recorded but
// never re-queued: generation is deterministic given a successful
// parse, so retrying would only reproduce the same failure.
func generateAndWriteStrict(writer macrofile.Writer, genUnit Unit, f entities.SourcePath, result *entities.FileParsingResult, path string, mu *sync.Mutex, failedErrors map[entities.SourcePath][]string) error {
	content, ok := genUnit.GenerateCode(f, result)
	if !ok {
		recordFailure(mu, failedErrors, f, fmt.Sprintf("generation failed for %s", f))
		return nil
	}
	if err := writer.WriteGenerated(path, content); err != nil {
		recordFailure(mu, failedErrors, f, err.Error())
	}
	return nil
}

func recordFailure(mu *sync.Mutex, failedErrors map[entities.SourcePath][]string, f entities.SourcePath, errs ...string) {
	mu.Lock()
	failedErrors[f] = append(append([]string{}, failedErrors[f]...), errs...)
	mu.Unlock()
}

func toSkipSet(files []entities.SourcePath) map[entities.SourcePath]struct{} {
	set := make(map[entities.SourcePath]struct{}, len(files))
	for _, f := range files {
		set[f] = struct{}{}
	}
	return set
}
