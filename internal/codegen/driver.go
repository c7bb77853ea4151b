package codegen

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"reflectgen/internal/macrofile"
	"reflectgen/internal/parsing"
	"reflectgen/internal/task"
	"reflectgen/internal/tu"
)

// Driver is CodeGenDriver: it owns the worker pool, the parsing
// adapter, and the artifact writer, and dispatches a run to one of the
// two iteration engines.
type Driver struct {
	Parser  tu.Parser
	Parsing *parsing.Driver
	Writer  macrofile.Writer
	Pool    *task.Pool
}

// New constructs a Driver with a freshly started worker pool of the
// given width (<=0 defaults to hardware concurrency).
func New(parser tu.Parser, poolWorkers int) *Driver {
	return &Driver{
		Parser:  parser,
		Parsing: parsing.New(),
		Writer:  macrofile.Writer{},
		Pool:    task.New(poolWorkers),
	}
}

// Close stops the driver's worker pool. Safe to call once after the
// driver's last Run.
func (d *Driver) Close() { d.Pool.Close() }

// Run is CodeGenDriver.run(parser, unit, forceAll) → CodeGenResult:
// identify the files needing (re)processing, dispatch to the strict or
// lenient engine per unit's settings, then emit the shared Macros.h
// file from whatever parsed successfully.
func (d *Driver) Run(ctx context.Context, unit Unit, forceAll bool) (CodeGenResult, error) {
	start := time.Now()
	settings := unit.Settings()

	files, err := identifyFilesToProcess(ctx, settings, forceAll)
	if err != nil {
		return CodeGenResult{}, err
	}

	var result CodeGenResult
	if settings.ShouldFailCodeGenerationOnClangErrors {
		result = processFilesFailOnErrors(ctx, d.Pool, d.Parser, d.Parsing, unit, d.Writer, files, settings)
	} else {
		result = processFilesIgnoreErrors(ctx, d.Pool, d.Parser, d.Parsing, unit, d.Writer, files, settings)
	}

	if names, err := collectMacroNames(result.successful, settings); err == nil {
		macrosPath := filepath.Join(settings.OutputDir, settings.MacrosFileName)
		if err := writeSharedMacrosFile(d.Writer, macrosPath, settings.ParsingMacro, names); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("failed to write shared macros file %s: %s", macrosPath, err))
		}
	}

	result.DurationSeconds = time.Since(start).Seconds()
	return result, nil
}
