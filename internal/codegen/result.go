package codegen

import "reflectgen/internal/entities"

// CodeGenResult is the outcome of one CodeGenDriver.Run call.
type CodeGenResult struct {
	// Completed is true iff no file remained in the retry set after
	// termination and no generation reported failure.
	Completed bool
	// ParsedFiles lists every file that was successfully parsed during
	// the run.
	ParsedFiles []entities.SourcePath
	// DurationSeconds is the wall-clock time CodeGenDriver.Run spent.
	DurationSeconds float64
	// Errors is the mergeable error list: one entry per surviving
	// diagnostic, IO failure, or generation failure.
	Errors []string

	// successful carries the FileParsingResult for every file in
	// ParsedFiles, used internally to render the shared Macros.h file.
	// Not part of the original CodeGenResult shape; never exposed.
	successful []*entities.FileParsingResult
}
