package codegen

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"reflectgen/internal/config"
	"reflectgen/internal/entities"
	"reflectgen/internal/macrofile"
	"reflectgen/internal/parsing"
	"reflectgen/internal/task"
	"reflectgen/internal/tu"
)

func strictSettings(t *testing.T) config.Settings {
	s := config.Default()
	s.OutputDir = t.TempDir()
	s.GeneratedHeaderFileNamePattern = "File_#CLASS#_GENERATED"
	s.FileFooterMacroPattern = "File_#CLASS#_GENERATED"
	s.ClassFooterMacroPattern = "#CLASS#_GENERATED"
	return s
}

// S1: a single file needing exactly one macro round.
func TestStrictEngine_S1_SingleFileOneMacroRound(t *testing.T) {
	settings := strictSettings(t)
	script := map[string][][]tu.Diagnostic{
		"A.h": {
			{{Spelling: "unknown type name 'File_A_GENERATED'", Location: tu.Location{File: "A.h", Line: 1}}}, // preparse
			{}, // real parse: clean
		},
	}
	parser := newScriptedParser(script)
	pool := task.New(2)
	defer pool.Close()

	result := processFilesFailOnErrors(context.Background(), pool, parser, parsing.New(), NewDefault(settings), macrofile.Writer{}, []entities.SourcePath{"A.h"}, settings)

	require.True(t, result.Completed)
	require.Equal(t, []entities.SourcePath{"A.h"}, result.ParsedFiles)
	require.Empty(t, result.Errors)

	artifact := filepath.Join(settings.OutputDir, "File_A_GENERATED")
	_, err := os.Stat(artifact)
	require.NoError(t, err)
}

// S3: two files where the second only parses cleanly on a later round.
func TestStrictEngine_S3_SecondFileNeedsRetry(t *testing.T) {
	settings := strictSettings(t)
	script := map[string][][]tu.Diagnostic{
		"A.h": {
			{}, // preparse: nothing missing
			{}, // parse: clean
		},
		"B.h": {
			{{Spelling: "unknown type name 'A_GENERATED'", Location: tu.Location{File: "B.h", Line: 1}}}, // preparse round 1: discovers A's footer macro
			{{Spelling: "use of undeclared identifier 'FooBar'", Location: tu.Location{File: "B.h", Line: 4, Column: 2}}}, // parse round 1: genuine error, must retry
			{}, // preparse round 2: nothing new
			{}, // parse round 2: clean
		},
	}
	parser := newScriptedParser(script)
	pool := task.New(4)
	defer pool.Close()

	result := processFilesFailOnErrors(context.Background(), pool, parser, parsing.New(), NewDefault(settings), macrofile.Writer{}, []entities.SourcePath{"A.h", "B.h"}, settings)

	require.True(t, result.Completed)
	require.ElementsMatch(t, []entities.SourcePath{"A.h", "B.h"}, result.ParsedFiles)
}

// S4: a genuine error that never clears; strict engine stalls and
// reports an incomplete run.
func TestStrictEngine_S4_GenuineErrorNeverResolves(t *testing.T) {
	settings := strictSettings(t)
	script := map[string][][]tu.Diagnostic{
		"A.h": {
			{}, // preparse: nothing missing
			{{Spelling: "use of undeclared identifier 'FooBar'", Location: tu.Location{File: "A.h", Line: 3, Column: 5}}}, // parse: genuine, every round
		},
	}
	parser := newScriptedParser(script)
	pool := task.New(2)
	defer pool.Close()

	result := processFilesFailOnErrors(context.Background(), pool, parser, parsing.New(), NewDefault(settings), macrofile.Writer{}, []entities.SourcePath{"A.h"}, settings)

	require.False(t, result.Completed)
	require.Empty(t, result.ParsedFiles)
	require.NotEmpty(t, result.Errors)
}

// S6: a configuration error (no placeholder in the class-footer
// pattern) fails every file immediately and stalls without progress.
func TestStrictEngine_S6_ConfigurationErrorStalls(t *testing.T) {
	settings := strictSettings(t)
	settings.ClassFooterMacroPattern = "NO_PLACEHOLDER"
	script := map[string][][]tu.Diagnostic{
		"A.h": {
			{}, // preparse
			{{Spelling: "unknown type name 'Widget_GENERATED'", Location: tu.Location{File: "A.h", Line: 1}}},
		},
	}
	parser := newScriptedParser(script)
	pool := task.New(2)
	defer pool.Close()

	result := processFilesFailOnErrors(context.Background(), pool, parser, parsing.New(), NewDefault(settings), macrofile.Writer{}, []entities.SourcePath{"A.h"}, settings)

	require.False(t, result.Completed)
}

// Boundary case: an empty file set completes trivially.
func TestStrictEngine_EmptyFileSet(t *testing.T) {
	settings := strictSettings(t)
	pool := task.New(2)
	defer pool.Close()

	result := processFilesFailOnErrors(context.Background(), pool, newScriptedParser(nil), parsing.New(), NewDefault(settings), macrofile.Writer{}, nil, settings)

	require.True(t, result.Completed)
	require.Empty(t, result.ParsedFiles)
	require.GreaterOrEqual(t, result.DurationSeconds, 0.0)
}
