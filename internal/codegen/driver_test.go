package codegen

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"reflectgen/internal/config"
	"reflectgen/internal/tu"
)

func TestDriver_Run_EndToEndWritesMacrosFile(t *testing.T) {
	root := t.TempDir()
	outDir := t.TempDir()

	headerPath := filepath.Join(root, "widget.h")
	require.NoError(t, os.WriteFile(headerPath, []byte("struct Widget {};"), 0o644))

	settings := config.Default()
	settings.InputRoots = []string{root}
	settings.OutputDir = outDir
	settings.SupportedExtensions = []string{".h"}
	settings.GeneratedHeaderFileNamePattern = "File_#CLASS#_GENERATED"
	settings.FileFooterMacroPattern = "File_#CLASS#_GENERATED"
	settings.ClassFooterMacroPattern = "#CLASS#_GENERATED"

	script := map[string][][]tu.Diagnostic{
		headerPath: {
			{{Spelling: "unknown type name 'File_widget_GENERATED'", Location: tu.Location{File: headerPath, Line: 1}}},
			{},
		},
	}
	parser := newScriptedParser(script)

	driver := New(parser, 2)
	defer driver.Close()

	result, err := driver.Run(context.Background(), NewDefault(settings), false)
	require.NoError(t, err)
	require.True(t, result.Completed)
	require.GreaterOrEqual(t, result.DurationSeconds, 0.0)

	macrosPath := filepath.Join(outDir, settings.MacrosFileName)
	content, err := os.ReadFile(macrosPath)
	require.NoError(t, err)
	require.Contains(t, string(content), "REFLECTGEN_PARSING")
	require.Contains(t, string(content), "File_widget_GENERATED")
}

func TestDriver_Run_CleanInputIsIdempotent(t *testing.T) {
	root := t.TempDir()
	outDir := t.TempDir()

	headerPath := filepath.Join(root, "widget.h")
	require.NoError(t, os.WriteFile(headerPath, []byte("struct Widget {};"), 0o644))

	settings := config.Default()
	settings.InputRoots = []string{root}
	settings.OutputDir = outDir
	settings.SupportedExtensions = []string{".h"}
	settings.GeneratedHeaderFileNamePattern = "File_#CLASS#_GENERATED"
	settings.FileFooterMacroPattern = "File_#CLASS#_GENERATED"
	settings.ClassFooterMacroPattern = "#CLASS#_GENERATED"

	artifact := filepath.Join(outDir, "File_widget_GENERATED")
	require.NoError(t, os.WriteFile(artifact, []byte("#define File_widget_GENERATED\n"), 0o644))
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(artifact, future, future))

	driver := New(newScriptedParser(nil), 2)
	defer driver.Close()

	result, err := driver.Run(context.Background(), NewDefault(settings), false)
	require.NoError(t, err)
	require.True(t, result.Completed)
	require.Empty(t, result.ParsedFiles)
}
