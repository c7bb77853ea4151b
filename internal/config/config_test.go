package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_OverlaysOntoDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reflectgen.ini")
	contents := `
[CodeGen]
OutputDir = out
InputRoots = headers,more_headers
ShouldFailCodeGenerationOnClangErrors = false
IterationCount = 3

[Pool]
WorkerCount = 8
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	got, err := Load(path, Default())
	require.NoError(t, err)

	require.Equal(t, "out", got.OutputDir)
	require.Equal(t, []string{"headers", "more_headers"}, got.InputRoots)
	require.False(t, got.ShouldFailCodeGenerationOnClangErrors)
	require.Equal(t, 3, got.IterationCount)
	require.Equal(t, 8, got.WorkerCount)
	// Untouched fields fall back to Default().
	require.Equal(t, Default().ClassFooterMacroPattern, got.ClassFooterMacroPattern)
}

func TestLoad_MissingFileReturnsError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.ini"), Default())
	require.Error(t, err)
}
