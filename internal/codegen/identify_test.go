package codegen

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"reflectgen/internal/config"
	"reflectgen/internal/entities"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestIdentifyFilesToProcess_SkipsUpToDateArtifact(t *testing.T) {
	root := t.TempDir()
	outDir := t.TempDir()

	stale := filepath.Join(root, "stale.h")
	fresh := filepath.Join(root, "fresh.h")
	writeFile(t, stale, "struct Stale {};")
	writeFile(t, fresh, "struct Fresh {};")

	settings := config.Default()
	settings.InputRoots = []string{root}
	settings.OutputDir = outDir
	settings.GeneratedHeaderFileNamePattern = "File_#CLASS#_GENERATED"
	settings.SupportedExtensions = []string{".h"}

	// fresh.h already has an up-to-date artifact.
	freshArtifact := filepath.Join(outDir, "File_fresh_GENERATED")
	writeFile(t, freshArtifact, "#define File_fresh_GENERATED\n")
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(freshArtifact, future, future))

	got, err := identifyFilesToProcess(context.Background(), settings, false)
	require.NoError(t, err)
	require.Equal(t, []entities.SourcePath{entities.SourcePath(stale)}, got)
}

func TestIdentifyFilesToProcess_ForceAllIncludesEverything(t *testing.T) {
	root := t.TempDir()
	outDir := t.TempDir()

	a := filepath.Join(root, "a.h")
	writeFile(t, a, "struct A {};")

	artifact := filepath.Join(outDir, "File_a_GENERATED")
	writeFile(t, artifact, "#define File_a_GENERATED\n")
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(artifact, future, future))

	settings := config.Default()
	settings.InputRoots = []string{root}
	settings.OutputDir = outDir
	settings.GeneratedHeaderFileNamePattern = "File_#CLASS#_GENERATED"
	settings.SupportedExtensions = []string{".h"}

	got, err := identifyFilesToProcess(context.Background(), settings, true)
	require.NoError(t, err)
	require.Equal(t, []entities.SourcePath{entities.SourcePath(a)}, got)
}

func TestIdentifyFilesToProcess_HonoursIgnoredDirectoriesAndExtensions(t *testing.T) {
	root := t.TempDir()
	outDir := t.TempDir()

	keep := filepath.Join(root, "keep.h")
	wrongExt := filepath.Join(root, "notes.txt")
	ignoredDir := filepath.Join(root, "vendor", "skip.h")
	writeFile(t, keep, "struct Keep {};")
	writeFile(t, wrongExt, "not a header")
	writeFile(t, ignoredDir, "struct Skip {};")

	settings := config.Default()
	settings.InputRoots = []string{root}
	settings.OutputDir = outDir
	settings.GeneratedHeaderFileNamePattern = "File_#CLASS#_GENERATED"
	settings.SupportedExtensions = []string{".h"}
	settings.IgnoredDirectories = []string{"vendor"}

	got, err := identifyFilesToProcess(context.Background(), settings, true)
	require.NoError(t, err)
	require.Equal(t, []entities.SourcePath{entities.SourcePath(keep)}, got)
}
