package codegen

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"reflectgen/internal/config"
	"reflectgen/internal/entities"
	"reflectgen/internal/macrofile"
)

func TestDefault_GenerateCode_RendersFooterMacrosAndFileMacro(t *testing.T) {
	settings := strictSettingsForUnit()
	unit := NewDefault(settings)

	result := &entities.FileParsingResult{
		ParsedFile: "widget.h",
		Structs: []*entities.StructClassInfo{
			{
				Name:   "Widget",
				Fields: []*entities.FieldInfo{{Name: "count", Type: "int"}},
			},
		},
	}

	content, ok := unit.GenerateCode("widget.h", result)
	require.True(t, ok)
	require.Contains(t, content, "#define Widget_GENERATED")
	require.Contains(t, content, "kReflectedName = \"Widget\"")
	require.Contains(t, content, "#define File_widget_GENERATED")
}

func TestDefault_GenerateCode_FailsOnUnsplittablePattern(t *testing.T) {
	settings := strictSettingsForUnit()
	settings.ClassFooterMacroPattern = "NO_PLACEHOLDER"
	unit := NewDefault(settings)

	_, ok := unit.GenerateCode("widget.h", &entities.FileParsingResult{})
	require.False(t, ok)
}

func TestCollectMacroNames_DeduplicatesAndSorts(t *testing.T) {
	settings := strictSettingsForUnit()
	results := []*entities.FileParsingResult{
		{
			ParsedFile: "b.h",
			Structs:    []*entities.StructClassInfo{{Name: "Alpha"}},
			Classes:    []*entities.StructClassInfo{{Name: "Zeta", IsClass: true}},
		},
		{
			ParsedFile: "a.h",
			Structs:    []*entities.StructClassInfo{{Name: "Alpha"}},
		},
	}

	names, err := collectMacroNames(results, settings)
	require.NoError(t, err)
	require.Equal(t, []string{"Alpha_GENERATED", "File_a_GENERATED", "File_b_GENERATED", "Zeta_GENERATED"}, names)
}

func TestWriteSharedMacrosFile_EmitsGuardedFallbacks(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Macros.h")

	err := writeSharedMacrosFile(macrofile.Writer{}, path, "REFLECTGEN_PARSING", []string{"Widget_GENERATED"})
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(content), "#ifndef REFLECTGEN_PARSING")
	require.Contains(t, string(content), "#define Widget_GENERATED(...)")
	require.Contains(t, string(content), "#endif")
}

func strictSettingsForUnit() config.Settings {
	s := config.Default()
	s.GeneratedHeaderFileNamePattern = "File_#CLASS#_GENERATED"
	s.FileFooterMacroPattern = "File_#CLASS#_GENERATED"
	s.ClassFooterMacroPattern = "#CLASS#_GENERATED"
	return s
}
