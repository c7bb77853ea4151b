package codegen

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"

	"reflectgen/internal/config"
	"reflectgen/internal/entities"
	"reflectgen/internal/macrofile"
	"reflectgen/internal/parsing"
)

// collectMacroNames gathers every footer macro name a run's successful
// files registered, one per struct/class, one per enum, plus one per file, so the
// shared Macros.h can provide a no-op fallback for all of them,
// grounded on FileGenerator::generateMacrosFile. Names are sorted for
// deterministic output.
func collectMacroNames(results []*entities.FileParsingResult, settings config.Settings) ([]string, error) {
	left, right, err := macrofile.SplitPattern(settings.ClassFooterMacroPattern)
	if err != nil {
		return nil, err
	}

	seen := map[string]struct{}{}
	var names []string
	add := func(name string) {
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}

	for _, r := range results {
		if r == nil {
			continue
		}
		if fileFooter, err := parsing.FileFooterMacroName(string(r.ParsedFile), settings); err == nil {
			add(fileFooter)
		}
		for _, s := range r.Structs {
			add(s.FooterMacroName(left, right))
		}
		for _, c := range r.Classes {
			add(c.FooterMacroName(left, right))
		}
		for _, e := range r.Enums {
			add(e.Name + "_ENUM_GENERATED")
		}
	}

	slices.Sort(names)
	return names, nil
}

// writeSharedMacrosFile emits the Macros.h-equivalent companion file: a
// fallback empty-arg #define for every known footer macro, guarded by
// parsingMacro so the corpus still compiles outside of a generator run.
func writeSharedMacrosFile(writer macrofile.Writer, path, parsingMacro string, macroNames []string) error {
	var b strings.Builder
	b.WriteString("// Generated by reflectgen. Do not edit.\n\n")
	fmt.Fprintf(&b, "#ifndef %s\n\n", parsingMacro)
	for _, name := range macroNames {
		fmt.Fprintf(&b, "#define %s(...)\n", name)
	}
	b.WriteString("\n#endif\n")
	return writer.WriteGenerated(path, b.String())
}
