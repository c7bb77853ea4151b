// Package config loads the generator's settings from an INI file (the
// teacher's own declared-but-unwired gopkg.in/ini.v1 dependency), the
// way burstgridgo's CLI layer loads flags into an app.Config: flags take
// precedence over file-provided defaults.
package config

import (
	"fmt"

	"gopkg.in/ini.v1"
)

// Settings is the concrete shape a CodeGenUnit exposes: where to look
// for headers, where generated artifacts go, and the two macro patterns
// the whole fixed-point loop keys off.
type Settings struct {
	// InputRoots are directories walked recursively for headers, and/or
	// explicit file paths.
	InputRoots []string
	// OutputDir is where every GeneratedArtifact and the shared macros
	// file are written.
	OutputDir string
	// GeneratedHeaderFileNamePattern has the shape "<prefix>#...#<suffix>";
	// substituting a file's stem yields its GeneratedArtifact's filename.
	GeneratedHeaderFileNamePattern string
	// ClassFooterMacroPattern has the same "#...#" shape; substituting a
	// class/struct name yields its footer macro name.
	ClassFooterMacroPattern string
	// FileFooterMacroPattern has the same shape; substituting a file's
	// stem yields that file's own footer macro name.
	FileFooterMacroPattern string
	// SupportedExtensions restricts directory ingestion to these
	// extensions, e.g. [".h", ".hpp"].
	SupportedExtensions []string
	// IgnoredFiles and IgnoredDirectories are skipped during directory
	// ingestion.
	IgnoredFiles       []string
	IgnoredDirectories []string
	// CompilationArgs are passed through to the TU parser uninterpreted.
	CompilationArgs []string
	// MacrosFileName names the shared macros-definition file emitted
	// once per run.
	MacrosFileName string
	// ParsingMacro guards the shared macros file's #ifndef fallback
	// block, grounded on FileGenerator::generateMacrosFile.
	ParsingMacro string

	// WorkerCount sizes the ThreadPool; <= 0 means hardware concurrency.
	WorkerCount int
	// ShouldFailCodeGenerationOnClangErrors selects the strict engine
	// when true, the lenient engine when false.
	ShouldFailCodeGenerationOnClangErrors bool
	// IterationCount is the lenient engine's fixed pass count.
	IterationCount int
	// ForceAll disables the up-to-date skip and reprocesses every file.
	ForceAll bool
}

// Default returns the settings this generator ships with when no INI
// file is provided: strict mode, hardware-concurrency workers, and a
// reasonable default pair of macro patterns.
func Default() Settings {
	return Settings{
		OutputDir:                             "generated",
		GeneratedHeaderFileNamePattern:        "File_#CLASS#_GENERATED",
		ClassFooterMacroPattern:               "#CLASS#_GENERATED",
		FileFooterMacroPattern:                "File_#CLASS#_GENERATED",
		SupportedExtensions:                   []string{".h", ".hpp"},
		MacrosFileName:                        "Macros.h",
		ParsingMacro:                          "REFLECTGEN_PARSING",
		WorkerCount:                           0,
		ShouldFailCodeGenerationOnClangErrors: true,
		IterationCount:                        1,
	}
}

// Load reads path and overlays its [CodeGen] and [Pool] sections onto
// base, returning the merged settings. A missing key leaves the base
// value untouched, so callers can load a partial file on top of
// Default().
func Load(path string, base Settings) (Settings, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to load config %s: %w", path, err)
	}

	out := base

	codegen := cfg.Section("CodeGen")
	if v := codegen.Key("OutputDir").String(); v != "" {
		out.OutputDir = v
	}
	if v := codegen.Key("GeneratedHeaderFileNamePattern").String(); v != "" {
		out.GeneratedHeaderFileNamePattern = v
	}
	if v := codegen.Key("ClassFooterMacroPattern").String(); v != "" {
		out.ClassFooterMacroPattern = v
	}
	if v := codegen.Key("FileFooterMacroPattern").String(); v != "" {
		out.FileFooterMacroPattern = v
	}
	if v := codegen.Key("MacrosFileName").String(); v != "" {
		out.MacrosFileName = v
	}
	if v := codegen.Key("ParsingMacro").String(); v != "" {
		out.ParsingMacro = v
	}
	if vs := codegen.Key("InputRoots").Strings(","); len(vs) > 0 {
		out.InputRoots = vs
	}
	if vs := codegen.Key("SupportedExtensions").Strings(","); len(vs) > 0 {
		out.SupportedExtensions = vs
	}
	if vs := codegen.Key("IgnoredFiles").Strings(","); len(vs) > 0 {
		out.IgnoredFiles = vs
	}
	if vs := codegen.Key("IgnoredDirectories").Strings(","); len(vs) > 0 {
		out.IgnoredDirectories = vs
	}
	if vs := codegen.Key("CompilationArgs").Strings(","); len(vs) > 0 {
		out.CompilationArgs = vs
	}
	if codegen.HasKey("ShouldFailCodeGenerationOnClangErrors") {
		out.ShouldFailCodeGenerationOnClangErrors = codegen.Key("ShouldFailCodeGenerationOnClangErrors").MustBool(out.ShouldFailCodeGenerationOnClangErrors)
	}
	if codegen.HasKey("IterationCount") {
		out.IterationCount = codegen.Key("IterationCount").MustInt(out.IterationCount)
	}
	if codegen.HasKey("ForceAll") {
		out.ForceAll = codegen.Key("ForceAll").MustBool(out.ForceAll)
	}

	pool := cfg.Section("Pool")
	if pool.HasKey("WorkerCount") {
		out.WorkerCount = pool.Key("WorkerCount").MustInt(out.WorkerCount)
	}

	return out, nil
}
