// Package macrofile implements atomic append/truncate operations on the
// per-source-file "generated header" artifact, plus the pattern-
// splitting helper both the class-footer and generated-header filename
// patterns share.
package macrofile

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"reflectgen/internal/entities"
)

// ErrNoPlaceholder is returned by SplitPattern when the pattern contains
// no '#' character at all, a configuration error the caller must fail
// the whole file for.
var ErrNoPlaceholder = errors.New("pattern contains no '#...#' placeholder")

// SplitPattern splits a pattern of the form "<prefix>#...#<suffix>"
// around its single placeholder, returning the text before the first
// '#' and the text after the last '#'. A pattern with only one '#'
// still splits, into the text before and the text after that '#'.
func SplitPattern(pattern string) (prefix, suffix string, err error) {
	left := strings.IndexByte(pattern, '#')
	if left < 0 {
		return "", "", ErrNoPlaceholder
	}
	right := strings.LastIndexByte(pattern, '#')
	return pattern[:left], pattern[right+1:], nil
}

// Substitute renders a pattern by replacing its single "#...#"
// placeholder with stem.
func Substitute(prefix, suffix, stem string) string {
	return prefix + stem + suffix
}

// ArtifactPath computes GeneratedArtifact(F): the companion output file
// whose path is a pure function of F via the configured
// generatedHeaderFileNamePattern, resolved into outputDir.
func ArtifactPath(outputDir string, source entities.SourcePath, prefix, suffix string) string {
	stem := strings.TrimSuffix(filepath.Base(string(source)), filepath.Ext(string(source)))
	return filepath.Join(outputDir, Substitute(prefix, suffix, stem))
}

// Writer performs the two filesystem operations this generator needs on
// a GeneratedArtifact: append macro defines (pre-parse rounds) and
// truncate (just before generation). There is no reader abstraction;
// only the TU parser reads the artifact, via #include.
type Writer struct{}

// AppendDefines opens path in append mode and writes one
// "#define <name>\n" line per macro name. Idempotent under set
// semantics: writing the same name twice produces two identical
// empty-valued #defines, which is harmless, so callers need not dedupe
// across iterations.
func (Writer) AppendDefines(path string, macroNames []string) error {
	if len(macroNames) == 0 {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	var b strings.Builder
	for _, name := range macroNames {
		b.WriteString("#define ")
		b.WriteString(name)
		b.WriteByte('\n')
	}
	_, err = f.WriteString(b.String())
	return err
}

// Truncate opens path in write-truncate mode and closes immediately,
// leaving a zero-byte file. Called after parsing succeeds and before
// generation, since GeneratedArtifact(F) is never read during parse
// after this point.
func (Writer) Truncate(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	return f.Close()
}

// WriteGenerated overwrites path with the final generated content. Used
// by both engines' generate steps (the strict engine calls
// Writer.Truncate first, the lenient engine does not) and for the
// shared macros file.
func (Writer) WriteGenerated(path string, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0o644)
}
