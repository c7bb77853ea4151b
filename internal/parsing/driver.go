// Package parsing implements ParsingDriver: the thin adapter around the
// external TU parser that the rest of the system depends on, covering
// pre-parse, parse-ignoring-errors, parse-failing-on-errors, and the
// diagnostic filtering that tells a genuine compile error apart from
// "generated macro not yet defined". The filtering logic is grounded
// directly on FileParser::getErrors in the reference implementation:
// same two-way split of the class-footer pattern, same
// "unknown type name 'X'" substring match.
package parsing

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"reflectgen/internal/config"
	"reflectgen/internal/entities"
	"reflectgen/internal/entityparse"
	"reflectgen/internal/macrofile"
	"reflectgen/internal/tu"
)

// ErrSplitFailed is returned when the configured class-footer macro
// pattern has no "#...#" placeholder, a configuration error that fails
// the whole file immediately, with no retry.
var ErrSplitFailed = fmt.Errorf("failed to split class footer macro pattern")

// Driver wraps an external TU parser and the entity parsers it
// dispatches to while walking a successfully parsed cursor tree.
type Driver struct {
	Parsers entityparse.Parsers
}

// New constructs a Driver using the default entity parsers paired with
// tu.Scanner's cursor encoding. Callers targeting a different TU parser
// implementation may still use Driver as long as their Parser's cursors
// satisfy the tu.Cursor interface.
func New() *Driver {
	return &Driver{Parsers: entityparse.Default{}}
}

// stem returns a source file's name without its extension, the input
// every macro-name pattern substitutes in place of "#...#".
func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// FileFooterMacroName derives G, the per-file footer macro name for
// path, a pure function of path via settings.FileFooterMacroPattern.
func FileFooterMacroName(path string, settings config.Settings) (string, error) {
	prefix, suffix, err := macrofile.SplitPattern(settings.FileFooterMacroPattern)
	if err != nil {
		return "", err
	}
	return macrofile.Substitute(prefix, suffix, stem(path)), nil
}

// PrepareForParsing invokes the TU parser with the same compilation
// flags as a real parse but discards the cursor tree, returning only
// the set of macro names the pre-parse identified as referenced but
// not-yet-defined in GeneratedArtifact(F).
func (d *Driver) PrepareForParsing(ctx context.Context, parser tu.Parser, path string, settings config.Settings) ([]string, error) {
	tUnit, err := parser.Parse(ctx, path, parseOptions(settings))
	if err != nil {
		return nil, err
	}
	defer tUnit.Dispose()

	errs, pending, err := filterDiagnostics(tUnit.Diagnostics(), path, settings)
	if err != nil {
		return nil, err
	}
	if len(errs) > 0 {
		// Genuine errors during pre-parse are reported the same way a
		// real parse would; pre-parse still surfaces whatever pending
		// macros it found alongside them.
		return pending, fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return pending, nil
}

// ParseIgnoreErrors invokes the TU parser and walks the cursor tree,
// dispatching on cursor kind to the per-entity parsers. Diagnostics are
// discarded entirely: this is the lenient engine's parse primitive.
func (d *Driver) ParseIgnoreErrors(ctx context.Context, parser tu.Parser, path string, settings config.Settings) entities.FileParsingResult {
	result := entities.FileParsingResult{ParsedFile: entities.SourcePath(path)}

	tUnit, err := parser.Parse(ctx, path, parseOptions(settings))
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return result
	}
	defer tUnit.Dispose()

	d.walk(tUnit.RootCursor(), &result)
	result.RefreshOuterEntity()
	return result
}

// ParseFailOnErrors invokes the TU parser and, unless the filtered
// diagnostic set is non-empty, walks the cursor tree the same way
// ParseIgnoreErrors does. On any surviving diagnostic the cursor tree is
// NOT walked and errors is returned instead.
func (d *Driver) ParseFailOnErrors(ctx context.Context, parser tu.Parser, path string, settings config.Settings) entities.FileParsingResult {
	result := entities.FileParsingResult{ParsedFile: entities.SourcePath(path)}

	tUnit, err := parser.Parse(ctx, path, parseOptions(settings))
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return result
	}
	defer tUnit.Dispose()

	errs, _, err := filterDiagnostics(tUnit.Diagnostics(), path, settings)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return result
	}
	if len(errs) > 0 {
		result.Errors = errs
		return result
	}

	d.walk(tUnit.RootCursor(), &result)
	result.RefreshOuterEntity()
	return result
}

// walk performs the AST traversal policy: only cursors originating in
// the main file are kept, and only the recognized kinds are dispatched;
// everything else is silently skipped.
func (d *Driver) walk(root tu.Cursor, result *entities.FileParsingResult) {
	for _, c := range root.Children() {
		if !c.IsFromMainFile() {
			continue
		}
		switch c.Kind() {
		case tu.CursorNamespace:
			result.Namespaces = append(result.Namespaces, d.Parsers.ParseNamespace(c, d.walkNamespace))
		case tu.CursorStruct:
			result.Structs = append(result.Structs, d.Parsers.ParseClass(c))
		case tu.CursorClass, tu.CursorClassTemplate:
			result.Classes = append(result.Classes, d.Parsers.ParseClass(c))
		case tu.CursorEnum:
			result.Enums = append(result.Enums, d.Parsers.ParseEnum(c))
		case tu.CursorFunction:
			result.Functions = append(result.Functions, d.Parsers.ParseFunction(c))
		case tu.CursorVar:
			result.Variables = append(result.Variables, d.Parsers.ParseVariable(c))
		}
	}
}

func (d *Driver) walkNamespace(c tu.Cursor) *entities.NamespaceInfo {
	return d.Parsers.ParseNamespace(c, d.walkNamespace)
}

func parseOptions(settings config.Settings) tu.ParseOptions {
	return tu.ParseOptions{
		CompilationArgs:    settings.CompilationArgs,
		SkipFunctionBodies: true,
		Incomplete:         true,
		KeepGoing:          true,
	}
}

// filterDiagnostics categorises each diagnostic as expected (drives
// another iteration) or genuine (becomes a result error). Diagnostics
// from files other than path are never promoted to errors.
func filterDiagnostics(diags []tu.Diagnostic, path string, settings config.Settings) (errs []string, pending []string, err error) {
	left, right, splitErr := macrofile.SplitPattern(settings.ClassFooterMacroPattern)
	if splitErr != nil {
		return nil, nil, ErrSplitFailed
	}

	fileFooter, ffErr := FileFooterMacroName(path, settings)
	if ffErr != nil {
		return nil, nil, ErrSplitFailed
	}

	const unknownTypeName = "unknown type name '"

	pendingSet := map[string]struct{}{}

	for _, d := range diags {
		if d.Location.File != "" && d.Location.File != path {
			// Diagnostics from files other than the currently-parsed
			// file are never attributed to it.
			continue
		}

		if strings.HasPrefix(d.Spelling, unknownTypeName) && strings.HasSuffix(d.Spelling, "'") {
			name := d.Spelling[len(unknownTypeName) : len(d.Spelling)-1]
			if name == fileFooter {
				pendingSet[name] = struct{}{}
				continue
			}
			if strings.Contains(name, left) && strings.Contains(name, right) {
				pendingSet[name] = struct{}{}
				continue
			}
		}

		errs = append(errs, fmt.Sprintf("%s (%s, line %d, column %d)", d.Spelling, path, d.Location.Line, d.Location.Column))
	}

	for name := range pendingSet {
		pending = append(pending, name)
	}
	return errs, pending, nil
}
