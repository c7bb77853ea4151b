// Package tu names the external translation-unit parser collaborator:
// the thing that turns one header file (plus its transitive includes)
// into a cursor tree and a diagnostic stream. This system never
// implements a real C++ front end, so this package defines only the
// interfaces the rest of the driver depends on, plus one concrete,
// deliberately simple implementation (Scanner) good enough to drive
// the pipeline end to end in tests and in small corpora without
// linking a real C++ compiler.
package tu

import "context"

// CursorKind is the small subset of entity kinds the driver's AST
// traversal policy recognizes. Anything else the TU parser might
// expose is silently skipped.
type CursorKind int

const (
	CursorOther CursorKind = iota
	CursorNamespace
	CursorStruct
	CursorClass
	CursorClassTemplate
	CursorEnum
	CursorFunction
	CursorVar
)

// Location identifies a point in a source file, the unit diagnostics
// and cursors report their position in.
type Location struct {
	File   string
	Line   int
	Column int
}

// Diagnostic is one message produced by the TU parser: warning, error,
// or note. The driver only inspects Spelling and Location; severity is
// irrelevant to the filtering rules, which key purely off message text.
type Diagnostic struct {
	Spelling string
	Location Location
}

// Cursor is a handle into the TU parser's AST identifying one entity.
type Cursor interface {
	Kind() CursorKind
	Spelling() string
	Location() Location
	Children() []Cursor
	// IsFromMainFile reports whether this cursor originates in the file
	// being parsed, as opposed to one of its includes. Only main-file
	// cursors are walked.
	IsFromMainFile() bool
	// CommentLines returns the raw comment lines immediately preceding
	// this cursor's declaration, for the property micro-parser.
	CommentLines() []string
}

// TranslationUnit is an external parser's in-memory representation of
// one source file and its transitive includes.
type TranslationUnit interface {
	RootCursor() Cursor
	Diagnostics() []Diagnostic
	// Dispose releases any resources (e.g. a real libclang TU handle)
	// held by this translation unit.
	Dispose()
}

// ParseOptions carries the compilation arguments the driver passes
// through uninterpreted: skip-function-bodies, incomplete-TU,
// keep-going, plus whatever extra flags the corpus's build needs
// (include paths, defines, language standard).
type ParseOptions struct {
	CompilationArgs    []string
	SkipFunctionBodies bool
	Incomplete         bool
	KeepGoing          bool
}

// Parser is the external TU-parser collaborator. Implementations are
// expected to be cheap to Clone: the driver clones one parser per task
// so each task gets an isolated index handle and no cross-task mutable
// state is shared.
type Parser interface {
	Parse(ctx context.Context, path string, opts ParseOptions) (TranslationUnit, error)
	Clone() Parser
}
