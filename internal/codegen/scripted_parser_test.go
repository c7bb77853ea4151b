package codegen

import (
	"context"
	"sync"

	"reflectgen/internal/tu"
)

// scriptedCursor is an empty root cursor: these tests exercise the
// fixed-point/filtering machinery, not entity extraction, so the cursor
// tree is always empty.
type scriptedCursor struct{}

func (scriptedCursor) Kind() tu.CursorKind    { return tu.CursorOther }
func (scriptedCursor) Spelling() string       { return "" }
func (scriptedCursor) Location() tu.Location  { return tu.Location{} }
func (scriptedCursor) Children() []tu.Cursor  { return nil }
func (scriptedCursor) IsFromMainFile() bool   { return true }
func (scriptedCursor) CommentLines() []string { return nil }

type scriptedTU struct {
	diags []tu.Diagnostic
}

func (t *scriptedTU) RootCursor() tu.Cursor        { return scriptedCursor{} }
func (t *scriptedTU) Diagnostics() []tu.Diagnostic { return t.diags }
func (t *scriptedTU) Dispose()                     {}

// scriptedParser replays, per path, a pre-recorded sequence of
// diagnostic sets, one per successive Parse call against that path,
// across every clone. State is shared across clones on purpose: the
// driver clones the parser once per task, but the test script indexes
// calls by path regardless of which clone made them.
type scriptedParser struct {
	mu     *sync.Mutex
	script map[string][][]tu.Diagnostic
	calls  map[string]int
}

func newScriptedParser(script map[string][][]tu.Diagnostic) *scriptedParser {
	return &scriptedParser{mu: &sync.Mutex{}, script: script, calls: map[string]int{}}
}

func (p *scriptedParser) Parse(ctx context.Context, path string, opts tu.ParseOptions) (tu.TranslationUnit, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	idx := p.calls[path]
	p.calls[path] = idx + 1

	seq := p.script[path]
	var diags []tu.Diagnostic
	if idx < len(seq) {
		diags = seq[idx]
	}
	return &scriptedTU{diags: diags}, nil
}

func (p *scriptedParser) Clone() tu.Parser { return p }
