package tu

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// Scanner is a deliberately simple stand-in for a real C++ front end. It
// performs no semantic analysis: it brace-matches namespace/class/
// struct/enum bodies, recognizes free function and variable
// declarations with a handful of regexes, and, the one behavior the
// rest of the driver actually depends on, recognizes a bare identifier
// statement that resolves to an undefined macro and reports it exactly
// the way clang reports "unknown type name 'X'" for an un-preprocessed
// macro invocation. Real deployments swap this out for a cgo binding
// over libclang; the interface in tu.go is the seam.
type Scanner struct{}

// NewScanner constructs the default TU parser.
func NewScanner() *Scanner { return &Scanner{} }

// Clone returns a new Scanner. Scanner carries no per-parse state, so
// cloning is trivial, but the driver still clones per task, since a
// real implementation's index handle would need it.
func (s *Scanner) Clone() Parser { return &Scanner{} }

var (
	reInclude   = regexp.MustCompile(`^#include\s+"([^"]+)"`)
	reDefine    = regexp.MustCompile(`^#define\s+(\w+)`)
	reNamespace = regexp.MustCompile(`^namespace\s+(\w+)\s*\{?\s*$`)
	reStructCls = regexp.MustCompile(`^(class|struct)\s+(\w+)[^{;]*\{?\s*$`)
	reEnum      = regexp.MustCompile(`^enum(?:\s+class)?\s+(\w+)\s*\{?\s*$`)
	reBareIdent = regexp.MustCompile(`^(\w+)\s*;?\s*$`)
	reFunction  = regexp.MustCompile(`^([\w:<>,\*&\s]+?)\s+(\w+)\s*\(([^)]*)\)\s*[{;]\s*$`)
	reVariable  = regexp.MustCompile(`^([\w:<>,\*&\s]+?)\s+(\w+)\s*;\s*$`)
)

// scanTU implements TranslationUnit for a single Scanner.Parse call.
type scanTU struct {
	root *scanCursor
	diag []Diagnostic
}

func (t *scanTU) RootCursor() Cursor        { return t.root }
func (t *scanTU) Diagnostics() []Diagnostic { return t.diag }
func (t *scanTU) Dispose()                  {}

type scanCursor struct {
	kind     CursorKind
	spelling string
	loc      Location
	children []Cursor
	comments []string
}

func (c *scanCursor) Kind() CursorKind       { return c.kind }
func (c *scanCursor) Spelling() string       { return c.spelling }
func (c *scanCursor) Location() Location     { return c.loc }
func (c *scanCursor) Children() []Cursor     { return c.children }
func (c *scanCursor) IsFromMainFile() bool   { return true }
func (c *scanCursor) CommentLines() []string { return c.comments }

// Parse reads path, resolves #include "X" directives one level deep to
// discover which macros are already defined, then walks the body
// recognizing entity declarations and flagging undefined bare macro
// invocations.
func (s *Scanner) Parse(_ context.Context, path string, _ ParseOptions) (TranslationUnit, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scan := bufio.NewScanner(f)
	for scan.Scan() {
		lines = append(lines, scan.Text())
	}
	if err := scan.Err(); err != nil {
		return nil, err
	}

	defined := map[string]bool{}
	dir := filepath.Dir(path)
	for _, line := range lines {
		m := reInclude.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		collectDefines(filepath.Join(dir, m[1]), defined)
	}

	p := &parseState{lines: lines, path: path, defined: defined}
	root := &scanCursor{kind: CursorOther, loc: Location{File: path}}
	root.children = p.parseBlock(0, len(lines))

	return &scanTU{root: root, diag: p.diagnostics}, nil
}

func collectDefines(path string, into map[string]bool) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	scan := bufio.NewScanner(f)
	for scan.Scan() {
		if m := reDefine.FindStringSubmatch(strings.TrimSpace(scan.Text())); m != nil {
			into[m[1]] = true
		}
	}
}

type parseState struct {
	lines       []string
	path        string
	defined     map[string]bool
	diagnostics []Diagnostic
}

// parseBlock scans lines[start:end) at one nesting level, returning the
// cursors it found. Namespace/class/struct bodies are consumed
// recursively by locating their matching closing brace.
func (p *parseState) parseBlock(start, end int) []Cursor {
	var cursors []Cursor

	for i := start; i < end; i++ {
		raw := strings.TrimSpace(p.lines[i])
		if raw == "" || strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, "#") {
			continue
		}
		if raw == "{" || raw == "}" || raw == "};" {
			continue
		}

		comments := p.precedingComments(i)

		if m := reNamespace.FindStringSubmatch(raw); m != nil {
			bodyStart, bodyEnd := p.findBraceBody(i, end)
			cursors = append(cursors, &scanCursor{
				kind:     CursorNamespace,
				spelling: m[1],
				loc:      p.locAt(i),
				comments: comments,
				children: p.parseBlock(bodyStart, bodyEnd),
			})
			i = bodyEnd
			continue
		}

		if m := reStructCls.FindStringSubmatch(raw); m != nil {
			kind := CursorStruct
			if m[1] == "class" {
				kind = CursorClass
			}
			bodyStart, bodyEnd := p.findBraceBody(i, end)
			cursors = append(cursors, &scanCursor{
				kind:     kind,
				spelling: m[2],
				loc:      p.locAt(i),
				comments: comments,
				children: p.parseBlock(bodyStart, bodyEnd),
			})
			i = bodyEnd
			continue
		}

		if m := reEnum.FindStringSubmatch(raw); m != nil {
			bodyStart, bodyEnd := p.findBraceBody(i, end)
			cursors = append(cursors, &scanCursor{
				kind:     CursorEnum,
				spelling: m[1] + "|" + p.enumeratorList(bodyStart, bodyEnd),
				loc:      p.locAt(i),
				comments: comments,
			})
			i = bodyEnd
			continue
		}

		if m := reFunction.FindStringSubmatch(raw); m != nil {
			endIdx := i
			if strings.HasSuffix(raw, "{") {
				_, bEnd := p.findBraceBody(i, end)
				endIdx = bEnd
			}
			cursors = append(cursors, &scanCursor{
				kind:     CursorFunction,
				spelling: fmt.Sprintf("%s|%s|%s", strings.TrimSpace(m[1]), m[2], m[3]),
				loc:      p.locAt(i),
				comments: comments,
			})
			i = endIdx
			continue
		}

		if m := reVariable.FindStringSubmatch(raw); m != nil {
			cursors = append(cursors, &scanCursor{
				kind:     CursorVar,
				spelling: fmt.Sprintf("%s|%s", strings.TrimSpace(m[1]), m[2]),
				loc:      p.locAt(i),
				comments: comments,
			})
			continue
		}

		if m := reBareIdent.FindStringSubmatch(raw); m != nil {
			name := m[1]
			if p.defined[name] {
				continue
			}
			p.diagnostics = append(p.diagnostics, Diagnostic{
				Spelling: "unknown type name '" + name + "'",
				Location: p.locAt(i),
			})
			continue
		}
	}

	return cursors
}

// findBraceBody locates the matching closing brace for a block whose
// header starts at line i (which may or may not already contain the
// opening brace), returning the [start, end) range of body lines.
func (p *parseState) findBraceBody(i, limit int) (int, int) {
	depth := 0
	openSeen := false
	bodyStart := i + 1

	line := p.lines[i]
	if strings.Contains(line, "{") {
		depth++
		openSeen = true
	}

	j := i + 1
	for !openSeen && j < limit {
		if strings.Contains(p.lines[j], "{") {
			depth++
			openSeen = true
			bodyStart = j + 1
		}
		j++
	}

	for ; j < limit; j++ {
		l := p.lines[j]
		depth += strings.Count(l, "{")
		depth -= strings.Count(l, "}")
		if depth <= 0 {
			return bodyStart, j
		}
	}
	return bodyStart, limit
}

func (p *parseState) enumeratorList(start, end int) string {
	var names []string
	for i := start; i < end; i++ {
		line := strings.TrimSpace(p.lines[i])
		line = strings.TrimSuffix(line, ",")
		if line == "" {
			continue
		}
		for _, part := range strings.Split(line, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				names = append(names, part)
			}
		}
	}
	return strings.Join(names, ",")
}

func (p *parseState) precedingComments(i int) []string {
	var comments []string
	j := i - 1
	for j >= 0 {
		trimmed := strings.TrimSpace(p.lines[j])
		if strings.HasPrefix(trimmed, "//") {
			comments = append([]string{trimmed}, comments...)
			j--
			continue
		}
		break
	}
	return comments
}

func (p *parseState) locAt(i int) Location {
	return Location{File: p.path, Line: i + 1, Column: 1}
}

// ParseEnumValue parses one "NAME" or "NAME=value" enumerator token.
func ParseEnumValue(token string, fallback int64) (name string, value int64) {
	name, raw, ok := strings.Cut(token, "=")
	if !ok {
		return strings.TrimSpace(token), fallback
	}
	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return strings.TrimSpace(name), fallback
	}
	return strings.TrimSpace(name), v
}
