// Package annotation owns the one narrow slice of the property
// micro-parser this generator keeps for itself: turning the raw comment
// lines that precede a reflected entity into a flat token stream of
// property names and attributes. What a property *means* to a given
// entity kind is still the property micro-parser's problem: an
// external collaborator named but not implemented here.
package annotation

import (
	"strings"

	"reflectgen/internal/entities"
)

// markerPrefix/markerSuffix delimit an annotation comment, e.g.
// "// [Serializable, Range(min=0, max=100)]".
const (
	markerPrefix = "["
	markerSuffix = "]"
)

// ParseComments extracts every property annotation found across a run
// of comment lines immediately preceding an entity. Lines that don't
// match the marker shape are ignored rather than rejected: not every
// comment above a declaration is an annotation.
func ParseComments(lines []string) []entities.Property {
	var props []entities.Property
	for _, line := range lines {
		body, ok := stripMarker(line)
		if !ok {
			continue
		}
		props = append(props, parseBody(body)...)
	}
	return props
}

func stripMarker(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	trimmed = strings.TrimPrefix(trimmed, "//")
	trimmed = strings.TrimSpace(trimmed)
	if !strings.HasPrefix(trimmed, markerPrefix) || !strings.HasSuffix(trimmed, markerSuffix) {
		return "", false
	}
	return trimmed[len(markerPrefix) : len(trimmed)-len(markerSuffix)], true
}

// parseBody splits one marker body into top-level properties, handling
// a single level of parenthesised attributes, e.g.
// "Serializable, Range(min=0, max=100)" ->
//
//	[{Name: Serializable}, {Name: Range, Attributes: {min:0, max:100}}]
//
// Nested parentheses are not supported, matching the micro-parser's
// documented scope: it tokenizes, it does not recurse.
func parseBody(body string) []entities.Property {
	var props []entities.Property

	depth := 0
	start := 0
	for i := 0; i < len(body); i++ {
		switch body[i] {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				if seg := strings.TrimSpace(body[start:i]); seg != "" {
					props = append(props, parseSegment(seg))
				}
				start = i + 1
			}
		}
	}
	if seg := strings.TrimSpace(body[start:]); seg != "" {
		props = append(props, parseSegment(seg))
	}
	return props
}

func parseSegment(seg string) entities.Property {
	open := strings.IndexByte(seg, '(')
	if open < 0 || !strings.HasSuffix(seg, ")") {
		return entities.Property{Name: strings.TrimSpace(seg)}
	}

	name := strings.TrimSpace(seg[:open])
	inner := seg[open+1 : len(seg)-1]

	attrs := map[string]string{}
	for _, pair := range strings.Split(inner, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		if k, v, found := strings.Cut(pair, "="); found {
			attrs[strings.TrimSpace(k)] = strings.TrimSpace(v)
		} else {
			attrs[pair] = ""
		}
	}

	return entities.Property{Name: name, Attributes: attrs}
}

// HasProperty reports whether the given property name is present.
func HasProperty(props []entities.Property, name string) bool {
	for _, p := range props {
		if p.Name == name {
			return true
		}
	}
	return false
}

// Find returns the first property with the given name.
func Find(props []entities.Property, name string) (entities.Property, bool) {
	for _, p := range props {
		if p.Name == name {
			return p, true
		}
	}
	return entities.Property{}, false
}
