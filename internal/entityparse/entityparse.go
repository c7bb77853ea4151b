// Package entityparse provides the per-entity parsers the ParsingDriver
// dispatches to while walking a cursor tree: one function per reflected
// entity kind (namespace, class/struct, enum, function, variable). The
// driver only needs something implementing Parsers, but a corpus has
// to parse against *something*, so this package also provides the
// default implementation paired with tu.Scanner's cursor shape.
package entityparse

import (
	"strings"

	"reflectgen/internal/annotation"
	"reflectgen/internal/entities"
	"reflectgen/internal/tu"
)

// Parsers is the set of per-entity parsers the ParsingDriver dispatches
// to for each recognized cursor kind.
type Parsers interface {
	ParseNamespace(c tu.Cursor, walk func(tu.Cursor) *entities.NamespaceInfo) *entities.NamespaceInfo
	ParseClass(c tu.Cursor) *entities.StructClassInfo
	ParseEnum(c tu.Cursor) *entities.EnumInfo
	ParseFunction(c tu.Cursor) *entities.FunctionInfo
	ParseVariable(c tu.Cursor) *entities.VariableInfo
}

// Default is the concrete Parsers implementation paired with
// tu.Scanner's cursor encoding.
type Default struct{}

func (Default) properties(c tu.Cursor) []entities.Property {
	return annotation.ParseComments(c.CommentLines())
}

// ParseNamespace builds a NamespaceInfo from a CursorNamespace, fanning
// out to the other per-entity parsers (or recursing into nested
// namespaces via walk) for each child cursor.
func (d Default) ParseNamespace(c tu.Cursor, walk func(tu.Cursor) *entities.NamespaceInfo) *entities.NamespaceInfo {
	ns := &entities.NamespaceInfo{
		Name:       c.Spelling(),
		Properties: d.properties(c),
	}
	for _, child := range c.Children() {
		if !child.IsFromMainFile() {
			continue
		}
		switch child.Kind() {
		case tu.CursorNamespace:
			ns.Namespaces = append(ns.Namespaces, walk(child))
		case tu.CursorStruct:
			ns.Structs = append(ns.Structs, d.ParseClass(child))
		case tu.CursorClass, tu.CursorClassTemplate:
			ns.Classes = append(ns.Classes, d.ParseClass(child))
		case tu.CursorEnum:
			ns.Enums = append(ns.Enums, d.ParseEnum(child))
		case tu.CursorFunction:
			ns.Functions = append(ns.Functions, d.ParseFunction(child))
		case tu.CursorVar:
			ns.Variables = append(ns.Variables, d.ParseVariable(child))
		}
	}
	return ns
}

// ParseClass builds a StructClassInfo from a CursorStruct/CursorClass,
// treating CursorVar children as fields and CursorFunction children as
// methods; child cursors of any other kind are skipped. This is the
// struct/class-body equivalent of the top-level dispatch in
// FileParser::parseNestedEntity.
func (d Default) ParseClass(c tu.Cursor) *entities.StructClassInfo {
	info := &entities.StructClassInfo{
		Name:       c.Spelling(),
		IsClass:    c.Kind() == tu.CursorClass || c.Kind() == tu.CursorClassTemplate,
		Properties: d.properties(c),
	}
	for _, child := range c.Children() {
		switch child.Kind() {
		case tu.CursorVar:
			typ, name := splitPair(child.Spelling())
			info.Fields = append(info.Fields, &entities.FieldInfo{
				Name:       name,
				Type:       typ,
				Properties: d.properties(child),
			})
		case tu.CursorFunction:
			ret, name, params := splitTriple(child.Spelling())
			info.Methods = append(info.Methods, &entities.MethodInfo{
				Name:       name,
				ReturnType: ret,
				Params:     parseParams(params),
				Properties: d.properties(child),
			})
		}
	}
	return info
}

// ParseEnum builds an EnumInfo from a CursorEnum cursor, whose spelling
// packs "Name|val1,val2=5,...".
func (d Default) ParseEnum(c tu.Cursor) *entities.EnumInfo {
	name, list := splitPair(c.Spelling())
	info := &entities.EnumInfo{Name: name, Properties: d.properties(c)}

	var next int64
	if list != "" {
		for _, tok := range strings.Split(list, ",") {
			tok = strings.TrimSpace(tok)
			if tok == "" {
				continue
			}
			valName, val := tu.ParseEnumValue(tok, next)
			info.Values = append(info.Values, entities.EnumValueInfo{Name: valName, Value: val})
			next = val + 1
		}
	}
	return info
}

// ParseFunction builds a FunctionInfo from a CursorFunction cursor,
// whose spelling packs "ReturnType|name|params".
func (d Default) ParseFunction(c tu.Cursor) *entities.FunctionInfo {
	ret, name, params := splitTriple(c.Spelling())
	return &entities.FunctionInfo{
		Name:       name,
		ReturnType: ret,
		Params:     parseParams(params),
		Properties: d.properties(c),
	}
}

// ParseVariable builds a VariableInfo from a CursorVar cursor, whose
// spelling packs "Type|name".
func (d Default) ParseVariable(c tu.Cursor) *entities.VariableInfo {
	typ, name := splitPair(c.Spelling())
	return &entities.VariableInfo{
		Name:       name,
		Type:       typ,
		Properties: d.properties(c),
	}
}

func splitPair(spelling string) (a, b string) {
	parts := strings.SplitN(spelling, "|", 2)
	if len(parts) != 2 {
		return spelling, ""
	}
	return parts[0], parts[1]
}

func splitTriple(spelling string) (a, b, c string) {
	parts := strings.SplitN(spelling, "|", 3)
	for len(parts) < 3 {
		parts = append(parts, "")
	}
	return parts[0], parts[1], parts[2]
}

func parseParams(raw string) []entities.Param {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var params []entities.Param
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		fields := strings.Fields(part)
		if len(fields) == 0 {
			continue
		}
		name := fields[len(fields)-1]
		typ := strings.Join(fields[:len(fields)-1], " ")
		params = append(params, entities.Param{Name: name, Type: typ})
	}
	return params
}
