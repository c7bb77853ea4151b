// Package entities holds the reflected-entity data model: the concrete
// records that populate a FileParsingResult once the TU parser's cursor
// tree has been walked.
package entities

// SourcePath is an absolute, canonicalised filesystem path identifying
// one header in the corpus.
type SourcePath string

// Kind distinguishes the reflected entity types this generator knows
// about.
type Kind int

const (
	KindNamespace Kind = iota
	KindStruct
	KindClass
	KindEnum
	KindField
	KindMethod
	KindFunction
	KindVariable
)

func (k Kind) String() string {
	switch k {
	case KindNamespace:
		return "namespace"
	case KindStruct:
		return "struct"
	case KindClass:
		return "class"
	case KindEnum:
		return "enum"
	case KindField:
		return "field"
	case KindMethod:
		return "method"
	case KindFunction:
		return "function"
	case KindVariable:
		return "variable"
	default:
		return "unknown"
	}
}

// Property is a single annotation token attached to an entity, e.g.
// `Serializable` or `Range(min=0, max=100)`. Produced by the property
// micro-parser (an external collaborator; see package annotation for
// the narrow slice of it this generator owns: splitting the raw
// comment text into tokens).
type Property struct {
	Name          string
	Attributes    map[string]string
	SubProperties []Property
}

// AttributeOrDefault returns the named attribute's value, or def if the
// property carries no such attribute.
func (p Property) AttributeOrDefault(name, def string) string {
	if v, ok := p.Attributes[name]; ok {
		return v
	}
	return def
}

// HasAttribute reports whether the property carries the named attribute,
// regardless of its value.
func (p Property) HasAttribute(name string) bool {
	_, ok := p.Attributes[name]
	return ok
}

// Entity is the common shape every reflected record exposes, used by
// refreshOuterEntity-style back-reference fixups and by macro-template
// code generation.
type Entity interface {
	EntityKind() Kind
	EntityName() string
	EntityProperties() []Property
}

// Outer is an Entity whose parent back-reference can be set. Every
// entity type in this package with a Parent field implements it; the
// post-walk RefreshOuterEntity fixups assign Parent fields directly.
type Outer interface {
	Entity
	SetParent(Entity)
}

// NamespaceInfo describes a reflected namespace.
type NamespaceInfo struct {
	Name       string
	Properties []Property
	Namespaces []*NamespaceInfo
	Structs    []*StructClassInfo
	Classes    []*StructClassInfo
	Enums      []*EnumInfo
	Functions  []*FunctionInfo
	Variables  []*VariableInfo
	Parent     Entity
}

func (n *NamespaceInfo) EntityKind() Kind             { return KindNamespace }
func (n *NamespaceInfo) EntityName() string           { return n.Name }
func (n *NamespaceInfo) EntityProperties() []Property { return n.Properties }
func (n *NamespaceInfo) SetParent(e Entity)           { n.Parent = e }

// RefreshOuterEntity walks every entity this namespace owns and makes
// sure its parent back-reference points here. Mirrors
// NamespaceInfo::refreshOuterEntity in the reference implementation:
// nested entities must never carry a dangling parent link.
func (n *NamespaceInfo) RefreshOuterEntity() {
	for _, ns := range n.Namespaces {
		ns.Parent = n
		ns.RefreshOuterEntity()
	}
	for _, s := range n.Structs {
		s.Parent = n
		s.RefreshOuterEntity()
	}
	for _, c := range n.Classes {
		c.Parent = n
		c.RefreshOuterEntity()
	}
	for _, e := range n.Enums {
		e.Parent = n
	}
	for _, f := range n.Functions {
		f.Parent = n
	}
	for _, v := range n.Variables {
		v.Parent = n
	}
}

// StructClassInfo describes a reflected struct or class. IsClass
// distinguishes the two; both share the same shape (Kodgen's
// StructClassInfo carries an EEntityType for the same reason).
type StructClassInfo struct {
	Name       string
	IsClass    bool
	Properties []Property
	Fields     []*FieldInfo
	Methods    []*MethodInfo
	Parent     Entity
}

func (s *StructClassInfo) EntityKind() Kind {
	if s.IsClass {
		return KindClass
	}
	return KindStruct
}
func (s *StructClassInfo) EntityName() string           { return s.Name }
func (s *StructClassInfo) EntityProperties() []Property { return s.Properties }
func (s *StructClassInfo) SetParent(e Entity)           { s.Parent = e }

func (s *StructClassInfo) RefreshOuterEntity() {
	for _, f := range s.Fields {
		f.Parent = s
	}
	for _, m := range s.Methods {
		m.Parent = s
	}
}

// FooterMacroName derives the footer macro name this struct/class needs,
// given the configured class-footer pattern split into its left/right
// delimiters (see macrofile.SplitPattern).
func (s *StructClassInfo) FooterMacroName(left, right string) string {
	return left + s.Name + right
}

// EnumInfo describes a reflected enum.
type EnumInfo struct {
	Name       string
	Properties []Property
	Values     []EnumValueInfo
	Parent     Entity
}

func (e *EnumInfo) EntityKind() Kind             { return KindEnum }
func (e *EnumInfo) EntityName() string           { return e.Name }
func (e *EnumInfo) EntityProperties() []Property { return e.Properties }
func (e *EnumInfo) SetParent(p Entity)           { e.Parent = p }

// EnumValueInfo describes one enumerator.
type EnumValueInfo struct {
	Name       string
	Value      int64
	Properties []Property
}

// FieldInfo describes a reflected struct/class field.
type FieldInfo struct {
	Name       string
	Type       string
	Properties []Property
	Parent     Entity
}

func (f *FieldInfo) EntityKind() Kind             { return KindField }
func (f *FieldInfo) EntityName() string           { return f.Name }
func (f *FieldInfo) EntityProperties() []Property { return f.Properties }
func (f *FieldInfo) SetParent(p Entity)           { f.Parent = p }

// MethodInfo describes a reflected struct/class method.
type MethodInfo struct {
	Name       string
	ReturnType string
	Params     []Param
	Properties []Property
	Parent     Entity
}

func (m *MethodInfo) EntityKind() Kind             { return KindMethod }
func (m *MethodInfo) EntityName() string           { return m.Name }
func (m *MethodInfo) EntityProperties() []Property { return m.Properties }
func (m *MethodInfo) SetParent(p Entity)           { m.Parent = p }

// FunctionInfo describes a reflected free function.
type FunctionInfo struct {
	Name       string
	ReturnType string
	Params     []Param
	Properties []Property
	Parent     Entity
}

func (f *FunctionInfo) EntityKind() Kind             { return KindFunction }
func (f *FunctionInfo) EntityName() string           { return f.Name }
func (f *FunctionInfo) EntityProperties() []Property { return f.Properties }
func (f *FunctionInfo) SetParent(p Entity)           { f.Parent = p }

// VariableInfo describes a reflected free variable.
type VariableInfo struct {
	Name       string
	Type       string
	Properties []Property
	Parent     Entity
}

func (v *VariableInfo) EntityKind() Kind             { return KindVariable }
func (v *VariableInfo) EntityName() string           { return v.Name }
func (v *VariableInfo) EntityProperties() []Property { return v.Properties }
func (v *VariableInfo) SetParent(p Entity)           { v.Parent = p }

// Param describes a single function/method parameter.
type Param struct {
	Name string
	Type string
}

// FileParsingResult is the outcome of parsing one source file: the set
// of top-level entities found, plus any errors. Errors empty iff
// success; an empty-but-non-nil Errors slice is never produced by this
// package so callers may test len(result.Errors) == 0 directly.
type FileParsingResult struct {
	ParsedFile SourcePath
	Namespaces []*NamespaceInfo
	Structs    []*StructClassInfo
	Classes    []*StructClassInfo
	Enums      []*EnumInfo
	Functions  []*FunctionInfo
	Variables  []*VariableInfo
	Errors     []string
}

// Succeeded reports whether parsing produced no errors.
func (r *FileParsingResult) Succeeded() bool {
	return len(r.Errors) == 0
}

// RefreshOuterEntity refreshes every outer-entity back reference so
// nested entities point at their containing parent. Called once after
// the cursor-tree walk completes successfully; never while errors are
// still pending, since a partially walked tree may contain entities
// whose children were never attached.
func (r *FileParsingResult) RefreshOuterEntity() {
	for _, ns := range r.Namespaces {
		ns.RefreshOuterEntity()
	}
	for _, s := range r.Structs {
		s.RefreshOuterEntity()
	}
	for _, c := range r.Classes {
		c.RefreshOuterEntity()
	}
}
