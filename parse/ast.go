// Package parse turns schema source text into a parse tree: a lightweight,
// position-annotated mirror of the grammar that compile/ walks to build a
// validated schema.Schema. It knows nothing about type resolution or the
// binary wire format; it only knows syntax.
package parse

import "fmt"

// Pos locates a token in source text, 1-based on both axes.
type Pos struct {
	Line int
	Col  int
}

func (p Pos) String() string { return fmt.Sprintf("%d:%d", p.Line, p.Col) }

// TypeRef is the parsed form of a field's "type" production: a bare name
// (builtin or user-defined, resolved later by compile/) plus whether it was
// followed by "[]".
type TypeRef struct {
	Name    string
	IsArray bool
	P       Pos
}

// Field is one member of a Definition: an enum member ("IDENT = INT;"), a
// struct field ("type IDENT;"), or a message field ("type IDENT = INT;").
// Which productions are legal depends on the enclosing Definition's Keyword;
// compile/ enforces that, not the parser.
type Field struct {
	Name       string
	Type       TypeRef // zero value for enum members, which carry no type
	HasValue   bool
	Value      uint32
	Deprecated bool
	P          Pos
}

// Definition is one "enum|struct|message NAME { ... }" block.
type Definition struct {
	Keyword string // "enum", "struct", or "message"
	Name    string
	Fields  []Field
	P       Pos
}

// File is the parse tree for one schema source file.
type File struct {
	BaseName string
	Package  string // empty if no "package" declaration was present
	Defs     []Definition
}
