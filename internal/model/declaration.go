package model

import (
	"fmt"
	"strings"
)

// TypeKind is the shape of a type declaration.
type TypeKind string

const (
	// KindClass is a regular class.
	KindClass TypeKind = "class"
	// KindInterface is an interface.
	KindInterface TypeKind = "interface"
	// KindEnum is an enum.
	KindEnum TypeKind = "enum"
	// KindRecord is a record class.
	KindRecord TypeKind = "record"
)

// IsClass reports whether constructors of this kind are subject to removal.
func (k TypeKind) IsClass() bool {
	return k == KindClass || k == KindRecord
}

// MemberKind distinguishes fields, methods and constructors.
type MemberKind string

const (
	// MemberField is a field (or interface constant) declaration.
	MemberField MemberKind = "field"
	// MemberMethod is a method declaration.
	MemberMethod MemberKind = "method"
	// MemberConstructor is a constructor declaration.
	MemberConstructor MemberKind = "constructor"
)

// Span is a half-open byte range [Start, End) inside a source file.
type Span struct {
	Start int
	End   int
}

// Contains reports whether other lies entirely inside s.
func (s Span) Contains(other Span) bool {
	return other.Start >= s.Start && other.End <= s.End
}

// Annotation is an annotation as written in the source.
type Annotation struct {
	// Name is the annotation name as written, possibly qualified.
	Name string
	// Value is the unquoted string value, if the annotation carries one.
	Value    string
	HasValue bool
}

// Import is a single import declaration of a compilation unit.
type Import struct {
	Path     string // e.g. "java.util.List", "java.util" for wildcards
	Static   bool
	Wildcard bool
}

// String renders the import as a Java statement.
func (i Import) String() string {
	var b strings.Builder

	b.WriteString("import ")

	if i.Static {
		b.WriteString("static ")
	}

	b.WriteString(i.Path)

	if i.Wildcard {
		b.WriteString(".*")
	}

	b.WriteString(";")

	return b.String()
}

// Member is a field, method or constructor. Parent holds the qualified name of
// the declaring type rather than a pointer to it.
type Member struct {
	Kind        MemberKind
	Name        string
	Parent      string
	Params      []string
	ReturnType  string
	Void        bool
	Annotations []Annotation

	// Span covers the whole declaration including leading doc comments.
	Span Span
	// Body is the span of the body block, nil for bodiless members.
	Body *Span
	// BodyText is the current body, initially the original source text.
	BodyText string
	// Indent is the leading whitespace of the declaration's first line.
	Indent string
	// Stubbed is set once BodyText has been replaced.
	Stubbed bool
}

// Key identifies the member uniquely within one program.
func (mb *Member) Key() string {
	return fmt.Sprintf("%s#%s@%d", mb.Parent, mb.Name, mb.Span.Start)
}

// Signature renders a short human-readable signature.
func (mb *Member) Signature() string {
	if mb.Kind == MemberField {
		return mb.Name
	}

	return mb.Name + "(" + strings.Join(mb.Params, ", ") + ")"
}

// TypeDeclaration is a class-shaped declaration. Nested declarations are
// separate entries that name their enclosing type through Parent. Local
// classes are named Outer$<n>Local and enum constant bodies Outer$CONSTANT.
type TypeDeclaration struct {
	Name        string
	SimpleName  string
	Kind        TypeKind
	Package     string
	File        Path
	Parent      string
	Annotations []Annotation

	Fields       []*Member
	Methods      []*Member
	Constructors []*Member
	// Constants lists enum constant names in declaration order.
	Constants []string
	// Nested lists the qualified names of directly nested types, local
	// classes and enum constant bodies included.
	Nested []string

	// Layout holds every member in source order as originally parsed.
	Layout []*Member
	Span   Span
}

// TopLevel reports whether the declaration is not nested in another type.
func (t *TypeDeclaration) TopLevel() bool {
	return t.Parent == ""
}

// Has reports whether the member is still part of the declaration.
func (t *TypeDeclaration) Has(member *Member) bool {
	for _, candidate := range t.listFor(member.Kind) {
		if candidate == member {
			return true
		}
	}

	return false
}

// HasNested reports whether name is still a nested type of the declaration.
func (t *TypeDeclaration) HasNested(name string) bool {
	for _, nested := range t.Nested {
		if nested == name {
			return true
		}
	}

	return false
}

// Remove drops the member from its kind's list. It reports whether the member was present.
func (t *TypeDeclaration) Remove(member *Member) bool {
	list := t.listFor(member.Kind)
	for i, candidate := range list {
		if candidate != member {
			continue
		}

		kept := append(list[:i:i], list[i+1:]...)

		switch member.Kind {
		case MemberField:
			t.Fields = kept
		case MemberMethod:
			t.Methods = kept
		case MemberConstructor:
			t.Constructors = kept
		}

		return true
	}

	return false
}

// RemoveNested drops name from the nested type list.
func (t *TypeDeclaration) RemoveNested(name string) bool {
	for i, nested := range t.Nested {
		if nested == name {
			t.Nested = append(t.Nested[:i:i], t.Nested[i+1:]...)
			return true
		}
	}

	return false
}

// MemberNames returns the names of the members currently declared.
func (t *TypeDeclaration) MemberNames() []string {
	names := make([]string, 0, len(t.Constants)+len(t.Fields)+len(t.Methods))
	names = append(names, t.Constants...)

	for _, field := range t.Fields {
		names = append(names, strings.Split(field.Name, ",")...)
	}

	for _, method := range t.Methods {
		names = append(names, method.Name)
	}

	return names
}

func (t *TypeDeclaration) listFor(kind MemberKind) []*Member {
	switch kind {
	case MemberField:
		return t.Fields
	case MemberMethod:
		return t.Methods
	case MemberConstructor:
		return t.Constructors
	}

	return nil
}

// CompilationUnit is the parsed form of one source file.
type CompilationUnit struct {
	Path    Path
	Package string
	Imports []Import
	// Types lists every declaration of the file, nested ones included, in source order.
	Types []*TypeDeclaration
	// Failures lists syntax errors; a unit with failures is never used.
	Failures []SyntaxFailure
}

// SyntaxFailure locates a syntax error in a file. Line and Column are 1-based.
type SyntaxFailure struct {
	Path    Path
	Line    int
	Column  int
	Message string
}

func (f SyntaxFailure) String() string {
	return fmt.Sprintf("%s:%d:%d: %s", f.Path, f.Line, f.Column, f.Message)
}
