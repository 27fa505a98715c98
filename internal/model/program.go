package model

import "sort"

// Program is the whole-program model of one conversion run: an arena of type
// declarations keyed by qualified name plus the files they came from.
type Program struct {
	Root  Path
	Files []SourceFile
	Units map[Path]*CompilationUnit
	Types map[string]*TypeDeclaration
}

// NewProgram creates an empty program rooted at the given source directory.
func NewProgram(root Path) *Program {
	return &Program{
		Root:  root,
		Units: make(map[Path]*CompilationUnit),
		Types: make(map[string]*TypeDeclaration),
	}
}

// Type looks up a declaration by qualified name.
func (p *Program) Type(name string) (*TypeDeclaration, bool) {
	t, ok := p.Types[name]
	return t, ok
}

// Names returns every qualified name in lexicographic order.
func (p *Program) Names() []string {
	names := make([]string, 0, len(p.Types))
	for name := range p.Types {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Descendants returns every type nested, directly or transitively, in name,
// using the original nesting.
func (p *Program) Descendants(name string) []string {
	var out []string

	for _, candidate := range p.Names() {
		for parent := p.Types[candidate].Parent; parent != ""; {
			if parent == name {
				out = append(out, candidate)
				break
			}

			enclosing, ok := p.Types[parent]
			if !ok {
				break
			}

			parent = enclosing.Parent
		}
	}

	return out
}

// Packages returns the set of packages that declare at least one type.
func (p *Program) Packages() map[string]bool {
	packages := make(map[string]bool)
	for _, t := range p.Types {
		packages[t.Package] = true
	}

	return packages
}
