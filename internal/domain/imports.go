package domain

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"algomate.dev/pkg/algomate/internal/adapter"
	m "algomate.dev/pkg/algomate/internal/model"
)

// ImportResolver recomputes the import list of a rendered file.
type ImportResolver struct {
	java adapter.JavaFileAdapter
}

// NewImportResolver creates an ImportResolver using the given parser.
func NewImportResolver(java adapter.JavaFileAdapter) *ImportResolver {
	return &ImportResolver{java: java}
}

// Resolve filters the unit's original imports against the identifiers used
// by body, the rendered type text. Imports of deleted types and imports that
// are no longer referenced are dropped. The result is deduplicated and
// sorted.
func (r *ImportResolver) Resolve(ctx context.Context, program *m.Program, plan m.RedactionPlan,
	unit *m.CompilationUnit, body []byte,
) ([]m.Import, error) {
	used, err := r.java.Identifiers(ctx, body)
	if err != nil {
		return nil, fmt.Errorf("scan identifiers of %s: %w", unit.Path, err)
	}

	s := importScope{program: program, deleted: plan.DeletedSet(), used: used}

	seen := make(map[string]m.Import)

	for _, imp := range unit.Imports {
		if s.keep(imp) {
			seen[imp.String()] = imp
		}
	}

	keys := make([]string, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	out := make([]m.Import, 0, len(keys))
	for _, key := range keys {
		out = append(out, seen[key])
	}

	return out, nil
}

type importScope struct {
	program *m.Program
	deleted map[string]bool
	used    map[string]bool
}

func (s importScope) keep(imp m.Import) bool {
	switch {
	case imp.Static && imp.Wildcard:
		return s.keepStaticWildcard(imp.Path)
	case imp.Static:
		return s.keepStatic(imp.Path)
	case imp.Wildcard:
		return s.keepOnDemand(imp.Path)
	default:
		_, simple := splitLast(imp.Path)
		return !s.deleted[imp.Path] && s.used[simple]
	}
}

// keepStatic handles `import static a.B.m;`. When B is part of the program,
// m must still be declared by it.
func (s importScope) keepStatic(path string) bool {
	owner, member := splitLast(path)
	if s.deleted[owner] || !s.used[member] {
		return false
	}

	decl, ok := s.program.Type(owner)
	if !ok {
		return true
	}

	for _, name := range decl.MemberNames() {
		if name == member {
			return true
		}
	}

	return decl.HasNested(owner + "." + member)
}

func (s importScope) keepStaticWildcard(owner string) bool {
	if s.deleted[owner] {
		return false
	}

	decl, ok := s.program.Type(owner)
	if !ok {
		return true
	}

	for _, name := range decl.MemberNames() {
		if s.used[name] {
			return true
		}
	}

	return s.anyNestedUsed(decl)
}

// keepOnDemand handles `import a.b.*;`, where the prefix is either a package
// or a type whose nested types are imported.
func (s importScope) keepOnDemand(prefix string) bool {
	if s.deleted[prefix] {
		return false
	}

	if decl, ok := s.program.Type(prefix); ok {
		return s.anyNestedUsed(decl)
	}

	if !s.program.Packages()[prefix] {
		return true
	}

	for name, decl := range s.program.Types {
		if decl.Package == prefix && decl.TopLevel() && !s.deleted[name] && s.used[decl.SimpleName] {
			return true
		}
	}

	return false
}

func (s importScope) anyNestedUsed(decl *m.TypeDeclaration) bool {
	for _, nested := range decl.Nested {
		if _, simple := splitLast(nested); s.used[simple] && !s.deleted[nested] {
			return true
		}
	}

	return false
}

func splitLast(path string) (string, string) {
	i := strings.LastIndex(path, ".")
	if i < 0 {
		return "", path
	}

	return path[:i], path[i+1:]
}
