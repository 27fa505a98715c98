package domain

import (
	"context"
	"sort"
	"strings"

	m "algomate.dev/pkg/algomate/internal/model"
)

// Renderer turns the redacted program back into file contents. It has no
// filesystem side effects.
type Renderer struct {
	imports *ImportResolver
}

// NewRenderer creates a Renderer that recomputes imports with resolver.
func NewRenderer(resolver *ImportResolver) *Renderer {
	return &Renderer{imports: resolver}
}

// edit replaces src[start:end] with text.
type edit struct {
	start int
	end   int
	text  string
}

// Render decides the fate of every discovered file by the top-level types it
// declares: a file without types is skipped, a file whose types are all
// deleted is deleted, anything else is rewritten with its retained types.
// Results follow the discovery order.
func (r *Renderer) Render(ctx context.Context, program *m.Program, plan m.RedactionPlan) ([]m.FileResult, error) {
	deleted := plan.DeletedSet()
	results := make([]m.FileResult, 0, len(program.Files))

	for _, file := range program.Files {
		result := m.FileResult{
			Path:          file.Path,
			QualifiedName: file.QualifiedName,
			Action:        m.FileSkipped,
			Before:        file.Content,
			After:         file.Content,
		}

		retained, declared := topLevelTypes(program.Units[file.Path], deleted)

		switch {
		case declared == 0:
		case retained == 0:
			result.Action = m.FileDeleted
			result.After = nil
		default:
			content, err := r.renderFile(ctx, program, plan, file)
			if err != nil {
				return nil, err
			}

			result.Action = m.FileRewritten
			result.After = content
		}

		results = append(results, result)
	}

	return results, nil
}

// topLevelTypes counts the retained and the declared top-level types of unit.
func topLevelTypes(unit *m.CompilationUnit, deleted map[string]bool) (int, int) {
	if unit == nil {
		return 0, 0
	}

	retained, declared := 0, 0

	for _, decl := range unit.Types {
		if !decl.TopLevel() {
			continue
		}

		declared++

		if !deleted[decl.Name] {
			retained++
		}
	}

	return retained, declared
}

func (r *Renderer) renderFile(ctx context.Context, program *m.Program, plan m.RedactionPlan, file m.SourceFile) ([]byte, error) {
	unit := program.Units[file.Path]
	deleted := plan.DeletedSet()
	edits := fileEdits(file.Content, unit, deleted)

	var types []string

	for _, decl := range unit.Types {
		if !decl.TopLevel() || deleted[decl.Name] {
			continue
		}

		types = append(types, applyEdits(file.Content, decl.Span, edits))
	}

	body := strings.Join(types, "\n\n")

	imports, err := r.imports.Resolve(ctx, program, plan, unit, []byte(body))
	if err != nil {
		return nil, err
	}

	var b strings.Builder

	if unit.Package != "" {
		b.WriteString("package " + unit.Package + ";\n\n")
	}

	if len(imports) > 0 {
		for _, imp := range imports {
			b.WriteString(imp.String() + "\n")
		}

		b.WriteString("\n")
	}

	b.WriteString(body)
	b.WriteString("\n")

	return []byte(b.String()), nil
}

// fileEdits collects the removals and body replacements of one file, sorted
// by position.
func fileEdits(src []byte, unit *m.CompilationUnit, deleted map[string]bool) []edit {
	var edits []edit

	for _, decl := range unit.Types {
		if deleted[decl.Name] {
			if !decl.TopLevel() && !deleted[decl.Parent] {
				start, end := lineExtent(src, decl.Span)
				edits = append(edits, edit{start: start, end: end})
			}

			continue
		}

		for _, member := range decl.Layout {
			switch {
			case !decl.Has(member):
				start, end := lineExtent(src, member.Span)
				edits = append(edits, edit{start: start, end: end})
			case member.Stubbed && member.Body != nil:
				edits = append(edits, edit{start: member.Body.Start, end: member.Body.End, text: member.BodyText})
			}
		}
	}

	sort.SliceStable(edits, func(i, j int) bool {
		return edits[i].start < edits[j].start
	})

	return edits
}

// applyEdits returns the text of span with every edit inside it applied.
// Edits nested in an earlier applied edit are skipped.
func applyEdits(src []byte, span m.Span, edits []edit) string {
	var b strings.Builder

	cursor := span.Start

	for _, e := range edits {
		if e.start < cursor || e.end > span.End {
			continue
		}

		b.Write(src[cursor:e.start])
		b.WriteString(e.text)
		cursor = e.end
	}

	b.Write(src[cursor:span.End])

	return b.String()
}

// lineExtent widens a removal so that a declaration standing on its own lines
// takes its indentation and line break with it.
func lineExtent(src []byte, span m.Span) (int, int) {
	start := span.Start
	for start > 0 && (src[start-1] == ' ' || src[start-1] == '\t') {
		start--
	}

	if start > 0 && src[start-1] != '\n' {
		start = span.Start
	}

	end := span.End
	for end < len(src) && (src[end] == ' ' || src[end] == '\t' || src[end] == '\r') {
		end++
	}

	switch {
	case end < len(src) && src[end] == '\n':
		end++
	case end < len(src):
		return start, span.End
	}

	// Between two blank lines, take one of them along.
	if start >= 2 && src[start-1] == '\n' && src[start-2] == '\n' {
		next := end
		for next < len(src) && (src[next] == ' ' || src[next] == '\t' || src[next] == '\r') {
			next++
		}

		if next < len(src) && src[next] == '\n' {
			end = next + 1
		}
	}

	return start, end
}
