package adapter

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"

	m "algomate.dev/pkg/algomate/internal/model"
)

// JavaFileAdapter encapsulates Java-specific parsing so the domain layer can
// focus on redaction rules while delegating syntax details to tree-sitter.
type JavaFileAdapter interface {
	// Parse builds the compilation unit for one file. Syntax errors are
	// reported through CompilationUnit.Failures; the error return is reserved
	// for parser failures.
	Parse(ctx context.Context, path m.Path, src []byte) (*m.CompilationUnit, error)

	// Identifiers returns every identifier and type identifier used in src.
	Identifiers(ctx context.Context, src []byte) (map[string]bool, error)
}

// typeKinds maps tree-sitter declaration nodes to declaration kinds.
var typeKinds = map[string]m.TypeKind{
	"class_declaration":     m.KindClass,
	"interface_declaration": m.KindInterface,
	"enum_declaration":      m.KindEnum,
	"record_declaration":    m.KindRecord,
}

// maxSyntaxFailures bounds how many failures are reported per file.
const maxSyntaxFailures = 5

// LocalJavaFileAdapter provides a JavaFileAdapter backed by the tree-sitter Java grammar.
type LocalJavaFileAdapter struct {
	lang *sitter.Language
}

// NewLocalJavaFileAdapter constructs a LocalJavaFileAdapter.
func NewLocalJavaFileAdapter() *LocalJavaFileAdapter {
	return &LocalJavaFileAdapter{lang: java.GetLanguage()}
}

// Parse builds a compilation unit for the provided path/source pair.
func (a *LocalJavaFileAdapter) Parse(ctx context.Context, path m.Path, src []byte) (*m.CompilationUnit, error) {
	root, err := sitter.ParseCtx(ctx, src, a.lang)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter parse %s: %w", path, err)
	}

	unit := &m.CompilationUnit{Path: path}

	if root.HasError() {
		unit.Failures = syntaxFailures(path, root)
		return unit, nil
	}

	ex := &extractor{src: src, unit: unit, locals: make(map[string]int)}

	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)

		switch child.Type() {
		case "package_declaration":
			unit.Package = ex.packageName(child)
		case "import_declaration":
			unit.Imports = append(unit.Imports, parseImport(child.Content(src)))
		default:
			if _, ok := typeKinds[child.Type()]; ok {
				ex.typeDecl(child, nil)
			}
		}
	}

	return unit, nil
}

// Identifiers collects identifier names from src. Syntax errors are tolerated.
func (a *LocalJavaFileAdapter) Identifiers(ctx context.Context, src []byte) (map[string]bool, error) {
	root, err := sitter.ParseCtx(ctx, src, a.lang)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter parse: %w", err)
	}

	names := make(map[string]bool)
	walk(root, func(n *sitter.Node) bool {
		switch n.Type() {
		case "identifier", "type_identifier":
			names[n.Content(src)] = true
		}

		return true
	})

	return names, nil
}

// walk visits n and its descendants depth-first; returning false skips children.
func walk(n *sitter.Node, visit func(*sitter.Node) bool) {
	if n == nil || !visit(n) {
		return
	}

	for i := 0; i < int(n.ChildCount()); i++ {
		walk(n.Child(i), visit)
	}
}

func syntaxFailures(path m.Path, root *sitter.Node) []m.SyntaxFailure {
	var failures []m.SyntaxFailure

	walk(root, func(n *sitter.Node) bool {
		if len(failures) >= maxSyntaxFailures {
			return false
		}

		switch {
		case n.IsMissing():
			failures = append(failures, failureAt(path, n, "missing "+n.Type()))
			return false
		case n.IsError():
			failures = append(failures, failureAt(path, n, "unexpected syntax"))
			return false
		}

		return n.HasError()
	})

	if len(failures) == 0 {
		failures = append(failures, failureAt(path, root, "syntax error"))
	}

	return failures
}

func failureAt(path m.Path, n *sitter.Node, message string) m.SyntaxFailure {
	point := n.StartPoint()

	return m.SyntaxFailure{
		Path:    path,
		Line:    int(point.Row) + 1,
		Column:  int(point.Column) + 1,
		Message: message,
	}
}

// parseImport turns "import static a.b.C.*;" into an Import.
func parseImport(text string) m.Import {
	body := strings.TrimSpace(text)
	body = strings.TrimPrefix(body, "import")
	body = strings.TrimSuffix(strings.TrimSpace(body), ";")
	body = strings.TrimSpace(body)

	var imp m.Import
	if rest, ok := strings.CutPrefix(body, "static"); ok && rest != strings.TrimLeft(rest, " \t\r\n") {
		imp.Static = true
		body = rest
	}

	body = strings.Join(strings.Fields(body), "")
	if rest, ok := strings.CutSuffix(body, ".*"); ok {
		imp.Wildcard = true
		body = rest
	}

	imp.Path = body

	return imp
}

// extractor turns one syntax tree into type declarations.
type extractor struct {
	src  []byte
	unit *m.CompilationUnit
	// locals numbers the local classes of each enclosing type.
	locals map[string]int
}

func (ex *extractor) packageName(n *sitter.Node) string {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.Type() == "scoped_identifier" || child.Type() == "identifier" {
			return child.Content(ex.src)
		}
	}

	return ""
}

func (ex *extractor) typeDecl(n *sitter.Node, parent *m.TypeDeclaration) {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		return
	}

	simple := nameNode.Content(ex.src)

	name := simple

	switch {
	case parent != nil:
		name = parent.Name + "." + simple
	case ex.unit.Package != "":
		name = ex.unit.Package + "." + simple
	}

	decl := ex.declare(n, parent, simple, name, typeKinds[n.Type()])
	decl.Annotations = ex.annotations(n)

	if body := n.ChildByFieldName("body"); body != nil {
		ex.body(body, decl)
	}
}

// declare registers a type declaration spanning n.
func (ex *extractor) declare(n *sitter.Node, parent *m.TypeDeclaration, simple, name string, kind m.TypeKind) *m.TypeDeclaration {
	decl := &m.TypeDeclaration{
		Name:       name,
		SimpleName: simple,
		Kind:       kind,
		Package:    ex.unit.Package,
		File:       ex.unit.Path,
		Span:       m.Span{Start: ex.leadingStart(n), End: int(n.EndByte())},
	}

	if parent != nil {
		decl.Parent = parent.Name
		parent.Nested = append(parent.Nested, name)
	}

	ex.unit.Types = append(ex.unit.Types, decl)

	return decl
}

// localTypes registers the classes declared inside a method or constructor
// body. Types nested in a local class are handled by its own body.
func (ex *extractor) localTypes(block *sitter.Node, owner *m.TypeDeclaration) {
	walk(block, func(n *sitter.Node) bool {
		kind, ok := typeKinds[n.Type()]
		if !ok {
			return true
		}

		nameNode := n.ChildByFieldName("name")
		if nameNode == nil {
			return false
		}

		simple := nameNode.Content(ex.src)
		ex.locals[owner.Name]++

		decl := ex.declare(n, owner, simple, fmt.Sprintf("%s$%d%s", owner.Name, ex.locals[owner.Name], simple), kind)
		decl.Annotations = ex.annotations(n)

		if body := n.ChildByFieldName("body"); body != nil {
			ex.body(body, decl)
		}

		return false
	})
}

// enumConstant records a constant and, when it has a class body, registers
// the body as a type so its members are redacted like any other. Markers on
// the constant itself are not read.
func (ex *extractor) enumConstant(n *sitter.Node, decl *m.TypeDeclaration) {
	name := ex.fieldContent(n, "name")
	if name == "" {
		return
	}

	decl.Constants = append(decl.Constants, name)

	body := n.ChildByFieldName("body")
	if body == nil {
		return
	}

	constant := ex.declare(n, decl, name, decl.Name+"$"+name, m.KindClass)
	ex.body(body, constant)
}

func (ex *extractor) body(body *sitter.Node, decl *m.TypeDeclaration) {
	for i := 0; i < int(body.NamedChildCount()); i++ {
		child := body.NamedChild(i)

		switch child.Type() {
		case "field_declaration", "constant_declaration":
			ex.member(child, decl, m.MemberField)
		case "method_declaration":
			ex.member(child, decl, m.MemberMethod)
		case "constructor_declaration", "compact_constructor_declaration":
			ex.member(child, decl, m.MemberConstructor)
		case "enum_constant":
			ex.enumConstant(child, decl)
		case "enum_body_declarations":
			ex.body(child, decl)
		default:
			if _, ok := typeKinds[child.Type()]; ok {
				ex.typeDecl(child, decl)
			}
		}
	}
}

func (ex *extractor) member(n *sitter.Node, decl *m.TypeDeclaration, kind m.MemberKind) {
	mb := &m.Member{
		Kind:        kind,
		Parent:      decl.Name,
		Annotations: ex.annotations(n),
		Span:        m.Span{Start: ex.leadingStart(n), End: int(n.EndByte())},
		Indent:      ex.indentAt(int(n.StartByte())),
	}

	switch kind {
	case m.MemberField:
		mb.Name = strings.Join(ex.declaratorNames(n), ",")
	case m.MemberMethod:
		mb.Name = ex.fieldContent(n, "name")
		mb.Params = ex.params(n)

		if ret := n.ChildByFieldName("type"); ret != nil {
			mb.ReturnType = ret.Content(ex.src)
			mb.Void = ret.Type() == "void_type"
		}
	case m.MemberConstructor:
		mb.Name = ex.fieldContent(n, "name")
		mb.Params = ex.params(n)
		mb.Void = true
	}

	body := n.ChildByFieldName("body")
	if body != nil {
		mb.Body = &m.Span{Start: int(body.StartByte()), End: int(body.EndByte())}
		mb.BodyText = body.Content(ex.src)
	}

	decl.Layout = append(decl.Layout, mb)

	switch kind {
	case m.MemberField:
		decl.Fields = append(decl.Fields, mb)
	case m.MemberMethod:
		decl.Methods = append(decl.Methods, mb)
	case m.MemberConstructor:
		decl.Constructors = append(decl.Constructors, mb)
	}

	if body != nil && kind != m.MemberField {
		ex.localTypes(body, decl)
	}
}

func (ex *extractor) fieldContent(n *sitter.Node, field string) string {
	child := n.ChildByFieldName(field)
	if child == nil {
		return ""
	}

	return child.Content(ex.src)
}

func (ex *extractor) declaratorNames(n *sitter.Node) []string {
	var names []string

	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.Type() != "variable_declarator" {
			continue
		}

		if name := ex.fieldContent(child, "name"); name != "" {
			names = append(names, name)
		}
	}

	return names
}

func (ex *extractor) params(n *sitter.Node) []string {
	list := n.ChildByFieldName("parameters")
	if list == nil {
		return nil
	}

	var params []string

	for i := 0; i < int(list.NamedChildCount()); i++ {
		param := list.NamedChild(i)

		switch param.Type() {
		case "formal_parameter":
			params = append(params, ex.fieldContent(param, "type"))
		case "spread_parameter":
			for j := 0; j < int(param.NamedChildCount()); j++ {
				part := param.NamedChild(j)
				if part.Type() != "modifiers" && part.Type() != "variable_declarator" {
					params = append(params, part.Content(ex.src)+"...")
					break
				}
			}
		}
	}

	return params
}

// annotations reads the annotations from a declaration's modifiers node.
func (ex *extractor) annotations(n *sitter.Node) []m.Annotation {
	var out []m.Annotation

	for i := 0; i < int(n.NamedChildCount()); i++ {
		mods := n.NamedChild(i)
		if mods.Type() != "modifiers" {
			continue
		}

		for j := 0; j < int(mods.NamedChildCount()); j++ {
			ann := mods.NamedChild(j)
			if ann.Type() != "marker_annotation" && ann.Type() != "annotation" {
				continue
			}

			a := m.Annotation{Name: ex.fieldContent(ann, "name")}
			if args := ann.ChildByFieldName("arguments"); args != nil {
				a.Value, a.HasValue = ex.annotationValue(args)
			}

			out = append(out, a)
		}
	}

	return out
}

// annotationValue returns the positional value or the `value = ...` pair.
func (ex *extractor) annotationValue(args *sitter.Node) (string, bool) {
	for i := 0; i < int(args.NamedChildCount()); i++ {
		arg := args.NamedChild(i)

		if arg.Type() != "element_value_pair" {
			return ex.literal(arg), true
		}

		if ex.fieldContent(arg, "key") == "value" {
			if value := arg.ChildByFieldName("value"); value != nil {
				return ex.literal(value), true
			}
		}
	}

	return "", false
}

func (ex *extractor) literal(n *sitter.Node) string {
	text := n.Content(ex.src)
	if n.Type() != "string_literal" {
		return text
	}

	if unquoted, err := strconv.Unquote(text); err == nil {
		return unquoted
	}

	return strings.Trim(text, `"`)
}

// leadingStart extends a declaration's start over the comments directly
// above it. A comment counts when it starts its own line and no blank line
// separates it from what follows.
func (ex *extractor) leadingStart(n *sitter.Node) int {
	start := int(n.StartByte())

	for prev := n.PrevNamedSibling(); prev != nil; prev = prev.PrevNamedSibling() {
		if !isComment(prev.Type()) {
			break
		}

		gap := string(ex.src[prev.EndByte():start])
		if strings.TrimSpace(gap) != "" || strings.Count(gap, "\n") > 1 {
			break
		}

		if !ex.startsLine(int(prev.StartByte())) {
			break
		}

		start = int(prev.StartByte())
	}

	return start
}

func (ex *extractor) startsLine(offset int) bool {
	for i := offset - 1; i >= 0; i-- {
		switch ex.src[i] {
		case '\n':
			return true
		case ' ', '\t', '\r':
			continue
		default:
			return false
		}
	}

	return true
}

// indentAt returns the leading whitespace of the line containing offset.
func (ex *extractor) indentAt(offset int) string {
	lineStart := offset
	for lineStart > 0 && ex.src[lineStart-1] != '\n' {
		lineStart--
	}

	end := lineStart
	for end < len(ex.src) && (ex.src[end] == ' ' || ex.src[end] == '\t') {
		end++
	}

	return string(ex.src[lineStart:end])
}

func isComment(nodeType string) bool {
	return nodeType == "line_comment" || nodeType == "block_comment" || nodeType == "comment"
}
