package domain

import (
	"fmt"
	"strings"

	m "algomate.dev/pkg/algomate/internal/model"
)

// Redact applies the classification to the program and returns the plan.
// The program is mutated in place: stubbed bodies are rewritten and removed
// members and nested types are dropped from their declarations. Steps run in
// a fixed order: stubs, type deletion, fields, constructors, methods.
func Redact(program *m.Program, cls m.Classification, stub m.StubTemplate) m.RedactionPlan {
	mutations := make(map[string][]m.Mutation)
	names := program.Names()

	for _, name := range names {
		decl := program.Types[name]

		for _, method := range decl.Methods {
			action := cls.MemberAction(method)
			if action.Kind != m.ActionStub {
				continue
			}

			method.BodyText = StubBody(method, action.Label, stub)
			method.Stubbed = true

			mutations[name] = append(mutations[name], m.Mutation{
				Kind:   m.MutationStub,
				Target: method.Signature(),
				Label:  action.Label,
			})
		}
	}

	deleted := deletedTypes(program, cls)

	for _, name := range names {
		if deleted[name] {
			continue
		}

		decl := program.Types[name]

		for _, nested := range append([]string(nil), decl.Nested...) {
			if deleted[nested] {
				decl.RemoveNested(nested)
				mutations[name] = append(mutations[name], m.Mutation{Kind: m.MutationRemoveType, Target: nested})
			}
		}
	}

	for _, name := range names {
		if deleted[name] {
			continue
		}

		decl := program.Types[name]
		mutations[name] = append(mutations[name], removeMarked(decl, decl.Fields, cls, m.MutationRemoveField)...)
	}

	for _, name := range names {
		decl := program.Types[name]
		if deleted[name] || !decl.Kind.IsClass() {
			continue
		}

		mutations[name] = append(mutations[name], removeMarked(decl, decl.Constructors, cls, m.MutationRemoveConstructor)...)
	}

	for _, name := range names {
		if deleted[name] {
			continue
		}

		decl := program.Types[name]
		mutations[name] = append(mutations[name], removeMarked(decl, decl.Methods, cls, m.MutationRemoveMethod)...)
	}

	plan := m.RedactionPlan{Retained: []m.RetainedType{}, Deleted: []string{}}

	for _, name := range names {
		if deleted[name] {
			plan.Deleted = append(plan.Deleted, name)
			continue
		}

		plan.Retained = append(plan.Retained, m.RetainedType{Name: name, Mutations: mutations[name]})
	}

	return plan
}

// deletedTypes returns every type marked for removal together with the
// types nested in it.
func deletedTypes(program *m.Program, cls m.Classification) map[string]bool {
	deleted := make(map[string]bool)

	for _, name := range program.Names() {
		if cls.TypeAction(name).Kind != m.ActionRemove {
			continue
		}

		deleted[name] = true
		for _, nested := range program.Descendants(name) {
			deleted[nested] = true
		}
	}

	return deleted
}

func removeMarked(decl *m.TypeDeclaration, members []*m.Member, cls m.Classification, kind m.MutationKind) []m.Mutation {
	var out []m.Mutation

	// members aliases a list that Remove reallocates, so iterate a copy.
	for _, member := range append([]*m.Member(nil), members...) {
		if cls.MemberAction(member).Kind != m.ActionRemove {
			continue
		}

		if decl.Remove(member) {
			out = append(out, m.Mutation{Kind: kind, Target: member.Signature()})
		}
	}

	return out
}

// StubBody renders the replacement body block for a method, indented
// relative to the method's own line.
func StubBody(method *m.Member, label string, stub m.StubTemplate) string {
	unit := "    "
	if strings.Contains(method.Indent, "\t") {
		unit = "\t"
	}

	inner := method.Indent + unit

	call := fmt.Sprintf("%s(\"%s\");", stub.Call, javaEscape(withLabel(stub.Message, label)))
	if !method.Void {
		call = "return " + call
	}

	todo := strings.Join(strings.Fields(withLabel(stub.Todo, label)), " ")

	var b strings.Builder

	b.WriteString("{\n")
	b.WriteString(inner + "// " + todo + "\n")
	b.WriteString(inner + call + "\n")
	b.WriteString(method.Indent + "}")

	return b.String()
}

var javaEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

func javaEscape(s string) string {
	return javaEscaper.Replace(s)
}

// withLabel fills the label into format; a format without a verb is used as is.
func withLabel(format, label string) string {
	if !strings.Contains(format, "%s") {
		return format
	}

	return fmt.Sprintf(format, label)
}
