package model

// MarkerKind identifies a redaction marker annotation.
type MarkerKind string

const (
	// MarkerSolutionOnly marks instructor-only code.
	MarkerSolutionOnly MarkerKind = "solution-only"
	// MarkerImplementationRequired marks a method the student has to implement.
	MarkerImplementationRequired MarkerKind = "implementation-required"
)

// Marker is a recognized marker annotation. Label is only meaningful for
// MarkerImplementationRequired.
type Marker struct {
	Kind  MarkerKind
	Label string
}

// MarkerNames configures the annotation names recognized as markers.
type MarkerNames struct {
	SolutionOnly           string
	ImplementationRequired string
}

// DefaultMarkerNames returns the annotation names used by the exercise library.
func DefaultMarkerNames() MarkerNames {
	return MarkerNames{
		SolutionOnly:           "SolutionOnly",
		ImplementationRequired: "StudentImplementationRequired",
	}
}

// ActionKind is the tag of a RedactionAction.
type ActionKind int

const (
	// ActionKeep leaves the entity untouched.
	ActionKeep ActionKind = iota
	// ActionStub replaces a method body with the failure stub.
	ActionStub
	// ActionRemove deletes the entity.
	ActionRemove
)

func (k ActionKind) String() string {
	switch k {
	case ActionKeep:
		return "keep"
	case ActionStub:
		return "stub"
	case ActionRemove:
		return "remove"
	}

	return "unknown"
}

// RedactionAction is the tagged result of classifying one entity.
type RedactionAction struct {
	Kind  ActionKind
	Label string
}

// Keep builds the no-op action.
func Keep() RedactionAction { return RedactionAction{Kind: ActionKeep} }

// Stub builds a stub action carrying the task label.
func Stub(label string) RedactionAction { return RedactionAction{Kind: ActionStub, Label: label} }

// Remove builds a removal action.
func Remove() RedactionAction { return RedactionAction{Kind: ActionRemove} }

// EntityClass holds the markers found on an entity and the action derived from them.
type EntityClass struct {
	Markers []Marker
	Action  RedactionAction
}

// Classification maps types (by qualified name) and members (by Member.Key)
// to their classification.
type Classification struct {
	Types   map[string]EntityClass
	Members map[string]EntityClass
}

// TypeAction returns the action for a type; unknown types are kept.
func (c Classification) TypeAction(name string) RedactionAction {
	if class, ok := c.Types[name]; ok {
		return class.Action
	}

	return Keep()
}

// MemberAction returns the action for a member; unknown members are kept.
func (c Classification) MemberAction(member *Member) RedactionAction {
	if class, ok := c.Members[member.Key()]; ok {
		return class.Action
	}

	return Keep()
}

// StubTemplate configures the failure stub written into redacted methods.
type StubTemplate struct {
	// Call is the fully qualified failure primitive.
	Call string
	// Message is a format string receiving the task label.
	Message string
	// Todo is a format string receiving the task label, rendered as a line comment.
	Todo string
}

// DefaultStubTemplate returns the stub used by the exercise library.
func DefaultStubTemplate() StubTemplate {
	return StubTemplate{
		Call:    "org.tudalgo.algoutils.student.Student.crash",
		// One space after the dash. The legacy two-space form is a stub.message setting.
		Message: "%s - Remove if implemented",
		Todo:    "TODO %s",
	}
}

// MutationKind describes a change applied to a retained type.
type MutationKind string

const (
	MutationStub              MutationKind = "stub"
	MutationRemoveField       MutationKind = "remove-field"
	MutationRemoveConstructor MutationKind = "remove-constructor"
	MutationRemoveMethod      MutationKind = "remove-method"
	MutationRemoveType        MutationKind = "remove-nested-type"
)

// Mutation is one change recorded in the plan.
type Mutation struct {
	Kind   MutationKind `yaml:"kind"`
	Target string       `yaml:"target"`
	Label  string       `yaml:"label,omitempty"`
}

// RetainedType is a type that survives redaction, with the changes applied to it.
type RetainedType struct {
	Name      string     `yaml:"name"`
	Mutations []Mutation `yaml:"mutations,omitempty"`
}

// RedactionPlan partitions every type into retained and deleted.
type RedactionPlan struct {
	Retained []RetainedType `yaml:"retained"`
	Deleted  []string       `yaml:"deleted"`
}

// RetainedSet returns the retained names as a set.
func (p RedactionPlan) RetainedSet() map[string]bool {
	set := make(map[string]bool, len(p.Retained))
	for _, retained := range p.Retained {
		set[retained.Name] = true
	}

	return set
}

// DeletedSet returns the deleted names as a set.
func (p RedactionPlan) DeletedSet() map[string]bool {
	set := make(map[string]bool, len(p.Deleted))
	for _, name := range p.Deleted {
		set[name] = true
	}

	return set
}

// MutationCount returns the number of mutations over all retained types.
func (p RedactionPlan) MutationCount() int {
	count := 0
	for _, retained := range p.Retained {
		count += len(retained.Mutations)
	}

	return count
}
