package domain

import (
	"strings"

	m "algomate.dev/pkg/algomate/internal/model"
)

// Classify tags every type and member of the program with its markers and
// the redaction action derived from them. It does not modify the program.
//
// SolutionOnly dominates ImplementationRequired on the same entity. Only
// methods with a body can be stubbed; a marked abstract method is kept.
func Classify(program *m.Program, names m.MarkerNames) m.Classification {
	c := m.Classification{
		Types:   make(map[string]m.EntityClass),
		Members: make(map[string]m.EntityClass),
	}

	for _, name := range program.Names() {
		decl := program.Types[name]

		markers := markersOf(decl.Annotations, names)

		action := m.Keep()
		if hasMarker(markers, m.MarkerSolutionOnly) {
			action = m.Remove()
		}

		c.Types[name] = m.EntityClass{Markers: markers, Action: action}

		for _, member := range decl.Layout {
			c.Members[member.Key()] = classifyMember(member, names)
		}
	}

	return c
}

func classifyMember(member *m.Member, names m.MarkerNames) m.EntityClass {
	markers := markersOf(member.Annotations, names)
	action := m.Keep()

	switch {
	case hasMarker(markers, m.MarkerSolutionOnly):
		action = m.Remove()
	case member.Kind == m.MemberMethod && member.Body != nil:
		for _, marker := range markers {
			if marker.Kind == m.MarkerImplementationRequired {
				action = m.Stub(marker.Label)
				break
			}
		}
	}

	return m.EntityClass{Markers: markers, Action: action}
}

func markersOf(annotations []m.Annotation, names m.MarkerNames) []m.Marker {
	var markers []m.Marker

	for _, ann := range annotations {
		switch {
		case matchesAnnotation(ann.Name, names.SolutionOnly):
			markers = append(markers, m.Marker{Kind: m.MarkerSolutionOnly})
		case matchesAnnotation(ann.Name, names.ImplementationRequired):
			markers = append(markers, m.Marker{Kind: m.MarkerImplementationRequired, Label: ann.Value})
		}
	}

	return markers
}

// matchesAnnotation accepts the configured name either as written or as the
// last segment of a qualified name.
func matchesAnnotation(written, configured string) bool {
	if configured == "" {
		return false
	}

	if written == configured {
		return true
	}

	simple := configured
	if i := strings.LastIndex(configured, "."); i >= 0 {
		simple = configured[i+1:]
	}

	return written == simple || strings.HasSuffix(written, "."+simple)
}

func hasMarker(markers []m.Marker, kind m.MarkerKind) bool {
	for _, marker := range markers {
		if marker.Kind == kind {
			return true
		}
	}

	return false
}
