package domain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "algomate.dev/pkg/algomate/internal/model"
)

const taskSource = `package h01;

public class Task {
    @SolutionOnly
    @StudentImplementationRequired("T1")
    public int both() {
        return 1;
    }

    @StudentImplementationRequired("T2")
    public int todo() {
        return 2;
    }

    @StudentImplementationRequired
    public void unlabeled() {
    }

    public int plain() {
        return 3;
    }
}
`

const baseSource = `package h01;

abstract class Base {
    @StudentImplementationRequired("T3")
    abstract int abs();
}
`

const secretSource = `package h01;

@org.tudalgo.algoutils.student.annotation.SolutionOnly
class Secret {
}
`

func classifiedProgram(t *testing.T) (*m.Program, m.Classification) {
	t.Helper()

	program := buildProgram(t, writeRepo(t, map[string]string{
		"h01/Task.java":   taskSource,
		"h01/Base.java":   baseSource,
		"h01/Secret.java": secretSource,
	}))

	return program, Classify(program, m.DefaultMarkerNames())
}

func method(t *testing.T, program *m.Program, typeName, name string) *m.Member {
	t.Helper()

	decl, ok := program.Type(typeName)
	require.True(t, ok, "type %s", typeName)

	for _, candidate := range decl.Methods {
		if candidate.Name == name {
			return candidate
		}
	}

	t.Fatalf("method %s.%s not found", typeName, name)

	return nil
}

func TestClassify_Actions(t *testing.T) {
	program, cls := classifiedProgram(t)

	tests := []struct {
		typeName string
		method   string
		want     m.RedactionAction
	}{
		{"h01.Task", "both", m.Remove()},
		{"h01.Task", "todo", m.Stub("T2")},
		{"h01.Task", "unlabeled", m.Stub("")},
		{"h01.Task", "plain", m.Keep()},
		{"h01.Base", "abs", m.Keep()},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			assert.Equal(t, tt.want, cls.MemberAction(method(t, program, tt.typeName, tt.method)))
		})
	}

	assert.Equal(t, m.Remove(), cls.TypeAction("h01.Secret"))
	assert.Equal(t, m.Keep(), cls.TypeAction("h01.Task"))
	assert.Equal(t, m.Keep(), cls.TypeAction("h01.Unknown"))
}

func TestClassify_RecordsMarkers(t *testing.T) {
	program, cls := classifiedProgram(t)

	both := cls.Members[method(t, program, "h01.Task", "both").Key()]
	assert.Equal(t, []m.Marker{
		{Kind: m.MarkerSolutionOnly},
		{Kind: m.MarkerImplementationRequired, Label: "T1"},
	}, both.Markers)

	assert.Empty(t, cls.Members[method(t, program, "h01.Task", "plain").Key()].Markers)
}

func TestClassify_IsPure(t *testing.T) {
	program, first := classifiedProgram(t)

	second := Classify(program, m.DefaultMarkerNames())

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("Classify() not stable (-first +second):\n%s", diff)
	}
}

func TestClassify_CustomMarkerNames(t *testing.T) {
	program, _ := classifiedProgram(t)

	cls := Classify(program, m.MarkerNames{SolutionOnly: "Hidden", ImplementationRequired: "Todo"})

	assert.Equal(t, m.Keep(), cls.TypeAction("h01.Secret"))
	assert.Equal(t, m.Keep(), cls.MemberAction(method(t, program, "h01.Task", "todo")))
}

func TestMatchesAnnotation(t *testing.T) {
	tests := []struct {
		written    string
		configured string
		want       bool
	}{
		{"SolutionOnly", "SolutionOnly", true},
		{"org.tudalgo.SolutionOnly", "SolutionOnly", true},
		{"SolutionOnly", "org.tudalgo.SolutionOnly", true},
		{"NotSolutionOnly", "SolutionOnly", false},
		{"SolutionOnly", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.written+"/"+tt.configured, func(t *testing.T) {
			assert.Equal(t, tt.want, matchesAnnotation(tt.written, tt.configured))
		})
	}
}
