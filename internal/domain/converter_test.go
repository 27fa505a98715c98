package domain

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"algomate.dev/pkg/algomate/internal/adapter"
	m "algomate.dev/pkg/algomate/internal/model"
)

const wantSorter = `package h09;

import org.tudalgo.algoutils.student.annotation.StudentImplementationRequired;

/**
 * Sorts integer arrays.
 */
public class Sorter {

    private final int[] values;

    public Sorter(int[] values) {
        this.values = values;
    }

    @StudentImplementationRequired("T1")
    public int[] sort() {
        // TODO T1
        return org.tudalgo.algoutils.student.Student.crash("T1 - Remove if implemented");
    }

    @StudentImplementationRequired("T2")
    public void print() {
        // TODO T2
        org.tudalgo.algoutils.student.Student.crash("T2 - Remove if implemented");
    }

    public int size() {
        return values.length;
    }
}
`

const wantCounter = `package h09;

public class Counter {
    private int count;

    public int next() {
        return ++count;
    }
}
`

const wantShape = `package h09;

import org.tudalgo.algoutils.student.annotation.StudentImplementationRequired;

public interface Shape {

    double area();

    @StudentImplementationRequired("T3")
    default String describe() {
        // TODO T3
        return org.tudalgo.algoutils.student.Student.crash("T3 - Remove if implemented");
    }

    enum Kind {
        ROUND,
        ANGULAR;

    }
}
`

func TestConverter_Convert(t *testing.T) {
	root := copyFixture(t, sorterFixture)

	report, err := newTestConverter(t).Convert(context.Background(), m.Path(root))
	require.NoError(t, err)

	assert.False(t, report.DryRun)
	assert.Equal(t, wantSorter, readSource(t, root, "h09/Sorter.java"))
	assert.Equal(t, wantCounter, readSource(t, root, "h09/Counter.java"))
	assert.Equal(t, wantShape, readSource(t, root, "h09/Shape.java"))

	original, err := os.ReadFile(filepath.Join(sorterFixture, "src", "main", "java", "h09", "package-info.java"))
	require.NoError(t, err)
	assert.Equal(t, string(original), readSource(t, root, "h09/package-info.java"))

	actions := make([]string, 0, len(report.Files))
	for _, file := range report.Files {
		actions = append(actions, file.QualifiedName+"="+string(file.Action))
	}

	assert.Equal(t, []string{
		"h09.Counter=rewritten",
		"h09.Shape=rewritten",
		"h09.Sorter=rewritten",
		"h09.internal.Helper=deleted",
		"h09.package-info=skipped",
	}, actions)
}

func TestConverter_Plan(t *testing.T) {
	root := copyFixture(t, sorterFixture)

	report, err := newTestConverter(t).Plan(context.Background(), m.Path(root))
	require.NoError(t, err)

	assert.True(t, report.DryRun)
	assert.Equal(t, []string{"h09.Shape.Square", "h09.internal.Helper"}, report.Plan.Deleted)
	assert.Equal(t, []m.RetainedType{
		{Name: "h09.Counter", Mutations: []m.Mutation{
			{Kind: m.MutationRemoveConstructor, Target: "Counter(int)"},
		}},
		{Name: "h09.Shape", Mutations: []m.Mutation{
			{Kind: m.MutationStub, Target: "describe()", Label: "T3"},
			{Kind: m.MutationRemoveType, Target: "h09.Shape.Square"},
		}},
		{Name: "h09.Shape.Kind", Mutations: []m.Mutation{
			{Kind: m.MutationRemoveMethod, Target: "hasCorners()"},
		}},
		{Name: "h09.Sorter", Mutations: []m.Mutation{
			{Kind: m.MutationStub, Target: "sort()", Label: "T1"},
			{Kind: m.MutationStub, Target: "print()", Label: "T2"},
			{Kind: m.MutationRemoveField, Target: "SECRET_KEY"},
		}},
	}, report.Plan.Retained)

	for _, file := range report.Files {
		original, err := os.ReadFile(string(file.Path))
		require.NoError(t, err, "dry run must leave %s in place", file.Path)
		assert.Equal(t, file.Before, original)
	}
}

func TestConverter_StubsRequiredMethodsAndDropsSolutionFields(t *testing.T) {
	root := copyFixture(t, sorterFixture)

	_, err := newTestConverter(t).Convert(context.Background(), m.Path(root))
	require.NoError(t, err)

	sorter := readSource(t, root, "h09/Sorter.java")
	assert.NotContains(t, sorter, "SECRET_KEY")
	assert.NotContains(t, sorter, "Arrays.copyOf")
	assert.Contains(t, sorter, `crash("T1 - Remove if implemented")`)
	assert.Contains(t, sorter, "public int[] sort() {")

	unit, err := adapter.NewLocalJavaFileAdapter().Parse(context.Background(), "Sorter.java", []byte(sorter))
	require.NoError(t, err)
	assert.Empty(t, unit.Failures)
}

func TestConverter_DeletesSolutionOnlyFiles(t *testing.T) {
	root := copyFixture(t, sorterFixture)

	report, err := newTestConverter(t).Convert(context.Background(), m.Path(root))
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(root, "src", "main", "java", "h09", "internal", "Helper.java"))
	assert.True(t, os.IsNotExist(err))

	retained := report.Plan.RetainedSet()
	for _, name := range report.Plan.Deleted {
		assert.False(t, retained[name], name)
	}

	for _, file := range report.Files {
		if file.Action != m.FileRewritten {
			continue
		}

		assert.NotContains(t, string(file.After), "SolutionOnly", file.Path)
		assert.NotContains(t, string(file.After), "Helper", file.Path)
	}
}

func TestConverter_SecondRunIsNoOp(t *testing.T) {
	root := copyFixture(t, sorterFixture)
	converter := newTestConverter(t)

	_, err := converter.Convert(context.Background(), m.Path(root))
	require.NoError(t, err)

	first := snapshot(t, root)

	report, err := converter.Convert(context.Background(), m.Path(root))
	require.NoError(t, err)

	assert.Equal(t, first, snapshot(t, root))
	assert.Empty(t, report.Plan.Deleted)

	for _, file := range report.Files {
		assert.False(t, file.Changed(), file.Path)
	}
}

func TestConverter_MissingSourceDir(t *testing.T) {
	_, err := newTestConverter(t).Convert(context.Background(), m.Path(t.TempDir()))

	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
}

func TestConverter_ParseErrorLeavesRepositoryUntouched(t *testing.T) {
	root := writeRepo(t, map[string]string{
		"h09/Good.java":   "package h09;\n\n@SolutionOnly\nclass Good {}\n",
		"h09/Broken.java": "package h09;\n\nclass Broken {\n",
	})

	_, err := newTestConverter(t).Convert(context.Background(), m.Path(root))

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "package h09;\n\n@SolutionOnly\nclass Good {}\n", readSource(t, root, "h09/Good.java"))
}

func TestConverter_CustomSettings(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "src", "solution", "ex1", "Task.java")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(`package ex1;

public class Task {
    @Todo("A")
    public void run() {
        System.exit(0);
    }
}
`), 0o644))

	settings := Settings{
		Layout:  m.Layout{SourceDir: "src/solution", Extension: ".java", PackageRoot: `^ex\d+$`},
		Markers: m.MarkerNames{SolutionOnly: "Hidden", ImplementationRequired: "Todo"},
		Stub:    m.StubTemplate{Call: "throw new UnsupportedOperationException", Message: "%s", Todo: "implement %s"},
	}

	converter, err := NewConverter(adapter.NewLocalSourceFSAdapter(), adapter.NewLocalJavaFileAdapter(), settings)
	require.NoError(t, err)

	report, err := converter.Convert(context.Background(), m.Path(root))
	require.NoError(t, err)
	require.Len(t, report.Files, 1)
	assert.Equal(t, "ex1.Task", report.Files[0].QualifiedName)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "        // implement A\n        throw new UnsupportedOperationException(\"A\");\n")
}

func snapshot(t *testing.T, root string) map[string]string {
	t.Helper()

	files := make(map[string]string)

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		files[strings.TrimPrefix(path, root)] = string(data)

		return nil
	})
	require.NoError(t, err)

	return files
}

func TestConverter_PackageRootBelowPackagePrefix(t *testing.T) {
	root := writeRepo(t, map[string]string{
		"de/tud/h09/Sorter.java": `package de.tud.h09;

public class Sorter {
    @SolutionOnly
    public static final String SECRET_KEY = "s3cr3t";

    @StudentImplementationRequired("T1")
    public int sort() {
        return 42;
    }
}
`,
		"de/tud/h09/Helper.java": "package de.tud.h09;\n\n@SolutionOnly\npublic class Helper {}\n",
	})

	report, err := newTestConverter(t).Convert(context.Background(), m.Path(root))
	require.NoError(t, err)
	assert.Equal(t, []string{"de.tud.h09.Helper"}, report.Plan.Deleted)

	sorter := readSource(t, root, "de/tud/h09/Sorter.java")
	assert.NotContains(t, sorter, "SECRET_KEY")
	assert.NotContains(t, sorter, "return 42;")

	_, err = os.Stat(filepath.Join(root, "src", "main", "java", "de", "tud", "h09", "Helper.java"))
	assert.True(t, os.IsNotExist(err))
}

func TestConverter_RedactsLocalClassesAndEnumConstantBodies(t *testing.T) {
	root := writeRepo(t, map[string]string{
		"h09/Op.java": `package h09;

public enum Op {
    PLUS {
        @StudentImplementationRequired("T4")
        int apply(int a, int b) {
            return a + b;
        }
    },
    MINUS {
        @SolutionOnly
        int secret() {
            return 7;
        }

        int apply(int a, int b) {
            return a - b;
        }
    };

    abstract int apply(int a, int b);
}
`,
		"h09/Runner.java": `package h09;

public class Runner {
    public int run() {
        class Step {
            @SolutionOnly
            int hidden() {
                return 1;
            }

            int visible() {
                return 2;
            }
        }

        return new Step().visible();
    }
}
`,
	})

	report, err := newTestConverter(t).Convert(context.Background(), m.Path(root))
	require.NoError(t, err)

	op := readSource(t, root, "h09/Op.java")
	assert.NotContains(t, op, "return a + b;")
	assert.Contains(t, op, "            return org.tudalgo.algoutils.student.Student.crash(\"T4 - Remove if implemented\");\n        }\n    },")
	assert.NotContains(t, op, "secret")
	assert.Contains(t, op, "return a - b;")

	runner := readSource(t, root, "h09/Runner.java")
	assert.NotContains(t, runner, "hidden")
	assert.Contains(t, runner, "return new Step().visible();")

	mutations := make(map[string][]m.Mutation)
	for _, retained := range report.Plan.Retained {
		mutations[retained.Name] = retained.Mutations
	}

	assert.Equal(t, []m.Mutation{{Kind: m.MutationStub, Target: "apply(int, int)", Label: "T4"}}, mutations["h09.Op$PLUS"])
	assert.Equal(t, []m.Mutation{{Kind: m.MutationRemoveMethod, Target: "secret()"}}, mutations["h09.Op$MINUS"])
	assert.Equal(t, []m.Mutation{{Kind: m.MutationRemoveMethod, Target: "hidden()"}}, mutations["h09.Runner$1Step"])

	for _, file := range report.Files {
		unit, err := adapter.NewLocalJavaFileAdapter().Parse(context.Background(), file.Path, file.After)
		require.NoError(t, err)
		assert.Empty(t, unit.Failures, file.Path)
	}
}
