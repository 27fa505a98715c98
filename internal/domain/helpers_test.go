package domain

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"algomate.dev/pkg/algomate/internal/adapter"
	m "algomate.dev/pkg/algomate/internal/model"
)

const sorterFixture = "../../examples/sorter"

// writeRepo creates a repository whose source directory holds files, keyed by
// path relative to src/main/java.
func writeRepo(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, "src", "main", "java", filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	return root
}

// copyFixture copies a fixture repository into a temporary directory.
func copyFixture(t *testing.T, fixture string) string {
	t.Helper()

	root := t.TempDir()

	err := filepath.WalkDir(fixture, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(fixture, path)
		if err != nil {
			return err
		}

		target := filepath.Join(root, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		return os.WriteFile(target, data, 0o644)
	})
	require.NoError(t, err)

	return root
}

func readSource(t *testing.T, root, rel string) string {
	t.Helper()

	data, err := os.ReadFile(filepath.Join(root, "src", "main", "java", filepath.FromSlash(rel)))
	require.NoError(t, err)

	return string(data)
}

// buildProgram discovers and parses the repository at root with the default layout.
func buildProgram(t *testing.T, root string) *m.Program {
	t.Helper()

	ctx := context.Background()
	fsAdapter := adapter.NewLocalSourceFSAdapter()

	discovery, err := NewDiscovery(fsAdapter, m.DefaultLayout())
	require.NoError(t, err)

	files, err := discovery.Discover(ctx, m.Path(root))
	require.NoError(t, err)

	program, err := NewBuilder(fsAdapter, adapter.NewLocalJavaFileAdapter()).Build(ctx, discovery.SourceDir(ctx, m.Path(root)), files)
	require.NoError(t, err)

	return program
}

func newTestConverter(t *testing.T) Converter {
	t.Helper()

	converter, err := NewConverter(adapter.NewLocalSourceFSAdapter(), adapter.NewLocalJavaFileAdapter(), DefaultSettings())
	require.NoError(t, err)

	return converter
}
