package domain

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"algomate.dev/pkg/algomate/internal/adapter"
	m "algomate.dev/pkg/algomate/internal/model"
)

var errDiskFull = errors.New("disk full")

// failingWriteFS refuses every write.
type failingWriteFS struct {
	*adapter.LocalSourceFSAdapter
}

func (failingWriteFS) WriteFile(context.Context, m.Path, []byte, os.FileMode) error {
	return errDiskFull
}

func TestEmitter_Emit(t *testing.T) {
	dir := t.TempDir()

	rewritten := filepath.Join(dir, "Kept.java")
	deleted := filepath.Join(dir, "Gone.java")
	skipped := filepath.Join(dir, "package-info.java")

	require.NoError(t, os.WriteFile(rewritten, []byte("old"), 0o600))
	require.NoError(t, os.WriteFile(deleted, []byte("gone"), 0o644))
	require.NoError(t, os.WriteFile(skipped, []byte("docs"), 0o644))

	err := NewEmitter(adapter.NewLocalSourceFSAdapter()).Emit(context.Background(), []m.FileResult{
		{Path: m.Path(rewritten), Action: m.FileRewritten, Before: []byte("old"), After: []byte("new")},
		{Path: m.Path(deleted), Action: m.FileDeleted, Before: []byte("gone")},
		{Path: m.Path(skipped), Action: m.FileSkipped, Before: []byte("docs"), After: []byte("ignored")},
	})
	require.NoError(t, err)

	content, err := os.ReadFile(rewritten)
	require.NoError(t, err)
	assert.Equal(t, "new", string(content))

	info, err := os.Stat(rewritten)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	_, err = os.Stat(deleted)
	assert.True(t, os.IsNotExist(err))

	content, err = os.ReadFile(skipped)
	require.NoError(t, err)
	assert.Equal(t, "docs", string(content))
}

func TestEmitter_EmitWriteFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Kept.java")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

	err := NewEmitter(failingWriteFS{adapter.NewLocalSourceFSAdapter()}).Emit(context.Background(), []m.FileResult{
		{Path: m.Path(path), Action: m.FileRewritten, After: []byte("new")},
	})

	var emitErr *EmissionError
	require.ErrorAs(t, err, &emitErr)
	assert.Equal(t, "write", emitErr.Op)
	assert.Equal(t, m.Path(path), emitErr.Path)
	assert.ErrorIs(t, err, errDiskFull)
}

func TestEmitter_EmitStopsAtFirstFailure(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "Missing.java")
	later := filepath.Join(dir, "Later.java")
	require.NoError(t, os.WriteFile(later, []byte("old"), 0o644))

	err := NewEmitter(adapter.NewLocalSourceFSAdapter()).Emit(context.Background(), []m.FileResult{
		{Path: m.Path(missing), Action: m.FileDeleted},
		{Path: m.Path(later), Action: m.FileRewritten, After: []byte("new")},
	})

	var emitErr *EmissionError
	require.ErrorAs(t, err, &emitErr)
	assert.Equal(t, "delete", emitErr.Op)

	content, err := os.ReadFile(later)
	require.NoError(t, err)
	assert.Equal(t, "old", string(content))
}
