// Package adapter contains infrastructure adapters for the algomate CLI.
package adapter

import (
	"context"
	"os"
	"path/filepath"

	m "algomate.dev/pkg/algomate/internal/model"
)

// SourceFSAdapter abstracts the filesystem operations the conversion pipeline
// relies on. It hides direct `os` access so the pipeline can be tested
// against failing or in-memory implementations.
//
//nolint:interfacebloat // A richer interface keeps pipeline logic decoupled from os/fs.
type SourceFSAdapter interface {
	// Walk recursively traverses root, calling fn for every entry.
	Walk(ctx context.Context, root m.Path, fn FilepathWalkFunc) error

	// ReadFile loads a file from disk and returns its contents.
	ReadFile(ctx context.Context, path m.Path) ([]byte, error)

	// FileInfo returns metadata for a path so callers can check existence or
	// distinguish between files and directories.
	FileInfo(ctx context.Context, path m.Path) (os.FileInfo, error)

	// WriteFile replaces the full contents of a file.
	WriteFile(ctx context.Context, path m.Path, content []byte, perm os.FileMode) error

	// Remove deletes a single file.
	Remove(ctx context.Context, path m.Path) error

	// RelPath returns the relative path from base to target.
	RelPath(ctx context.Context, base, target m.Path) (m.Path, error)

	// JoinPath joins path elements into a single path.
	JoinPath(ctx context.Context, elem ...string) m.Path
}

// FilepathWalkFunc mirrors the callback shape used by filepath.Walk. It is
// defined here to avoid leaking the standard-library type into the domain layer.
type FilepathWalkFunc func(path string, info os.FileInfo, err error) error

// LocalSourceFSAdapter is the os-backed SourceFSAdapter.
type LocalSourceFSAdapter struct{}

// NewLocalSourceFSAdapter constructs a LocalSourceFSAdapter instance ready to
// be wired into the workflow.
func NewLocalSourceFSAdapter() *LocalSourceFSAdapter {
	return &LocalSourceFSAdapter{}
}

// Walk iterates over every file and directory under root.
func (a *LocalSourceFSAdapter) Walk(ctx context.Context, root m.Path, fn FilepathWalkFunc) error {
	return filepath.Walk(string(root), func(path string, info os.FileInfo, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		return fn(path, info, err)
	})
}

// ReadFile loads file contents from disk.
func (a *LocalSourceFSAdapter) ReadFile(_ context.Context, path m.Path) ([]byte, error) {
	// #nosec G304 - path comes from walking the repository being converted
	return os.ReadFile(string(path))
}

// FileInfo returns os.FileInfo metadata for the given path.
func (a *LocalSourceFSAdapter) FileInfo(_ context.Context, path m.Path) (os.FileInfo, error) {
	return os.Stat(string(path))
}

// WriteFile writes content to a file with the given permissions.
func (a *LocalSourceFSAdapter) WriteFile(_ context.Context, path m.Path, content []byte, perm os.FileMode) error {
	return os.WriteFile(string(path), content, perm)
}

// Remove deletes the file at path.
func (a *LocalSourceFSAdapter) Remove(_ context.Context, path m.Path) error {
	return os.Remove(string(path))
}

// RelPath returns the relative path from base to target.
func (a *LocalSourceFSAdapter) RelPath(_ context.Context, base, target m.Path) (m.Path, error) {
	rel, err := filepath.Rel(string(base), string(target))
	if err != nil {
		return "", err
	}

	return m.Path(rel), nil
}

// JoinPath joins path elements into a single path.
func (a *LocalSourceFSAdapter) JoinPath(_ context.Context, elem ...string) m.Path {
	return m.Path(filepath.Join(elem...))
}
