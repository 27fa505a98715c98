package domain

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"algomate.dev/pkg/algomate/internal/adapter"
	m "algomate.dev/pkg/algomate/internal/model"
)

// Discovery finds the source files of a repository and derives their
// qualified names.
type Discovery struct {
	fs          adapter.SourceFSAdapter
	layout      m.Layout
	packageRoot *regexp.Regexp
}

// NewDiscovery validates the layout's package root pattern and returns a Discovery.
func NewDiscovery(fs adapter.SourceFSAdapter, layout m.Layout) (*Discovery, error) {
	pattern, err := regexp.Compile(layout.PackageRoot)
	if err != nil {
		return nil, fmt.Errorf("invalid package root pattern %q: %w", layout.PackageRoot, err)
	}

	return &Discovery{fs: fs, layout: layout, packageRoot: pattern}, nil
}

// SourceDir returns the source directory of the repository at root.
func (d *Discovery) SourceDir(ctx context.Context, root m.Path) m.Path {
	return d.fs.JoinPath(ctx, string(root), filepath.FromSlash(d.layout.SourceDir))
}

// Discover lists and reads every source file below the repository's source
// directory, sorted by path. A missing source directory yields no files; the
// model builder is the one that rejects it.
func (d *Discovery) Discover(ctx context.Context, root m.Path) ([]m.SourceFile, error) {
	srcDir := d.SourceDir(ctx, root)

	var paths []string

	err := d.fs.Walk(ctx, srcDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if path == string(srcDir) {
				return filepath.SkipDir
			}

			return err
		}

		if info.Mode().IsRegular() && strings.HasSuffix(path, d.layout.Extension) {
			paths = append(paths, path)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", srcDir, err)
	}

	sort.Strings(paths)

	files := make([]m.SourceFile, 0, len(paths))

	for _, path := range paths {
		content, err := d.fs.ReadFile(ctx, m.Path(path))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}

		rel, err := d.fs.RelPath(ctx, srcDir, m.Path(path))
		if err != nil {
			return nil, fmt.Errorf("relative path of %s: %w", path, err)
		}

		files = append(files, m.SourceFile{
			Path:          m.Path(path),
			QualifiedName: d.QualifiedName(rel),
			Content:       content,
		})
	}

	return files, nil
}

// QualifiedName derives a qualified type name from a path relative to the
// source directory: segments before the first package-root segment are
// dropped, the rest are joined with dots and the extension is stripped. When
// no segment matches, the whole relative path is used.
func (d *Discovery) QualifiedName(rel m.Path) string {
	segments := strings.Split(filepath.ToSlash(string(rel)), "/")

	for i, segment := range segments {
		if d.packageRoot.MatchString(segment) {
			segments = segments[i:]
			break
		}
	}

	name := strings.Join(segments, ".")

	return strings.TrimSuffix(name, d.layout.Extension)
}
