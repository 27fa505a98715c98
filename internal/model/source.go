// Package model defines the data structures shared by the redaction pipeline.
package model

// Path represents a file system path.
type Path string

// SourceFile is a discovered source file. It is read once during discovery
// and never modified afterwards.
type SourceFile struct {
	Path          Path
	QualifiedName string
	Content       []byte
}

// Layout describes where sources live inside a repository and how their
// qualified names are derived from paths.
type Layout struct {
	// SourceDir is the source root relative to the repository root.
	SourceDir string
	// Extension selects the recognized source files, including the dot.
	Extension string
	// PackageRoot matches the first path segment that belongs to the
	// qualified name (e.g. "h09").
	PackageRoot string
}

// DefaultLayout returns the conventional exercise layout.
func DefaultLayout() Layout {
	return Layout{
		SourceDir:   "src/main/java",
		Extension:   ".java",
		PackageRoot: `^[a-zA-Z]\d{2}$`,
	}
}
