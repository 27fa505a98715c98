package domain

import (
	"context"
	"errors"
	"fmt"

	"algomate.dev/pkg/algomate/internal/adapter"
	m "algomate.dev/pkg/algomate/internal/model"
)

// Builder parses discovered files into one whole-program model.
type Builder struct {
	fs   adapter.SourceFSAdapter
	java adapter.JavaFileAdapter
}

// NewBuilder creates a Builder backed by the provided adapters.
func NewBuilder(fs adapter.SourceFSAdapter, java adapter.JavaFileAdapter) *Builder {
	return &Builder{fs: fs, java: java}
}

// Build parses every file and returns the program. It fails with a
// ConfigurationError when srcDir is not a directory and with a ParseError
// when any file is syntactically invalid; in both cases no model is returned.
func (b *Builder) Build(ctx context.Context, srcDir m.Path, files []m.SourceFile) (*m.Program, error) {
	info, err := b.fs.FileInfo(ctx, srcDir)
	if err != nil {
		return nil, &ConfigurationError{Root: srcDir, Err: err}
	}

	if !info.IsDir() {
		return nil, &ConfigurationError{Root: srcDir, Err: errors.New("not a directory")}
	}

	program := m.NewProgram(srcDir)
	program.Files = files

	var failures []m.SyntaxFailure

	declaredIn := make(map[string]m.Path)

	for _, file := range files {
		unit, err := b.java.Parse(ctx, file.Path, file.Content)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", file.Path, err)
		}

		if len(unit.Failures) > 0 {
			failures = append(failures, unit.Failures...)
			continue
		}

		program.Units[file.Path] = unit

		for _, decl := range unit.Types {
			if previous, ok := declaredIn[decl.Name]; ok {
				failures = append(failures, m.SyntaxFailure{
					Path:    file.Path,
					Line:    1,
					Column:  1,
					Message: fmt.Sprintf("type %s is already declared in %s", decl.Name, previous),
				})

				continue
			}

			declaredIn[decl.Name] = file.Path
			program.Types[decl.Name] = decl
		}
	}

	if len(failures) > 0 {
		return nil, &ParseError{Failures: failures}
	}

	return program, nil
}
