package domain

import (
	"fmt"
	"strings"

	m "algomate.dev/pkg/algomate/internal/model"
)

// ConfigurationError reports that the source root is missing or unusable.
// It is raised before any type content is read.
type ConfigurationError struct {
	Root m.Path
	Err  error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("source directory %s is not usable: %v", e.Root, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// ParseError reports every file that failed to parse. When it is returned no
// model exists.
type ParseError struct {
	Failures []m.SyntaxFailure
}

func (e *ParseError) Error() string {
	lines := make([]string, 0, len(e.Failures))
	for _, failure := range e.Failures {
		lines = append(lines, failure.String())
	}

	return fmt.Sprintf("%d syntax error(s):\n%s", len(e.Failures), strings.Join(lines, "\n"))
}

// EmissionError reports a failed write or delete. Files emitted before the
// failing one are not restored.
type EmissionError struct {
	Path m.Path
	Op   string
	Err  error
}

func (e *EmissionError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *EmissionError) Unwrap() error {
	return e.Err
}
