package domain

import (
	"context"

	"algomate.dev/pkg/algomate/internal/adapter"
	m "algomate.dev/pkg/algomate/internal/model"
)

// Emitter applies rendered results to the filesystem.
type Emitter struct {
	fs adapter.SourceFSAdapter
}

// NewEmitter creates an Emitter writing through fs.
func NewEmitter(fs adapter.SourceFSAdapter) *Emitter {
	return &Emitter{fs: fs}
}

// Emit overwrites rewritten files and removes deleted ones, in order. The
// first failure stops emission; files handled before it stay as written.
func (e *Emitter) Emit(ctx context.Context, results []m.FileResult) error {
	for _, result := range results {
		switch result.Action {
		case m.FileRewritten:
			info, err := e.fs.FileInfo(ctx, result.Path)
			if err != nil {
				return &EmissionError{Path: result.Path, Op: "stat", Err: err}
			}

			if err := e.fs.WriteFile(ctx, result.Path, result.After, info.Mode().Perm()); err != nil {
				return &EmissionError{Path: result.Path, Op: "write", Err: err}
			}
		case m.FileDeleted:
			if err := e.fs.Remove(ctx, result.Path); err != nil {
				return &EmissionError{Path: result.Path, Op: "delete", Err: err}
			}
		case m.FileSkipped:
		}
	}

	return nil
}
