// Package controller provides output adapters for displaying redaction plans
// and conversion results.
package controller

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	m "algomate.dev/pkg/algomate/internal/model"
)

// StartMode defines the mode of operation for the UI.
type StartMode int

// Available StartMode values.
const (
	ModePlan StartMode = iota
	ModeConvert
)

// StartOption is a functional option for Start method.
type StartOption func(*StartConfig)

// StartConfig holds configuration for starting the UI.
type StartConfig struct {
	mode StartMode
}

// WithPlanMode sets the UI to plan display mode.
func WithPlanMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModePlan
	}
}

// WithConvertMode sets the UI to conversion mode.
func WithConvertMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeConvert
	}
}

// UI defines the interface for presenting plans and conversion results.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	Start(ctx context.Context, options ...StartOption) error
	Close(ctx context.Context)
	Wait(ctx context.Context) // Wait for UI to finish (user closes it)
	DisplayPlan(ctx context.Context, report m.Report) error
	DisplayConversion(ctx context.Context, report m.Report) error
	DisplayDiff(ctx context.Context, path m.Path, diff string)
	DisplayFailure(ctx context.Context, root m.Path, err error)
}

// NewUI picks the interactive UI for terminals and the plain one otherwise.
func NewUI(cmd *cobra.Command, isTTY bool) UI {
	if isTTY {
		return NewTUI(cmd)
	}

	return NewSimpleUI(cmd)
}

// IsTTY reports whether f is attached to a terminal.
func IsTTY(f *os.File) bool {
	if f == nil {
		return false
	}

	return term.IsTerminal(int(f.Fd()))
}

func newStartConfig(options []StartOption) StartConfig {
	cfg := StartConfig{mode: ModeConvert}
	for _, option := range options {
		option(&cfg)
	}

	return cfg
}
