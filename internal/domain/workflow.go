package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/sync/errgroup"

	"algomate.dev/pkg/algomate/internal/adapter"
	"algomate.dev/pkg/algomate/internal/controller"
	m "algomate.dev/pkg/algomate/internal/model"
)

// ConvertArgs holds the arguments of a conversion.
type ConvertArgs struct {
	Paths    []m.Path
	DryRun   bool
	Diff     bool
	Parallel int
}

// PlanArgs holds the arguments of a plan preview.
type PlanArgs struct {
	Path   m.Path
	Report m.Path
}

// Workflow is the host-facing entry point: it converts repositories and
// presents the outcome.
type Workflow interface {
	Convert(ctx context.Context, args ConvertArgs) error
	Plan(ctx context.Context, args PlanArgs) error
}

type workflow struct {
	adapter.ReportStore
	controller.UI
	Converter
}

// NewWorkflow creates a Workflow instance with the provided dependencies.
func NewWorkflow(reportStore adapter.ReportStore, ui controller.UI, converter Converter) Workflow {
	return &workflow{
		ReportStore: reportStore,
		UI:          ui,
		Converter:   converter,
	}
}

// Convert converts every repository. Distinct repositories may run in
// parallel, each in its own single-threaded run; naming the same repository
// twice is rejected before anything is touched.
func (w *workflow) Convert(ctx context.Context, args ConvertArgs) error {
	roots, err := uniqueRoots(args.Paths)
	if err != nil {
		return err
	}

	if err := w.Start(ctx, controller.WithConvertMode()); err != nil {
		slog.Error("Failed to start workflow UI", "error", err)
		return err
	}
	defer w.Close(ctx)

	reports := make([]m.Report, len(roots))
	failures := make([]error, len(roots))

	var group errgroup.Group
	if args.Parallel > 0 {
		group.SetLimit(args.Parallel)
	}

	for i, root := range roots {
		group.Go(func() error {
			slog.Debug("Converting repository", "root", root, "dry_run", args.DryRun)

			var report m.Report
			if args.DryRun {
				report, failures[i] = w.Converter.Plan(ctx, root)
			} else {
				report, failures[i] = w.Converter.Convert(ctx, root)
			}

			reports[i] = report

			return nil
		})
	}

	_ = group.Wait()

	var errs []error

	for i, root := range roots {
		if failures[i] != nil {
			slog.Error("Conversion failed", "root", root, "error", failures[i])
			w.DisplayFailure(ctx, root, failures[i])
			errs = append(errs, fmt.Errorf("convert %s: %w", root, failures[i]))

			continue
		}

		report := reports[i]
		slog.Info("Conversion finished",
			"root", root,
			"dry_run", report.DryRun,
			"rewritten", report.Count(m.FileRewritten),
			"deleted", report.Count(m.FileDeleted),
			"skipped", report.Count(m.FileSkipped),
		)

		if args.Diff {
			w.displayDiffs(ctx, report)
		}

		if err := w.DisplayConversion(ctx, report); err != nil {
			return fmt.Errorf("display: %w", err)
		}
	}

	return errors.Join(errs...)
}

// Plan computes the redaction plan of one repository without touching it,
// shows it, and optionally saves it as a report.
func (w *workflow) Plan(ctx context.Context, args PlanArgs) error {
	if err := w.Start(ctx, controller.WithPlanMode()); err != nil {
		slog.Error("Failed to start workflow UI", "error", err)
		return err
	}
	defer w.Close(ctx)

	report, err := w.Converter.Plan(ctx, args.Path)
	if err != nil {
		slog.Error("Planning failed", "root", args.Path, "error", err)
		w.DisplayFailure(ctx, args.Path, err)

		return fmt.Errorf("plan %s: %w", args.Path, err)
	}

	if args.Report != "" {
		if err := w.SaveReport(ctx, args.Report, report); err != nil {
			slog.Error("Failed to save report", "path", args.Report, "error", err)
			return fmt.Errorf("save report: %w", err)
		}

		slog.Info("Plan report saved", "path", args.Report)
	}

	if err := w.DisplayPlan(ctx, report); err != nil {
		return fmt.Errorf("display: %w", err)
	}

	w.Wait(ctx)

	return nil
}

func (w *workflow) displayDiffs(ctx context.Context, report m.Report) {
	for _, file := range report.Files {
		if !file.Changed() {
			continue
		}

		diff, err := UnifiedDiff(file)
		if err != nil {
			slog.Warn("Failed to compute diff", "path", file.Path, "error", err)
			continue
		}

		w.DisplayDiff(ctx, file.Path, diff)
	}
}

// UnifiedDiff renders the change of one file as a unified diff.
func UnifiedDiff(file m.FileResult) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(file.Before)),
		B:        difflib.SplitLines(string(file.After)),
		FromFile: string(file.Path),
		ToFile:   string(file.Path),
		Context:  3,
	}

	if file.Action == m.FileDeleted {
		diff.ToFile = "/dev/null"
	}

	return difflib.GetUnifiedDiffString(diff)
}

// uniqueRoots defaults to the working directory and rejects repeated roots.
func uniqueRoots(paths []m.Path) ([]m.Path, error) {
	if len(paths) == 0 {
		return []m.Path{"."}, nil
	}

	seen := make(map[string]m.Path, len(paths))
	roots := make([]m.Path, 0, len(paths))

	for _, path := range paths {
		key, err := filepath.Abs(string(path))
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", path, err)
		}

		if previous, ok := seen[key]; ok {
			return nil, fmt.Errorf("repository %s given twice (as %s and %s)", key, previous, path)
		}

		seen[key] = path
		roots = append(roots, path)
	}

	return roots, nil
}
