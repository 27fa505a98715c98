package controller

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "algomate.dev/pkg/algomate/internal/model"
)

// SimpleUI implements UI using cobra Command's output writer.
type SimpleUI struct {
	cmd  *cobra.Command
	mode StartMode
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Start initializes the UI.
func (s *SimpleUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mode = newStartConfig(options).mode

	return nil
}

// Close finalizes the UI.
func (s *SimpleUI) Close(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
}

// Wait blocks until the UI is closed (no-op for SimpleUI).
func (s *SimpleUI) Wait(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
}

// DisplayPlan prints the redaction plan of one repository.
func (s *SimpleUI) DisplayPlan(ctx context.Context, report m.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("Plan for %s\n%s", report.Root, renderPlanTable(report.Plan))

	return nil
}

// DisplayConversion prints what happened to every file of one repository.
func (s *SimpleUI) DisplayConversion(ctx context.Context, report m.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	header := "Converted"
	if report.DryRun {
		header = "Dry run of"
	}

	s.printf("%s %s\n%s", header, report.Root, renderFilesTable(report))

	return nil
}

// DisplayDiff prints a unified diff for one file.
func (s *SimpleUI) DisplayDiff(ctx context.Context, _ m.Path, diff string) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("%s\n", diff)
}

// DisplayFailure reports a failed run.
func (s *SimpleUI) DisplayFailure(ctx context.Context, root m.Path, err error) {
	if ctx.Err() != nil {
		return
	}

	s.printf("%s of %s failed: %v\n", modeVerb(s.mode), root, err)
}

func modeVerb(mode StartMode) string {
	if mode == ModePlan {
		return "planning"
	}

	return "conversion"
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}

// planRow is one line of the plan table.
type planRow struct {
	name    string
	status  string
	changes []string
}

func buildPlanRows(plan m.RedactionPlan) []planRow {
	rows := make([]planRow, 0, len(plan.Retained)+len(plan.Deleted))

	for _, retained := range plan.Retained {
		row := planRow{name: retained.Name, status: "kept"}

		for _, mutation := range retained.Mutations {
			row.changes = append(row.changes, formatMutation(mutation))
		}

		if len(row.changes) > 0 {
			row.status = "modified"
		}

		rows = append(rows, row)
	}

	for _, name := range plan.Deleted {
		rows = append(rows, planRow{name: name, status: "deleted"})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].name < rows[j].name
	})

	return rows
}

func formatMutation(mutation m.Mutation) string {
	if mutation.Label != "" {
		return fmt.Sprintf("%s %s [%s]", mutation.Kind, mutation.Target, mutation.Label)
	}

	return fmt.Sprintf("%s %s", mutation.Kind, mutation.Target)
}

func renderPlanTable(plan m.RedactionPlan) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Type", "Status", "Changes"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER, tablewriter.ALIGN_LEFT})

	for _, row := range buildPlanRows(plan) {
		table.Append([]string{row.name, row.status, strings.Join(row.changes, "\n")})
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Types %d", len(plan.Retained)+len(plan.Deleted)),
		fmt.Sprintf("%d deleted", len(plan.Deleted)),
		fmt.Sprintf("%d changes", plan.MutationCount()),
	})

	table.Render()

	return tableBuffer.String()
}

func renderFilesTable(report m.Report) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Path", "Action"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER})

	for _, file := range report.Files {
		action := string(file.Action)
		if file.Action == m.FileRewritten && !file.Changed() {
			action = "unchanged"
		}

		table.Append([]string{string(file.Path), action})
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Files %d", len(report.Files)),
		fmt.Sprintf("%d rewritten, %d deleted", report.Count(m.FileRewritten), report.Count(m.FileDeleted)),
	})

	table.Render()

	return tableBuffer.String()
}
