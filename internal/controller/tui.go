package controller

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	m "algomate.dev/pkg/algomate/internal/model"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	deletedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("160"))
	helpStyle    = lipgloss.NewStyle().Faint(true)
)

// TUI implements UI using Bubble Tea for plans that do not fit the terminal.
// Everything else is printed like SimpleUI.
type TUI struct {
	*SimpleUI
	output io.Writer
}

// NewTUI creates a new TUI.
func NewTUI(cmd *cobra.Command) *TUI {
	return &TUI{SimpleUI: NewSimpleUI(cmd), output: cmd.OutOrStdout()}
}

// DisplayPlan shows the plan, in a scrollable view when it is taller than the terminal.
func (p *TUI) DisplayPlan(ctx context.Context, report m.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	content := renderPlanView(report)

	width, height := 0, 0
	if f, ok := p.output.(*os.File); ok {
		if w, h, err := term.GetSize(int(f.Fd())); err == nil {
			width, height = w, h
		}
	}

	model := newPlanModel(report.Root, content, width, height)
	if !model.needsPagination() {
		_, err := fmt.Fprint(p.output, content)
		return err
	}

	program := tea.NewProgram(model, tea.WithOutput(p.output), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return err
	}

	return nil
}

func renderPlanView(report m.Report) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Redaction plan for %s", report.Root)))
	b.WriteString("\n\n")

	rows := buildPlanRows(report.Plan)
	if len(rows) == 0 {
		b.WriteString("  No types found\n")
		return b.String()
	}

	for _, row := range rows {
		line := fmt.Sprintf("  %-8s %s", row.status, row.name)
		if row.status == "deleted" {
			line = deletedStyle.Render(line)
		}

		b.WriteString(line + "\n")

		for _, change := range row.changes {
			fmt.Fprintf(&b, "           - %s\n", change)
		}
	}

	fmt.Fprintf(&b, "\n  %d retained, %d deleted, %d changes\n",
		len(report.Plan.Retained), len(report.Plan.Deleted), report.Plan.MutationCount())

	return b.String()
}

// planModel is the Bubble Tea model of the plan viewer.
type planModel struct {
	root     m.Path
	content  string
	viewport viewport.Model
	height   int
	quitting bool
}

// reservedLines are taken by the header and the help line.
const reservedLines = 3

func newPlanModel(root m.Path, content string, width, height int) planModel {
	vp := viewport.New(width, max(height-reservedLines, 1))
	vp.SetContent(content)

	return planModel{root: root, content: content, viewport: vp, height: height}
}

func (pm planModel) needsPagination() bool {
	if pm.height == 0 {
		return false
	}

	return lipgloss.Height(pm.content) > pm.height-reservedLines
}

func (pm planModel) Init() tea.Cmd {
	return nil
}

func (pm planModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		pm.height = msg.Height
		pm.viewport.Width = msg.Width
		pm.viewport.Height = max(msg.Height-reservedLines, 1)

		return pm, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			pm.quitting = true
			return pm, tea.Quit
		case "g", "home":
			pm.viewport.GotoTop()
			return pm, nil
		case "G", "end":
			pm.viewport.GotoBottom()
			return pm, nil
		}
	}

	var cmd tea.Cmd
	pm.viewport, cmd = pm.viewport.Update(msg)

	return pm, cmd
}

func (pm planModel) View() string {
	if pm.quitting {
		return ""
	}

	help := helpStyle.Render(fmt.Sprintf("  %3.0f%% | ↑/k: up | ↓/j: down | g: top | G: bottom | q: quit",
		pm.viewport.ScrollPercent()*100))

	return titleStyle.Render("algomate plan "+string(pm.root)) + "\n\n" + pm.viewport.View() + "\n" + help
}
