package view

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/reconciler/internal/app"
	"github.com/MrJamesThe3rd/reconciler/internal/document"
)

type runState int

const (
	runStateTimeframe runState = iota
	runStatePath
	runStateRunning
	runStateResult
)

// RunModel picks a billing period and output directory, then runs one reconciliation.
type RunModel struct {
	CommonModel
	runner app.Runner

	state           runState
	err             error
	timeframePicker TimeframePicker
	period          document.Period

	form    *huh.Form
	path    string
	spinner spinner.Model
	outcome *app.Outcome
}

// NewRunModel starts with outputDir prefilled in the path form.
func NewRunModel(runner app.Runner, outputDir string) RunModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return RunModel{
		runner:          runner,
		state:           runStateTimeframe,
		timeframePicker: NewTimeframePicker(),
		path:            outputDir,
		spinner:         s,
	}
}

func (m RunModel) Title() string { return "Reconcile Negative Invoices" }

func (m RunModel) ShortHelp() string {
	switch m.state {
	case runStateResult:
		return "Esc: back to menu"
	case runStateRunning:
		return "Reconciling..."
	}
	return "Esc: back | Enter: confirm"
}

func (m RunModel) Init() tea.Cmd {
	return nil
}

func (m RunModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.resize(msg)

	if tfMsg, ok := msg.(TimeframeSelectedMsg); ok {
		m.period = tfMsg.Period
		m.form = m.buildPathForm()
		m.state = runStatePath
		return m, m.form.Init()
	}

	switch m.state {
	case runStateTimeframe:
		return m.updateTimeframe(msg)
	case runStatePath:
		return m.updatePath(msg)
	case runStateRunning:
		return m.updateRunning(msg)
	case runStateResult:
		return m.updateResult(msg)
	}

	return m, nil
}

func (m RunModel) updateTimeframe(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc && m.timeframePicker.IsSelecting() {
			return m, Back
		}
	}

	var cmd tea.Cmd
	m.timeframePicker, cmd = m.timeframePicker.Update(msg)
	return m, cmd
}

func (m RunModel) updatePath(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = runStateTimeframe
			m.timeframePicker.Reset()
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = runStateRunning
	m.err = nil
	return m, tea.Batch(m.spinner.Tick, m.runCmd(m.period, m.form.GetString("path")))
}

func (m RunModel) updateRunning(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(runResultMsg); ok {
		m.state = runStateResult
		m.outcome, m.err = result.outcome, result.err
		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m RunModel) updateResult(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			return m, Back
		}
	}
	return m, nil
}

func (m RunModel) buildPathForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("path").
				Title("Output Directory").
				Description("Directory will be created if it doesn't exist").
				Placeholder("./reports").
				Value(&m.path),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m RunModel) View() string {
	switch m.state {
	case runStateTimeframe:
		return lipgloss.NewStyle().Padding(1).Render(m.timeframePicker.View())

	case runStatePath:
		return lipgloss.NewStyle().Padding(1).Render(
			lipgloss.JoinVertical(lipgloss.Left, "Period: "+m.period.String(), "", m.form.View()),
		)

	case runStateRunning:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("%s Reconciling negative invoices for %s...", m.spinner.View(), m.period),
		)

	case runStateResult:
		return m.viewResult()
	}

	return ""
}

func (m RunModel) viewResult() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(1).Render(
			lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(fmt.Sprintf("Error: %v", m.err)),
		)
	}

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("46")).
		Render("Reconciliation Complete!")

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header,
			"",
			"Run:    "+m.outcome.RunID.String(),
			"Period: "+m.outcome.Period.String(),
			"Report: "+m.outcome.Location,
			"",
			"Summary:",
			"",
			m.outcome.Summary.String(),
		),
	)
}

type runResultMsg struct {
	outcome *app.Outcome
	err     error
}

const runTimeout = 30 * time.Minute

func (m RunModel) runCmd(period document.Period, path string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()

		outcome, err := m.runner.Reconcile(ctx, period, path)
		return runResultMsg{outcome: outcome, err: err}
	}
}
