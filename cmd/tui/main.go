package main

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/reconciler/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/reconciler/internal/app"
	"github.com/MrJamesThe3rd/reconciler/internal/config"
	"github.com/MrJamesThe3rd/reconciler/internal/logger"
)

type model struct {
	runner    app.Runner
	outputDir string

	currentView View
	runView     view.RunModel
}

type View int

const (
	ViewMenu View = 0
	ViewRun  View = 1
)

func initialModel(runner app.Runner, outputDir string) model {
	return model{
		runner:      runner,
		outputDir:   outputDir,
		currentView: ViewMenu,
		runView:     view.NewRunModel(runner, outputDir),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewRun
				m.runView = view.NewRunModel(m.runner, m.outputDir)

				return m, m.runView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	if m.currentView == ViewRun {
		var newModel tea.Model
		newModel, cmd = m.runView.Update(msg)
		m.runView = newModel.(view.RunModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Negative Invoice Reconciler\n\n" +
				"1. Run Reconciliation\n\n" +
				"q. Quit",
		)
	case ViewRun:
		return lipgloss.NewStyle().Padding(0, 0, 1).Render(m.runView.Title()) + "\n" +
			m.runView.View() + "\n" +
			lipgloss.NewStyle().Faint(true).Render(m.runView.ShortHelp())
	}

	return "Unknown View"
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load("")
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	// The terminal belongs to the TUI, so logs only go to the configured file.
	log, closer, err := logger.New(logger.Config{
		ConsoleLevel: cfg.Settings.LogConsoleLevel,
		FileLevel:    cfg.Settings.LogFileLevel,
		File:         cfg.Settings.LogFile,
		Console:      io.Discard,
	})
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx := context.Background()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	p := tea.NewProgram(initialModel(a, cfg.Settings.OutputDir))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}

	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
