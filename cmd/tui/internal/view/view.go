package view

import (
	tea "github.com/charmbracelet/bubbletea"
)

// View is the interface that all TUI screens implement.
type View interface {
	tea.Model
	Title() string
	ShortHelp() string
}

// CommonModel is embedded by all views and tracks the terminal size.
type CommonModel struct {
	Width  int
	Height int
}

func (c *CommonModel) resize(msg tea.Msg) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		c.Width, c.Height = ws.Width, ws.Height
	}
}

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}
