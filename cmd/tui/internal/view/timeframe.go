package view

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/reconciler/internal/document"
)

// Timeframe represents a predefined or custom billing window.
type Timeframe int

const (
	TimeframeLastMonth Timeframe = 0
	TimeframeThisMonth Timeframe = 1
	TimeframeLastWeek  Timeframe = 2
	TimeframeThisWeek  Timeframe = 3
	TimeframeCustom    Timeframe = 4
)

func (t Timeframe) String() string {
	switch t {
	case TimeframeLastMonth:
		return "Last Month"
	case TimeframeThisMonth:
		return "This Month"
	case TimeframeLastWeek:
		return "Last Week"
	case TimeframeThisWeek:
		return "This Week"
	case TimeframeCustom:
		return "Custom Range"
	}

	return "Unknown"
}

// timeframePeriod resolves a predefined timeframe relative to now. Weeks start on Monday.
func timeframePeriod(tf Timeframe, now time.Time) (document.Period, error) {
	offset := int(now.Weekday())
	if offset == 0 {
		offset = 7
	}

	switch tf {
	case TimeframeLastMonth:
		return document.PreviousMonth(now), nil
	case TimeframeThisMonth:
		return document.NewPeriod(time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), now)
	case TimeframeLastWeek:
		end := now.AddDate(0, 0, -offset)
		return document.NewPeriod(end.AddDate(0, 0, -6), end)
	case TimeframeThisWeek:
		return document.NewPeriod(now.AddDate(0, 0, -offset+1), now)
	}

	return document.Period{}, fmt.Errorf("%w: timeframe %s has no fixed bounds", document.ErrInvalidRange, tf)
}

// TimeframeSelectedMsg is emitted when the user has selected a valid period.
type TimeframeSelectedMsg struct {
	Period document.Period
}

type timeframeState int

const (
	timeframeStateSelect timeframeState = iota
	timeframeStateCustom
)

// TimeframePicker is a reusable component for selecting a billing period.
type TimeframePicker struct {
	state    timeframeState
	selected Timeframe
	now      func() time.Time

	startInput textinput.Model
	endInput   textinput.Model
	focusIndex int

	err error
}

func NewTimeframePicker() TimeframePicker {
	si := textinput.New()
	si.Placeholder = "YYYY-MM-DD"
	si.CharLimit = 10
	si.Width = 12
	si.Prompt = "Start Date: "

	ei := textinput.New()
	ei.Placeholder = "YYYY-MM-DD"
	ei.CharLimit = 10
	ei.Width = 12
	ei.Prompt = "End Date:   "

	return TimeframePicker{
		state:      timeframeStateSelect,
		selected:   TimeframeLastMonth,
		now:        time.Now,
		startInput: si,
		endInput:   ei,
	}
}

func (m TimeframePicker) Init() tea.Cmd {
	return nil
}

func (m TimeframePicker) Update(msg tea.Msg) (TimeframePicker, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch m.state {
		case timeframeStateSelect:
			return m.updateSelect(msg)
		case timeframeStateCustom:
			return m.updateCustom(msg)
		}
	}

	if m.state == timeframeStateCustom {
		return m.updateInputs(msg)
	}

	return m, nil
}

func (m TimeframePicker) updateSelect(msg tea.KeyMsg) (TimeframePicker, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		if m.selected > TimeframeLastMonth {
			m.selected--
		}
	case tea.KeyDown:
		if m.selected < TimeframeCustom {
			m.selected++
		}
	case tea.KeyEnter:
		if m.selected == TimeframeCustom {
			m.state = timeframeStateCustom
			m.startInput.Focus()
			m.focusIndex = 0
			return m, textinput.Blink
		}

		period, err := timeframePeriod(m.selected, m.now())
		if err != nil {
			m.err = err
			return m, nil
		}

		m.err = nil
		return m, selected(period)
	}

	return m, nil
}

func (m TimeframePicker) updateCustom(msg tea.KeyMsg) (TimeframePicker, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab":
		m.focusIndex = (m.focusIndex + 1) % 2
		m.startInput.Blur()
		m.endInput.Blur()
		if m.focusIndex == 0 {
			m.startInput.Focus()
			return m, textinput.Blink
		}
		m.endInput.Focus()
		return m, textinput.Blink

	case "enter":
		period, err := document.ParsePeriod(m.startInput.Value(), m.endInput.Value())
		if err != nil {
			m.err = err
			return m, nil
		}

		m.err = nil
		return m, selected(period)

	case "esc":
		m.state = timeframeStateSelect
		m.err = nil
		return m, nil
	}

	return m.updateInputs(msg)
}

func (m TimeframePicker) updateInputs(msg tea.Msg) (TimeframePicker, tea.Cmd) {
	var cmds []tea.Cmd
	var c tea.Cmd

	m.startInput, c = m.startInput.Update(msg)
	cmds = append(cmds, c)
	m.endInput, c = m.endInput.Update(msg)
	cmds = append(cmds, c)

	return m, tea.Batch(cmds...)
}

func selected(p document.Period) tea.Cmd {
	return func() tea.Msg {
		return TimeframeSelectedMsg{Period: p}
	}
}

func (m TimeframePicker) View() string {
	errStr := ""
	if m.err != nil {
		errStr = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(fmt.Sprintf("\n\nError: %v", m.err))
	}

	if m.state == timeframeStateCustom {
		return fmt.Sprintf(
			"Enter Custom Range:\n\n%s\n%s\n\n(Enter to confirm, Tab to switch, Esc to back)%s",
			m.startInput.View(),
			m.endInput.View(),
			errStr,
		)
	}

	s := "Select Billing Period:\n\n"
	for i := TimeframeLastMonth; i <= TimeframeCustom; i++ {
		cursor := " "
		if m.selected == i {
			cursor = ">"
		}
		s += fmt.Sprintf("%s %s\n", cursor, i.String())
	}
	s += "\n(Enter to select, Esc to back)"

	return s + errStr
}

// IsSelecting returns true if the picker is in the selection state (not custom input).
func (m TimeframePicker) IsSelecting() bool {
	return m.state == timeframeStateSelect
}

// Reset returns the picker to its initial selection state.
func (m *TimeframePicker) Reset() {
	m.state = timeframeStateSelect
	m.selected = TimeframeLastMonth
	m.err = nil
	m.startInput.SetValue("")
	m.endInput.SetValue("")
}
