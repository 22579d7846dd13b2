package view

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/reconciler/internal/app"
	"github.com/MrJamesThe3rd/reconciler/internal/document"
	"github.com/MrJamesThe3rd/reconciler/internal/reconcile"
)

func TestTimeframePeriod(t *testing.T) {
	// A Wednesday.
	now := time.Date(2025, 7, 16, 15, 4, 5, 0, time.UTC)

	type testCase struct {
		name      string
		timeframe Timeframe
		want      string
		wantErr   bool
	}

	tests := []testCase{
		{name: "LastMonth", timeframe: TimeframeLastMonth, want: "2025-06-01_2025-06-30"},
		{name: "ThisMonth", timeframe: TimeframeThisMonth, want: "2025-07-01_2025-07-16"},
		{name: "LastWeek", timeframe: TimeframeLastWeek, want: "2025-07-07_2025-07-13"},
		{name: "ThisWeek", timeframe: TimeframeThisWeek, want: "2025-07-14_2025-07-16"},
		{name: "Custom", timeframe: TimeframeCustom, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := timeframePeriod(tt.timeframe, now)

			if tt.wantErr {
				assert.True(t, errors.Is(err, document.ErrInvalidRange))
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestTimeframePicker_Select(t *testing.T) {
	p := NewTimeframePicker()
	p.now = func() time.Time { return time.Date(2025, 7, 16, 0, 0, 0, 0, time.UTC) }

	p, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	msg, ok := cmd().(TimeframeSelectedMsg)
	require.True(t, ok)
	assert.Equal(t, "2025-06-01_2025-06-30", msg.Period.String())
	assert.True(t, p.IsSelecting())
}

func TestTimeframePicker_Custom(t *testing.T) {
	p := NewTimeframePicker()

	for range int(TimeframeCustom) {
		p, _ = p.Update(tea.KeyMsg{Type: tea.KeyDown})
	}

	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.False(t, p.IsSelecting())

	p.startInput.SetValue("2025-06-30")
	p.endInput.SetValue("2025-06-01")

	p, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Contains(t, p.View(), "Error:")

	p.endInput.SetValue("2025-07-15")

	_, cmd = p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, "2025-06-30_2025-07-15", cmd().(TimeframeSelectedMsg).Period.String())
}

type fakeRunner struct {
	gotPeriod document.Period
	gotDir    string
	outcome   *app.Outcome
	err       error
}

func (f *fakeRunner) Reconcile(_ context.Context, period document.Period, outputDir string) (*app.Outcome, error) {
	f.gotPeriod, f.gotDir = period, outputDir
	return f.outcome, f.err
}

func TestRunModel(t *testing.T) {
	period, err := document.ParsePeriod("2025-06-01", "2025-06-30")
	require.NoError(t, err)

	t.Run("Success", func(t *testing.T) {
		runner := &fakeRunner{outcome: &app.Outcome{
			Result: &reconcile.Result{
				Period:  period,
				Summary: reconcile.Summarize(2, nil),
			},
			Location: "reports/facturas_negativas.csv",
		}}

		m := NewRunModel(runner, "reports")

		model, _ := m.Update(TimeframeSelectedMsg{Period: period})
		m = model.(RunModel)
		assert.Equal(t, runStatePath, m.state)
		assert.Contains(t, m.View(), "2025-06-01_2025-06-30")

		msg := m.runCmd(period, "out")()
		assert.Equal(t, period, runner.gotPeriod)
		assert.Equal(t, "out", runner.gotDir)

		m.state = runStateRunning
		model, _ = m.Update(msg)
		m = model.(RunModel)

		assert.Equal(t, runStateResult, m.state)
		assert.Contains(t, m.View(), "reports/facturas_negativas.csv")
		assert.Contains(t, m.View(), "2 rows, 0 resolved, 2 dropped")
	})

	t.Run("Failure", func(t *testing.T) {
		m := NewRunModel(&fakeRunner{err: reconcile.ErrNoInvoices}, "reports")
		m.state = runStateRunning

		model, _ := m.Update(m.runCmd(period, "")())
		m = model.(RunModel)

		assert.Equal(t, runStateResult, m.state)
		assert.Contains(t, m.View(), "no negative invoices")
	})

	t.Run("EscGoesBack", func(t *testing.T) {
		m := NewRunModel(&fakeRunner{}, "reports")

		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
		require.NotNil(t, cmd)
		assert.Equal(t, BackMsg{}, cmd())
	})
}
