package tui

import (
	"errors"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foltheorem/folprove/pkg/fol/resolution"
)

func newTestModel() model {
	return model{
		description: "Mortal(Socrates)",
		started:     time.Now(),
		bar:         progress.New(progress.WithDefaultGradient(), progress.WithWidth(30)),
	}
}

func TestUpdateStepMsgAdvancesCountersAndKeepsWaiting(t *testing.T) {
	m := newTestModel()
	next, cmd := m.Update(stepMsg{step: 3, pending: 2, total: 5})
	nm := next.(model)
	assert.Equal(t, 3, nm.step)
	assert.Equal(t, 2, nm.pending)
	assert.Equal(t, 5, nm.total)
	assert.NotNil(t, cmd)
}

func TestUpdateDoneMsgMarksDoneAndQuits(t *testing.T) {
	m := newTestModel()
	result := &resolution.Result{Closed: true, Steps: 4}
	next, cmd := m.Update(doneMsg{result: result, err: nil})
	nm := next.(model)
	assert.True(t, nm.done)
	assert.Same(t, result, nm.result)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestUpdateKeyMsgQuitsOnCtrlCOrQ(t *testing.T) {
	m := newTestModel()
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestUpdateUnrelatedKeyIsIgnored(t *testing.T) {
	m := newTestModel()
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	assert.Nil(t, cmd)
	assert.Equal(t, m, next)
}

func TestViewShowsProvedBanner(t *testing.T) {
	m := newTestModel()
	m.done = true
	m.result = &resolution.Result{Closed: true}
	assert.Contains(t, m.View(), "proved")
}

func TestViewShowsNotProvedBanner(t *testing.T) {
	m := newTestModel()
	m.done = true
	m.result = &resolution.Result{Closed: false}
	assert.Contains(t, m.View(), "not proved")
}

func TestViewShowsErrorWhenSearchFails(t *testing.T) {
	m := newTestModel()
	m.done = true
	m.err = errors.New("boom")
	assert.Contains(t, m.View(), "error: boom")
}

func TestViewWhileRunningShowsHint(t *testing.T) {
	m := newTestModel()
	assert.Contains(t, m.View(), "press q to stop watching")
}

func TestWaitForStepReturnsNilOnClosedChannel(t *testing.T) {
	ch := make(chan stepMsg)
	close(ch)
	msg := waitForStep(ch)()
	assert.Nil(t, msg)
}

func TestWaitForStepForwardsMessage(t *testing.T) {
	ch := make(chan stepMsg, 1)
	ch <- stepMsg{step: 1, pending: 2, total: 3}
	msg := waitForStep(ch)()
	assert.Equal(t, stepMsg{step: 1, pending: 2, total: 3}, msg)
}

func TestBudgetRatioUsesMaxStepsWhenBounded(t *testing.T) {
	m := newTestModel()
	m.budget = resolution.Budget{MaxSteps: 200}
	m.step = 50
	assert.InDelta(t, 0.25, m.budgetRatio(), 0.0001)
}

func TestBudgetRatioClampsAtOne(t *testing.T) {
	m := newTestModel()
	m.budget = resolution.Budget{MaxSteps: 10}
	m.step = 40
	assert.Equal(t, 1.0, m.budgetRatio())
}

func TestBudgetRatioFallsBackToClauseThroughputWhenUnbounded(t *testing.T) {
	m := newTestModel()
	m.step = 2
	m.total = 8
	assert.InDelta(t, 0.25, m.budgetRatio(), 0.0001)
}

func TestBudgetRatioIsZeroBeforeAnyClausesProcessed(t *testing.T) {
	m := newTestModel()
	assert.Equal(t, 0.0, m.budgetRatio())
}
