// Package tui renders a live view of a resolution search in progress,
// driven by the same resolution.Progress callback the CLI's non-
// interactive path ignores.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/foltheorem/folprove/pkg/fol/resolution"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

// stepMsg reports one given-clause step; sent over a channel from the
// resolution goroutine to the bubbletea event loop.
type stepMsg struct {
	step    int
	pending int
	total   int
}

type doneMsg struct {
	result *resolution.Result
	err    error
}

// model is the bubbletea model for a live search view.
type model struct {
	description string
	budget      resolution.Budget
	started     time.Time

	step    int
	pending int
	total   int

	result *resolution.Result
	err    error
	done   bool

	bar     progress.Model
	updates <-chan stepMsg
	finish  <-chan doneMsg
}

// budgetRatio reports how much of the step budget has been consumed, for
// display in the progress bar. An unbounded budget (MaxSteps == 0) shows
// as a bar that fills with clause throughput instead of budget exhaustion.
func (m model) budgetRatio() float64 {
	if m.budget.MaxSteps > 0 {
		return min(1, float64(m.step)/float64(m.budget.MaxSteps))
	}
	if m.total == 0 {
		return 0
	}
	return min(1, float64(m.step)/float64(m.total))
}

func (m model) Init() tea.Cmd {
	return tea.Batch(waitForStep(m.updates), waitForDone(m.finish))
}

func waitForStep(ch <-chan stepMsg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}

func waitForDone(ch <-chan doneMsg) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}
	case stepMsg:
		m.step, m.pending, m.total = msg.step, msg.pending, msg.total
		return m, waitForStep(m.updates)
	case doneMsg:
		m.result, m.err, m.done = msg.result, msg.err, true
		return m, tea.Quit
	}
	return m, nil
}

func (m model) View() string {
	elapsed := time.Since(m.started).Round(time.Millisecond)
	header := titleStyle.Render(fmt.Sprintf("proving: %s", m.description))
	body := fmt.Sprintf("steps: %d   clauses: %d   pending: %d   elapsed: %s",
		m.step, m.total, m.pending, elapsed)
	bar := m.bar.ViewAs(m.budgetRatio())

	if m.done {
		if m.err != nil {
			return header + "\n" + body + "\n" + bar + "\n" + dimStyle.Render(fmt.Sprintf("error: %v", m.err)) + "\n"
		}
		if m.result != nil && m.result.Closed {
			return header + "\n" + body + "\n" + bar + "\n" + lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")).Render("proved") + "\n"
		}
		return header + "\n" + body + "\n" + bar + "\n" + lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")).Render("not proved") + "\n"
	}
	return header + "\n" + body + "\n" + bar + "\n" + dimStyle.Render("press q to stop watching (the search keeps running)") + "\n"
}

// Run drives search, a function that performs a resolution run while
// invoking the given resolution.Progress as it goes, in a bubbletea
// program that shows live progress until search completes or the user
// presses q or ctrl+c; quitting early closes the view and returns a nil
// result without stopping search.
func Run(description string, budget resolution.Budget, search func(resolution.Progress) (*resolution.Result, error)) (*resolution.Result, error) {
	updates := make(chan stepMsg, 64)
	finish := make(chan doneMsg, 1)

	go func() {
		result, err := search(func(step, pendingLen int, log []resolution.Record) {
			select {
			case updates <- stepMsg{step: step, pending: pendingLen, total: len(log)}:
			default:
			}
		})
		finish <- doneMsg{result: result, err: err}
		close(updates)
	}()

	m := model{
		description: description,
		budget:      budget,
		started:     time.Now(),
		bar:         progress.New(progress.WithDefaultGradient(), progress.WithWidth(30)),
		updates:     updates,
		finish:      finish,
	}
	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return nil, err
	}
	fm := final.(model)
	return fm.result, fm.err
}
