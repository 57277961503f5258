package cli

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/exopredict/exopredict/internal/presenter"
)

type submissionDoneMsg struct{}

// pendingModel spins until done is closed or the operator presses ctrl+c
type pendingModel struct {
	spinner  spinner.Model
	label    string
	done     <-chan struct{}
	finished bool
	aborted  bool
}

func newPendingModel(label string, done <-chan struct{}) pendingModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(presenter.ColorAccent)

	return pendingModel{spinner: s, label: label, done: done}
}

func (m pendingModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitFor(m.done))
}

func waitFor(done <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-done
		return submissionDoneMsg{}
	}
}

func (m pendingModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case submissionDoneMsg:
		m.finished = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.aborted = true
			return m, tea.Quit
		}
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m pendingModel) View() string {
	if m.finished || m.aborted {
		return ""
	}
	return m.spinner.View() + " " + m.label + "\n"
}

// runSpinner blocks until done is closed. It reports false when the operator
// stopped waiting.
func runSpinner(label string, done <-chan struct{}) (bool, error) {
	final, err := tea.NewProgram(newPendingModel(label, done)).Run()
	if err != nil {
		return false, err
	}

	model, _ := final.(pendingModel)
	return !model.aborted, nil
}
