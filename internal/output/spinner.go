package output

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Spin runs fn while a spinner with message is shown on w. When w is not a
// terminal, or verbose output is on, fn runs without a spinner.
func Spin(w io.Writer, message string, fn func() error) error {
	if verboseMode || !isTerminal(w) {
		return fn()
	}

	p := tea.NewProgram(newSpinnerModel(message), tea.WithOutput(w), tea.WithInput(nil))
	exited := make(chan struct{})
	go func() {
		// A spinner that fails to start must not fail the work
		_, _ = p.Run()
		close(exited)
	}()

	err := fn()
	p.Send(spinnerDoneMsg{err: err})
	<-exited
	return err
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

type spinnerModel struct {
	spinner spinner.Model
	message string
	done    bool
	err     error
}

type spinnerDoneMsg struct {
	err error
}

func newSpinnerModel(message string) *spinnerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return &spinnerModel{spinner: s, message: message}
}

func (m *spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m *spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinnerDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	case spinner.TickMsg:
		if !m.done {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m *spinnerModel) View() string {
	if m.done {
		if m.err != nil {
			return errorStyle.Render("✗ "+m.message) + "\n"
		}
		return successStyle.Render("✓ "+m.message) + "\n"
	}
	return fmt.Sprintf("%s %s...", m.spinner.View(), m.message)
}
