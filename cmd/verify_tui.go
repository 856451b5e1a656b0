package cmd

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// VerifyModel controls the UI for the verify command.
type VerifyModel struct {
	spinner      spinner.Model
	progressChan <-chan VerifyProgressMsg

	// State
	status   string
	checking []string
	failures []string
	summary  string
	done     bool

	// Counters
	totalChecked int
	totalOK      int
	totalFailed  int
}

// initialVerifyModel renders progress read from progress until it is closed.
func initialVerifyModel(progress <-chan VerifyProgressMsg) VerifyModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return VerifyModel{
		spinner:      s,
		progressChan: progress,
		status:       "Initializing...",
	}
}

func (m VerifyModel) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.waitForActivity(),
	)
}

// verifyDoneMsg is sent once the progress channel is closed.
type verifyDoneMsg struct{}

func (m VerifyModel) waitForActivity() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-m.progressChan
		if !ok {
			return verifyDoneMsg{}
		}
		return msg
	}
}

func (m VerifyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.done {
			return m, tea.Quit
		}

	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case verifyDoneMsg:
		m.done = true
		m.status = "Finished"
		return m, tea.Quit

	case VerifyProgressMsg:
		switch msg.Type {
		case "status":
			m.status = msg.Message

		case "check":
			m.checking = append(m.checking, checkLabel(msg))

		case "result":
			m.removeFromChecking(checkLabel(msg))
			m.totalChecked++
			if msg.OK {
				m.totalOK++
			} else {
				m.totalFailed++
				m.failures = append(m.failures, fmt.Sprintf("%s (%s): %s", checkLabel(msg), statusText(msg.StatusCode), msg.URL))
			}
			m.status = fmt.Sprintf("Checked %d links, %d failed", m.totalChecked, m.totalFailed)

		case "summary":
			m.summary = msg.Message
		}

		return m, m.waitForActivity()
	}

	return m, nil
}

func checkLabel(msg VerifyProgressMsg) string {
	return fmt.Sprintf("%s [%s]", msg.Title, msg.Kind)
}

func (m *VerifyModel) removeFromChecking(name string) {
	for i, v := range m.checking {
		if v == name {
			m.checking = append(m.checking[:i], m.checking[i+1:]...)
			return
		}
	}
}

func (m VerifyModel) View() string {
	var symbol string
	if m.done {
		symbol = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render("✓")
	} else {
		symbol = m.spinner.View()
	}

	s := fmt.Sprintf("\n %s %s\n\n", symbol, m.status)

	if len(m.checking) > 0 && !m.done {
		s += lipgloss.NewStyle().Bold(true).Render("Checking:") + "\n"
		for _, c := range m.checking {
			s += fmt.Sprintf("  • %s\n", c)
		}
		s += "\n"
	}

	if len(m.failures) > 0 {
		s += lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Render("Failed:") + "\n"
		start := 0
		if len(m.failures) > 10 && !m.done {
			start = len(m.failures) - 10
		}
		for _, f := range m.failures[start:] {
			s += fmt.Sprintf("  • %s\n", f)
		}
		s += "\n"
	}

	if m.done {
		s += lipgloss.NewStyle().Bold(true).Render(m.summary) + "\n"
	}

	return s
}
