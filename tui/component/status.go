package component

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/cloudwego/eino/adk"

	"bookwise/pubsub"
)

const (
	statusReady   = "Ready"
	statusWorking = "Looking for books..."
)

// StatusModel shows a spinner while the agent works.
type StatusModel struct {
	spinner spinner.Model
	running bool
	text    string
	width   int
}

// NewStatusModel creates an idle status bar.
func NewStatusModel() StatusModel {
	s := spinner.New()
	s.Spinner = spinner.Jump
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return StatusModel{
		spinner: s,
		text:    statusReady,
	}
}

func (m StatusModel) Init() tea.Cmd {
	return nil
}

func (m StatusModel) Update(msg tea.Msg) (StatusModel, tea.Cmd) {
	if ev, ok := msg.(pubsub.Event[adk.Message]); ok {
		switch ev.Type {
		case pubsub.CreatedEvent:
			if !m.running {
				m.running = true
				m.text = statusWorking
				return m, m.spinner.Tick
			}
		case pubsub.UpdatedEvent:
			if ev.Payload != nil {
				m.text = ev.Payload.Content
			}
		case pubsub.FinishedEvent:
			m.running = false
			m.text = statusReady
			return m, nil
		}
	}

	if m.running {
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m StatusModel) View() string {
	style := lipgloss.NewStyle().Padding(1, 0)
	content := m.text
	if m.running {
		content = fmt.Sprintf("%s %s", m.spinner.View(), m.text)
	}
	return style.Render(content)
}

// SetWidth sets the bar width.
func (m *StatusModel) SetWidth(width int) {
	m.width = width
}

// Running reports whether a turn is in progress.
func (m StatusModel) Running() bool {
	return m.running
}

// Text returns the current status text.
func (m StatusModel) Text() string {
	return m.text
}
