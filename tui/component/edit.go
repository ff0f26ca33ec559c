package component

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// EditorSubmitMsg is sent when the user submits a prompt.
type EditorSubmitMsg struct {
	Value string
}

// EditModel wraps the single line prompt input.
type EditModel struct {
	textarea textarea.Model
	width    int
}

// NewEditModel creates a focused input.
func NewEditModel() EditModel {
	ta := textarea.New()
	ta.Placeholder = "I want a short romance novel..."
	ta.Focus()

	ta.Prompt = "> "
	ta.CharLimit = 280
	ta.SetWidth(30)
	ta.SetHeight(1)
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.ShowLineNumbers = false

	// Enter submits
	ta.KeyMap.InsertNewline.SetEnabled(false)

	return EditModel{
		textarea: ta,
		width:    30,
	}
}

func (m EditModel) Init() tea.Cmd {
	return textarea.Blink
}

func (m EditModel) Update(msg tea.Msg) (EditModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEnter {
		value := strings.TrimSpace(m.textarea.Value())
		if value == "" {
			return m, nil
		}
		m.textarea.Reset()
		return m, func() tea.Msg {
			return EditorSubmitMsg{Value: value}
		}
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

func (m EditModel) View() string {
	return m.textarea.View()
}

// SetWidth sets the input width.
func (m *EditModel) SetWidth(width int) {
	m.width = width
	m.textarea.SetWidth(width)
}

// SetValue replaces the input text.
func (m *EditModel) SetValue(s string) {
	m.textarea.SetValue(s)
}

// Height returns the input height in rows.
func (m EditModel) Height() int {
	return m.textarea.Height()
}
