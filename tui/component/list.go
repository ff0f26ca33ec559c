package component

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/cloudwego/eino/adk"

	"bookwise/pubsub"
	"bookwise/tui/component/renderer"
)

// ListModel holds the conversation and its viewport; rendering is delegated
// to a MessageRenderer.
type ListModel struct {
	viewport viewport.Model
	messages []adk.Message
	renderer *renderer.MessageRenderer
	width    int
	height   int
}

// NewListModel creates the message list.
func NewListModel() ListModel {
	vp := viewport.New(30, 5)
	vp.SetContent(renderer.WelcomeText)

	return ListModel{
		viewport: vp,
		renderer: renderer.NewMessageRenderer(nil),
		width:    30,
		height:   5,
	}
}

func (m ListModel) Init() tea.Cmd {
	return nil
}

func (m ListModel) Update(msg tea.Msg) (ListModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.MouseMsg:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.viewport.ScrollUp(3)
		case tea.MouseButtonWheelDown:
			m.viewport.ScrollDown(3)
		}
	case pubsub.Event[adk.Message]:
		// updates are progress notes for the status bar
		if msg.Type == pubsub.CreatedEvent && msg.Payload != nil {
			m.messages = append(m.messages, msg.Payload)
			m.renderer.IndexMessage(msg.Payload)
			m.viewport.SetContent(m.renderer.RenderMessages(m.messages))
			m.viewport.GotoBottom()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m ListModel) View() string {
	return m.viewport.View()
}

// SetSize resizes the viewport and re-wraps the content.
func (m *ListModel) SetSize(width, height int) {
	if height < 1 {
		height = 1
	}
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
	m.renderer.SetViewportWidth(width)

	if len(m.messages) > 0 {
		m.viewport.SetContent(m.renderer.RenderMessages(m.messages))
	}
	m.viewport.GotoBottom()
}

// Len returns the number of messages shown.
func (m ListModel) Len() int {
	return len(m.messages)
}
