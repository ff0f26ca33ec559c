package chat

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/cloudwego/eino/adk"

	"bookwise/llm/agent"
	"bookwise/logger"
	"bookwise/pubsub"
	"bookwise/tui/component"
)

// brokerClosedMsg is sent once the runtime's broker shuts down.
type brokerClosedMsg struct{}

// Model is the chat screen: message list, status bar and prompt input.
type Model struct {
	list   component.ListModel
	edit   component.EditModel
	status component.StatusModel

	runtime *agent.Runtime
	sub     <-chan pubsub.Event[adk.Message]
	ctx     context.Context

	width  int
	height int
}

// InitialModel subscribes to the runtime and builds the screen.
func InitialModel(ctx context.Context, runtime *agent.Runtime) Model {
	sub := runtime.Broker().Subscribe(ctx)

	return Model{
		list:    component.NewListModel(),
		edit:    component.NewEditModel(),
		status:  component.NewStatusModel(),
		runtime: runtime,
		sub:     sub,
		ctx:     ctx,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.list.Init(),
		m.edit.Init(),
		m.status.Init(),
		m.waitForAgentMessage(),
	)
}

func (m Model) waitForAgentMessage() tea.Cmd {
	return func() tea.Msg {
		event, ok := <-m.sub
		if !ok {
			return brokerClosedMsg{}
		}
		return event
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		statusHeight := lipgloss.Height(m.status.View())
		editHeight := m.edit.Height()
		listHeight := m.height - statusHeight - editHeight

		m.list.SetSize(m.width, listHeight)
		m.edit.SetWidth(m.width)
		m.status.SetWidth(m.width)

	case component.EditorSubmitMsg:
		if m.status.Running() {
			// one turn at a time; keep the text for later
			m.edit.SetValue(msg.Value)
			return m, nil
		}
		runtime, ctx := m.runtime, m.ctx
		go func() {
			// failures are published as a system message
			if _, err := runtime.Run(msg.Value); err != nil {
				logger.For(ctx).WithError(err).Debug("turn failed")
			}
		}()

	case pubsub.Event[adk.Message]:
		cmds = append(cmds, m.waitForAgentMessage())

	case brokerClosedMsg:
		return m, tea.Quit

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd

	m.list, cmd = m.list.Update(msg)
	cmds = append(cmds, cmd)

	m.edit, cmd = m.edit.Update(msg)
	cmds = append(cmds, cmd)

	m.status, cmd = m.status.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.list.View(),
		m.status.View(),
		m.edit.View(),
	)
}
