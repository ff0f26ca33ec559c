package renderer

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/cloudwego/eino/adk"
	"github.com/cloudwego/eino/schema"
)

// WelcomeText is shown before the first message.
const WelcomeText = "Ask for a book, e.g. 'I want a short romance novel'.\nPress Enter to send, Esc to quit."

// MessageRenderer renders the conversation. Tool messages are not shown on
// their own; their content is attached to the call that produced them.
type MessageRenderer struct {
	markdownRenderer *glamour.TermRenderer
	styles           *MessageStyles
	toolRenderer     *ToolRenderer
	toolResults      map[string]string // tool call id -> result
	renderedCache    []string
	viewportWidth    int
}

// NewMessageRenderer creates a renderer. A nil styles selects the defaults
// together with glamour's dracula markdown theme.
func NewMessageRenderer(styles *MessageStyles) *MessageRenderer {
	r := &MessageRenderer{
		styles:      styles,
		toolResults: make(map[string]string),
	}
	if styles == nil {
		r.styles = DefaultMessageStyles()
		r.markdownRenderer, _ = glamour.NewTermRenderer(
			glamour.WithStylePath("dracula"),
			glamour.WithWordWrap(0),
		)
	}
	r.toolRenderer = NewToolRenderer(r.styles)
	return r
}

// IndexMessage records tool results by call id.
func (r *MessageRenderer) IndexMessage(msg adk.Message) {
	if msg != nil && msg.Role == schema.Tool && msg.ToolCallID != "" {
		r.toolResults[msg.ToolCallID] = msg.Content
		// the call that owns this result may sit in the cache
		r.renderedCache = r.renderedCache[:0]
	}
}

// SetViewportWidth sets the wrap width.
func (r *MessageRenderer) SetViewportWidth(width int) {
	r.viewportWidth = width
}

// RenderMessages renders the whole conversation. Every message but the
// last is cached.
func (r *MessageRenderer) RenderMessages(messages []adk.Message) string {
	if len(messages) == 0 {
		return WelcomeText
	}
	if len(messages) < len(r.renderedCache) {
		r.renderedCache = r.renderedCache[:0]
	}
	for i := len(r.renderedCache); i < len(messages)-1; i++ {
		r.renderedCache = append(r.renderedCache, r.RenderMessage(messages[i]))
	}

	var sb strings.Builder
	for _, cached := range r.renderedCache {
		if cached != "" {
			sb.WriteString(cached)
			sb.WriteString("\n\n")
		}
	}
	sb.WriteString(r.RenderMessage(messages[len(messages)-1]))

	content := strings.TrimRight(sb.String(), "\n")
	if r.viewportWidth > 0 {
		return lipgloss.NewStyle().Width(r.viewportWidth).Render(content)
	}
	return content
}

// RenderMessage renders one message; tool messages render empty.
func (r *MessageRenderer) RenderMessage(msg adk.Message) string {
	if msg == nil {
		return ""
	}
	switch msg.Role {
	case schema.User:
		if msg.Content == "" {
			return ""
		}
		return r.styles.User.Render("You:") + " " + msg.Content
	case schema.Assistant:
		return r.renderAssistantMessage(msg)
	case schema.System:
		if msg.Content == "" {
			return ""
		}
		return r.styles.System.Render(msg.Content)
	}
	return ""
}

func (r *MessageRenderer) renderMarkdown(content string) string {
	if r.markdownRenderer == nil {
		return content
	}
	rendered, err := r.markdownRenderer.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimSpace(rendered)
}

func (r *MessageRenderer) renderAssistantMessage(msg adk.Message) string {
	var parts []string
	header := r.styles.Assistant.Render("Agent:")

	if msg.ReasoningContent != "" {
		parts = append(parts, r.styles.Thinking.Render("Thinking:")+"\n"+r.styles.Thinking.Render(msg.ReasoningContent))
	}
	if msg.Content != "" {
		parts = append(parts, header+"\n"+r.renderMarkdown(msg.Content))
	} else if len(msg.ToolCalls) > 0 {
		parts = append(parts, header)
	}

	for i, tc := range msg.ToolCalls {
		result, ok := r.toolResults[tc.ID]
		parts = append(parts, r.styles.Indent.Render(r.toolRenderer.RenderToolCall(tc, i+1, result, ok)))
	}

	return strings.Join(parts, "\n")
}
