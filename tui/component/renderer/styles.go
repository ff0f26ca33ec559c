package renderer

import (
	"github.com/charmbracelet/lipgloss"
)

// MessageStyles configures message rendering.
type MessageStyles struct {
	// roles
	User      lipgloss.Style
	Assistant lipgloss.Style
	System    lipgloss.Style
	Tool      lipgloss.Style
	Thinking  lipgloss.Style

	// tool calls
	ToolName   lipgloss.Style
	ToolBorder lipgloss.Style
	Indent     lipgloss.Style
	Arguments  lipgloss.Style
	Result     lipgloss.Style
	Error      lipgloss.Style

	// book lists
	BookTitle lipgloss.Style
	Rating    lipgloss.Style
	Muted     lipgloss.Style
}

// DefaultMessageStyles returns the default palette.
func DefaultMessageStyles() *MessageStyles {
	return &MessageStyles{
		User:       lipgloss.NewStyle().Foreground(lipgloss.Color("#7dcfff")).Bold(true),
		Assistant:  lipgloss.NewStyle().Foreground(lipgloss.Color("#bb9af7")).Bold(true),
		System:     lipgloss.NewStyle().Foreground(lipgloss.Color("#565f89")).Italic(true),
		Tool:       lipgloss.NewStyle().Foreground(lipgloss.Color("#9ece6a")),
		Thinking:   lipgloss.NewStyle().Foreground(lipgloss.Color("#6272a4")).Italic(true),
		ToolName:   lipgloss.NewStyle().Foreground(lipgloss.Color("#e0af68")).Bold(true),
		ToolBorder: lipgloss.NewStyle().Foreground(lipgloss.Color("#565f89")).Faint(true),
		Indent:     lipgloss.NewStyle().PaddingLeft(2),
		Arguments:  lipgloss.NewStyle().Foreground(lipgloss.Color("#7dcfff")),
		Result:     lipgloss.NewStyle().Foreground(lipgloss.Color("#c0caf5")),
		Error:      lipgloss.NewStyle().Foreground(lipgloss.Color("#f7768e")),
		BookTitle:  lipgloss.NewStyle().Foreground(lipgloss.Color("#c0caf5")).Bold(true),
		Rating:     lipgloss.NewStyle().Foreground(lipgloss.Color("#e0af68")),
		Muted:      lipgloss.NewStyle().Foreground(lipgloss.Color("#a9b1d6")),
	}
}

// PlainStyles renders without colors or padding, for tests and dumb terminals.
func PlainStyles() *MessageStyles {
	p := lipgloss.NewStyle()
	return &MessageStyles{
		User: p, Assistant: p, System: p, Tool: p, Thinking: p,
		ToolName: p, ToolBorder: p, Indent: p, Arguments: p, Result: p, Error: p,
		BookTitle: p, Rating: p, Muted: p,
	}
}
