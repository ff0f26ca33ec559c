package renderer

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"
)

// MaxListedBooks is how many books of a result are shown inline
const MaxListedBooks = 5

// tool names rendered as book lists
const (
	searchBooksTool   = "search_books"
	searchByTitleTool = "search_book_by_title"
)

// ToolRenderer renders a tool call together with its result.
type ToolRenderer struct {
	styles *MessageStyles
}

// NewToolRenderer creates a tool renderer.
func NewToolRenderer(styles *MessageStyles) *ToolRenderer {
	if styles == nil {
		styles = DefaultMessageStyles()
	}
	return &ToolRenderer{styles: styles}
}

// RenderToolCall renders one call. ok is false while the result is pending.
func (r *ToolRenderer) RenderToolCall(tc schema.ToolCall, index int, result string, ok bool) string {
	s := r.styles
	lines := []string{
		s.ToolBorder.Render("┌─ ") + s.ToolName.Render(fmt.Sprintf("#%d %s", index, tc.Function.Name)),
	}
	if args := oneLine(tc.Function.Arguments); args != "" && args != "{}" {
		lines = append(lines, s.ToolBorder.Render("│ ")+s.Arguments.Render(Truncate(args, 80)))
	}

	if !ok {
		lines = append(lines, s.ToolBorder.Render("└─ ")+s.System.Render("running..."))
		return strings.Join(lines, "\n")
	}

	text, isError := unwrapResult(result)
	if isError {
		lines = append(lines, s.ToolBorder.Render("└─ ")+s.Error.Render(Truncate(oneLine(text), 120)))
		return strings.Join(lines, "\n")
	}

	var body []string
	switch tc.Function.Name {
	case searchBooksTool:
		body = r.renderBooks(text)
	case searchByTitleTool:
		body = r.renderRecords(text)
	}
	if body == nil {
		body = []string{s.Result.Render(Truncate(oneLine(text), 150))}
	}

	for _, line := range body {
		lines = append(lines, s.ToolBorder.Render("│ ")+line)
	}
	lines = append(lines, s.ToolBorder.Render("└─"))
	return strings.Join(lines, "\n")
}

type bookRow struct {
	Title  string  `json:"title"`
	Author string  `json:"author"`
	Pages  int     `json:"pages"`
	Genre  string  `json:"genre"`
	Rating *float64 `json:"rating"`
}

// renderBooks renders a search_books result as a ranked list.
func (r *ToolRenderer) renderBooks(text string) []string {
	var rows []bookRow
	if err := json.Unmarshal([]byte(text), &rows); err != nil {
		return nil
	}
	if len(rows) == 0 {
		return []string{r.styles.Muted.Render("no matching books")}
	}

	lines := []string{r.styles.Muted.Render(fmt.Sprintf("%d books", len(rows)))}
	for i, b := range rows {
		if i == MaxListedBooks {
			lines = append(lines, r.styles.Muted.Render(fmt.Sprintf("… and %d more", len(rows)-i)))
			break
		}
		rating := r.styles.Muted.Render("unrated")
		if b.Rating != nil {
			rating = r.styles.Rating.Render(fmt.Sprintf("★ %.2f", *b.Rating))
		}
		lines = append(lines, fmt.Sprintf("%d. %s %s %s",
			i+1,
			r.styles.BookTitle.Render(Truncate(b.Title, 50)),
			r.styles.Muted.Render(fmt.Sprintf("by %s · %d pages ·", Truncate(b.Author, 30), b.Pages)),
			rating,
		))
	}
	return lines
}

// renderRecords renders a search_book_by_title result; values are raw strings or null.
func (r *ToolRenderer) renderRecords(text string) []string {
	var rows []map[string]any
	if err := json.Unmarshal([]byte(text), &rows); err != nil {
		return nil
	}
	if len(rows) == 0 {
		return []string{r.styles.Muted.Render("no book with that title")}
	}

	field := func(row map[string]any, key string) string {
		if v, ok := row[key].(string); ok {
			return v
		}
		return "?"
	}

	lines := []string{r.styles.Muted.Render(fmt.Sprintf("%d matches", len(rows)))}
	for i, row := range rows {
		if i == MaxListedBooks {
			lines = append(lines, r.styles.Muted.Render(fmt.Sprintf("… and %d more", len(rows)-i)))
			break
		}
		line := fmt.Sprintf("• %s %s %s",
			r.styles.BookTitle.Render(Truncate(field(row, "title"), 50)),
			r.styles.Muted.Render(fmt.Sprintf("by %s · %s pages ·", Truncate(field(row, "author"), 30), field(row, "pages"))),
			r.styles.Rating.Render("★ "+field(row, "rating")),
		)
		if link, ok := row["link"].(string); ok {
			line += " " + r.styles.Muted.Render(ShortenURL(link))
		}
		lines = append(lines, line)
	}
	return lines
}

// mcpResult is the shape of tool output relayed from an MCP server.
type mcpResult struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	IsError bool `json:"isError"`
}

// unwrapResult returns the text of a tool result and whether it is an error.
// MCP results arrive as a serialized CallToolResult; in-process results are
// the raw text.
func unwrapResult(result string) (string, bool) {
	trimmed := strings.TrimSpace(result)
	if strings.HasPrefix(trimmed, "Error:") || strings.HasPrefix(trimmed, "[ERROR]") {
		return trimmed, true
	}
	if !strings.HasPrefix(trimmed, "{") {
		return trimmed, false
	}

	var res mcpResult
	if err := json.Unmarshal([]byte(trimmed), &res); err != nil || len(res.Content) == 0 {
		return trimmed, false
	}
	var parts []string
	for _, c := range res.Content {
		if c.Type == "text" {
			parts = append(parts, c.Text)
		}
	}
	return strings.Join(parts, "\n"), res.IsError
}
