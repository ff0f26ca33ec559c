package tools

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/adk"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/compose"
)

// BookPageSummarizerPrompt is the instruction of the page summary sub-agent
const BookPageSummarizerPrompt = `
Role: Book Page Summarizer
You read book pages (Goodreads and similar) and report what a reader deciding on the book needs to know.

Workflow:
1. Fetch: call 'fetch_book_page' with format="markdown". If several URLs are given, fetch them all in ONE message.
2. Extract: title, author, series, page count, publication year, average rating, main genres, a short plot premise, and the tone of the top reviews.
3. Summarize using the format below.

Output Format:
**<Title>** by <Author>
- Rating / pages / year
- Genres
- Premise (two sentences at most, no spoilers)
- What readers say (one line)
**Source:** <URL>

Guidelines:
- Only report what the page says; leave out fields the page does not show
- Skip navigation, ads and sign-up prompts
- If the fetch fails, answer: "Unable to retrieve the book page."
`

// BookPageSummaryToolName is the name of the agent-as-tool.
const BookPageSummaryToolName = "summarize_book_page"

// NewBookPageSummaryAgent creates the sub-agent that fetches and digests book pages.
func NewBookPageSummaryAgent(ctx context.Context, chatModel model.ToolCallingChatModel) (adk.Agent, error) {
	agent, err := adk.NewChatModelAgent(ctx, &adk.ChatModelAgentConfig{
		Name:        BookPageSummaryToolName,
		Description: "Fetches a book page URL and returns a short structured summary of the book",
		Instruction: BookPageSummarizerPrompt,
		Model:       chatModel,
		ToolsConfig: adk.ToolsConfig{
			ToolsNodeConfig: compose.ToolsNodeConfig{
				Tools: []tool.BaseTool{
					GetFetchBookPageTool(),
				},
				ToolCallMiddlewares: []compose.ToolMiddleware{
					ErrorHandler(),
				},
			},
			EmitInternalEvents: true,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create page summary agent: %w", err)
	}
	return agent, nil
}

// GetBookPageSummaryTool wraps the summary agent as a tool (agent-as-tool).
func GetBookPageSummaryTool(ctx context.Context, chatModel model.ToolCallingChatModel) (tool.BaseTool, error) {
	agent, err := NewBookPageSummaryAgent(ctx, chatModel)
	if err != nil {
		return nil, err
	}
	return adk.NewAgentTool(ctx, agent), nil
}
