package agent

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudwego/eino/adk"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/compose"

	"bookwise/llm/tools"
)

// BookRecommenderPrompt is the instruction of the book recommendation agent
const BookRecommenderPrompt = `You are an agent who helps users find books based on their requests.
You can use tools to fetch book information.

Searching:
- Remember to translate the book genre to English before searching with search_books.
- Consider books with up to 130 pages as short books.
- Consider books with more than 400 pages as long books.
- For specific book information, pass the book title in English exactly as the user wrote it, using UTF-8 encoding, to search_book_by_title.
- If the user searches for books by a specific term, use the Apify goodreads-book-scraper tool (when available) and pass the search term in English.
- For details the dataset does not hold, use summarize_book_page or fetch_book_page on the book's link.

Answering:
- Choose the top 5 books based on user ratings when responding.
- For each book give the title, author, pages and rating, and one line on why it fits.
- If nothing matches, say so and suggest a nearby page count or a broader genre.
- Reply in the language the user wrote in.`

// DefaultMaxIterations bounds the ReAct loop of one turn
const DefaultMaxIterations = 20

// BookRecommenderConfig holds dependencies for the BookRecommender agent.
type BookRecommenderConfig struct {
	ChatModel     model.ToolCallingChatModel
	Tools         []tool.BaseTool
	MaxIterations int
}

// NewBookRecommenderAgent creates the BookRecommender agent.
func NewBookRecommenderAgent(ctx context.Context, config *BookRecommenderConfig) (adk.Agent, error) {
	if config == nil {
		return nil, errors.New("config is nil")
	}
	if config.ChatModel == nil {
		return nil, errors.New("chat model is nil")
	}
	maxIter := config.MaxIterations
	if maxIter <= 0 {
		maxIter = DefaultMaxIterations
	}

	agent, err := adk.NewChatModelAgent(ctx, &adk.ChatModelAgentConfig{
		Name:        "BookRecommender",
		Description: "Recommends books from a Goodreads dataset by genre, length and title.",
		Instruction: BookRecommenderPrompt,
		Model:       config.ChatModel,
		ToolsConfig: adk.ToolsConfig{
			ToolsNodeConfig: compose.ToolsNodeConfig{
				Tools: config.Tools,
				ToolCallMiddlewares: []compose.ToolMiddleware{
					tools.ErrorHandler(),
				},
			},
		},
		MaxIterations: maxIter,
	})
	if err != nil {
		return nil, fmt.Errorf("create BookRecommender agent: %w", err)
	}
	return agent, nil
}
