package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"bookwise/books"
	"bookwise/metrics"
)

const (
	// SearchBooksToolName is the genre + length search tool
	SearchBooksToolName = "search_books"
	// SearchBookByTitleToolName is the title lookup tool
	SearchBookByTitleToolName = "search_book_by_title"
)

// BookSearcher is the query surface the book tools need.
type BookSearcher interface {
	SearchByGenreAndLength(genre string, targetPages int) ([]books.Book, error)
	SearchByTitle(title string) ([]books.Record, error)
}

// SearchBooksParams defines the arguments for search_books.
type SearchBooksParams struct {
	Genre    string `json:"genre"`
	PgNumber int    `json:"pg_number"`
}

// SearchByTitleParams defines the arguments for search_book_by_title.
type SearchByTitleParams struct {
	Title string `json:"title"`
}

const searchBooksDescription = `Search for books in a dataset by filtering on genre and approximate page count, returning the top 10 results sorted by rating.

PARAMETERS:
- genre (required): Book genre to filter by, in English (e.g. "romance", "fantasy"). Matched as a case-insensitive substring.
- pg_number (required): Approximate desired number of pages. Books within 20 pages either side are considered.

OUTPUT FORMAT:
A JSON array of up to 10 books with title, author, pages, genre, rating and desc, best rated first.
When more than 100 books match, only books rated above 4.0 are kept (if any).`

const searchBookByTitleDescription = `Search for a book by its title (case-insensitive, partial match). The title should be provided in English.

PARAMETERS:
- title (required): The book title to search for.

OUTPUT FORMAT:
A JSON array of every matching book with all dataset fields: author, bookformat, desc, genre, img, isbn, isbn13, link, pages, rating, reviews, title, totalratings. Missing values are null.`

var searchBooksSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "genre": {"type": "string", "description": "Book genre to filter by, e.g. romance, fantasy"},
    "pg_number": {"type": "integer", "description": "Approximate desired number of pages"}
  },
  "required": ["genre", "pg_number"]
}`)

var searchBookByTitleSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "title": {"type": "string", "description": "The book title to search for, in English"}
  },
  "required": ["title"]
}`)

// RegisterBookTools adds search_books and search_book_by_title backed by engine.
func RegisterBookTools(reg *Registry, engine BookSearcher) error {
	specs := []Spec{
		{
			Name:        SearchBooksToolName,
			Description: searchBooksDescription,
			Schema:      searchBooksSchema,
			Handler: func(ctx context.Context, args json.RawMessage) (any, error) {
				var params SearchBooksParams
				if err := json.Unmarshal(args, &params); err != nil {
					return nil, fmt.Errorf("%w for %s: %v", ErrInvalidArguments, SearchBooksToolName, err)
				}
				if err := ctx.Err(); err != nil {
					return nil, err
				}
				found, err := engine.SearchByGenreAndLength(params.Genre, params.PgNumber)
				if err != nil {
					return nil, err
				}
				metrics.ToolResultSize.WithLabelValues(SearchBooksToolName).Observe(float64(len(found)))
				return found, nil
			},
		},
		{
			Name:        SearchBookByTitleToolName,
			Description: searchBookByTitleDescription,
			Schema:      searchBookByTitleSchema,
			Handler: func(ctx context.Context, args json.RawMessage) (any, error) {
				var params SearchByTitleParams
				if err := json.Unmarshal(args, &params); err != nil {
					return nil, fmt.Errorf("%w for %s: %v", ErrInvalidArguments, SearchBookByTitleToolName, err)
				}
				if err := ctx.Err(); err != nil {
					return nil, err
				}
				found, err := engine.SearchByTitle(params.Title)
				if err != nil {
					return nil, err
				}
				metrics.ToolResultSize.WithLabelValues(SearchBookByTitleToolName).Observe(float64(len(found)))
				return found, nil
			},
		},
	}

	for _, spec := range specs {
		if err := reg.Register(spec); err != nil {
			return err
		}
	}
	return nil
}
