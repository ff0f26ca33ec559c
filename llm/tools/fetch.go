package tools

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"

	"bookwise/logger"
	"bookwise/metrics"
)

const (
	// FetchBookPageToolName is the name of the book page fetch tool
	FetchBookPageToolName = "fetch_book_page"

	// FetchTimeout bounds one page request
	FetchTimeout = 30 * time.Second
	// MaxPageSize is the maximum response size read (2MB)
	MaxPageSize = int64(2 * 1024 * 1024)
	// MaxPageChars caps the text handed back to the model
	MaxPageChars = 8000
)

// FetchBookPageParams defines the arguments for fetch_book_page.
type FetchBookPageParams struct {
	URL    string `json:"url" jsonschema:"description=The book page URL, usually the link field of a title search result. Must start with http:// or https://"`
	Format string `json:"format,omitempty" jsonschema:"description=Output format: markdown (default) or text,enum=markdown,enum=text"`
}

const fetchBookPageDescription = `Fetch a book's web page (e.g. its Goodreads link) and return the readable content.

WHEN TO USE:
- The user asks for details that are not in the dataset fields (reviews, series, editions)
- A title search result has a link and more context is needed

PARAMETERS:
- url (required): The page URL (must start with http:// or https://)
- format (optional): markdown (default) or text

OUTPUT FORMAT:
The main content of the page, truncated to 8000 characters.`

// FetchBookPage downloads a page and converts its body to markdown or text.
func FetchBookPage(ctx context.Context, params FetchBookPageParams) (string, error) {
	if params.URL == "" {
		return Error("url parameter is required")
	}
	if !strings.HasPrefix(params.URL, "http://") && !strings.HasPrefix(params.URL, "https://") {
		return Error("url must start with http:// or https://")
	}

	format := strings.ToLower(params.Format)
	if format == "" {
		format = "markdown"
	}
	if format != "markdown" && format != "text" {
		return Error("format must be one of: markdown, text")
	}

	ctx = logger.WithTool(ctx, FetchBookPageToolName)
	start := time.Now()
	var callErr error
	defer func() { metrics.ObserveToolCall(FetchBookPageToolName, start, callErr) }()

	client := &http.Client{Timeout: FetchTimeout}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, params.URL, nil)
	if err != nil {
		callErr = err
		return Error(fmt.Sprintf("failed to create request: %v", err))
	}
	req.Header.Set("User-Agent", "bookwise-fetch/1.0")

	resp, err := client.Do(req)
	if err != nil {
		callErr = err
		logger.For(ctx).WithError(err).Warn("fetch failed")
		return Error(fmt.Sprintf("failed to fetch URL: %v", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxPageSize))
	if err != nil {
		callErr = err
		return Error(fmt.Sprintf("failed to read response: %v", err))
	}

	content := string(body)
	if strings.Contains(resp.Header.Get("Content-Type"), "text/html") {
		if format == "markdown" {
			content, err = pageMarkdown(content)
		} else {
			content, err = pageText(content)
		}
		if err != nil {
			callErr = err
			return Error(fmt.Sprintf("failed to convert page: %v", err))
		}
	}

	if r := []rune(content); len(r) > MaxPageChars {
		content = string(r[:MaxPageChars]) + fmt.Sprintf("\n\n[Content truncated to %d characters]", MaxPageChars)
	}

	meta := &Metadata{
		URL:        params.URL,
		StatusCode: resp.StatusCode,
		Duration:   time.Since(start).Milliseconds(),
		ByteCount:  len(body),
	}
	if resp.StatusCode != http.StatusOK {
		return Partial(content, meta)
	}
	return Success(content, meta)
}

// mainSelection prefers the main content region and drops page chrome.
func mainSelection(html string) (*goquery.Selection, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}
	doc.Find("script, style, nav, header, footer, noscript").Remove()
	if main := doc.Find("main").First(); main.Length() > 0 {
		return main, nil
	}
	return doc.Find("body"), nil
}

func pageText(html string) (string, error) {
	sel, err := mainSelection(html)
	if err != nil {
		return "", err
	}
	return strings.Join(strings.Fields(sel.Text()), " "), nil
}

func pageMarkdown(html string) (string, error) {
	sel, err := mainSelection(html)
	if err != nil {
		return "", err
	}
	converter := md.NewConverter("", true, nil)
	markdown := converter.Convert(sel)

	// Clean up blank lines
	var lines []string
	for _, line := range strings.Split(markdown, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return strings.Join(lines, "\n"), nil
}

// GetFetchBookPageTool returns the fetch_book_page tool.
func GetFetchBookPageTool() tool.InvokableTool {
	t, err := utils.InferTool(
		FetchBookPageToolName,
		fetchBookPageDescription,
		FetchBookPage,
	)
	if err != nil {
		log.Fatalf("failed to create fetch_book_page tool: %v", err)
	}
	return t
}
