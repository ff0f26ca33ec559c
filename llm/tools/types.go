package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/compose"
)

// ResultStatus represents the status of a tool execution
type ResultStatus string

const (
	StatusSuccess ResultStatus = "success"
	StatusError   ResultStatus = "error"
	StatusPartial ResultStatus = "partial" // non-200 page, content still returned
)

// Metadata describes a page fetch
type Metadata struct {
	URL        string `json:"url,omitempty"`
	StatusCode int    `json:"status_code,omitempty"`
	Duration   int64  `json:"duration_ms,omitempty"`
	ByteCount  int    `json:"byte_count,omitempty"`
}

// ToolResult represents a structured text tool response
type ToolResult struct {
	Status   ResultStatus `json:"status"`
	Content  string       `json:"content"`
	Metadata *Metadata    `json:"metadata,omitempty"`
}

// String returns the formatted string representation for LLM consumption
func (r *ToolResult) String() string {
	var sb strings.Builder

	switch r.Status {
	case StatusError:
		sb.WriteString("[ERROR] ")
	case StatusPartial:
		sb.WriteString("[PARTIAL] ")
	}

	sb.WriteString(r.Content)

	if r.Metadata != nil {
		md := r.Metadata
		var attrs []string

		if md.URL != "" {
			attrs = append(attrs, fmt.Sprintf("url=%s", md.URL))
		}
		if md.StatusCode > 0 {
			attrs = append(attrs, fmt.Sprintf("status=%d", md.StatusCode))
		}
		if md.Duration > 0 {
			attrs = append(attrs, fmt.Sprintf("duration=%dms", md.Duration))
		}
		if md.ByteCount > 0 {
			attrs = append(attrs, fmt.Sprintf("bytes=%d", md.ByteCount))
		}

		if len(attrs) > 0 {
			sb.WriteString(fmt.Sprintf("\n\n<metadata %s />", strings.Join(attrs, " ")))
		}
	}

	return sb.String()
}

// Success creates a successful tool result
func Success(content string, metadata *Metadata) (string, error) {
	return (&ToolResult{
		Status:   StatusSuccess,
		Content:  content,
		Metadata: metadata,
	}).String(), nil
}

// Error creates an error tool result
func Error(content string) (string, error) {
	return (&ToolResult{
		Status:  StatusError,
		Content: content,
	}).String(), nil
}

// Partial creates a partial success tool result
func Partial(content string, metadata *Metadata) (string, error) {
	return (&ToolResult{
		Status:   StatusPartial,
		Content:  content,
		Metadata: metadata,
	}).String(), nil
}

// ErrorHandler turns tool errors into "Error: ..." tool messages so the
// agent can read the failure and keep going. Interrupts pass through.
func ErrorHandler() compose.ToolMiddleware {
	return compose.ToolMiddleware{
		Invokable: func(next compose.InvokableToolEndpoint) compose.InvokableToolEndpoint {
			return func(ctx context.Context, in *compose.ToolInput) (*compose.ToolOutput, error) {
				output, err := next(ctx, in)
				if err == nil {
					return output, nil
				}
				// interrupts are control flow for the runner
				if strings.Contains(err.Error(), "interrupt signal") {
					return nil, err
				}
				return &compose.ToolOutput{Result: FormatToolError(err)}, nil
			}
		},
	}
}

// FormatToolError extracts the core message of a wrapped tool error.
func FormatToolError(err error) string {
	errStr := err.Error()
	// eino wraps tool failures as "... err=<cause>"
	if idx := strings.Index(errStr, "err="); idx != -1 {
		errStr = strings.TrimSpace(errStr[idx+4:])
	}
	return "Error: " + errStr
}
