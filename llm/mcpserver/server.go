// Package mcpserver exposes a tool registry over the Model Context Protocol.
package mcpserver

import (
	"context"
	"encoding/json"
	"io"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"bookwise/llm/tools"
	"bookwise/logger"
)

// ServerName is the MCP server name announced to clients.
const ServerName = "books_search_tool"

// New returns an MCP server with one tool per registry entry.
func New(reg *tools.Registry, version string) *server.MCPServer {
	s := server.NewMCPServer(
		ServerName,
		version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	for _, spec := range reg.List() {
		s.AddTool(
			mcp.NewToolWithRawSchema(spec.Name, spec.Description, spec.Schema),
			handler(reg, spec.Name),
		)
	}
	return s
}

// handler turns a registry call into an MCP tool result. Tool failures are
// reported in-band as error results, never as protocol errors.
func handler(reg *tools.Registry, name string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, err := json.Marshal(req.GetArguments())
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		out, err := reg.CallJSON(ctx, name, args)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(out), nil
	}
}

// Serve runs s over newline-delimited JSON-RPC on in/out until ctx is done
// or in is closed.
func Serve(ctx context.Context, s *server.MCPServer, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s)
	stdio.SetErrorLogger(logger.StdLogger("mcp"))
	logger.For(ctx).WithField("server", ServerName).Info("serving MCP over stdio")
	return stdio.Listen(ctx, in, out)
}
