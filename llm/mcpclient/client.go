// Package mcpclient connects the agent to its MCP tool servers and turns
// their tools into eino tools.
package mcpclient

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	retry "github.com/avast/retry-go/v4"
	mcpp "github.com/cloudwego/eino-ext/components/tool/mcp"
	"github.com/cloudwego/eino/components/tool"
	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/mark3labs/mcp-go/mcp"

	"bookwise/config"
	"bookwise/llm/mcpserver"
	"bookwise/llm/tools"
	"bookwise/logger"
)

// Connection names
const (
	BooksServer   = "books_search_tool"
	ScraperServer = "goodreads_scraper_tool"
)

// maxStderrLine bounds one relayed stderr line
const maxStderrLine = 1 << 20

// Version is announced to the servers during initialize.
var Version = "dev"

// Config describes the servers to connect to.
type Config struct {
	config.MCPConfig

	// Registry backs the local server in inprocess mode.
	Registry *tools.Registry
}

// Connection is one initialized MCP session.
type Connection struct {
	Name   string
	Client *client.Client
	Server mcp.Implementation
}

// Manager owns the MCP sessions of the agent.
type Manager struct {
	conns []*Connection
	// direct holds registry tools called without MCP
	direct []tool.BaseTool
}

// Connect opens the local books server and, when an API key is configured,
// the remote Goodreads scraper. A scraper that cannot be reached is logged
// and skipped; the local tools are required. In direct mode the local tools
// come from the registry and no local session is opened.
func Connect(ctx context.Context, cfg Config) (*Manager, error) {
	m := &Manager{}

	if cfg.LocalTools == config.LocalToolsDirect {
		if cfg.Registry == nil {
			return nil, errors.New("direct tools need a registry")
		}
		direct, err := cfg.Registry.EinoTools()
		if err != nil {
			return nil, fmt.Errorf("build %s tools: %w", BooksServer, err)
		}
		m.direct = direct
	} else {
		local, err := connectLocal(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("connect %s: %w", BooksServer, err)
		}
		m.conns = append(m.conns, local)
	}

	if cfg.ApifyAPIKey == "" {
		logger.For(ctx).Warn("APIFY_API_KEY not set, goodreads scraper disabled")
		return m, nil
	}
	remote, err := connectScraper(ctx, cfg)
	if err != nil {
		logger.For(ctx).WithError(err).Warn("goodreads scraper unavailable")
		return m, nil
	}
	m.conns = append(m.conns, remote)
	return m, nil
}

func connectLocal(ctx context.Context, cfg Config) (*Connection, error) {
	switch cfg.LocalTools {
	case config.LocalToolsInProcess:
		if cfg.Registry == nil {
			return nil, errors.New("inprocess tools need a registry")
		}
		cli, err := client.NewInProcessClient(mcpserver.New(cfg.Registry, Version))
		if err != nil {
			return nil, err
		}
		if err := cli.Start(ctx); err != nil {
			return nil, err
		}
		return initialize(ctx, BooksServer, cli)

	case config.LocalToolsStdio, "":
		command := cfg.ServerCommand
		if command == "" {
			self, err := os.Executable()
			if err != nil {
				return nil, fmt.Errorf("resolve executable: %w", err)
			}
			command = self
		}
		// the child inherits the environment, so it sees the same dataset settings
		cli, err := client.NewStdioMCPClient(command, os.Environ(), cfg.ServerArgs...)
		if err != nil {
			return nil, fmt.Errorf("start %s: %w", command, err)
		}
		if stderr, ok := client.GetStderr(cli); ok {
			go drainStderr(ctx, BooksServer, stderr)
		}
		return initialize(ctx, BooksServer, cli)

	default:
		return nil, fmt.Errorf("unknown local tools transport %q", cfg.LocalTools)
	}
}

func connectScraper(ctx context.Context, cfg Config) (*Connection, error) {
	url := cfg.ApifyURL
	if url == "" {
		url = config.DefaultApifyURL
	}
	attempts := cfg.ConnectAttempts
	if attempts == 0 {
		attempts = 1
	}

	var cli *client.Client
	err := retry.Do(
		func() error {
			c, err := client.NewSSEMCPClient(url, transport.WithHeaders(map[string]string{
				"Authorization": "Bearer " + cfg.ApifyAPIKey,
			}))
			if err != nil {
				return err
			}
			if err := c.Start(ctx); err != nil {
				_ = c.Close()
				return err
			}
			cli = c
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(time.Second),
		retry.OnRetry(func(n uint, err error) {
			logger.For(ctx).WithError(err).Debugf("scraper connect attempt %d failed", n+1)
		}),
	)
	if err != nil {
		return nil, err
	}
	return initialize(ctx, ScraperServer, cli)
}

// drainStderr relays a child server's stderr to the log until it closes.
// The pipe must be read or the child blocks once its buffer is full.
func drainStderr(ctx context.Context, name string, r io.Reader) {
	log := logger.For(ctx).WithField("server", name)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxStderrLine)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			log.Info(line)
		}
	}
	if err := scanner.Err(); err != nil {
		log.WithError(err).Debug("stderr relay stopped, discarding the rest")
		_, _ = io.Copy(io.Discard, r)
	}
}

func initialize(ctx context.Context, name string, cli *client.Client) (*Connection, error) {
	req := mcp.InitializeRequest{}
	req.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	req.Params.ClientInfo = mcp.Implementation{Name: "bookwise", Version: Version}

	res, err := cli.Initialize(ctx, req)
	if err != nil {
		_ = cli.Close()
		return nil, fmt.Errorf("initialize %s: %w", name, err)
	}
	logger.For(ctx).WithField("server", res.ServerInfo.Name).Infof("connected to %s", name)
	return &Connection{Name: name, Client: cli, Server: res.ServerInfo}, nil
}

// Connections returns the open sessions.
func (m *Manager) Connections() []*Connection {
	return m.conns
}

// Tools lists the direct tools and the tools of every session as eino tools.
func (m *Manager) Tools(ctx context.Context) ([]tool.BaseTool, error) {
	out := append([]tool.BaseTool{}, m.direct...)
	for _, c := range m.conns {
		list, err := mcpp.GetTools(ctx, &mcpp.Config{Cli: c.Client})
		if err != nil {
			return nil, fmt.Errorf("list tools of %s: %w", c.Name, err)
		}
		out = append(out, list...)
	}
	return out, nil
}

// Close ends every session; stdio servers are stopped with their pipes.
func (m *Manager) Close() error {
	var errs []error
	for _, c := range m.conns {
		if err := c.Client.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", c.Name, err))
		}
	}
	m.conns = nil
	return errors.Join(errs...)
}
