package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudwego/eino/components/tool"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"bookwise/config"
	"bookwise/llm/agent"
	"bookwise/llm/mcpclient"
	"bookwise/llm/providers"
	"bookwise/llm/tools"
	"bookwise/logger"
)

// session is a ready to use agent runtime plus the resources it holds.
type session struct {
	runtime *agent.Runtime
	mcp     *mcpclient.Manager
	redis   *redis.Client
	tracing func()
}

// newSession wires the chat model, the MCP tool sources, the local helper
// tools and the conversation store into an agent runtime. An empty
// sessionID starts a new conversation.
func newSession(ctx context.Context, sessionID string) (_ *session, err error) {
	s := &session{tracing: func() {}}
	defer func() {
		if err != nil {
			s.Close()
		}
	}()

	stopTracing, err := setupTracing(ctx)
	if err != nil {
		return nil, err
	}
	s.tracing = stopTracing

	chatModel, err := providers.NewChatModel(ctx, providers.FromConfig(cfg.LLM))
	if err != nil {
		return nil, fmt.Errorf("create chat model: %w", err)
	}

	mcpCfg := mcpclient.Config{MCPConfig: cfg.MCP}
	switch {
	case cfg.MCP.LocalTools == config.LocalToolsInProcess, cfg.MCP.LocalTools == config.LocalToolsDirect:
		engine, err := openEngine(ctx)
		if err != nil {
			return nil, err
		}
		if mcpCfg.Registry, err = newBookRegistry(engine); err != nil {
			return nil, err
		}
	case cfg.MCP.ServerCommand == "" && cfgFile != "":
		// the child is this binary; hand it the same config file
		mcpCfg.ServerArgs = append(append([]string{}, cfg.MCP.ServerArgs...), "--config", cfgFile)
	}

	if s.mcp, err = mcpclient.Connect(ctx, mcpCfg); err != nil {
		return nil, err
	}
	toolsList, err := s.mcp.Tools(ctx)
	if err != nil {
		return nil, err
	}

	summaryTool, err := tools.GetBookPageSummaryTool(ctx, chatModel)
	if err != nil {
		return nil, err
	}
	toolsList = append(toolsList, tools.GetFetchBookPageTool(), summaryTool)
	logToolNames(ctx, toolsList)

	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	store, err := s.newStore(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	s.runtime, err = agent.NewRuntime(ctx, chatModel, toolsList, agent.Options{
		SessionID:     sessionID,
		Store:         store,
		MaxIterations: cfg.LLM.MaxIterations,
	})
	if err != nil {
		return nil, fmt.Errorf("create agent runtime: %w", err)
	}
	return s, nil
}

// newStore keeps history in redis when an address is configured and in
// memory otherwise.
func (s *session) newStore(ctx context.Context, sessionID string) (agent.ConversationStore, error) {
	sc := cfg.Session
	if sc.RedisAddr == "" {
		return agent.NewMemoryStore(sc.MaxMessages, sc.MaxToolResponse), nil
	}

	s.redis = redis.NewClient(&redis.Options{
		Addr:     sc.RedisAddr,
		Password: sc.RedisPassword,
		DB:       sc.RedisDB,
	})
	if err := s.redis.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect redis %s: %w", sc.RedisAddr, err)
	}

	store, err := agent.NewRedisStore(agent.RedisStoreConfig{
		Client:          s.redis,
		SessionID:       sessionID,
		TTL:             sc.TTL,
		MaxMessages:     sc.MaxMessages,
		MaxToolResponse: sc.MaxToolResponse,
	})
	if err != nil {
		return nil, err
	}
	logger.For(ctx).WithField("key", store.Key()).Info("conversation stored in redis")
	return store, nil
}

func logToolNames(ctx context.Context, list []tool.BaseTool) {
	names := make([]string, 0, len(list))
	for _, t := range list {
		info, err := t.Info(ctx)
		if err != nil {
			continue
		}
		names = append(names, info.Name)
	}
	logger.For(ctx).WithField("tools", names).Info("agent tools ready")
}

// Close releases everything the session opened.
func (s *session) Close() {
	var errs []error
	if s.runtime != nil {
		s.runtime.Close()
	}
	if s.mcp != nil {
		errs = append(errs, s.mcp.Close())
	}
	if s.redis != nil {
		errs = append(errs, s.redis.Close())
	}
	s.tracing()
	if err := errors.Join(errs...); err != nil {
		logger.For(context.Background()).WithError(err).Warn("session cleanup failed")
	}
}
