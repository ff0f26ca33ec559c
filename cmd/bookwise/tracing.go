package main

import (
	"context"
	"fmt"
	"time"

	clc "github.com/cloudwego/eino-ext/callbacks/cozeloop"
	"github.com/cloudwego/eino/callbacks"
	"github.com/coze-dev/cozeloop-go"

	"bookwise/logger"
)

// setupTracing registers the cozeloop callback handler when it is configured.
// The returned func flushes and closes the client.
func setupTracing(ctx context.Context) (func(), error) {
	if !cfg.CozeLoop.Enabled() {
		return func() {}, nil
	}

	client, err := cozeloop.NewClient(
		cozeloop.WithAPIToken(cfg.CozeLoop.APIToken),
		cozeloop.WithWorkspaceID(cfg.CozeLoop.WorkspaceID),
	)
	if err != nil {
		return nil, fmt.Errorf("create cozeloop client: %w", err)
	}
	callbacks.AppendGlobalHandlers(clc.NewLoopHandler(client))
	logger.For(ctx).Info("cozeloop tracing enabled")

	return func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		client.Close(closeCtx)
	}, nil
}
