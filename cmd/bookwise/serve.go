package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"bookwise/llm/mcpserver"
	"bookwise/logger"
	"bookwise/metrics"
)

var serveMetricsAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the book tools over MCP stdio",
	Long: `Serve search_books and search_book_by_title as the MCP server
"books_search_tool" over stdin/stdout.

The dataset is loaded once at start unless dataset.reload_per_call is set.
Logs go to stderr. The chat and console commands start this command as a
child process unless mcp.local_tools is "inprocess" or "direct".

Examples:
  bookwise serve
  bookwise serve --metrics-addr :9090`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		engine, err := openEngine(ctx)
		if err != nil {
			return err
		}
		reg, err := newBookRegistry(engine)
		if err != nil {
			return err
		}

		addr := cfg.Metrics.Addr
		if serveMetricsAddr != "" {
			addr = serveMetricsAddr
		}
		if addr != "" {
			stop := serveMetrics(ctx, addr)
			defer stop()
		}

		return mcpserver.Serve(ctx, mcpserver.New(reg, version), os.Stdin, os.Stdout)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveMetricsAddr, "metrics-addr", "", "address of the prometheus endpoint (overrides metrics.addr)")
}

// serveMetrics exposes /metrics on addr until the returned func is called.
func serveMetrics(ctx context.Context, addr string) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.For(ctx).WithField("addr", addr).Info("metrics endpoint listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.For(ctx).WithError(err).Error("metrics endpoint failed")
		}
	}()

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}
}
