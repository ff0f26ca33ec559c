package main

import (
	"os"

	"github.com/spf13/cobra"

	"bookwise/config"
	"bookwise/logger"
)

var (
	cfgFile  string
	logLevel string

	// cfg is loaded before any subcommand runs
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "bookwise",
	Short: "Book recommendation agent over a Goodreads dataset",
	Long: `Bookwise recommends books from a Goodreads CSV export.

It has two halves:
  - an MCP server exposing search_books and search_book_by_title
  - a chat agent that calls those tools, plus an optional Goodreads
    scraper reached over MCP/SSE

Settings come from .env, an optional bookwise.yaml and the environment.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		if logLevel != "" {
			c.Log.Level = logLevel
		}
		cfg = c
		// stdout belongs to command output and to the MCP channel in serve
		return logger.Setup(cfg.Log.Level, os.Stderr)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./bookwise.yaml if present)",
	)
	rootCmd.PersistentFlags().StringVar(
		&logLevel, "log-level", "", "log level: debug, info, warn or error (overrides config)",
	)

	rootCmd.AddCommand(serveCmd, chatCmd, consoleCmd, searchCmd, titleCmd, pingCmd, versionCmd)
}
