package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"bookwise/llm/mcpclient"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func init() {
	mcpclient.Version = version
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	// no config needed
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "bookwise %s\n", version)
		fmt.Fprintf(cmd.OutOrStdout(), "  Go: %s\n", runtime.Version())
	},
}
