package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"bookwise/llm/providers"
)

var (
	pingProvider string
	pingTimeout  time.Duration
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check that the configured chat model answers",
	Long: `Send one short prompt to the chat model and print the reply.

Examples:
  bookwise ping
  bookwise ping --provider gemini`,
	RunE: func(cmd *cobra.Command, args []string) error {
		llmCfg := cfg.LLM
		if pingProvider != "" {
			llmCfg.Provider = pingProvider
		}
		mc := providers.FromConfig(llmCfg)

		ctx, cancel := context.WithTimeout(cmd.Context(), pingTimeout)
		defer cancel()

		chatModel, err := providers.NewChatModel(ctx, mc)
		if err != nil {
			return err
		}
		reply, err := providers.Ping(ctx, chatModel)
		if err != nil {
			return fmt.Errorf("%s did not answer: %w", mc.Provider, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", mc.Provider, reply)
		return nil
	},
}

func init() {
	pingCmd.Flags().StringVar(&pingProvider, "provider", "", "provider to check: openai, gemini or qwen (overrides llm.provider)")
	pingCmd.Flags().DurationVar(&pingTimeout, "timeout", 30*time.Second, "how long to wait for the reply")
}
