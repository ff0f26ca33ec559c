package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/cloudwego/eino/adk"
	"github.com/spf13/cobra"
)

var consoleSession string

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Chat with the book agent on a plain terminal",
	Long: `Read prompts line by line and print the agent's answers.
Type "quit" to leave.

Examples:
  bookwise console
  bookwise console --session 3f1c...   # resume a redis-backed conversation`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		s, err := newSession(ctx, consoleSession)
		if err != nil {
			return err
		}
		defer s.Close()

		return runConsole(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), s.runtime.Run)
	},
}

func init() {
	consoleCmd.Flags().StringVar(&consoleSession, "session", "", "conversation id (default: a new one)")
}

// runConsole reads prompts from in until "quit" (any case) or EOF and
// prints each answer of ask to out.
func runConsole(ctx context.Context, in io.Reader, out io.Writer, ask func(string) (adk.Message, error)) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		prompt := strings.TrimSpace(scanner.Text())
		if prompt == "" {
			continue
		}
		if strings.EqualFold(prompt, "quit") {
			fmt.Fprintln(out, "Leaving...")
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		answer, err := ask(prompt)
		if err != nil {
			fmt.Fprintf(out, "\nError: %v\n\n", err)
			continue
		}
		fmt.Fprintf(out, "\nAgent Response:\n%s\n\n", answer.Content)
	}
}
