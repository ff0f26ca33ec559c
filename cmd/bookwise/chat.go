package main

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"bookwise/tui/chat"
)

var (
	chatSession string
	chatLogFile string
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the book agent in a terminal UI",
	Long: `Open the full screen chat. Tool calls are shown as they happen and
book search results are rendered as ranked lists.

Logs would corrupt the screen, so they are dropped unless --log-file is set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var logOut io.Writer = io.Discard
		if chatLogFile != "" {
			f, err := os.OpenFile(chatLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return fmt.Errorf("open log file: %w", err)
			}
			defer f.Close()
			logOut = f
		}
		logrus.SetOutput(logOut)

		s, err := newSession(ctx, chatSession)
		if err != nil {
			return err
		}
		defer s.Close()

		program := tea.NewProgram(
			chat.InitialModel(ctx, s.runtime),
			tea.WithAltScreen(),
			tea.WithMouseCellMotion(),
			tea.WithContext(ctx),
		)
		_, err = program.Run()
		if err != nil && ctx.Err() != nil {
			// interrupted
			return nil
		}
		return err
	},
}

func init() {
	chatCmd.Flags().StringVar(&chatSession, "session", "", "conversation id (default: a new one)")
	chatCmd.Flags().StringVar(&chatLogFile, "log-file", "", "append logs to this file")
}
