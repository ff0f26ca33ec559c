package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <genre> <pages>",
	Short: "Run search_books against the dataset and print JSON",
	Long: `Return up to 10 books whose genre contains <genre> and whose page
count is within 20 pages of <pages>, best rated first.

Examples:
  bookwise search romance 120
  bookwise search "science fiction" 450`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		pages, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("pages must be an integer: %w", err)
		}

		engine, err := openEngine(cmd.Context())
		if err != nil {
			return err
		}
		found, err := engine.SearchByGenreAndLength(args[0], pages)
		if err != nil {
			return err
		}
		return printJSON(cmd, found)
	},
}

var titleCmd = &cobra.Command{
	Use:   "title <title>",
	Short: "Run search_book_by_title against the dataset and print JSON",
	Long: `Return every record whose title contains <title>, ignoring case.

Examples:
  bookwise title dune
  bookwise title "pride and prejudice"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := openEngine(cmd.Context())
		if err != nil {
			return err
		}
		found, err := engine.SearchByTitle(strings.Join(args, " "))
		if err != nil {
			return err
		}
		return printJSON(cmd, found)
	},
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
