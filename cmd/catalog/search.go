package main

import (
	"strings"

	"github.com/abelbrown/catalog/internal/logging"
	"github.com/spf13/cobra"
)

var (
	searchJSON      bool
	searchNoHistory bool
)

// searchCmd runs one search. Like the browser, a successful search is
// remembered in history.
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the catalog once",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "Print products as JSON")
	searchCmd.Flags().BoolVar(&searchNoHistory, "no-history", false, "Do not record the query")
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	products, err := newClient(nil).Search(cmd.Context(), query)
	if err != nil {
		return err
	}

	if !searchNoHistory && strings.TrimSpace(query) != "" {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.RecordSearch(query); err != nil {
			logging.Warn("record search", "query", query, "err", err)
		}
	}

	return printProducts(cmd.OutOrStdout(), products, searchJSON)
}
