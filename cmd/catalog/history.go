package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	historyLimit int
	historyClear bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List or clear recent searches",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 0, "Number of searches to list (default data.history_limit)")
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "Forget every recorded search")
}

func runHistory(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	out := cmd.OutOrStdout()

	if historyClear {
		n, err := st.ClearSearches()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Cleared %d searches.\n", n)
		return nil
	}

	limit := historyLimit
	if limit <= 0 {
		limit = cfg.Data.HistoryLimit
	}
	searches, err := st.RecentSearches(limit)
	if err != nil {
		return err
	}
	if len(searches) == 0 {
		fmt.Fprintln(out, "No recent searches.")
		return nil
	}

	now := time.Now()
	fmt.Fprintln(out, "Recent searches")
	fmt.Fprintln(out, strings.Repeat("─", 50))
	for i, s := range searches {
		fmt.Fprintf(out, "%3d. %-30s %3d× %s\n", i+1, s.Query, s.Uses, formatAgo(s.LastUsed, now))
	}
	return nil
}
