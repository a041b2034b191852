package main

import (
	"github.com/spf13/cobra"
)

var (
	pageLimit int
	pageSkip  int
	pageJSON  bool
)

// pageCmd fetches one page of the listing, bypassing the browser.
var pageCmd = &cobra.Command{
	Use:   "page",
	Short: "Fetch one page of the product listing",
	Args:  cobra.NoArgs,
	RunE:  runPage,
}

func init() {
	pageCmd.Flags().IntVar(&pageLimit, "limit", 0, "Page size (default browse.page_size)")
	pageCmd.Flags().IntVar(&pageSkip, "skip", 0, "Products to skip")
	pageCmd.Flags().BoolVar(&pageJSON, "json", false, "Print products as JSON")
}

func runPage(cmd *cobra.Command, args []string) error {
	limit := pageLimit
	if limit <= 0 {
		limit = cfg.Browse.PageSize
	}

	products, err := newClient(nil).FetchPage(cmd.Context(), limit, pageSkip)
	if err != nil {
		return err
	}
	return printProducts(cmd.OutOrStdout(), products, pageJSON)
}
