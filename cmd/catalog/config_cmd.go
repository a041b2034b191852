package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		for _, kv := range strings.Split(cfg.String(), ", ") {
			fmt.Fprintln(out, kv)
		}
		fmt.Fprintf(out, "history db: %s\n", cfg.DBPath())
		fmt.Fprintf(out, "event log:  %s\n", cfg.EventsPath())
		return nil
	},
}
