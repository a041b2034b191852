// Command catalog browses a remote product catalog in the terminal.
//
// Usage:
//
//	catalog                  Run the browser
//	catalog page             Fetch one listing page
//	catalog search <query>   Run one search
//	catalog history          Recent searches
//	catalog events           JSONL event log viewer
//	catalog config           Print the effective configuration
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/abelbrown/catalog/internal/config"
	"github.com/abelbrown/catalog/internal/logging"
	"github.com/spf13/cobra"
)

var (
	configFile string
	envFile    string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Browse a product catalog in the terminal",
	Long: `catalog pages through a remote products API as you scroll, and
searches it as you type.

Run without arguments to start the browser.`,
	SilenceUsage: true,
	RunE:         runTUI,
}

func init() {
	rootCmd.PersistentPreRunE = loadConfig

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default ~/.catalog/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Dotenv file (default ./.env)")

	rootCmd.AddCommand(pageCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// loadConfig runs before every command. Subcommands log to stderr; the
// browser owns the terminal and logs to a file instead.
func loadConfig(cmd *cobra.Command, args []string) error {
	c, err := config.Load(config.Options{ConfigFile: configFile, EnvFile: envFile})
	if err != nil {
		return err
	}
	if err := os.MkdirAll(c.Data.Dir, 0755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	cfg = c

	if cmd != rootCmd {
		logging.SetOutput(cmd.ErrOrStderr(), cfg.Log.Level)
	}
	return nil
}
