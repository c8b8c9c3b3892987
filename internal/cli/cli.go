// Package cli wires the cobra command tree: the root command runs the full
// scrape-and-merge pipeline, with subcommands for listing, exporting, and
// RSVP bookkeeping against the maintained dataset.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AndrewHUNGNguyen/devx-events/internal/config"
	"github.com/AndrewHUNGNguyen/devx-events/internal/logging"
	"github.com/AndrewHUNGNguyen/devx-events/internal/storage"
)

const (
	cookieEnv     = "DEVX_MANAGE_COOKIE"
	passphraseEnv = "DEVX_COOKIE_PASSPHRASE"
)

var (
	flagConfig  string
	flagDataDir string
	flagVerbose bool

	flagCookie       string
	flagPassphrase   string
	flagSkipTimeline bool
)

// NewRootCmd creates the command tree.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "devx-events",
		Short: "Scrape and maintain the DEVx Network event dataset",
		Long: `Scrapes upcoming and past events from the public calendar, reconciles
dates against the manage-calendar timeline, merges with the persisted
dataset, and writes the result back. The dataset file is the hand-off
artifact consumed by the website.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return logging.Init(flagVerbose)
		},
		RunE: runUpdate,
	}

	cmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to YAML config file")
	cmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "Data directory (overrides config)")
	cmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")

	cmd.Flags().StringVar(&flagCookie, "cookie", "", "Manage-calendar session cookie (or env: "+cookieEnv+")")
	cmd.Flags().StringVar(&flagPassphrase, "cookie-passphrase", "", "Passphrase for caching the cookie encrypted at rest (or env: "+passphraseEnv+")")
	cmd.Flags().BoolVar(&flagSkipTimeline, "skip-timeline", false, "Skip manage-calendar timeline reconciliation")

	cmd.AddCommand(newListCmd(), newExportCmd(), newRSVPCmd())
	return cmd
}

// loadConfig resolves the effective configuration for any command.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	if flagDataDir != "" {
		cfg.DataDir = flagDataDir
	}
	return cfg, nil
}

func openStore(cfg *config.Config) (*storage.Store, error) {
	store, err := storage.New(cfg.DataDir, cfg.EventsFile)
	if err != nil {
		return nil, fmt.Errorf("initializing storage: %w", err)
	}
	return store, nil
}

// Execute runs the CLI. Unrecoverable errors land on stderr with a
// non-zero exit; the previous dataset is never left corrupted because the
// final write only happens after a complete in-memory merge.
func Execute() {
	defer logging.Sync()
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
