package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/mr1hm/go-risk-zones/internal/config"
	"github.com/mr1hm/go-risk-zones/internal/logging"
	"github.com/mr1hm/go-risk-zones/internal/remote"
	"github.com/mr1hm/go-risk-zones/internal/store"
)

var (
	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:          "zone-editor",
	Short:        "Draw and manage high-risk zones",
	Long:         "Creates, lists, deactivates and exports high-risk zone polygons kept in the remote zone store.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()

		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("error loading config: %w", err)
		}
		cfg = c

		// stdout carries command output
		logger = logging.SetupWriter(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)
		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newStore() (*store.Store, error) {
	ids, err := store.IDGeneratorFor(cfg.Editor.IDScheme)
	if err != nil {
		return nil, err
	}
	client := remote.NewClient(cfg.Editor.StoreURL, cfg.Editor.Timeout)
	return store.New(client, store.Options{
		Officer: cfg.Editor.Officer,
		IDs:     ids,
		Logger:  logger,
	}), nil
}

// loadStore returns a store holding the current remote snapshot.
func loadStore(ctx context.Context) (*store.Store, error) {
	st, err := newStore()
	if err != nil {
		return nil, err
	}
	if err := st.Load(ctx); err != nil {
		return nil, fmt.Errorf("zone store %s: %w", cfg.Editor.StoreURL, err)
	}
	return st, nil
}
