package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/garygao333/chert-number-search/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "chert",
	Short: "Lead generation console for Forager and Aviato",
	Long:  "Searches people across Forager and Aviato, enriches profiles with phone numbers, reconciles leads against saved contacts, and exports to CSV.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
