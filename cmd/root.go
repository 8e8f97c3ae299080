package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gradlift/scholar-cli/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "scholar-cli",
	Short: "Scholarship matching and application lifecycle engine",
	Long:  "Scores scholarship opportunities against applicant profiles, ranks them with explainable reasons, and tracks submitted applications through a guarded lifecycle with a document checklist.",
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
