package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gradlift/scholar-cli/internal/registry"
)

var importOut string

var importCmd = &cobra.Command{
	Use:   "import <catalog.xlsx>",
	Short: "Import a provider spreadsheet into the YAML catalog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		scholarships, err := registry.ImportXLSX(args[0])
		if err != nil {
			return err
		}

		out := importOut
		if out == "" {
			out = cfg.Registry.CatalogPath
		}
		if err := registry.WriteCatalog(out, scholarships); err != nil {
			return err
		}

		zap.L().Info("catalog imported",
			zap.Int("scholarships", len(scholarships)),
			zap.String("out", out),
		)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importOut, "out", "", "output catalog path (default from config)")
	rootCmd.AddCommand(importCmd)
}
