package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gradlift/scholar-cli/internal/model"
)

var savedVersion int64

var savedCmd = &cobra.Command{
	Use:   "save <scholarship-id>",
	Short: "Toggle the saved flag on a scholarship",
	Long:  "Toggles under optimistic concurrency: pass the version you last read with --version; a stale version is rejected and must be retried after a re-read.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		eng, st, err := initEngine(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		state, err := eng.ToggleSaved(ctx, args[0], savedVersion)
		if err != nil {
			if model.IsConflict(err) {
				return fmt.Errorf("%w (re-read and retry with the current version)", err)
			}
			return err
		}

		fmt.Printf("saved=%v version=%d\n", state.Saved, state.Version)
		return nil
	},
}

func init() {
	savedCmd.Flags().Int64Var(&savedVersion, "version", 1, "version last read")
	rootCmd.AddCommand(savedCmd)
}
