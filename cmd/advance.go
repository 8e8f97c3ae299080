package main

import (
	"encoding/json"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/gradlift/scholar-cli/internal/model"
)

var advanceCmd = &cobra.Command{
	Use:   "advance <application-id> <target-status>",
	Short: "Advance an application to a new status",
	Long:  "Target statuses: under_review, shortlisted, accepted, rejected. Accepting requires every checklist document to be uploaded.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		target := model.ApplicationStatus(args[1])
		switch target {
		case model.StatusUnderReview, model.StatusShortlisted, model.StatusAccepted, model.StatusRejected:
		default:
			return eris.Errorf("unknown status %q", args[1])
		}

		eng, st, err := initEngine(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		app, err := eng.AdvanceStatus(ctx, args[0], target, time.Now().UTC())
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(app)
	},
}

func init() {
	rootCmd.AddCommand(advanceCmd)
}
