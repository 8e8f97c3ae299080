package main

import (
	"encoding/json"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	submitApplicant   string
	submitScholarship string
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit an application for a scholarship",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		eng, st, err := initEngine(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		app, err := eng.SubmitApplication(ctx, submitApplicant, submitScholarship, time.Now().UTC())
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(app)
	},
}

func init() {
	submitCmd.Flags().StringVar(&submitApplicant, "applicant", "", "applicant id (required)")
	submitCmd.Flags().StringVar(&submitScholarship, "scholarship", "", "scholarship id (required)")
	submitCmd.MarkFlagRequired("applicant")
	submitCmd.MarkFlagRequired("scholarship")
	rootCmd.AddCommand(submitCmd)
}
