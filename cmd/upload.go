package main

import (
	"encoding/json"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <application-id> <document-name>",
	Short: "Record a document upload against an application checklist",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		eng, st, err := initEngine(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		app, err := eng.RecordDocumentUpload(ctx, args[0], args[1], time.Now().UTC())
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(app)
	},
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}
