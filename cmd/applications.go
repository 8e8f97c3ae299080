package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gradlift/scholar-cli/internal/model"
	"github.com/gradlift/scholar-cli/internal/store"
)

var (
	applicationsStatus      string
	applicationsScholarship string
	applicationsApplicant   string
	applicationsLimit       int
	applicationsJSON        bool
)

var applicationsCmd = &cobra.Command{
	Use:   "applications",
	Short: "List tracked applications",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		eng, st, err := initEngine(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		apps, err := eng.ListApplications(ctx, store.ApplicationFilter{
			Status:        model.ApplicationStatus(applicationsStatus),
			ScholarshipID: applicationsScholarship,
			ApplicantID:   applicationsApplicant,
			Limit:         applicationsLimit,
		})
		if err != nil {
			return err
		}

		if applicationsJSON {
			return json.NewEncoder(os.Stdout).Encode(apps)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSCHOLARSHIP\tAPPLICANT\tSTATUS\tPENDING DOCS\tCREATED")
		for _, app := range apps {
			pending := 0
			for _, d := range app.Documents {
				if d.Status == model.DocumentPending {
					pending++
				}
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
				app.ID, app.ScholarshipID, app.ApplicantID, app.Status, pending,
				app.CreatedAt.Format("2006-01-02"))
		}
		return w.Flush()
	},
}

func init() {
	applicationsCmd.Flags().StringVar(&applicationsStatus, "status", "", "filter by status")
	applicationsCmd.Flags().StringVar(&applicationsScholarship, "scholarship", "", "filter by scholarship id")
	applicationsCmd.Flags().StringVar(&applicationsApplicant, "applicant", "", "filter by applicant id")
	applicationsCmd.Flags().IntVar(&applicationsLimit, "limit", 50, "max rows")
	applicationsCmd.Flags().BoolVar(&applicationsJSON, "json", false, "emit JSON")
	rootCmd.AddCommand(applicationsCmd)
}
