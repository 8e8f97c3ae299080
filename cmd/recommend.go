package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/gradlift/scholar-cli/internal/match"
)

var (
	recommendApplicant     string
	recommendMinScore      int
	recommendFullyEligible bool
	recommendClosingSoon   bool
	recommendJSON          bool
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Rank the scholarship catalog for an applicant",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		eng, st, err := initEngine(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		filters := match.Filters{
			MinScore:          recommendMinScore,
			FullyEligibleOnly: recommendFullyEligible,
			ClosingSoonOnly:   recommendClosingSoon,
		}

		results, err := eng.RecommendationsFor(ctx, recommendApplicant, filters, time.Now().UTC())
		if err != nil {
			return err
		}

		if recommendJSON {
			return json.NewEncoder(os.Stdout).Encode(results)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SCHOLARSHIP\tSCORE\tELIGIBLE\tDAYS LEFT\tCLOSING SOON\tREASONS")
		for _, r := range results {
			fmt.Fprintf(w, "%s\t%d\t%d/%d\t%d\t%v\t%s\n",
				r.ScholarshipID, r.Score, r.EligibleCount, r.TotalCount,
				r.DaysRemaining, r.ClosingSoon, joinReasons(r.Reasons))
		}
		return w.Flush()
	},
}

func joinReasons(reasons []string) string {
	if len(reasons) == 0 {
		return "-"
	}
	out := reasons[0]
	for _, r := range reasons[1:] {
		out += "; " + r
	}
	return out
}

func init() {
	recommendCmd.Flags().StringVar(&recommendApplicant, "applicant", "", "applicant id (required)")
	recommendCmd.Flags().IntVar(&recommendMinScore, "min-score", 0, "minimum match score")
	recommendCmd.Flags().BoolVar(&recommendFullyEligible, "fully-eligible", false, "only fully eligible scholarships")
	recommendCmd.Flags().BoolVar(&recommendClosingSoon, "closing-soon", false, "only scholarships closing soon")
	recommendCmd.Flags().BoolVar(&recommendJSON, "json", false, "emit JSON")
	recommendCmd.MarkFlagRequired("applicant")
	rootCmd.AddCommand(recommendCmd)
}
