package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/logvet/internal/report"
)

func newReportCmd(a *app) *cobra.Command {
	var (
		jsonOutput  bool
		invalidOnly bool
	)

	cmd := &cobra.Command{
		Use:   "report FILE",
		Short: "Show reports recorded with --output",
		Long: `Read a JSONL report history written by 'logvet run --output' and print
it the way a batch is printed. The summary spans every recorded report, from
the earliest to the latest timestamp.`,
		Example: `  logvet report reports.jsonl
  logvet report --invalid --json reports.jsonl`,
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{skipConfigAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			reports, err := report.ReadJSONL(args[0])
			if err != nil {
				return err
			}
			summary := summarizeHistory(reports)
			if invalidOnly {
				reports = invalidReports(reports)
			}

			out := a.writer(cmd)
			if jsonOutput {
				return out.JSON(batchJSON{Summary: summary, Reports: reports})
			}
			out.Reports(reports)
			out.Newline()
			out.Summary(summary)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&invalidOnly, "invalid", false, "List only invalid reports (the summary still counts all)")

	return cmd
}

// summarizeHistory tallies recorded reports. The span runs from the
// earliest to the latest report timestamp.
func summarizeHistory(reports []report.Report) report.Summary {
	var first, last time.Time
	for i, r := range reports {
		if i == 0 || r.Timestamp.Before(first) {
			first = r.Timestamp
		}
		if r.Timestamp.After(last) {
			last = r.Timestamp
		}
	}
	return report.Summarize("", first, last, reports)
}

func invalidReports(reports []report.Report) []report.Report {
	out := make([]report.Report, 0, len(reports))
	for _, r := range reports {
		if !r.Valid() {
			out = append(out, r)
		}
	}
	return out
}
