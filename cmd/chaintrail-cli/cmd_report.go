package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newReportCmd() *cobra.Command {
	var fromStr, toStr string
	var standards []string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate a compliance report",
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := parseTimeFlag("from", fromStr)
			if err != nil {
				return err
			}
			to, err := parseTimeFlag("to", toStr)
			if err != nil {
				return err
			}
			if from == nil || to == nil {
				return fmt.Errorf("--from and --to are required")
			}

			report, err := apiClient.Reports.Compliance(cmd.Context(), *from, *to, standards...)
			if err != nil {
				return fmt.Errorf("generate report: %w", err)
			}

			if flagFmt == "table" {
				headers := []string{"ENTRIES", "ACTORS", "FAILED", "VIOLATIONS", "CHAIN"}
				chain := "valid"
				if !report.ChainIntegrity.Valid {
					chain = "BROKEN"
				}
				formatTable(headers, [][]string{{
					fmt.Sprintf("%d", report.Statistics.TotalEntries),
					fmt.Sprintf("%d", report.Statistics.DistinctActors),
					fmt.Sprintf("%d", report.Statistics.FailedEntries),
					fmt.Sprintf("%d", len(report.Violations)),
					chain,
				}})
				return nil
			}
			output(report, report.ReportID)
			return nil
		},
	}
	cmd.Flags().StringVar(&fromStr, "from", "", "Report window start (RFC3339 or YYYY-MM-DD)")
	cmd.Flags().StringVar(&toStr, "to", "", "Report window end (RFC3339 or YYYY-MM-DD)")
	cmd.Flags().StringSliceVar(&standards, "standard", nil, "Compliance standard filter (repeatable, e.g. HIPAA)")
	return cmd
}
