package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/damon-houk/fx-inflation-monitor/internal/application/service"
	"github.com/damon-houk/fx-inflation-monitor/internal/domain/entity"
)

func inflationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inflation <country>",
		Short: "Show the annual inflation history of a country",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result := wire.Service.InflationReport(cmd.Context(), args[0])
			switch result.Status {
			case entity.StatusFailed:
				return result.Err
			case entity.StatusEmpty:
				fmt.Fprintf(cmd.OutOrStdout(), "No inflation data: %s\n", result.Message())
				return nil
			}

			return printInflationReport(cmd.OutOrStdout(), result.Value)
		},
	}
	return cmd
}

func printInflationReport(out io.Writer, r service.InflationReport) error {
	fmt.Fprintf(out, "%s inflation (%d years)\n", r.Series.Country, r.Series.Len())

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, p := range r.Series.Points {
		fmt.Fprintf(tw, "%d\t%.2f%%\n", p.Year, p.Rate)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "average of the last %d years %.2f%%\n", r.TrailingYears, r.TrailingAverage)
	return nil
}

func globalCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "global",
		Short: "Show the latest inflation rate of every country",
		RunE: func(cmd *cobra.Command, args []string) error {
			result := wire.Service.GlobalSnapshot(cmd.Context())
			switch result.Status {
			case entity.StatusFailed:
				return result.Err
			case entity.StatusEmpty:
				fmt.Fprintf(cmd.OutOrStdout(), "No inflation data: %s\n", result.Message())
				return nil
			}

			rows := result.Value.Rows
			if limit > 0 && limit < len(rows) {
				rows = rows[:limit]
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, r := range rows {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%.2f%%\n", r.ISO3, r.Country, r.Year, r.Rate)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "print at most this many rows (0 for all)")
	return cmd
}
