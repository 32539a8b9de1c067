package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"cloud.google.com/go/civil"
	"github.com/spf13/cobra"

	"github.com/damon-houk/fx-inflation-monitor/internal/application/service"
	"github.com/damon-houk/fx-inflation-monitor/internal/domain/entity"
)

type pairFlags struct {
	base   string
	target string
	start  string
	end    string
}

func (f *pairFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.base, "base", service.DefaultBase, "base currency code")
	cmd.Flags().StringVar(&f.target, "target", service.DefaultTarget, "target currency code")
	cmd.Flags().StringVar(&f.start, "start", "", "first date, YYYY-MM-DD (default 180 days ago)")
	cmd.Flags().StringVar(&f.end, "end", "", "last date, YYYY-MM-DD (default today)")
}

func (f *pairFlags) dates() (civil.Date, civil.Date, error) {
	var start, end civil.Date
	var err error
	if f.start != "" {
		if start, err = civil.ParseDate(f.start); err != nil {
			return start, end, fmt.Errorf("invalid --start: %w", err)
		}
	}
	if f.end != "" {
		if end, err = civil.ParseDate(f.end); err != nil {
			return start, end, fmt.Errorf("invalid --end: %w", err)
		}
	}
	return start, end, nil
}

func ratesCmd() *cobra.Command {
	var flags pairFlags

	cmd := &cobra.Command{
		Use:   "rates",
		Short: "Show the rate history of a currency pair",
		RunE: func(cmd *cobra.Command, args []string) error {
			start, end, err := flags.dates()
			if err != nil {
				return err
			}

			result := wire.Service.RateReport(cmd.Context(), entity.RateQuery{
				Base:   upper(flags.base),
				Target: upper(flags.target),
				Start:  start,
				End:    end,
			})
			if !result.OK() {
				return result.Err
			}

			return printRateReport(cmd.OutOrStdout(), result.Value)
		},
	}
	flags.register(cmd)
	return cmd
}

func printRateReport(out io.Writer, r service.RateReport) error {
	fmt.Fprintf(out, "%s → %s (%d points)\n", r.Series.Base, r.Series.Target, r.Series.Len())

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, p := range r.Series.Points {
		fmt.Fprintf(tw, "%s\t%.4f\n", p.Date, p.Rate)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "current %.4f  change %.2f%%  volatility %.4f\n", r.Current, r.PercentChange, r.Volatility)
	return nil
}
