package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/damon-houk/fx-inflation-monitor/internal/application/service"
	"github.com/damon-houk/fx-inflation-monitor/internal/domain/entity"
)

func dashboardCmd() *cobra.Command {
	var (
		flags       pairFlags
		country     string
		compare     string
		noInflation bool
	)

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show rates, inflation, metric cards and insights in one view",
		RunE: func(cmd *cobra.Command, args []string) error {
			start, end, err := flags.dates()
			if err != nil {
				return err
			}

			d := wire.Service.Dashboard(cmd.Context(), service.DashboardRequest{
				Base:          upper(flags.base),
				Target:        upper(flags.target),
				Start:         start,
				End:           end,
				Country:       country,
				Compare:       compare,
				ShowInflation: !noInflation,
			})

			out := cmd.OutOrStdout()

			if !d.Rates.OK() {
				fmt.Fprintf(out, "Could not load exchange data: %s\n", d.Rates.Message())
			}
			for _, section := range []*entity.Result[service.InflationReport]{d.Inflation, d.Comparison} {
				if section != nil && !section.OK() {
					fmt.Fprintf(out, "Could not load inflation data: %s\n", section.Message())
				}
			}

			for _, c := range d.Cards {
				if c.Delta != "" {
					fmt.Fprintf(out, "%s: %s (%s)\n", c.Label, c.Value, c.Delta)
					continue
				}
				fmt.Fprintf(out, "%s: %s\n", c.Label, c.Value)
			}

			if len(d.Insights) > 0 {
				fmt.Fprintln(out, "\nInsights")
				for _, s := range d.Insights {
					fmt.Fprintf(out, "- %s\n", s)
				}
			}

			fmt.Fprint(out, "\nData sources:")
			for i, s := range d.Sources {
				sep := ","
				if i == 0 {
					sep = ""
				}
				fmt.Fprintf(out, "%s %s (%s) for %s", sep, s.Name, s.URL, s.Description)
			}
			fmt.Fprintln(out)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&country, "country", service.DefaultCountry, "country for the inflation section")
	cmd.Flags().StringVar(&compare, "compare", "", "second country to compare inflation with")
	cmd.Flags().BoolVar(&noInflation, "no-inflation", false, "skip the inflation sections")
	return cmd
}
