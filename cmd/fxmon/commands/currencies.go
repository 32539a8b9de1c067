package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func currenciesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "currencies",
		Short: "List the available currencies",
		RunE: func(cmd *cobra.Command, args []string) error {
			result := wire.Service.Currencies(cmd.Context())
			if !result.OK() {
				return result.Err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, c := range result.Value.Currencies() {
				fmt.Fprintf(tw, "%s\t%s\n", c.Code, c.Name)
			}
			return tw.Flush()
		},
	}
	return cmd
}

func countriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "countries",
		Short: "List the countries with inflation data",
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, c := range wire.Service.Countries() {
				fmt.Fprintf(tw, "%s\t%s\n", c.ISO2, c.Name)
			}
			return tw.Flush()
		},
	}
	return cmd
}
