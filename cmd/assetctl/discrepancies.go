package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDiscrepanciesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "discrepancies",
		Aliases: []string{"disc"},
		Short:   "List assets whose amounts do not add up to the grand total",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx, opts)
			if err != nil {
				return err
			}
			defer a.Close(ctx)

			found := a.Reports.Discrepancies()
			out := cmd.OutOrStdout()
			if opts.outputFmt == "json" {
				return printJSON(out, found)
			}
			if len(found) == 0 {
				fmt.Fprintln(out, "No discrepancies found.")
				return nil
			}

			rows := make([][]string, len(found))
			for i, d := range found {
				rows[i] = []string{d.AssetID, d.AssetClass, d.GrandTotal.String(), d.ComponentSum.String(), d.Gap.String()}
			}
			return printTable(out, []string{"Asset ID", "Class", "Grand Total", "Components", "Gap"}, rows)
		},
	}
}
