package main

import (
	"github.com/spf13/cobra"
)

func newSummaryCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print the dashboard cards and value distribution",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx, opts)
			if err != nil {
				return err
			}
			defer a.Close(ctx)

			dashboard := a.Reports.Dashboard()
			overview := a.Reports.Overview()
			out := cmd.OutOrStdout()

			if opts.outputFmt == "json" {
				return printJSON(out, map[string]any{
					"dashboard":    dashboard,
					"distribution": overview.Distribution,
				})
			}

			rows := make([][]string, 0, len(dashboard.Cards))
			for _, c := range dashboard.Cards {
				rows = append(rows, []string{c.Title, c.Value, c.Caption})
			}
			if err := printTable(out, []string{"Metric", "Value", "Caption"}, rows); err != nil {
				return err
			}

			rows = rows[:0]
			for _, s := range overview.Distribution {
				rows = append(rows, []string{s.Name, s.Display, s.Percent})
			}
			out.Write([]byte("\n"))
			return printTable(out, []string{"Segment", "Value", "Share"}, rows)
		},
	}
}
