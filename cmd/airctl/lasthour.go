package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Muhammad-Zunain/air-monitoring/measurement"
)

func newLastHourCmd(opts *options) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "last-hour",
		Short: "Show half-hourly averages over the last hour",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.context(cmd)
			defer cancel()

			buckets, err := opts.client().HalfHourlyAverages(ctx)
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(cmd.OutOrStdout(), buckets)
			}

			tw := newTable(cmd.OutOrStdout())
			fmt.Fprint(tw, "TIME")
			for _, t := range measurement.Types() {
				fmt.Fprintf(tw, "\t%v", t)
			}
			fmt.Fprintln(tw, "\t")

			for _, b := range buckets {
				fmt.Fprint(tw, b.TimeRange)
				for _, t := range measurement.Types() {
					field := "-"
					if v, ok := b.Value(t); ok {
						field = measurement.FormatValue(v, t)
					}
					fmt.Fprintf(tw, "\t%s", field)
				}
				fmt.Fprintln(tw, "\t")
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")

	return cmd
}
