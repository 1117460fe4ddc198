package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Muhammad-Zunain/air-monitoring/measurement"
)

func newMonthlyCmd(opts *options) *cobra.Command {
	var (
		year     int
		typeName string
		local    bool
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "monthly",
		Short: "Show the average of a measurement type for each month of a year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := measurement.ParseType(typeName)
			if err != nil {
				return err
			}

			var avgs []measurement.MonthlyAverage
			if local {
				readings, err := loadReadings(cmd, opts, "")
				if err != nil {
					return err
				}
				avgs = measurement.MonthlyAverages(readings, year, t)
			} else {
				ctx, cancel := opts.context(cmd)
				defer cancel()

				if avgs, err = opts.client().MonthlyAverages(ctx, year, t); err != nil {
					return err
				}
			}

			if asJSON {
				return printJSON(cmd.OutOrStdout(), avgs)
			}

			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintf(tw, "MONTH\tAVERAGE %v\t\n", t)
			for _, m := range avgs {
				fmt.Fprintf(tw, "%v\t%s\t\n", m.Month, measurement.FormatValue(m.Average, t))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVarP(&year, "year", "y", time.Now().Year(), "year to average")
	cmd.Flags().StringVarP(&typeName, "type", "t", measurement.Temperature.String(), "measurement type")
	cmd.Flags().BoolVar(&local, "local", false, "average the raw readings locally instead of asking the backend")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")

	return cmd
}
