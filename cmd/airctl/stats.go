package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"github.com/Muhammad-Zunain/air-monitoring/measurement"
	"github.com/Muhammad-Zunain/air-monitoring/stats"
)

func newStatsCmd(opts *options) *cobra.Command {
	var (
		typeName string
		date     string
		remote   bool
		file     string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show the current, highest and lowest value of each measurement type",
		Long: `Show the stat cards for each measurement type.

Examples:
  airctl stats
  airctl stats --type dust --date 2024-03-05
  airctl stats --file ~/air-report.csv
  airctl stats --remote --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkDate(date); err != nil {
				return err
			}

			types := measurement.Types()
			if typeName != "" {
				t, err := measurement.ParseType(typeName)
				if err != nil {
					return err
				}
				types = []measurement.Type{t}
			}

			var all map[measurement.Type][]stats.DerivedStat
			if remote {
				if date != "" || file != "" {
					return errors.New("--remote can't be combined with --date or --file")
				}

				ctx, cancel := opts.context(cmd)
				defer cancel()

				var err error
				if all, err = opts.client().StatData(ctx); err != nil {
					return err
				}
			} else {
				readings, err := loadReadings(cmd, opts, file)
				if err != nil {
					return err
				}
				if date != "" {
					readings = measurement.ForDate(readings, date)
				}
				opts.logger.Debug("Computing stats", "readings", len(readings), "date", date)
				all = stats.ComputeAll(readings)
			}

			if asJSON {
				out := make(map[measurement.Type][]stats.DerivedStat, len(types))
				for _, t := range types {
					out[t] = all[t]
					if out[t] == nil {
						out[t] = []stats.DerivedStat{}
					}
				}
				return printJSON(cmd.OutOrStdout(), out)
			}

			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintln(tw, "TITLE\tVALUE\tCHANGE\t")
			for _, t := range types {
				if len(all[t]) == 0 {
					fmt.Fprintf(tw, "No %v readings\t\t\t\n", t)
					continue
				}
				for _, s := range all[t] {
					fmt.Fprintf(tw, "%s\t%s\t%s\t\n", s.Title, s.Value, s.IncreasePercent)
				}
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVarP(&typeName, "type", "t", "", "only show this type (temperature, humidity or dust)")
	cmd.Flags().StringVarP(&date, "date", "d", "", "only use readings from this day (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&remote, "remote", false, "show the backend's stat cards instead of deriving them")
	cmd.Flags().StringVarP(&file, "file", "f", "", "derive from a CSV file written by airctl export instead of the API")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")

	return cmd
}

// loadReadings reads readings from a CSV file, or from the API if file is empty, and
// derives their display dates in the configured time zone.
func loadReadings(cmd *cobra.Command, opts *options, file string) ([]measurement.Reading, error) {
	loc, err := opts.location()
	if err != nil {
		return nil, err
	}

	var readings []measurement.Reading
	if file != "" {
		path, err := homedir.Expand(file)
		if err != nil {
			return nil, err
		}

		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		if readings, err = measurement.ReadCSV(f); err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
	} else {
		ctx, cancel := opts.context(cmd)
		defer cancel()

		if readings, err = opts.client().AirData(ctx); err != nil {
			return nil, err
		}
	}

	for i := range readings {
		readings[i] = readings[i].WithDisplayTime(loc)
	}
	return readings, nil
}
