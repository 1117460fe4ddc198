package main

import (
	"fmt"
	"os"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"github.com/Muhammad-Zunain/air-monitoring/measurement"
)

func newExportCmd(opts *options) *cobra.Command {
	var (
		out  string
		date string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write readings as CSV",
		Long: `Write readings as CSV, to standard output or to the file given by --out.

Examples:
  airctl export > report.csv
  airctl export --date 2024-03-05 --out ~/air-report.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkDate(date); err != nil {
				return err
			}

			readings, err := loadReadings(cmd, opts, "")
			if err != nil {
				return err
			}
			if date != "" {
				readings = measurement.ForDate(readings, date)
			}

			if out == "" || out == "-" {
				return measurement.WriteCSV(cmd.OutOrStdout(), readings)
			}

			path, err := homedir.Expand(out)
			if err != nil {
				return err
			}

			f, err := os.Create(path)
			if err != nil {
				return err
			}
			if err := measurement.WriteCSV(f, readings); err != nil {
				f.Close()
				return fmt.Errorf("writing %s: %w", path, err)
			}

			opts.logger.Info("Exported readings", "file", path, "readings", len(readings))
			return f.Close()
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "file to write; - or empty for standard output")
	cmd.Flags().StringVarP(&date, "date", "d", "", "only export readings from this day (YYYY-MM-DD)")

	return cmd
}
