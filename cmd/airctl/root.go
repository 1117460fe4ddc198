package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/Muhammad-Zunain/air-monitoring/airapi"
	"github.com/Muhammad-Zunain/air-monitoring/measurement"
)

// options holds the flags shared by every subcommand.
type options struct {
	apiURL   string
	timeout  time.Duration
	timezone string
	verbose  bool

	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "airctl",
		Short: "Query the air-monitoring backend",
		Long: `airctl talks to the air-monitoring backend that the sensor controllers report to.

Stat cards are derived locally from the raw readings unless --remote is given, in which
case the backend's own cards are shown.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			opts.logger = newLogger(cmd.ErrOrStderr(), opts.verbose)
		},
	}

	defaultURL := os.Getenv("AIR_API_URL")
	if defaultURL == "" {
		defaultURL = airapi.DefaultBaseURL
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.apiURL, "api-url", defaultURL, "base URL of the API (default from $AIR_API_URL)")
	flags.DurationVar(&opts.timeout, "timeout", airapi.DefaultTimeout, "timeout for each request")
	flags.StringVar(&opts.timezone, "tz", "UTC", "IANA time zone in which reading dates are derived")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose (debug) logging")

	cmd.AddCommand(
		newStatsCmd(opts),
		newMonthlyCmd(opts),
		newLastHourCmd(opts),
		newLocationsCmd(opts),
		newExportCmd(opts),
		newUploadCmd(opts),
	)

	return cmd
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}

func (o *options) client() *airapi.Client {
	return airapi.New(airapi.Config{
		BaseURL: o.apiURL,
		Timeout: o.timeout,
		Logger:  o.logger,
	})
}

// context bounds a single call to the API.
func (o *options) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), o.timeout)
}

func (o *options) location() (*time.Location, error) {
	loc, err := time.LoadLocation(o.timezone)
	if err != nil {
		return nil, fmt.Errorf("bad time zone: %w", err)
	}
	return loc, nil
}

// checkDate returns an error unless date is empty or a day in measurement.DateLayout.
func checkDate(date string) error {
	if date == "" {
		return nil
	}
	if _, err := time.Parse(measurement.DateLayout, date); err != nil {
		return fmt.Errorf("bad date %q: want YYYY-MM-DD", date)
	}
	return nil
}

func printJSON(w io.Writer, v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to format response: %w", err)
	}

	_, err = fmt.Fprintln(w, string(output))
	return err
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
}
