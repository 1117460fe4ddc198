package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Muhammad-Zunain/air-monitoring/airapi"
)

func newLocationsCmd(opts *options) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "locations",
		Aliases: []string{"loc"},
		Short:   "List where the sensor controllers are installed",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.context(cmd)
			defer cancel()

			locs, err := opts.client().ControllerLocations(ctx)
			if err != nil {
				return err
			}
			counts := airapi.CountByCountry(locs)

			if asJSON {
				if locs == nil {
					locs = []airapi.Location{}
				}
				return printJSON(cmd.OutOrStdout(), struct {
					Locations []airapi.Location     `json:"locations"`
					Countries []airapi.CountryCount `json:"countries"`
				}{locs, counts})
			}

			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintln(tw, "COUNTRY\tCITY\tREGION\tLAT\tLON\t")
			for _, l := range locs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%.4f\t%.4f\t\n", l.Country, l.City, l.RegionName, l.Lat, l.Lon)
			}
			fmt.Fprintln(tw, "\t\t\t\t\t")
			fmt.Fprintln(tw, "ISO\tCONTROLLERS\t\t\t\t")
			for _, c := range counts {
				fmt.Fprintf(tw, "%s\t%d\t\t\t\t\n", c.ID, c.Value)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")

	return cmd
}
