package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List the configured hazard feeds",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		fmt.Fprintln(out, "Configured hazard feeds:")
		fmt.Fprintln(out)

		fmt.Fprintln(out, "  hurricane  NOAA/NHC active hurricane advisories")
		fmt.Fprintf(out, "             %s (cone layer %d, details layer %d)\n",
			cfg.Hurricane.BaseURL, cfg.Hurricane.ConeLayer, cfg.Hurricane.DetailsLayer)

		fmt.Fprintln(out, "  tornado    NOAA damage assessment toolkit surveys")
		minEF := "all ratings"
		if cfg.Tornado.MinEF > 0 {
			minEF = fmt.Sprintf("EF%d and up", cfg.Tornado.MinEF)
		}
		fmt.Fprintf(out, "             %s (lookback %d days, %s)\n",
			cfg.Tornado.LayerURL, cfg.Tornado.LookbackDays, minEF)

		if cfg.Wildfire.ShapefilePath != "" {
			fmt.Fprintln(out, "  wildfire   local perimeter shapefile")
			fmt.Fprintf(out, "             %s\n", cfg.Wildfire.ShapefilePath)
		} else {
			fmt.Fprintln(out, "  wildfire   WFIGS interagency fire perimeters")
			fmt.Fprintf(out, "             %s (updated within %d days)\n",
				cfg.Wildfire.LayerURL, cfg.Wildfire.RecencyDays)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}
