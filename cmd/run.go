package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/iancatez/natural-disaster-distance-monitor/internal/geospatial"
	"github.com/iancatez/natural-disaster-distance-monitor/internal/locations"
	"github.com/iancatez/natural-disaster-distance-monitor/internal/query"
)

var (
	runLat    float64
	runLon    float64
	runName   string
	runRadius float64
	runTypes  []string
	runFormat string
	runOutput string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Query hazards near a single location",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !geospatial.ValidCoordinates(runLat, runLon) {
			return eris.Errorf("coordinates out of range: (%.4f, %.4f)", runLat, runLon)
		}
		kinds, err := parseKinds(runTypes)
		if err != nil {
			return err
		}

		radius := runRadius
		if radius <= 0 {
			radius = cfg.Query.RadiusMiles
		}

		svc := initService()
		loc := locations.Location{Name: runName, Latitude: runLat, Longitude: runLon}
		report := svc.Near(cmd.Context(), loc, radius, kinds)

		return writeReports(runFormat, runOutput, []*query.Report{report})
	},
}

func init() {
	runCmd.Flags().Float64Var(&runLat, "lat", 0, "query latitude (required)")
	runCmd.Flags().Float64Var(&runLon, "lon", 0, "query longitude (required)")
	runCmd.Flags().StringVar(&runName, "name", "Query Location", "display name for the location")
	runCmd.Flags().Float64Var(&runRadius, "radius", 0, "search radius in miles (default from config)")
	runCmd.Flags().StringSliceVar(&runTypes, "types", nil, "hazard types to query (default all)")
	runCmd.Flags().StringVar(&runFormat, "format", "table", "output format: table, json, or geojson")
	runCmd.Flags().StringVar(&runOutput, "output", "", "write results to file instead of stdout")
	_ = runCmd.MarkFlagRequired("lat")
	_ = runCmd.MarkFlagRequired("lon")
	rootCmd.AddCommand(runCmd)
}
