package main

import (
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/iancatez/natural-disaster-distance-monitor/internal/locations"
	"github.com/iancatez/natural-disaster-distance-monitor/internal/query"
)

var (
	batchFile        string
	batchRadius      float64
	batchTypes       []string
	batchFormat      string
	batchOutput      string
	batchConcurrency int
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Query hazards for every location in a CSV or YAML file",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		kinds, err := parseKinds(batchTypes)
		if err != nil {
			return err
		}

		locs, err := locations.Load(batchFile)
		if err != nil {
			return eris.Wrap(err, "load locations")
		}
		if len(locs) == 0 {
			zap.L().Info("no valid locations in file", zap.String("file", batchFile))
			return nil
		}

		radius := batchRadius
		if radius <= 0 {
			radius = cfg.Query.RadiusMiles
		}
		concurrency := batchConcurrency
		if concurrency <= 0 {
			concurrency = cfg.Batch.Concurrency
		}

		zap.L().Info("processing batch",
			zap.Int("locations", len(locs)),
			zap.Int("concurrency", concurrency),
		)

		svc := initService()
		reports := make([]*query.Report, len(locs))

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(concurrency)
		for i, loc := range locs {
			g.Go(func() error {
				reports[i] = svc.Near(gctx, loc, radius, kinds)
				return nil
			})
		}
		_ = g.Wait() // queries degrade per feed rather than failing

		return writeReports(batchFormat, batchOutput, reports)
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchFile, "file", "", "locations file, .csv or .yaml (required)")
	batchCmd.Flags().Float64Var(&batchRadius, "radius", 0, "search radius in miles (default from config)")
	batchCmd.Flags().StringSliceVar(&batchTypes, "types", nil, "hazard types to query (default all)")
	batchCmd.Flags().StringVar(&batchFormat, "format", "table", "output format: table, json, or geojson")
	batchCmd.Flags().StringVar(&batchOutput, "output", "", "write results to file instead of stdout")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 0, "locations queried in parallel (default from config)")
	_ = batchCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(batchCmd)
}
