package main

import (
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/iancatez/natural-disaster-distance-monitor/internal/arcgis"
	"github.com/iancatez/natural-disaster-distance-monitor/internal/hazard"
	"github.com/iancatez/natural-disaster-distance-monitor/internal/metrics"
	"github.com/iancatez/natural-disaster-distance-monitor/internal/query"
	"github.com/iancatez/natural-disaster-distance-monitor/internal/render"
	"github.com/iancatez/natural-disaster-distance-monitor/internal/resilience"
	"github.com/iancatez/natural-disaster-distance-monitor/internal/source"
)

// initService wires the configured hazard feeds into a query service. When a
// wildfire shapefile path is configured, the offline shapefile source
// replaces the live perimeter feed.
func initService() *query.Service {
	retry := resilience.RetryConfig{MaxAttempts: cfg.Feeds.MaxRetries}
	newClient := func(pageSize int) *arcgis.Client {
		return arcgis.NewClient(arcgis.Options{
			UserAgent: cfg.Feeds.UserAgent,
			Timeout:   cfg.Feeds.Timeout(),
			PageSize:  pageSize,
			RateLimit: rate.Limit(cfg.Feeds.RatePerSecond),
			Burst:     cfg.Feeds.RateBurst,
			Retry:     retry,
		})
	}

	var wildfires source.Source = source.NewWildfires(newClient(cfg.Wildfire.PageSize), cfg.Wildfire)
	if cfg.Wildfire.ShapefilePath != "" {
		wildfires = source.NewShapefile(cfg.Wildfire.ShapefilePath)
	}

	return query.NewService(metrics.New(),
		source.NewHurricanes(newClient(cfg.Hurricane.PageSize), cfg.Hurricane),
		source.NewTornadoes(newClient(cfg.Tornado.PageSize), cfg.Tornado),
		wildfires,
	)
}

// parseKinds converts --types values into hazard kinds. Empty input means
// all kinds.
func parseKinds(types []string) ([]hazard.Kind, error) {
	var kinds []hazard.Kind
	for _, t := range types {
		k := hazard.Kind(strings.ToLower(strings.TrimSpace(t)))
		if !k.Valid() {
			return nil, eris.Errorf("unknown hazard type %q (want hurricane, tornado, or wildfire)", t)
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

// writeReports renders the reports in the requested format, to the output
// file when given and stdout otherwise.
func writeReports(format, outputPath string, reports []*query.Report) error {
	var out io.Writer = os.Stdout
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return eris.Wrapf(err, "create output file %s", outputPath)
		}
		defer f.Close() //nolint:errcheck
		out = f
	}

	var err error
	switch format {
	case "table":
		err = render.Table(out, reports)
	case "json":
		err = render.JSON(out, reports)
	case "geojson":
		err = render.GeoJSON(out, reports)
	default:
		return eris.Errorf("unknown format %q (want table, json, or geojson)", format)
	}
	if err != nil {
		return err
	}

	if outputPath != "" {
		zap.L().Info("results written", zap.String("file", outputPath), zap.String("format", format))
	}
	return nil
}
