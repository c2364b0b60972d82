package source

import (
	"context"
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/iancatez/natural-disaster-distance-monitor/internal/arcgis"
	"github.com/iancatez/natural-disaster-distance-monitor/internal/config"
	"github.com/iancatez/natural-disaster-distance-monitor/internal/geospatial"
	"github.com/iancatez/natural-disaster-distance-monitor/internal/hazard"
)

// Tornadoes reads confirmed tornado damage surveys from the NOAA damage
// assessment toolkit. Each survey is a point hazard at the tornado's start
// position.
type Tornadoes struct {
	client       *arcgis.Client
	layerURL     string
	lookbackDays int
	minEF        int
	now          func() time.Time
}

// NewTornadoes builds the feed from configuration.
func NewTornadoes(client *arcgis.Client, cfg config.TornadoConfig) *Tornadoes {
	return &Tornadoes{
		client:       client,
		layerURL:     cfg.LayerURL,
		lookbackDays: cfg.LookbackDays,
		minEF:        cfg.MinEF,
		now:          time.Now,
	}
}

func (t *Tornadoes) Kind() hazard.Kind { return hazard.KindTornado }

// whereClause restricts the query server-side to the lookback window and,
// when configured, a minimum EF rating.
func (t *Tornadoes) whereClause() string {
	start := t.now().AddDate(0, 0, -t.lookbackDays).Format("2006-01-02")
	where := fmt.Sprintf("stormdate >= DATE '%s'", start)
	if t.minEF > 0 {
		where += fmt.Sprintf(" AND efnum >= %d", t.minEF)
	}
	return where
}

// Fetch returns one record per surveyed tornado. Rows without a start
// position are skipped.
func (t *Tornadoes) Fetch(ctx context.Context) ([]hazard.Record, error) {
	features, err := t.client.Query(ctx, t.layerURL, t.whereClause())
	if err != nil {
		return nil, eris.Wrap(err, "tornadoes: fetch damage surveys")
	}

	records := make([]hazard.Record, 0, len(features))
	for _, f := range features {
		rec, ok := tornadoRecord(f.Attributes)
		if !ok {
			continue
		}
		records = append(records, rec)
	}

	zap.L().Info("fetched recent tornadoes",
		zap.Int("surveys", len(features)),
		zap.Int("records", len(records)),
		zap.Int("lookback_days", t.lookbackDays),
	)
	return records, nil
}

func tornadoRecord(attrs arcgis.Attributes) (hazard.Record, bool) {
	startLat, latOK := attrs.Float("startlat")
	startLon, lonOK := attrs.Float("startlon")
	if !latOK || !lonOK {
		return hazard.Record{}, false
	}
	start := geospatial.Point{Lat: startLat, Lon: startLon}

	det := &hazard.TornadoDetails{}
	efLabel := "Unknown"
	severity := "Unknown"
	if efnum, ok := attrs.Int("efnum"); ok {
		efLabel = fmt.Sprintf("EF%d", efnum)
		severity = efLabel
		if scale, valid := hazard.EFScaleFromNumber(efnum); valid {
			det.EFScale = &scale
			severity = scale.Description()
		}
	}

	if wind, ok := attrs.Float("maxwind"); ok && wind > 0 {
		det.MaxWindMPH = wind
	}
	if length, ok := attrs.Float("length"); ok && length > 0 {
		det.PathLengthMiles = length
	}
	if width, ok := attrs.Float("width"); ok && width > 0 {
		det.PathWidthYards = width
	}
	if fatalities, ok := attrs.Int("fatalities"); ok {
		det.Fatalities = fatalities
	}
	if injuries, ok := attrs.Int("injuries"); ok {
		det.Injuries = injuries
	}
	if date, ok := attrs.Time("stormdate"); ok {
		det.StormDate = &date
	}

	rec := hazard.Record{
		Kind:     hazard.KindTornado,
		Name:     "Tornado " + efLabel,
		Shape:    geospatial.PointShape(start),
		Center:   start,
		Severity: severity,
		Tornado:  det,
	}
	if det.StormDate != nil {
		rec.LastUpdated = det.StormDate
	}
	return rec, true
}
