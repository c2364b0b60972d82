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

// Wildfires reads year-to-date fire perimeters from the WFIGS interagency
// service and keeps only recently active fires.
type Wildfires struct {
	client      *arcgis.Client
	layerURL    string
	recencyDays int
	now         func() time.Time
}

// NewWildfires builds the feed from configuration.
func NewWildfires(client *arcgis.Client, cfg config.WildfireConfig) *Wildfires {
	return &Wildfires{
		client:      client,
		layerURL:    cfg.LayerURL,
		recencyDays: cfg.RecencyDays,
		now:         time.Now,
	}
}

func (w *Wildfires) Kind() hazard.Kind { return hazard.KindWildfire }

// Fetch returns one record per recently active fire. The service has no
// usable server-side recency field across sources, so the filter runs
// client-side over the modification, perimeter, and containment dates; a
// fire missing a date passes that check (it may still be active).
func (w *Wildfires) Fetch(ctx context.Context) ([]hazard.Record, error) {
	features, err := w.client.Query(ctx, w.layerURL, "")
	if err != nil {
		return nil, eris.Wrap(err, "wildfires: fetch perimeters")
	}

	cutoff := w.now().AddDate(0, 0, -w.recencyDays)
	records := make([]hazard.Record, 0, len(features))
	for _, f := range features {
		if !recentFire(f.Attributes, cutoff) {
			continue
		}
		records = append(records, wildfireRecord(f))
	}

	zap.L().Info("fetched active wildfires",
		zap.Int("perimeters", len(features)),
		zap.Int("recent", len(records)),
		zap.Int("recency_days", w.recencyDays),
	)
	return records, nil
}

func recentFire(attrs arcgis.Attributes, cutoff time.Time) bool {
	for _, field := range []string{
		"attr_ModifiedOnDateTime_dt",
		"poly_DateCurrent",
		"attr_ContainmentDateTime",
	} {
		if ts, ok := attrs.Time(field); ok && ts.Before(cutoff) {
			return false
		}
	}
	return true
}

func wildfireRecord(f arcgis.Feature) hazard.Record {
	attrs := f.Attributes
	rings := ringsFromGeometry(f.Geometry)

	// Representative coordinate: perimeter centroid, else point of origin.
	var center *geospatial.Point
	if len(rings) > 0 {
		if c, ok := ringCentroid(rings[0]); ok {
			center = &c
		}
	}
	if center == nil {
		if lat, latOK := attrs.Float("attr_POOLatitude"); latOK {
			if lon, lonOK := attrs.Float("attr_POOLongitude"); lonOK {
				center = &geospatial.Point{Lat: lat, Lon: lon}
			}
		}
	}

	name := attrs.String("poly_IncidentName")
	if name == "" {
		name = "Unknown Fire"
	}

	det := &hazard.WildfireDetails{FireID: attrs.String("poly_IRWINID")}

	severity := "Unknown size"
	if acres, ok := attrs.Float("attr_IncidentSize"); ok {
		det.Acres = acres
		det.Size = hazard.FireSizeFromAcres(acres)
		severity = det.Size.Description()
	}
	if pct, ok := attrs.Float("attr_PercentContained"); ok {
		det.ContainmentPercent = &pct
		severity += fmt.Sprintf(" (%.0f%% contained)", pct)
	}

	rec := hazard.Record{
		Kind:     hazard.KindWildfire,
		Name:     name,
		Shape:    geospatial.MultiRingShape(rings, center),
		Severity: severity,
		Wildfire: det,
	}
	if center != nil {
		rec.Center = *center
	}
	if ts, ok := attrs.Time("attr_ModifiedOnDateTime_dt"); ok {
		rec.LastUpdated = &ts
	}
	return rec
}
