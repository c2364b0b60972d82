package source

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/iancatez/natural-disaster-distance-monitor/internal/arcgis"
	"github.com/iancatez/natural-disaster-distance-monitor/internal/config"
	"github.com/iancatez/natural-disaster-distance-monitor/internal/geospatial"
	"github.com/iancatez/natural-disaster-distance-monitor/internal/hazard"
)

// Hurricanes reads the NOAA/NHC active hurricanes service: forecast cone
// polygons from one layer and per-advisory forecast points from another.
type Hurricanes struct {
	client       *arcgis.Client
	baseURL      string
	coneLayer    int
	detailsLayer int
}

// NewHurricanes builds the feed from configuration.
func NewHurricanes(client *arcgis.Client, cfg config.HurricaneConfig) *Hurricanes {
	return &Hurricanes{
		client:       client,
		baseURL:      cfg.BaseURL,
		coneLayer:    cfg.ConeLayer,
		detailsLayer: cfg.DetailsLayer,
	}
}

func (h *Hurricanes) Kind() hazard.Kind { return hazard.KindHurricane }

// stormKey identifies one storm across layers. Cone and forecast rows join
// on (name, number); a storm can appear with several advisories.
type stormKey struct {
	name string
	num  int
}

// Fetch returns one record per active storm: the latest advisory's cone as
// the shape, current-position details joined from the forecast layer.
func (h *Hurricanes) Fetch(ctx context.Context) ([]hazard.Record, error) {
	coneURL := fmt.Sprintf("%s/%d", h.baseURL, h.coneLayer)
	detailsURL := fmt.Sprintf("%s/%d", h.baseURL, h.detailsLayer)

	cones, err := h.client.Query(ctx, coneURL, "")
	if err != nil {
		return nil, eris.Wrap(err, "hurricanes: fetch forecast cones")
	}
	details, err := h.client.Query(ctx, detailsURL, "")
	if err != nil {
		return nil, eris.Wrap(err, "hurricanes: fetch forecast points")
	}

	positions := currentPositions(details)

	records := make([]hazard.Record, 0, len(cones))
	seen := make(map[stormKey]bool)
	for _, cone := range cones {
		key := keyFor(cone.Attributes)
		if seen[key] {
			continue
		}
		seen[key] = true
		records = append(records, h.record(cone, positions[key]))
	}

	zap.L().Info("fetched active hurricanes",
		zap.Int("cones", len(cones)),
		zap.Int("storms", len(records)),
	)
	return records, nil
}

// currentPositions picks, per storm, the forecast row with the lowest TAU
// (forecast hour): TAU 0 is the current position.
func currentPositions(details []arcgis.Feature) map[stormKey]arcgis.Attributes {
	positions := make(map[stormKey]arcgis.Attributes)
	lowestTau := make(map[stormKey]float64)
	for _, f := range details {
		key := keyFor(f.Attributes)
		tau, ok := f.Attributes.Float("TAU")
		if !ok {
			tau = 999
		}
		if prev, seen := lowestTau[key]; !seen || tau < prev {
			lowestTau[key] = tau
			positions[key] = f.Attributes
		}
	}
	return positions
}

func keyFor(a arcgis.Attributes) stormKey {
	num, _ := a.Int("STORMNUM")
	return stormKey{name: a.String("STORMNAME"), num: num}
}

func (h *Hurricanes) record(cone arcgis.Feature, position arcgis.Attributes) hazard.Record {
	attrs := cone.Attributes

	name := attrs.String("STORMNAME")
	if name == "" {
		name = "Unknown"
	}

	// Current position from the forecast layer, cone attributes as backup.
	centerLat, latOK := position.Float("LAT")
	centerLon, lonOK := position.Float("LON")
	if !latOK || !lonOK {
		centerLat, latOK = attrs.Float("LAT")
		centerLon, lonOK = attrs.Float("LON")
	}
	var center *geospatial.Point
	if latOK && lonOK {
		center = &geospatial.Point{Lat: centerLat, Lon: centerLon}
	}

	var shape geospatial.Shape
	if rings := ringsFromGeometry(cone.Geometry); len(rings) > 0 {
		shape = geospatial.PolygonShape(rings[0], center)
	} else if center != nil {
		shape = geospatial.PointShape(*center)
	} else {
		shape = geospatial.Shape{Kind: geospatial.KindPolygon}
	}

	maxWind, windOK := position.Float("MAXWIND")
	if !windOK {
		maxWind, windOK = attrs.Float("MAX_WIND")
	}

	var category hazard.Category
	if ssnum, ok := position.Int("SSNUM"); ok {
		category = hazard.CategoryFromSaffirSimpson(ssnum)
	} else if windOK {
		category = hazard.CategoryFromWind(maxWind)
	}

	stormType := attrs.String("STORMTYPE")
	if stormType == "" {
		stormType = position.String("STORMTYPE")
	}
	if stormType == "" {
		stormType = "Storm"
	}

	severity := stormType
	if category != "" {
		severity = fmt.Sprintf("%s - %s", stormType, category.Description())
	}

	det := &hazard.HurricaneDetails{
		Category:       category,
		AdvisoryNumber: attrs.String("ADVISNUM"),
		Basin:          attrs.String("BASIN"),
		StormType:      stormType,
	}
	if windOK {
		det.MaxWindMPH = maxWind
	}
	if gust, ok := position.Float("GUST"); ok {
		det.GustMPH = gust
	}
	if dir, ok := position.Float("TCDIR"); ok {
		det.MovementDir = hazard.CompassDirection(dir)
	}
	if spd, ok := position.Float("TCSPD"); ok {
		det.MovementMPH = spd
	}

	rec := hazard.Record{
		Kind:      hazard.KindHurricane,
		Name:      name,
		Shape:     shape,
		Severity:  severity,
		Hurricane: det,
	}
	if center != nil {
		rec.Center = *center
	}
	if adv, ok := attrs.Time("ADVDATE"); ok {
		rec.LastUpdated = &adv
	}
	return rec
}
