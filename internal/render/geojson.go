package render

import (
	"encoding/json"
	"io"
	"math"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/iancatez/natural-disaster-distance-monitor/internal/hazard"
	"github.com/iancatez/natural-disaster-distance-monitor/internal/query"
)

// GeoJSON writes every ranked hazard across the reports as a
// FeatureCollection of Point features at the hazard centers. Proximity and
// severity ride along as feature properties so the output drops straight
// into a map viewer.
func GeoJSON(w io.Writer, reports []*query.Report) error {
	fc := &geojson.FeatureCollection{Features: []*geojson.Feature{}}

	for _, r := range reports {
		for _, kind := range hazard.Kinds() {
			for _, res := range r.Results[kind] {
				fc.Features = append(fc.Features, hazardFeature(r, res))
			}
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(fc); err != nil {
		return eris.Wrap(err, "render: encode geojson")
	}
	return nil
}

func hazardFeature(r *query.Report, res hazard.Result) *geojson.Feature {
	props := map[string]any{
		"hazard_type":    string(res.Kind),
		"name":           res.Name,
		"distance_miles": math.Round(res.DistanceMiles*100) / 100,
		"severity":       res.Severity,
		"contained":      res.Contained,
		"query_location": r.Location.Name,
	}
	if res.LastUpdated != nil {
		props["last_updated"] = res.LastUpdated
	}

	return &geojson.Feature{
		Geometry:   geom.NewPointFlat(geom.XY, []float64{res.Center.Lon, res.Center.Lat}),
		Properties: props,
	}
}
