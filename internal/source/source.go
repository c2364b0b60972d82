// Package source implements the hazard feeds: NOAA/NHC active hurricanes,
// the NOAA damage assessment toolkit for tornadoes, WFIGS fire perimeters,
// and an offline shapefile reader. Each feed turns raw features into
// hazard.Records; proximity evaluation and ranking happen upstream.
package source

import (
	"context"

	"github.com/iancatez/natural-disaster-distance-monitor/internal/arcgis"
	"github.com/iancatez/natural-disaster-distance-monitor/internal/geospatial"
	"github.com/iancatez/natural-disaster-distance-monitor/internal/hazard"
)

// Source is one hazard feed. Fetch returns every currently-tracked hazard
// of the feed's kind; the caller decides which are near enough to matter.
type Source interface {
	Kind() hazard.Kind
	Fetch(ctx context.Context) ([]hazard.Record, error)
}

// ringsFromGeometry converts ArcGIS polygon rings, vertices in (lon, lat)
// order, into engine rings. Empty rings are dropped.
func ringsFromGeometry(g *arcgis.Geometry) []geospatial.Ring {
	if g == nil || len(g.Rings) == 0 {
		return nil
	}
	rings := make([]geospatial.Ring, 0, len(g.Rings))
	for _, raw := range g.Rings {
		if len(raw) == 0 {
			continue
		}
		ring := make(geospatial.Ring, len(raw))
		for i, v := range raw {
			ring[i] = geospatial.Point{Lon: v[0], Lat: v[1]}
		}
		rings = append(rings, ring)
	}
	return rings
}

// ringCentroid returns the vertex mean of a ring. The second return is
// false for an empty ring.
func ringCentroid(ring geospatial.Ring) (geospatial.Point, bool) {
	if len(ring) == 0 {
		return geospatial.Point{}, false
	}
	var sumLat, sumLon float64
	for _, v := range ring {
		sumLat += v.Lat
		sumLon += v.Lon
	}
	n := float64(len(ring))
	return geospatial.Point{Lat: sumLat / n, Lon: sumLon / n}, true
}
