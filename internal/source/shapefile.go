package source

import (
	"context"
	"strconv"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/iancatez/natural-disaster-distance-monitor/internal/geospatial"
	"github.com/iancatez/natural-disaster-distance-monitor/internal/hazard"
)

// Shapefile reads fire perimeter polygons from a local shapefile, for
// air-gapped use and replaying archived perimeters. Expected fields are
// NAME (incident name), ACRES, and CONTAINPCT; missing fields degrade to
// unknowns rather than failing the load.
type Shapefile struct {
	path string
}

// NewShapefile builds the offline source for the given .shp path.
func NewShapefile(path string) *Shapefile {
	return &Shapefile{path: path}
}

func (s *Shapefile) Kind() hazard.Kind { return hazard.KindWildfire }

// Fetch reads every polygon in the file. Non-polygon shapes are skipped.
func (s *Shapefile) Fetch(ctx context.Context) ([]hazard.Record, error) {
	reader, err := shp.Open(s.path)
	if err != nil {
		return nil, eris.Wrapf(err, "shapefile: open %s", s.path)
	}
	defer func() { _ = reader.Close() }()

	nameIdx := fieldIndex(reader, "NAME")
	acresIdx := fieldIndex(reader, "ACRES")
	containIdx := fieldIndex(reader, "CONTAINPCT")

	var records []hazard.Record
	for reader.Next() {
		if err := ctx.Err(); err != nil {
			return nil, eris.Wrap(err, "shapefile: read")
		}

		_, shape := reader.Shape()
		polygon, ok := shape.(*shp.Polygon)
		if !ok {
			continue
		}
		rings := polygonRings(polygon)
		if len(rings) == 0 {
			continue
		}

		name := "Unknown Fire"
		if nameIdx >= 0 {
			if v := strings.TrimSpace(reader.Attribute(nameIdx)); v != "" {
				name = v
			}
		}

		var center *geospatial.Point
		if c, ok := ringCentroid(rings[0]); ok {
			center = &c
		}

		det := &hazard.WildfireDetails{}
		severity := "Unknown size"
		if acresIdx >= 0 {
			if acres, err := strconv.ParseFloat(strings.TrimSpace(reader.Attribute(acresIdx)), 64); err == nil {
				det.Acres = acres
				det.Size = hazard.FireSizeFromAcres(acres)
				severity = det.Size.Description()
			}
		}
		if containIdx >= 0 {
			if pct, err := strconv.ParseFloat(strings.TrimSpace(reader.Attribute(containIdx)), 64); err == nil {
				det.ContainmentPercent = &pct
			}
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
		records = append(records, rec)
	}

	zap.L().Info("loaded perimeters from shapefile",
		zap.String("path", s.path),
		zap.Int("records", len(records)),
	)
	return records, nil
}

// polygonRings splits a shapefile polygon's parts into rings. Part i runs
// from Parts[i] up to Parts[i+1] (or the end of Points for the last part);
// the first part is the outer boundary, the rest are holes.
func polygonRings(p *shp.Polygon) []geospatial.Ring {
	if p.NumParts == 0 || len(p.Points) == 0 {
		return nil
	}
	rings := make([]geospatial.Ring, 0, p.NumParts)
	for i := int32(0); i < p.NumParts; i++ {
		start := p.Parts[i]
		end := int32(len(p.Points))
		if i+1 < p.NumParts {
			end = p.Parts[i+1]
		}
		if end <= start {
			continue
		}
		ring := make(geospatial.Ring, 0, end-start)
		for j := start; j < end; j++ {
			ring = append(ring, geospatial.Point{Lon: p.Points[j].X, Lat: p.Points[j].Y})
		}
		rings = append(rings, ring)
	}
	return rings
}

// fieldIndex returns the index of a named field, or -1 if not present.
func fieldIndex(reader *shp.Reader, name string) int {
	for i, f := range reader.Fields() {
		if strings.EqualFold(strings.TrimRight(f.String(), "\x00"), name) {
			return i
		}
	}
	return -1
}
