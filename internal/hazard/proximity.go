package hazard

import (
	"math"

	"github.com/iancatez/natural-disaster-distance-monitor/internal/geospatial"
)

// Proximity is the outcome of evaluating one hazard shape against a query
// point. Contained implies DistanceMiles == 0. A shape with no usable
// geometry evaluates to {+Inf, false} so it ranks behind everything and is
// filtered out by any finite radius.
type Proximity struct {
	DistanceMiles float64
	Contained     bool
}

// Evaluate applies the per-kind proximity policy to a shape. It never fails:
// every input, including empty geometry, maps to a well-defined Proximity.
//
// Polygon and multi-ring distances are measured to ring vertices only, not
// to edge interiors. A query point far from every vertex but close to a long
// edge therefore reads slightly far. Feed rings are dense enough that the
// error stays small, and containment is exact regardless; pinned by
// TestEvaluate_ConeOutside_VertexDistance.
func Evaluate(query geospatial.Point, shape geospatial.Shape) Proximity {
	switch shape.Kind {
	case geospatial.KindPolygon:
		if len(shape.Outer) > 0 {
			return evalPolygon(query, shape.Outer)
		}
	case geospatial.KindMultiRing:
		if len(shape.Outer) > 0 {
			return evalMultiRing(query, shape)
		}
	}

	// Point shapes, and polygon shapes whose ring data was missing, fall
	// back to the center coordinate.
	if shape.Center != nil {
		return Proximity{DistanceMiles: geospatial.Distance(query, *shape.Center)}
	}
	return Proximity{DistanceMiles: math.Inf(1)}
}

// evalPolygon handles a single-ring shape such as a forecast cone: inside
// means distance zero, outside means distance to the nearest cone vertex.
func evalPolygon(query geospatial.Point, outer geospatial.Ring) Proximity {
	if geospatial.Contains(query, outer) {
		return Proximity{Contained: true}
	}
	return Proximity{DistanceMiles: geospatial.MinDistanceToRing(query, outer)}
}

// evalMultiRing handles a perimeter with holes: the point is contained when
// it is inside the outer boundary and not inside any hole. Distance is the
// minimum vertex distance across every ring, holes included, forced to zero
// when contained.
func evalMultiRing(query geospatial.Point, shape geospatial.Shape) Proximity {
	inside := geospatial.Contains(query, shape.Outer)
	if inside {
		for _, hole := range shape.Holes {
			if geospatial.Contains(query, hole) {
				inside = false
				break
			}
		}
	}
	if inside {
		return Proximity{Contained: true}
	}

	min := math.Inf(1)
	for _, ring := range shape.Rings() {
		if d := geospatial.MinDistanceToRing(query, ring); d < min {
			min = d
		}
	}
	return Proximity{DistanceMiles: min}
}
