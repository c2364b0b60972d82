// Package geospatial implements the proximity engine: great-circle distance
// and tolerant point-in-ring containment over lat/lon coordinates in degrees.
//
// The engine is pure and stateless. Coordinates are assumed to be validated
// by the caller (latitude in [-90, 90], longitude in [-180, 180]); the engine
// uses the values as given and never re-validates. Every operation returns a
// well-defined result for every input, including degenerate geometry.
package geospatial

// Point is a geographic coordinate in decimal degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Ring is an ordered sequence of vertices forming an implicitly closed
// polygon boundary (an edge runs from the last vertex back to the first).
// Rings with fewer than 3 vertices are degenerate and contribute nothing.
type Ring []Point

// ShapeKind tags the geometry variant carried by a Shape.
type ShapeKind int

const (
	// KindPoint is a single coordinate with no polygon geometry.
	KindPoint ShapeKind = iota
	// KindPolygon is a single outer ring (e.g., a hurricane forecast cone).
	KindPolygon
	// KindMultiRing is an outer ring plus zero or more hole rings marking
	// excluded interior regions (e.g., unburned areas inside a fire perimeter).
	KindMultiRing
)

// String returns the lowercase name of the shape kind.
func (k ShapeKind) String() string {
	switch k {
	case KindPoint:
		return "point"
	case KindPolygon:
		return "polygon"
	case KindMultiRing:
		return "multi-ring"
	default:
		return "unknown"
	}
}

// Shape is an immutable tagged geometry variant. For KindPoint only Center
// is meaningful. For KindPolygon, Outer holds the ring. For KindMultiRing,
// Outer holds the boundary and Holes the excluded interiors. Center is an
// optional fallback coordinate used when ring data is absent.
type Shape struct {
	Kind   ShapeKind
	Outer  Ring
	Holes  []Ring
	Center *Point
}

// PointShape builds a point-only shape.
func PointShape(p Point) Shape {
	return Shape{Kind: KindPoint, Center: &p}
}

// PolygonShape builds a single-ring shape with an optional fallback center.
func PolygonShape(outer Ring, center *Point) Shape {
	return Shape{Kind: KindPolygon, Outer: outer, Center: center}
}

// MultiRingShape builds a shape from ArcGIS-style rings: the first ring is
// the outer boundary, the rest are holes. Empty ring sets yield a shape with
// no geometry beyond the optional center.
func MultiRingShape(rings []Ring, center *Point) Shape {
	s := Shape{Kind: KindMultiRing, Center: center}
	if len(rings) > 0 {
		s.Outer = rings[0]
		s.Holes = rings[1:]
	}
	return s
}

// Rings returns all rings of the shape, outer first.
func (s Shape) Rings() []Ring {
	if len(s.Outer) == 0 {
		return nil
	}
	rings := make([]Ring, 0, 1+len(s.Holes))
	rings = append(rings, s.Outer)
	rings = append(rings, s.Holes...)
	return rings
}

// BBox is an axis-aligned bounding box in degrees.
type BBox struct {
	MinLon float64 `json:"min_lon"`
	MinLat float64 `json:"min_lat"`
	MaxLon float64 `json:"max_lon"`
	MaxLat float64 `json:"max_lat"`
}

// Contains reports whether the point lies inside or on the box.
func (b BBox) Contains(p Point) bool {
	return p.Lon >= b.MinLon && p.Lon <= b.MaxLon &&
		p.Lat >= b.MinLat && p.Lat <= b.MaxLat
}

// Bounds computes the bounding box of the ring. The second return is false
// for an empty ring.
func (r Ring) Bounds() (BBox, bool) {
	if len(r) == 0 {
		return BBox{}, false
	}
	b := BBox{
		MinLon: r[0].Lon, MaxLon: r[0].Lon,
		MinLat: r[0].Lat, MaxLat: r[0].Lat,
	}
	for _, p := range r[1:] {
		if p.Lon < b.MinLon {
			b.MinLon = p.Lon
		}
		if p.Lon > b.MaxLon {
			b.MaxLon = p.Lon
		}
		if p.Lat < b.MinLat {
			b.MinLat = p.Lat
		}
		if p.Lat > b.MaxLat {
			b.MaxLat = p.Lat
		}
	}
	return b, true
}

// ValidCoordinates reports whether lat/lon fall in the valid geographic
// ranges. Callers gate all external input through this before handing
// points to the engine.
func ValidCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
