package geospatial

const (
	// vertexEps is the per-axis tolerance, in degrees, for treating a query
	// point as coincident with a ring vertex.
	vertexEps = 1e-9

	// edgeEpsSq is the squared perpendicular distance tolerance, in degrees²,
	// for treating a query point as lying on a ring edge.
	edgeEpsSq = 1e-12
)

// ContainsBatch reports, for each query point, whether it lies inside or on
// the boundary of the ring. Each point runs through an ordered pipeline:
//
//  1. bounding-box prefilter — points outside the ring's bbox are false
//     without further work (pure optimization, semantically invisible),
//  2. vertex coincidence within vertexEps on both axes,
//  3. edge coincidence: squared perpendicular distance to the edge's line
//     below edgeEpsSq with the projection falling on the segment,
//  4. even-odd ray cast for everything not already resolved.
//
// Stages 2–3 run before stage 4 so boundary points are always true
// regardless of floating-point drift in the crossing test. Degenerate rings
// (fewer than 3 vertices, or all vertices equal) yield false for every
// point; zero-length and horizontal edges are skipped where they would
// divide by zero. Never panics, never errors.
func ContainsBatch(points []Point, ring Ring) []bool {
	out := make([]bool, len(points))
	if len(points) == 0 || degenerate(ring) {
		return out
	}

	bbox, _ := ring.Bounds()
	for i, p := range points {
		if !bbox.Contains(p) {
			continue
		}
		out[i] = containsOne(p, ring)
	}
	return out
}

// Contains is the single-point convenience form of ContainsBatch.
func Contains(p Point, ring Ring) bool {
	return ContainsBatch([]Point{p}, ring)[0]
}

// degenerate reports whether the ring cannot bound any area: fewer than
// 3 vertices, or every vertex identical.
func degenerate(ring Ring) bool {
	if len(ring) < 3 {
		return true
	}
	first := ring[0]
	for _, p := range ring[1:] {
		if p != first {
			return false
		}
	}
	return true
}

func containsOne(p Point, ring Ring) bool {
	n := len(ring)

	// Stage 2: vertex coincidence.
	for _, v := range ring {
		if abs(p.Lon-v.Lon) < vertexEps && abs(p.Lat-v.Lat) < vertexEps {
			return true
		}
	}

	// Stage 3: edge coincidence. The closing edge (last vertex back to the
	// first) is included via the modular index.
	for i := 0; i < n; i++ {
		a := ring[i]
		b := ring[(i+1)%n]

		ex := b.Lon - a.Lon
		ey := b.Lat - a.Lat
		lenSq := ex*ex + ey*ey
		if lenSq == 0 {
			continue // zero-length edge contributes nothing
		}

		t := ((p.Lon-a.Lon)*ex + (p.Lat-a.Lat)*ey) / lenSq
		if t < 0 || t > 1 {
			continue // projection falls on the edge's extension
		}
		px := a.Lon + t*ex
		py := a.Lat + t*ey
		dx := p.Lon - px
		dy := p.Lat - py
		if dx*dx+dy*dy < edgeEpsSq {
			return true
		}
	}

	// Stage 4: even-odd ray cast. A horizontal ray extends east from the
	// point; the parity bit toggles for each edge whose vertical span
	// straddles the point's latitude and whose intersection with the ray
	// lies strictly east of the point.
	inside := false
	for i := 0; i < n; i++ {
		a := ring[i]
		b := ring[(i+1)%n]

		if a.Lat == b.Lat {
			continue // horizontal edge: no crossing, avoids division by zero
		}

		straddles := (a.Lat <= p.Lat && p.Lat < b.Lat) ||
			(b.Lat <= p.Lat && p.Lat < a.Lat)
		if !straddles {
			continue
		}

		slope := (b.Lon - a.Lon) / (b.Lat - a.Lat)
		crossLon := a.Lon + (p.Lat-a.Lat)*slope
		if p.Lon < crossLon {
			inside = !inside
		}
	}
	return inside
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
