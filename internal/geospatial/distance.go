package geospatial

import "math"

// EarthRadiusMiles is the mean Earth radius used for great-circle distances.
const EarthRadiusMiles = 3956

const degToRad = math.Pi / 180

// Distance returns the haversine great-circle distance between two points
// in miles. It is symmetric, never negative, and zero (within floating
// tolerance) iff the points coincide. Antipodal pairs are well-defined.
func Distance(a, b Point) float64 {
	lat1 := a.Lat * degToRad
	lat2 := b.Lat * degToRad
	dLat := (b.Lat - a.Lat) * degToRad
	dLon := (b.Lon - a.Lon) * degToRad

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLon*sinLon

	// Clamp against rounding drift before Asin; h can exceed 1 by an ulp
	// for near-antipodal pairs.
	if h > 1 {
		h = 1
	}
	return 2 * EarthRadiusMiles * math.Asin(math.Sqrt(h))
}

// DistanceBatch returns the haversine distance from origin to every target,
// in target order. The origin's trig terms are hoisted out of the loop and
// the loop body is branch-free, which keeps large vertex sets cheap.
func DistanceBatch(origin Point, targets []Point) []float64 {
	if len(targets) == 0 {
		return nil
	}

	lat1 := origin.Lat * degToRad
	cosLat1 := math.Cos(lat1)

	out := make([]float64, len(targets))
	for i, t := range targets {
		lat2 := t.Lat * degToRad
		dLat := (t.Lat - origin.Lat) * degToRad
		dLon := (t.Lon - origin.Lon) * degToRad

		sinLat := math.Sin(dLat / 2)
		sinLon := math.Sin(dLon / 2)
		h := sinLat*sinLat + cosLat1*math.Cos(lat2)*sinLon*sinLon
		h = math.Min(h, 1)
		out[i] = 2 * EarthRadiusMiles * math.Asin(math.Sqrt(h))
	}
	return out
}

// MinDistanceToRing returns the smallest haversine distance from p to any
// vertex of the ring, or +Inf for an empty ring.
//
// This is a vertex-only approximation: the true nearest point may lie on an
// edge between vertices. The behavior is intentional and relied upon by the
// hazard evaluator; see hazard.Evaluate.
func MinDistanceToRing(p Point, ring Ring) float64 {
	min := math.Inf(1)
	for _, d := range DistanceBatch(p, ring) {
		if d < min {
			min = d
		}
	}
	return min
}
