package geospatial

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	houston = Point{Lat: 29.7604, Lon: -95.3698}
	miami   = Point{Lat: 25.7617, Lon: -80.1918}
	okc     = Point{Lat: 35.4676, Lon: -97.5164}
)

func TestDistance_SamePointIsZero(t *testing.T) {
	for _, p := range []Point{houston, miami, {Lat: 0, Lon: 0}, {Lat: -90, Lon: 45}} {
		assert.InDelta(t, 0, Distance(p, p), 1e-9)
	}
}

func TestDistance_Symmetric(t *testing.T) {
	pairs := [][2]Point{
		{houston, miami},
		{houston, okc},
		{{Lat: 0, Lon: -179.9}, {Lat: 0, Lon: 179.9}},
		{{Lat: 89.9, Lon: 10}, {Lat: -89.9, Lon: -170}},
	}
	for _, pair := range pairs {
		assert.Equal(t, Distance(pair[0], pair[1]), Distance(pair[1], pair[0]))
	}
}

func TestDistance_KnownValue(t *testing.T) {
	// Houston to Miami is roughly 967 miles great-circle.
	d := Distance(houston, miami)
	assert.InDelta(t, 966.7, d, 2.0)
}

func TestDistance_Antipodal(t *testing.T) {
	d := Distance(Point{Lat: 0, Lon: 0}, Point{Lat: 0, Lon: 180})
	assert.InDelta(t, math.Pi*EarthRadiusMiles, d, 1e-6)
	assert.False(t, math.IsNaN(d))
}

func TestDistance_NeverNegative(t *testing.T) {
	points := []Point{
		houston, miami, okc,
		{Lat: 90, Lon: 0}, {Lat: -90, Lon: 0},
		{Lat: 0.0000001, Lon: -0.0000001},
	}
	for _, a := range points {
		for _, b := range points {
			assert.GreaterOrEqual(t, Distance(a, b), 0.0)
		}
	}
}

func TestDistanceBatch_MatchesScalar(t *testing.T) {
	targets := []Point{miami, okc, houston, {Lat: 45.5, Lon: -122.6}}
	got := DistanceBatch(houston, targets)
	require.Len(t, got, len(targets))
	for i, target := range targets {
		assert.InDelta(t, Distance(houston, target), got[i], 1e-12)
	}
}

func TestDistanceBatch_Empty(t *testing.T) {
	assert.Nil(t, DistanceBatch(houston, nil))
}

func TestMinDistanceToRing(t *testing.T) {
	ring := Ring{
		{Lat: 25, Lon: -100},
		{Lat: 35, Lon: -100},
		{Lat: 35, Lon: -90},
		{Lat: 25, Lon: -90},
	}
	query := Point{Lat: 30, Lon: -85}

	want := math.Inf(1)
	for _, v := range ring {
		if d := Distance(query, v); d < want {
			want = d
		}
	}
	assert.Equal(t, want, MinDistanceToRing(query, ring))

	assert.True(t, math.IsInf(MinDistanceToRing(query, nil), 1))
}
