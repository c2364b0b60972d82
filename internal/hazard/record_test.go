package hazard

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iancatez/natural-disaster-distance-monitor/internal/geospatial"
)

func TestResultJSON_DisplayRounding(t *testing.T) {
	r := Result{
		Record: Record{
			Kind:     KindWildfire,
			Name:     "Caldor",
			Center:   geospatial.Point{Lat: 38.123456, Lon: -120.987654},
			Severity: "Large Fire (1,000-10,000 acres)",
		},
		Proximity: Proximity{DistanceMiles: 42.123456},
	}

	raw, err := json.Marshal(r)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))

	assert.Equal(t, "wildfire", out["hazard_type"])
	assert.Equal(t, 42.12, out["distance_miles"])
	assert.Equal(t, 38.1235, out["latitude"])
	assert.Equal(t, -120.9877, out["longitude"])
	assert.Equal(t, false, out["contained"])
}

func TestResultJSON_InfiniteDistanceSentinel(t *testing.T) {
	r := Result{
		Record:    Record{Kind: KindHurricane, Name: "Unknown"},
		Proximity: Proximity{DistanceMiles: math.Inf(1)},
	}
	raw, err := json.Marshal(r)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, float64(-1), out["distance_miles"])
}

func TestKindValid(t *testing.T) {
	for _, k := range Kinds() {
		assert.True(t, k.Valid())
	}
	assert.False(t, Kind("earthquake").Valid())
}
