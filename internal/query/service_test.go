package query

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iancatez/natural-disaster-distance-monitor/internal/geospatial"
	"github.com/iancatez/natural-disaster-distance-monitor/internal/hazard"
	"github.com/iancatez/natural-disaster-distance-monitor/internal/locations"
	"github.com/iancatez/natural-disaster-distance-monitor/internal/metrics"
)

var houston = locations.Location{Name: "Houston", Latitude: 29.7604, Longitude: -95.3698}

// stubSource is a canned feed for orchestration tests.
type stubSource struct {
	kind    hazard.Kind
	records []hazard.Record
	err     error
}

func (s *stubSource) Kind() hazard.Kind { return s.kind }

func (s *stubSource) Fetch(ctx context.Context) ([]hazard.Record, error) {
	return s.records, s.err
}

func pointRecord(kind hazard.Kind, name string, p geospatial.Point) hazard.Record {
	return hazard.Record{
		Kind:   kind,
		Name:   name,
		Shape:  geospatial.PointShape(p),
		Center: p,
	}
}

func TestNear_RanksPerKind(t *testing.T) {
	nearby := geospatial.Point{Lat: 29.9, Lon: -95.3}   // ~10 mi
	farther := geospatial.Point{Lat: 30.5, Lon: -95.3}  // ~51 mi
	distant := geospatial.Point{Lat: 40.0, Lon: -95.3}  // ~700 mi

	svc := NewService(metrics.NewForTesting(),
		&stubSource{kind: hazard.KindTornado, records: []hazard.Record{
			pointRecord(hazard.KindTornado, "far", farther),
			pointRecord(hazard.KindTornado, "near", nearby),
			pointRecord(hazard.KindTornado, "distant", distant),
		}},
	)

	report := svc.Near(context.Background(), houston, 100, nil)
	require.NotNil(t, report)

	tornadoes := report.Results[hazard.KindTornado]
	require.Len(t, tornadoes, 2, "distant record filtered by radius")
	assert.Equal(t, "near", tornadoes[0].Name)
	assert.Equal(t, "far", tornadoes[1].Name)
	assert.Equal(t, 2, report.Summary.Total)
	assert.Equal(t, 2, report.Summary.ByKind[hazard.KindTornado])
	assert.True(t, report.HasResults())
	assert.NotEmpty(t, report.RunID)
	assert.False(t, report.QueryTime.IsZero())
}

func TestNear_FeedFailureDegrades(t *testing.T) {
	nearby := geospatial.Point{Lat: 29.9, Lon: -95.3}

	svc := NewService(metrics.NewForTesting(),
		&stubSource{kind: hazard.KindHurricane, err: errors.New("service down")},
		&stubSource{kind: hazard.KindTornado, records: []hazard.Record{
			pointRecord(hazard.KindTornado, "near", nearby),
		}},
	)

	report := svc.Near(context.Background(), houston, 100, nil)
	require.NotNil(t, report)

	assert.Empty(t, report.Results[hazard.KindHurricane], "failed feed yields empty, not missing")
	assert.NotNil(t, report.Results[hazard.KindHurricane])
	assert.Len(t, report.Results[hazard.KindTornado], 1)
	assert.Equal(t, 1, report.Summary.Total)
}

func TestNear_RequestedKindsOnly(t *testing.T) {
	nearby := geospatial.Point{Lat: 29.9, Lon: -95.3}

	svc := NewService(metrics.NewForTesting(),
		&stubSource{kind: hazard.KindTornado, records: []hazard.Record{
			pointRecord(hazard.KindTornado, "t", nearby),
		}},
		&stubSource{kind: hazard.KindWildfire, records: []hazard.Record{
			pointRecord(hazard.KindWildfire, "w", nearby),
		}},
	)

	report := svc.Near(context.Background(), houston, 100, []hazard.Kind{hazard.KindWildfire})
	assert.NotContains(t, report.Results, hazard.KindTornado)
	assert.Len(t, report.Results[hazard.KindWildfire], 1)
}

func TestNear_UnregisteredKindSkipped(t *testing.T) {
	svc := NewService(metrics.NewForTesting())
	report := svc.Near(context.Background(), houston, 100, []hazard.Kind{hazard.KindHurricane})
	assert.Empty(t, report.Results)
	assert.False(t, report.HasResults())
}

func TestNear_ContainedKeptBeyondRadius(t *testing.T) {
	// A perimeter containing the query point is kept even with radius 0.
	ring := geospatial.Ring{
		{Lat: 29, Lon: -96},
		{Lat: 31, Lon: -96},
		{Lat: 31, Lon: -94},
		{Lat: 29, Lon: -94},
	}
	svc := NewService(metrics.NewForTesting(),
		&stubSource{kind: hazard.KindWildfire, records: []hazard.Record{{
			Kind:  hazard.KindWildfire,
			Name:  "surrounding",
			Shape: geospatial.MultiRingShape([]geospatial.Ring{ring}, nil),
		}}},
	)

	report := svc.Near(context.Background(), houston, 0, nil)
	require.Len(t, report.Results[hazard.KindWildfire], 1)
	result := report.Results[hazard.KindWildfire][0]
	assert.True(t, result.Contained)
	assert.Zero(t, result.DistanceMiles)
}

func TestServiceKinds(t *testing.T) {
	svc := NewService(metrics.NewForTesting(),
		&stubSource{kind: hazard.KindWildfire},
		&stubSource{kind: hazard.KindHurricane},
	)
	assert.Equal(t, []hazard.Kind{hazard.KindHurricane, hazard.KindWildfire}, svc.Kinds())
}
