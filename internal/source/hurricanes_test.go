package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iancatez/natural-disaster-distance-monitor/internal/arcgis"
	"github.com/iancatez/natural-disaster-distance-monitor/internal/config"
	"github.com/iancatez/natural-disaster-distance-monitor/internal/geospatial"
	"github.com/iancatez/natural-disaster-distance-monitor/internal/hazard"
	"github.com/iancatez/natural-disaster-distance-monitor/internal/resilience"
)

func fastArcgisClient() *arcgis.Client {
	return arcgis.NewClient(arcgis.Options{
		PageSize:  2000,
		RateLimit: 1000,
		Burst:     1000,
		Retry:     resilience.RetryConfig{MaxAttempts: 1},
	})
}

const coneBody = `{
  "features": [
    {
      "attributes": {
        "STORMNAME": "MILTON", "STORMNUM": 14, "STORMTYPE": "Hurricane",
        "ADVISNUM": "12A", "BASIN": "AL", "ADVDATE": 1724457600000
      },
      "geometry": {"rings": [[[-100, 25], [-100, 35], [-90, 35], [-90, 25]]]}
    },
    {
      "attributes": {
        "STORMNAME": "MILTON", "STORMNUM": 14, "STORMTYPE": "Hurricane",
        "ADVISNUM": "11", "BASIN": "AL"
      },
      "geometry": {"rings": [[[-101, 24], [-101, 36], [-89, 36], [-89, 24]]]}
    },
    {
      "attributes": {
        "STORMNAME": "NADINE", "STORMNUM": 15, "STORMTYPE": "Tropical Storm"
      }
    }
  ]
}`

const detailsBody = `{
  "features": [
    {"attributes": {"STORMNAME": "MILTON", "STORMNUM": 14, "TAU": 12, "LAT": 27.0, "LON": -93.0, "MAXWIND": 140}},
    {"attributes": {"STORMNAME": "MILTON", "STORMNUM": 14, "TAU": 0, "LAT": 26.5, "LON": -94.5, "MAXWIND": 135, "SSNUM": 4, "GUST": 165, "TCDIR": 315, "TCSPD": 12}},
    {"attributes": {"STORMNAME": "NADINE", "STORMNUM": 15, "TAU": 0, "LAT": 20.0, "LON": -60.0, "MAXWIND": 45}}
  ]
}`

func hurricaneServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/fs/4/query":
			_, _ = w.Write([]byte(coneBody))
		case "/fs/0/query":
			_, _ = w.Write([]byte(detailsBody))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
}

func TestHurricanes_Fetch(t *testing.T) {
	srv := hurricaneServer(t)
	defer srv.Close()

	feed := NewHurricanes(fastArcgisClient(), config.HurricaneConfig{
		BaseURL:      srv.URL + "/fs",
		ConeLayer:    4,
		DetailsLayer: 0,
	})
	assert.Equal(t, hazard.KindHurricane, feed.Kind())

	records, err := feed.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2, "one record per storm despite multiple advisories")

	milton := records[0]
	assert.Equal(t, "MILTON", milton.Name)
	assert.Equal(t, geospatial.KindPolygon, milton.Shape.Kind)
	// The first cone wins the dedup; its ring starts at (-100, 25).
	require.NotEmpty(t, milton.Shape.Outer)
	assert.Equal(t, geospatial.Point{Lat: 25, Lon: -100}, milton.Shape.Outer[0])

	// Current position comes from the TAU=0 forecast row.
	assert.Equal(t, geospatial.Point{Lat: 26.5, Lon: -94.5}, milton.Center)

	require.NotNil(t, milton.Hurricane)
	assert.Equal(t, hazard.Category4, milton.Hurricane.Category, "SSNUM wins over wind speed")
	assert.Equal(t, 135.0, milton.Hurricane.MaxWindMPH)
	assert.Equal(t, 165.0, milton.Hurricane.GustMPH)
	assert.Equal(t, "NW", milton.Hurricane.MovementDir)
	assert.Equal(t, 12.0, milton.Hurricane.MovementMPH)
	assert.Equal(t, "12A", milton.Hurricane.AdvisoryNumber)
	assert.Equal(t, "AL", milton.Hurricane.Basin)
	assert.Equal(t, "Hurricane - Category 4 Hurricane (Major)", milton.Severity)
	require.NotNil(t, milton.LastUpdated)
	assert.Equal(t, time.UnixMilli(1724457600000).UTC(), *milton.LastUpdated)

	// NADINE has no cone geometry: point shape at the forecast position,
	// category derived from wind speed.
	nadine := records[1]
	assert.Equal(t, geospatial.KindPoint, nadine.Shape.Kind)
	assert.Equal(t, geospatial.Point{Lat: 20, Lon: -60}, nadine.Center)
	require.NotNil(t, nadine.Hurricane)
	assert.Equal(t, hazard.TropicalStorm, nadine.Hurricane.Category)
	assert.Equal(t, "Tropical Storm - Tropical Storm", nadine.Severity)
}

func TestHurricanes_EmptyFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"features": []}`))
	}))
	defer srv.Close()

	feed := NewHurricanes(fastArcgisClient(), config.HurricaneConfig{
		BaseURL: srv.URL + "/fs", ConeLayer: 4, DetailsLayer: 0,
	})
	records, err := feed.Fetch(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestHurricanes_FeedError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	feed := NewHurricanes(fastArcgisClient(), config.HurricaneConfig{
		BaseURL: srv.URL + "/fs", ConeLayer: 4, DetailsLayer: 0,
	})
	_, err := feed.Fetch(context.Background())
	assert.Error(t, err)
}
