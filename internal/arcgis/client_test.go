package arcgis

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iancatez/natural-disaster-distance-monitor/internal/resilience"
)

func testClient(pageSize int) *Client {
	return NewClient(Options{
		PageSize:  pageSize,
		RateLimit: 1000,
		Burst:     1000,
		Retry: resilience.RetryConfig{
			MaxAttempts:    3,
			InitialBackoff: time.Millisecond,
			MaxBackoff:     5 * time.Millisecond,
			JitterFraction: 0,
		},
	})
}

func feature(id int) Feature {
	return Feature{Attributes: Attributes{"OBJECTID": float64(id)}}
}

func writePage(t *testing.T, w http.ResponseWriter, features []Feature) {
	t.Helper()
	require.NoError(t, json.NewEncoder(w).Encode(queryResponse{Features: features}))
}

func TestQuery_SinglePage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/4/query", r.URL.Path)
		assert.Equal(t, "1=1", r.URL.Query().Get("where"))
		assert.Equal(t, "*", r.URL.Query().Get("outFields"))
		assert.Equal(t, "json", r.URL.Query().Get("f"))
		writePage(t, w, []Feature{feature(1), feature(2)})
	}))
	defer srv.Close()

	got, err := testClient(2000).Query(context.Background(), srv.URL+"/4", "")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestQuery_PaginatesUntilShortPage(t *testing.T) {
	var offsets []int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		offset, _ := strconv.Atoi(r.URL.Query().Get("resultOffset"))
		offsets = append(offsets, offset)
		switch offset {
		case 0:
			writePage(t, w, []Feature{feature(1), feature(2)})
		case 2:
			writePage(t, w, []Feature{feature(3), feature(4)})
		default:
			writePage(t, w, []Feature{feature(5)})
		}
	}))
	defer srv.Close()

	got, err := testClient(2).Query(context.Background(), srv.URL+"/0", "1=1")
	require.NoError(t, err)
	assert.Len(t, got, 5)
	assert.Equal(t, []int{0, 2, 4}, offsets)
}

func TestQuery_EmptyLayer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writePage(t, w, nil)
	}))
	defer srv.Close()

	got, err := testClient(2000).Query(context.Background(), srv.URL+"/0", "1=1")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestQuery_InBodyThrottleRetries(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			require.NoError(t, json.NewEncoder(w).Encode(queryResponse{
				Error: &envelopeError{
					Code:    429,
					Message: "Too many requests",
					Details: []string{"Please wait 0 seconds before retrying"},
				},
			}))
			return
		}
		writePage(t, w, []Feature{feature(1)})
	}))
	defer srv.Close()

	got, err := testClient(2000).Query(context.Background(), srv.URL+"/1", "1=1")
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, 2, calls)
}

func TestQuery_InBodyPermanentError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewEncoder(w).Encode(queryResponse{
			Error: &envelopeError{Code: 400, Message: "Invalid where clause"},
		}))
	}))
	defer srv.Close()

	_, err := testClient(2000).Query(context.Background(), srv.URL+"/1", "bogus")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid where clause")
}

func TestQuery_TransientHTTPStatusRetries(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		writePage(t, w, []Feature{feature(1)})
	}))
	defer srv.Close()

	got, err := testClient(2000).Query(context.Background(), srv.URL+"/0", "1=1")
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, 3, calls)
}

func TestQuery_GeometryDecoding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writePage(t, w, []Feature{{
			Attributes: Attributes{"STORMNAME": "MILTON"},
			Geometry: &Geometry{
				Rings: [][][2]float64{{{-100, 25}, {-100, 35}, {-90, 35}, {-90, 25}}},
			},
		}})
	}))
	defer srv.Close()

	got, err := testClient(2000).Query(context.Background(), srv.URL+"/4", "1=1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.NotNil(t, got[0].Geometry)
	require.Len(t, got[0].Geometry.Rings, 1)
	// Ring vertices arrive in (lon, lat) order.
	assert.Equal(t, [2]float64{-100, 25}, got[0].Geometry.Rings[0][0])
	assert.Equal(t, "MILTON", got[0].Attributes.String("STORMNAME"))
}

func TestParseRetryAfter(t *testing.T) {
	tests := []struct {
		name    string
		details []string
		want    time.Duration
	}{
		{"standard hint", []string{"Please wait 30 seconds before retrying"}, 30 * time.Second},
		{"short phrasing", []string{"Please wait 45 seconds"}, 45 * time.Second},
		{"zero hint", []string{"Please wait 0 seconds before retrying"}, 0},
		{"no details", nil, 60 * time.Second},
		{"unparseable", []string{"try again later"}, 60 * time.Second},
		{"too short", []string{"wait"}, 60 * time.Second},
		{"negative number ignored", []string{"wait -5 seconds"}, 60 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseRetryAfter(tt.details))
		})
	}
}

func TestAttributes(t *testing.T) {
	a := Attributes{
		"NAME":      "Caldor",
		"ACRES":     float64(1234.5),
		"EFNUM":     float64(3),
		"STORMDATE": float64(1724457600000),
		"NULLED":    nil,
	}

	assert.Equal(t, "Caldor", a.String("NAME"))
	assert.Equal(t, "", a.String("MISSING"))
	assert.Equal(t, "", a.String("ACRES"))

	acres, ok := a.Float("ACRES")
	require.True(t, ok)
	assert.Equal(t, 1234.5, acres)
	_, ok = a.Float("NULLED")
	assert.False(t, ok)

	ef, ok := a.Int("EFNUM")
	require.True(t, ok)
	assert.Equal(t, 3, ef)

	ts, ok := a.Time("STORMDATE")
	require.True(t, ok)
	assert.Equal(t, 2024, ts.Year())
	_, ok = a.Time("MISSING")
	assert.False(t, ok)
}
