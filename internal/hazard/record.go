// Package hazard holds the domain model for tracked natural hazards and the
// proximity policy that turns raw feed geometry into ranked, user-facing
// results.
package hazard

import (
	"encoding/json"
	"math"
	"time"

	"github.com/iancatez/natural-disaster-distance-monitor/internal/geospatial"
)

// Kind identifies a hazard feed.
type Kind string

const (
	KindHurricane Kind = "hurricane"
	KindTornado   Kind = "tornado"
	KindWildfire  Kind = "wildfire"
)

// Kinds lists every supported hazard kind in display order.
func Kinds() []Kind {
	return []Kind{KindHurricane, KindTornado, KindWildfire}
}

// Valid reports whether k names a supported hazard kind.
func (k Kind) Valid() bool {
	switch k {
	case KindHurricane, KindTornado, KindWildfire:
		return true
	}
	return false
}

// HurricaneDetails carries the storm-specific fields from the advisory feed.
type HurricaneDetails struct {
	Category       Category `json:"category,omitempty"`
	MaxWindMPH     float64  `json:"max_wind_mph,omitempty"`
	GustMPH        float64  `json:"gust_mph,omitempty"`
	MovementDir    string   `json:"movement_direction,omitempty"`
	MovementMPH    float64  `json:"movement_speed_mph,omitempty"`
	AdvisoryNumber string   `json:"advisory_number,omitempty"`
	Basin          string   `json:"basin,omitempty"`
	StormType      string   `json:"storm_type,omitempty"`
}

// TornadoDetails carries the damage-survey fields for a confirmed tornado.
type TornadoDetails struct {
	EFScale         *EFScale   `json:"ef_scale,omitempty"`
	MaxWindMPH      float64    `json:"max_wind_mph,omitempty"`
	PathLengthMiles float64    `json:"path_length_miles,omitempty"`
	PathWidthYards  float64    `json:"path_width_yards,omitempty"`
	Fatalities      int        `json:"fatalities"`
	Injuries        int        `json:"injuries"`
	StormDate       *time.Time `json:"storm_date,omitempty"`
}

// WildfireDetails carries the perimeter-feed fields for an active fire.
type WildfireDetails struct {
	Size               FireSize `json:"size_category,omitempty"`
	Acres              float64  `json:"acres,omitempty"`
	ContainmentPercent *float64 `json:"containment_percent,omitempty"`
	FireID             string   `json:"fire_id,omitempty"`
}

// Record is one hazard as fetched from a feed, before any proximity
// evaluation. Shape holds whatever geometry the feed provided; Center is the
// hazard's representative coordinate used for display and GeoJSON output.
type Record struct {
	Kind        Kind
	Name        string
	Shape       geospatial.Shape
	Center      geospatial.Point
	Severity    string
	Hurricane   *HurricaneDetails
	Tornado     *TornadoDetails
	Wildfire    *WildfireDetails
	LastUpdated *time.Time
}

// Result pairs a record with its evaluated proximity to the query point.
// Ranking and filtering always use the full-precision DistanceMiles; the
// JSON form rounds for display only.
type Result struct {
	Record
	Proximity
}

// resultJSON is the wire shape of a Result. Distance is rounded to two
// decimals and coordinates to four, matching the precision the feeds
// themselves carry.
type resultJSON struct {
	Kind        Kind              `json:"hazard_type"`
	Name        string            `json:"name"`
	Distance    float64           `json:"distance_miles"`
	Latitude    float64           `json:"latitude"`
	Longitude   float64           `json:"longitude"`
	Severity    string            `json:"severity"`
	Contained   bool              `json:"contained"`
	Hurricane   *HurricaneDetails `json:"hurricane,omitempty"`
	Tornado     *TornadoDetails   `json:"tornado,omitempty"`
	Wildfire    *WildfireDetails  `json:"wildfire,omitempty"`
	LastUpdated *time.Time        `json:"last_updated,omitempty"`
}

// MarshalJSON renders the result with display rounding. JSON cannot carry
// +Inf, so a no-geometry result serializes its distance as -1; such results
// never survive ranking, so the sentinel only shows up in raw dumps.
func (r Result) MarshalJSON() ([]byte, error) {
	out := resultJSON{
		Kind:        r.Kind,
		Name:        r.Name,
		Distance:    roundTo(r.DistanceMiles, 2),
		Latitude:    roundTo(r.Center.Lat, 4),
		Longitude:   roundTo(r.Center.Lon, 4),
		Severity:    r.Severity,
		Contained:   r.Contained,
		Hurricane:   r.Hurricane,
		Tornado:     r.Tornado,
		Wildfire:    r.Wildfire,
		LastUpdated: r.LastUpdated,
	}
	if math.IsInf(r.DistanceMiles, 1) {
		out.Distance = -1
	}
	return json.Marshal(out)
}

func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
