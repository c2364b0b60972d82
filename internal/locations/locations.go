// Package locations loads query locations from CSV and YAML files and
// validates their coordinates. The engine assumes validated input, so range
// checking happens here and nowhere deeper.
package locations

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/iancatez/natural-disaster-distance-monitor/internal/geospatial"
)

// Location is a named query point.
type Location struct {
	Name      string  `json:"name" yaml:"name"`
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
}

// Point returns the location's coordinate.
func (l Location) Point() geospatial.Point {
	return geospatial.Point{Lat: l.Latitude, Lon: l.Longitude}
}

// Load reads a locations file, dispatching on extension: .yaml/.yml to the
// YAML loader, everything else to the CSV loader.
func Load(path string) ([]Location, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadYAML(path)
	default:
		return LoadCSV(path)
	}
}

// LoadCSV reads locations from a CSV file with a header row. Required
// columns: name (or location), latitude, longitude. Rows with unparseable
// or out-of-range coordinates are logged and skipped; a file yielding zero
// valid rows is still a successful (empty) load.
func LoadCSV(path string) ([]Location, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "locations: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return nil, eris.Wrap(err, "locations: read header")
	}

	nameIdx, latIdx, lonIdx := -1, -1, -1
	for i, col := range header {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "name", "location":
			if nameIdx < 0 {
				nameIdx = i
			}
		case "latitude":
			latIdx = i
		case "longitude":
			lonIdx = i
		}
	}
	var missing []string
	if nameIdx < 0 {
		missing = append(missing, "name (or location)")
	}
	if latIdx < 0 {
		missing = append(missing, "latitude")
	}
	if lonIdx < 0 {
		missing = append(missing, "longitude")
	}
	if len(missing) > 0 {
		return nil, eris.Errorf("locations: missing required columns: %s", strings.Join(missing, ", "))
	}

	var locs []Location
	row := 1 // header
	for {
		row++
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			zap.L().Warn("skipping malformed row",
				zap.String("file", path),
				zap.Int("row", row),
				zap.Error(err),
			)
			continue
		}

		lat, latErr := strconv.ParseFloat(strings.TrimSpace(record[latIdx]), 64)
		lon, lonErr := strconv.ParseFloat(strings.TrimSpace(record[lonIdx]), 64)
		if latErr != nil || lonErr != nil || !geospatial.ValidCoordinates(lat, lon) {
			zap.L().Warn("skipping row with invalid coordinates",
				zap.String("file", path),
				zap.Int("row", row),
				zap.String("latitude", record[latIdx]),
				zap.String("longitude", record[lonIdx]),
			)
			continue
		}

		name := strings.TrimSpace(record[nameIdx])
		if name == "" {
			name = "Location " + strconv.Itoa(row)
		}
		locs = append(locs, Location{Name: name, Latitude: lat, Longitude: lon})
	}

	zap.L().Info("loaded locations",
		zap.String("file", path),
		zap.Int("count", len(locs)),
	)
	return locs, nil
}

// LoadYAML reads locations from a YAML list of {name, latitude, longitude}.
// Unlike the CSV loader, invalid coordinates here are an error: YAML files
// are curated configuration rather than exported data.
func LoadYAML(path string) ([]Location, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "locations: read %s", path)
	}

	var locs []Location
	if err := yaml.Unmarshal(raw, &locs); err != nil {
		return nil, eris.Wrapf(err, "locations: parse %s", path)
	}

	for i, loc := range locs {
		if !geospatial.ValidCoordinates(loc.Latitude, loc.Longitude) {
			return nil, eris.Errorf("locations: entry %d (%s): coordinates out of range (%.4f, %.4f)",
				i, loc.Name, loc.Latitude, loc.Longitude)
		}
	}
	return locs, nil
}
