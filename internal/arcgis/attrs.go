package arcgis

import "time"

// Attributes is a feature's attribute map as decoded from JSON: numbers are
// float64, everything else string or nil. The accessors tolerate missing
// keys and nulls since feed rows are frequently sparse.
type Attributes map[string]any

// String returns the attribute as a string, or "" when absent or not a
// string.
func (a Attributes) String(key string) string {
	if v, ok := a[key].(string); ok {
		return v
	}
	return ""
}

// Float returns the attribute as a float64. The second return is false when
// the key is absent, null, or non-numeric.
func (a Attributes) Float(key string) (float64, bool) {
	v, ok := a[key].(float64)
	return v, ok
}

// Int returns the attribute truncated to int.
func (a Attributes) Int(key string) (int, bool) {
	v, ok := a[key].(float64)
	return int(v), ok
}

// Time interprets the attribute as epoch milliseconds, the encoding ArcGIS
// uses for date fields. The second return is false when the field is absent
// or not positive.
func (a Attributes) Time(key string) (time.Time, bool) {
	ms, ok := a[key].(float64)
	if !ok || ms <= 0 {
		return time.Time{}, false
	}
	return time.UnixMilli(int64(ms)).UTC(), true
}
