package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Raw is a loosely typed upstream record as decoded from DOC API JSON.
// Values are the usual encoding/json shapes: string, float64, bool,
// []any, map[string]any, nil.
type Raw map[string]any

// first returns the first non-nil value among the named top-level fields.
func (r Raw) first(fields []string) (any, bool) {
	for _, f := range fields {
		if v, ok := r[f]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// firstString resolves the named fields in order and returns the first value
// that coerces to a non-empty trimmed string.
func (r Raw) firstString(fields []string) (string, bool) {
	for _, f := range fields {
		if s, ok := asString(r[f]); ok {
			if s = strings.TrimSpace(s); s != "" {
				return s, true
			}
		}
	}
	return "", false
}

// firstBool resolves the named fields in order and returns the first value
// that coerces to a boolean. Absent fields yield false.
func (r Raw) firstBool(fields []string) bool {
	for _, f := range fields {
		if b, ok := asBool(r[f]); ok {
			return b
		}
	}
	return false
}

// firstCoordinate resolves the given paths in order and returns the first
// value that yields a valid WGS-84 coordinate.
func (r Raw) firstCoordinate(paths []fieldPath) (Coordinate, bool) {
	for _, p := range paths {
		if v, ok := p.lookup(r); ok {
			if c, ok := asCoordinate(v); ok {
				return c, true
			}
		}
	}
	return Coordinate{}, false
}

// firstTime resolves the named fields in order and returns the first value
// that parses as a timestamp.
func (r Raw) firstTime(fields []string) *time.Time {
	for _, f := range fields {
		if t, ok := asTime(r[f]); ok {
			return &t
		}
	}
	return nil
}

// stringSlice coerces an array-valued field to trimmed non-empty strings.
// Non-array or absent values yield an empty slice.
func (r Raw) stringSlice(field string) []string {
	arr, ok := r[field].([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(arr))
	for _, v := range arr {
		if s, ok := asString(v); ok {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

// fieldPath addresses a value nested inside a raw record: string steps index
// into objects, int steps into arrays. A single-step path reads a top-level
// field.
type fieldPath []any

func path(steps ...any) fieldPath { return fieldPath(steps) }

func (p fieldPath) lookup(r Raw) (any, bool) {
	var cur any = map[string]any(r)
	for _, step := range p {
		switch s := step.(type) {
		case string:
			m, ok := cur.(map[string]any)
			if !ok {
				return nil, false
			}
			cur = m[s]
		case int:
			arr, ok := cur.([]any)
			if !ok || s < 0 || s >= len(arr) {
				return nil, false
			}
			cur = arr[s]
		default:
			return nil, false
		}
		if cur == nil {
			return nil, false
		}
	}
	return cur, true
}

// asString coerces strings and numbers to a string. Other types do not coerce;
// in particular booleans and objects never become identifiers.
func asString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), true
	default:
		return "", false
	}
}

// asNumber coerces numeric and numeric-string values to a float64.
func asNumber(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, fmt.Errorf("not a number: %q", n)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("not a number: %v (%T)", v, v)
	}
}

// asBool coerces booleans, true/false-ish strings, and numbers.
func asBool(v any) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "true", "yes", "1":
			return true, true
		case "false", "no", "0", "":
			return false, true
		}
		return false, false
	case float64:
		return b != 0, true
	default:
		return false, false
	}
}

// Alternative key spellings for object-shaped coordinates.
var (
	coordLatKeys = []string{"lat", "latitude", "y"}
	coordLngKeys = []string{"lng", "lon", "longitude", "x"}
)

// asCoordinate extracts a coordinate from an object ({lat,lng} under varying
// key names) or a positional [lng, lat] array. Numeric strings are accepted.
// Out-of-range values are rejected so the caller's fallback chain can continue.
func asCoordinate(v any) (Coordinate, bool) {
	switch val := v.(type) {
	case map[string]any:
		lat, okLat := coordComponent(val, coordLatKeys)
		lng, okLng := coordComponent(val, coordLngKeys)
		if !okLat || !okLng {
			return Coordinate{}, false
		}
		c := Coordinate{Lat: lat, Lng: lng}
		return c, c.Valid()
	case []any:
		if len(val) < 2 {
			return Coordinate{}, false
		}
		// GeoJSON position order: [lng, lat].
		lng, errLng := asNumber(val[0])
		lat, errLat := asNumber(val[1])
		if errLng != nil || errLat != nil {
			return Coordinate{}, false
		}
		c := Coordinate{Lat: lat, Lng: lng}
		return c, c.Valid()
	default:
		return Coordinate{}, false
	}
}

func coordComponent(m map[string]any, keys []string) (float64, bool) {
	for _, k := range keys {
		v, ok := m[k]
		if !ok || v == nil {
			continue
		}
		if n, err := asNumber(v); err == nil {
			return n, true
		}
	}
	return 0, false
}

// timeLayouts are tried in order when parsing raw timestamp strings.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// asTime parses timestamp strings and epoch numbers (seconds, or milliseconds
// for values too large to be seconds).
func asTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range timeLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				return parsed, true
			}
		}
		return time.Time{}, false
	case float64:
		if t <= 0 {
			return time.Time{}, false
		}
		if t > 1e12 {
			return time.UnixMilli(int64(t)).UTC(), true
		}
		return time.Unix(int64(t), 0).UTC(), true
	default:
		return time.Time{}, false
	}
}
