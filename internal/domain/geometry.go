package domain

import (
	"fmt"

	"github.com/goccy/go-json"
)

var geometryPaths = []fieldPath{
	path("geojson"),
	path("geoJson"),
	path("geometry"),
	path("route", "geojson"),
	path("route", "geometry"),
	path("shape"),
}

// ExtractGeometry pulls the route geometry out of a raw track record, trying
// the known field locations in order. Returns nil when the record carries no
// geometry.
func ExtractGeometry(raw Raw) any {
	if raw == nil {
		return nil
	}
	for _, p := range geometryPaths {
		if v, ok := p.lookup(raw); ok {
			return v
		}
	}
	return nil
}

// GeometryPayload serializes extracted geometry for blob storage. Strings are
// assumed to already be GeoJSON text; anything else is marshaled.
func GeometryPayload(geometry any) ([]byte, error) {
	if s, ok := geometry.(string); ok {
		return []byte(s), nil
	}
	data, err := json.Marshal(geometry)
	if err != nil {
		return nil, fmt.Errorf("serialize geometry: %w", err)
	}
	return data, nil
}

// GeometryBlobPath is the deterministic blob path for a track's stored route
// geometry.
func GeometryBlobPath(docTrackID string) string {
	return "routes/" + docTrackID + ".geojson"
}
