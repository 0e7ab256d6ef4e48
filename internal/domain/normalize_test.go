package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTrack() Raw {
	return Raw{
		"id":         "track-1",
		"name":       "Kepler Track",
		"region":     "Fiordland",
		"startPoint": map[string]any{"lat": -45.123, "lng": 167.987},
		"lengthKm":   12.4,
	}
}

func TestToHike(t *testing.T) {
	t.Run("canonical record", func(t *testing.T) {
		raw := Raw{
			"id":         "track-1",
			"lengthKm":   12.4,
			"startPoint": map[string]any{"lat": -45.123, "lng": 167.987},
			"multiDay":   true,
			"status":     "Open",
		}

		hike, err := ToHike(raw)
		require.NoError(t, err)

		assert.Equal(t, "track-1", hike.DocTrackID)
		assert.Equal(t, 12.4, hike.DistanceKm)
		assert.Equal(t, Coordinate{Lat: -45.123, Lng: 167.987}, hike.Start)
		assert.True(t, hike.Overnight)
		assert.Equal(t, StatusOpen, hike.StatusSummary)
		assert.Equal(t, "Unnamed track", hike.Name)
		assert.Equal(t, "Unknown region", hike.Region)
		assert.Empty(t, hike.Tags)
		assert.Empty(t, hike.Features)
	})

	t.Run("nil record", func(t *testing.T) {
		_, err := ToHike(nil)
		require.ErrorIs(t, err, ErrEmptyRecord)
	})

	t.Run("identifier fallback chain", func(t *testing.T) {
		for _, field := range []string{"id", "trackId", "assetId", "externalId", "reference"} {
			raw := validTrack()
			delete(raw, "id")
			raw[field] = "from-" + field

			hike, err := ToHike(raw)
			require.NoError(t, err, field)
			assert.Equal(t, "from-"+field, hike.DocTrackID)
		}
	})

	t.Run("numeric identifier is stringified", func(t *testing.T) {
		raw := validTrack()
		raw["id"] = float64(42)

		hike, err := ToHike(raw)
		require.NoError(t, err)
		assert.Equal(t, "42", hike.DocTrackID)
	})

	t.Run("missing every identifier field", func(t *testing.T) {
		raw := validTrack()
		delete(raw, "id")

		_, err := ToHike(raw)
		require.ErrorIs(t, err, ErrMissingIdentifier)
	})

	t.Run("whitespace identifier", func(t *testing.T) {
		raw := validTrack()
		raw["id"] = "   "

		_, err := ToHike(raw)
		require.ErrorIs(t, err, ErrMissingIdentifier)
	})

	t.Run("missing every coordinate field", func(t *testing.T) {
		raw := Raw{"id": "track-1", "lengthKm": 5}

		_, err := ToHike(raw)
		require.ErrorIs(t, err, ErrMissingCoordinates)
		assert.Contains(t, err.Error(), "track-1")
	})

	t.Run("coordinates from nested geometry", func(t *testing.T) {
		raw := Raw{
			"id": "track-2",
			"geometry": map[string]any{
				"coordinates": []any{
					[]any{[]any{167.5, -45.5}, []any{167.6, -45.6}},
				},
			},
		}

		hike, err := ToHike(raw)
		require.NoError(t, err)
		assert.Equal(t, Coordinate{Lat: -45.5, Lng: 167.5}, hike.Start)
	})

	t.Run("coordinates from numeric strings", func(t *testing.T) {
		raw := Raw{
			"id":       "track-3",
			"location": map[string]any{"latitude": "-44.1", "longitude": "168.9"},
		}

		hike, err := ToHike(raw)
		require.NoError(t, err)
		assert.Equal(t, Coordinate{Lat: -44.1, Lng: 168.9}, hike.Start)
	})

	t.Run("out of range coordinates rejected", func(t *testing.T) {
		raw := Raw{
			"id":         "track-4",
			"startPoint": map[string]any{"lat": -445.0, "lng": 167.0},
		}

		_, err := ToHike(raw)
		require.ErrorIs(t, err, ErrMissingCoordinates)
	})

	t.Run("tags and features coerced", func(t *testing.T) {
		raw := validTrack()
		raw["tags"] = []any{" great-walk ", "", float64(7), nil}
		raw["features"] = "not-an-array"

		hike, err := ToHike(raw)
		require.NoError(t, err)
		assert.Equal(t, []string{"great-walk", "7"}, hike.Tags)
		assert.Empty(t, hike.Features)
	})

	t.Run("elevation gain rounded", func(t *testing.T) {
		raw := validTrack()
		raw["climb"] = "1229.6"

		hike, err := ToHike(raw)
		require.NoError(t, err)
		require.NotNil(t, hike.ElevationGainM)
		assert.Equal(t, 1230, *hike.ElevationGainM)
	})

	t.Run("last official status from lastUpdated", func(t *testing.T) {
		raw := validTrack()
		raw["lastUpdated"] = "2026-08-30T04:15:00Z"

		hike, err := ToHike(raw)
		require.NoError(t, err)
		require.NotNil(t, hike.LastOfficialStatusAt)
		assert.Equal(t, time.Date(2026, 8, 30, 4, 15, 0, 0, time.UTC), *hike.LastOfficialStatusAt)
	})
}

func TestParseDistanceKm(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		expected float64
	}{
		{"plain number", 12.4, 12.4},
		{"numeric string", "12.4", 12.4},
		{"km marker", "12.4 km", 12.4},
		{"km marker uppercase", "12.4KM", 12.4},
		{"meters marker", "7500 m", 7.5},
		{"comma decimal separator", "12,4 km", 12.4},
		{"rounded to two decimals", 10.3456, 10.35},
		{"absent defaults to zero", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := validTrack()
			delete(raw, "lengthKm")
			if tt.value != nil {
				raw["distance"] = tt.value
			}

			hike, err := ToHike(raw)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, hike.DistanceKm)
		})
	}

	t.Run("meters and kilometers differ by a factor of 1000", func(t *testing.T) {
		inKm := validTrack()
		inKm["distance"] = "7500 km"
		inM := validTrack()
		inM["distance"] = "7500 m"

		km, err := ToHike(inKm)
		require.NoError(t, err)
		m, err := ToHike(inM)
		require.NoError(t, err)

		assert.Equal(t, km.DistanceKm, m.DistanceKm*1000)
	})

	t.Run("unparsable distance fails", func(t *testing.T) {
		raw := validTrack()
		raw["lengthKm"] = "unknown"

		_, err := ToHike(raw)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "distance")
	})

	t.Run("negative distance fails", func(t *testing.T) {
		raw := validTrack()
		raw["lengthKm"] = -3.2

		_, err := ToHike(raw)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "negative distance")
	})
}

func TestParseDifficulty(t *testing.T) {
	tests := []struct {
		input    string
		expected Difficulty
	}{
		{"Moderate", DifficultyModerate},
		{"medium", DifficultyModerate},
		{"INTERMEDIATE", DifficultyModerate},
		{"easy", DifficultyEasy},
		{"Beginner", DifficultyEasy},
		{"easi", DifficultyEasy},
		{"Advanced", DifficultyHard},
		{"difficult", DifficultyHard},
		{"vertical scramble", DifficultyUnset},
		{"", DifficultyUnset},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			raw := validTrack()
			raw["difficulty"] = tt.input

			hike, err := ToHike(raw)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, hike.Difficulty)
		})
	}
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		input    any
		expected Status
	}{
		{"Open", StatusOpen},
		{"Track fully open", StatusOpen},
		{"Caution - ice", StatusCaution},
		{"Weather alert", StatusCaution},
		{"Closed for lambing", StatusClosed},
		{"partially close", StatusClosed},
		{"who knows", StatusUnknown},
		{nil, StatusUnknown},
		{float64(3), StatusUnknown},
	}

	for _, tt := range tests {
		raw := validTrack()
		if tt.input != nil {
			raw["status"] = tt.input
		}

		hike, err := ToHike(raw)
		require.NoError(t, err)
		assert.Equal(t, tt.expected, hike.StatusSummary, "input %v", tt.input)
	}
}

func TestToHut(t *testing.T) {
	t.Run("full record", func(t *testing.T) {
		raw := Raw{
			"hutId":      "luxmore",
			"name":       "Luxmore Hut",
			"location":   map[string]any{"lat": -45.3753, "lng": 167.6022},
			"beds":       float64(54),
			"facilities": []any{"heating", "water"},
			"bookingUrl": "https://bookings.example/luxmore",
		}

		hut, err := ToHut(raw)
		require.NoError(t, err)

		assert.Equal(t, "luxmore", hut.DocHutID)
		assert.Equal(t, "Luxmore Hut", hut.Name)
		require.NotNil(t, hut.Capacity)
		assert.Equal(t, 54, *hut.Capacity)
		assert.Equal(t, []string{"heating", "water"}, hut.Facilities)
		assert.Equal(t, "https://bookings.example/luxmore", hut.BookingURL)
	})

	t.Run("missing identifier", func(t *testing.T) {
		_, err := ToHut(Raw{"name": "Nameless", "location": map[string]any{"lat": 1.0, "lng": 2.0}})
		require.ErrorIs(t, err, ErrMissingIdentifier)
	})

	t.Run("missing coordinates", func(t *testing.T) {
		_, err := ToHut(Raw{"id": "hut-1"})
		require.ErrorIs(t, err, ErrMissingCoordinates)
	})

	t.Run("negative capacity left unset", func(t *testing.T) {
		hut, err := ToHut(Raw{
			"id":       "hut-2",
			"capacity": float64(-4),
			"centroid": []any{167.0, -45.0},
		})
		require.NoError(t, err)
		assert.Nil(t, hut.Capacity)
	})

	t.Run("capacity absent", func(t *testing.T) {
		hut, err := ToHut(Raw{"id": "hut-3", "centroid": []any{167.0, -45.0}})
		require.NoError(t, err)
		assert.Nil(t, hut.Capacity)
		assert.Equal(t, "Unnamed hut", hut.Name)
	})
}

func TestToCampsite(t *testing.T) {
	raw := Raw{
		"campsiteId": "white-horse-hill",
		"title":      "White Horse Hill",
		"location":   map[string]any{"lat": -43.7194, "lng": 170.0917},
		"category":   "standard",
		"facilities": []any{"water"},
	}

	campsite, err := ToCampsite(raw)
	require.NoError(t, err)

	assert.Equal(t, "white-horse-hill", campsite.DocCampsiteID)
	assert.Equal(t, "White Horse Hill", campsite.Name)
	assert.Equal(t, "standard", campsite.Type)
	assert.Equal(t, []string{"water"}, campsite.Facilities)
}

func TestToAlert(t *testing.T) {
	t.Run("full record", func(t *testing.T) {
		raw := Raw{
			"alertId":    "alert-1",
			"sourceType": "track",
			"sourceId":   "track-1",
			"title":      "Bridge out",
			"body":       "The swing bridge is closed.",
			"severity":   "Closed",
			"region":     "Fiordland",
			"validFrom":  "2026-08-01",
			"validTo":    "2026-09-01T00:00:00Z",
		}

		alert, err := ToAlert(raw)
		require.NoError(t, err)

		assert.Equal(t, "alert-1", alert.AlertID)
		assert.Equal(t, SourceTrack, alert.SourceType)
		assert.Equal(t, "track-1", alert.SourceID)
		assert.Equal(t, SeverityClosed, alert.Severity)
		require.NotNil(t, alert.ValidFrom)
		assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), *alert.ValidFrom)
		require.NotNil(t, alert.ValidTo)
	})

	t.Run("source type substring matching", func(t *testing.T) {
		tests := []struct {
			value    string
			expected SourceType
		}{
			{"hutAlert", SourceHut},
			{"campground", SourceCampsite},
			{"regional", SourceRegion},
			{"track", SourceTrack},
			{"something else", SourceTrack},
		}
		for _, tt := range tests {
			alert, err := ToAlert(Raw{"id": "a", "sourceType": tt.value})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, alert.SourceType, tt.value)
		}
	})

	t.Run("severity substring matching", func(t *testing.T) {
		tests := []struct {
			value    string
			expected Severity
		}{
			{"CLOSED", SeverityClosed},
			{"partial closure", SeverityClosed},
			{"warning", SeverityWarning},
			{"Caution advised", SeverityWarning},
			{"information", SeverityInfo},
			{"mystery", SeverityNone},
		}
		for _, tt := range tests {
			alert, err := ToAlert(Raw{"id": "a", "severity": tt.value})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, alert.Severity, tt.value)
		}
	})

	t.Run("defaults", func(t *testing.T) {
		alert, err := ToAlert(Raw{"id": "bare"})
		require.NoError(t, err)

		assert.Equal(t, "DOC alert", alert.Title)
		assert.Empty(t, alert.Body)
		assert.Equal(t, SourceTrack, alert.SourceType)
		assert.Equal(t, SeverityNone, alert.Severity)
		assert.Nil(t, alert.ValidFrom)
		assert.Nil(t, alert.ValidTo)
	})

	t.Run("missing identifier", func(t *testing.T) {
		_, err := ToAlert(Raw{"title": "No id"})
		require.ErrorIs(t, err, ErrMissingIdentifier)
	})
}

func TestSeverityOrdering(t *testing.T) {
	assert.True(t, SeverityWarning.Outranks(SeverityInfo))
	assert.True(t, SeverityClosed.Outranks(SeverityWarning))
	assert.True(t, SeverityInfo.Outranks(SeverityNone))
	assert.False(t, SeverityInfo.Outranks(SeverityInfo))
	assert.False(t, SeverityInfo.Outranks(SeverityClosed))

	assert.Equal(t, StatusClosed, SeverityClosed.TrackStatus())
	assert.Equal(t, StatusCaution, SeverityWarning.TrackStatus())
	assert.Equal(t, StatusOpen, SeverityInfo.TrackStatus())
	assert.Equal(t, StatusUnknown, SeverityNone.TrackStatus())
}
