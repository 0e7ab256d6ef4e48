package domain

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Sentinel errors for mandatory-field normalization failures.
var (
	ErrEmptyRecord        = errors.New("empty record")
	ErrMissingIdentifier  = errors.New("missing identifier")
	ErrMissingCoordinates = errors.New("missing coordinates")
)

// Ordered fallback tables. Each table is tried front to back; the first field
// that yields a usable value wins.
var (
	hikeIDFields       = []string{"id", "trackId", "assetId", "externalId", "reference"}
	hutIDFields        = []string{"id", "hutId", "assetId", "reference"}
	campsiteIDFields   = []string{"id", "campsiteId", "assetId", "reference"}
	alertIDFields      = []string{"id", "alertId", "reference"}
	nameFields         = []string{"name", "title"}
	regionFields       = []string{"region", "place", "area"}
	distanceFields     = []string{"length", "lengthKm", "distance", "distanceKm"}
	elevationFields    = []string{"elevationGain", "climb", "ascent", "elevationGainM"}
	difficultyFields   = []string{"difficulty", "grade", "level"}
	overnightFields    = []string{"overnight", "multiDay", "multi_day", "isMultiDay"}
	statusFields       = []string{"status", "alertLevel", "state"}
	lastStatusFields   = []string{"lastUpdated", "updatedAt"}
	capacityFields     = []string{"capacity", "beds", "sleepCapacity"}
	bookingURLFields   = []string{"bookingUrl", "booking_link", "url"}
	campsiteTypeFields = []string{"type", "category", "siteType"}
	sourceTypeFields   = []string{"sourceType", "type"}
	severityFields     = []string{"severity", "level", "status"}
	sourceIDFields     = []string{"sourceId", "assetId", "trackId", "relatedId"}
	titleFields        = []string{"title", "name"}
	bodyFields         = []string{"body", "description", "details"}
	alertRegionFields  = []string{"region", "area"}
	validFromFields    = []string{"validFrom", "startDate"}
	validToFields      = []string{"validTo", "endDate"}
)

var hikeStartPaths = []fieldPath{
	path("startPoint"),
	path("start"),
	path("location"),
	path("geometry", "coordinates", 0, 0),
	path("coordinates", 0),
	path("centroid"),
}

var siteLocationPaths = []fieldPath{
	path("location"),
	path("centroid"),
	path("coordinates"),
}

// difficultySynonyms maps normalized upstream grade text to a canonical grade.
var difficultySynonyms = map[string]Difficulty{
	"easy": DifficultyEasy, "easi": DifficultyEasy, "beginner": DifficultyEasy,
	"moderate": DifficultyModerate, "medium": DifficultyModerate, "intermediate": DifficultyModerate,
	"hard": DifficultyHard, "advanced": DifficultyHard, "difficult": DifficultyHard,
}

// ToHike normalizes a raw DOC track record into a canonical Hike.
func ToHike(raw Raw) (Hike, error) {
	if raw == nil {
		return Hike{}, fmt.Errorf("doc track: %w", ErrEmptyRecord)
	}

	id, ok := raw.firstString(hikeIDFields)
	if !ok {
		return Hike{}, fmt.Errorf("doc track: %w", ErrMissingIdentifier)
	}

	start, ok := raw.firstCoordinate(hikeStartPaths)
	if !ok {
		return Hike{}, fmt.Errorf("doc track %s: %w", id, ErrMissingCoordinates)
	}

	distance, err := parseDistanceKm(raw)
	if err != nil {
		return Hike{}, fmt.Errorf("doc track %s: %w", id, err)
	}

	elevation, err := parseElevationGain(raw)
	if err != nil {
		return Hike{}, fmt.Errorf("doc track %s: %w", id, err)
	}

	name, _ := raw.firstString(nameFields)
	if name == "" {
		name = "Unnamed track"
	}
	region, _ := raw.firstString(regionFields)
	if region == "" {
		region = "Unknown region"
	}

	return Hike{
		DocTrackID:           id,
		Name:                 name,
		Region:               region,
		Start:                start,
		DistanceKm:           distance,
		ElevationGainM:       elevation,
		Difficulty:           parseDifficulty(raw),
		Overnight:            raw.firstBool(overnightFields),
		Tags:                 raw.stringSlice("tags"),
		Features:             raw.stringSlice("features"),
		StatusSummary:        parseStatus(raw),
		LastOfficialStatusAt: raw.firstTime(lastStatusFields),
	}, nil
}

// ToHut normalizes a raw DOC hut record into a canonical Hut.
func ToHut(raw Raw) (Hut, error) {
	if raw == nil {
		return Hut{}, fmt.Errorf("doc hut: %w", ErrEmptyRecord)
	}

	id, ok := raw.firstString(hutIDFields)
	if !ok {
		return Hut{}, fmt.Errorf("doc hut: %w", ErrMissingIdentifier)
	}

	location, ok := raw.firstCoordinate(siteLocationPaths)
	if !ok {
		return Hut{}, fmt.Errorf("doc hut %s: %w", id, ErrMissingCoordinates)
	}

	capacity, err := parseCapacity(raw)
	if err != nil {
		return Hut{}, fmt.Errorf("doc hut %s: %w", id, err)
	}

	name, _ := raw.firstString(nameFields)
	if name == "" {
		name = "Unnamed hut"
	}
	bookingURL, _ := raw.firstString(bookingURLFields)

	return Hut{
		DocHutID:   id,
		Name:       name,
		Location:   location,
		Capacity:   capacity,
		Facilities: raw.stringSlice("facilities"),
		BookingURL: bookingURL,
	}, nil
}

// ToCampsite normalizes a raw DOC campsite record into a canonical Campsite.
func ToCampsite(raw Raw) (Campsite, error) {
	if raw == nil {
		return Campsite{}, fmt.Errorf("doc campsite: %w", ErrEmptyRecord)
	}

	id, ok := raw.firstString(campsiteIDFields)
	if !ok {
		return Campsite{}, fmt.Errorf("doc campsite: %w", ErrMissingIdentifier)
	}

	location, ok := raw.firstCoordinate(siteLocationPaths)
	if !ok {
		return Campsite{}, fmt.Errorf("doc campsite %s: %w", id, ErrMissingCoordinates)
	}

	name, _ := raw.firstString(nameFields)
	if name == "" {
		name = "Unnamed campsite"
	}
	siteType, _ := raw.firstString(campsiteTypeFields)
	bookingURL, _ := raw.firstString(bookingURLFields)

	return Campsite{
		DocCampsiteID: id,
		Name:          name,
		Location:      location,
		Type:          siteType,
		Facilities:    raw.stringSlice("facilities"),
		BookingURL:    bookingURL,
	}, nil
}

// ToAlert normalizes a raw DOC alert record into a canonical Alert.
func ToAlert(raw Raw) (Alert, error) {
	if raw == nil {
		return Alert{}, fmt.Errorf("doc alert: %w", ErrEmptyRecord)
	}

	id, ok := raw.firstString(alertIDFields)
	if !ok {
		return Alert{}, fmt.Errorf("doc alert: %w", ErrMissingIdentifier)
	}

	title, _ := raw.firstString(titleFields)
	if title == "" {
		title = "DOC alert"
	}
	body, _ := raw.firstString(bodyFields)
	sourceID, _ := raw.firstString(sourceIDFields)
	region, _ := raw.firstString(alertRegionFields)

	return Alert{
		AlertID:    id,
		SourceType: parseSourceType(raw),
		SourceID:   sourceID,
		Title:      title,
		Body:       body,
		Severity:   parseSeverity(raw),
		Region:     region,
		ValidFrom:  raw.firstTime(validFromFields),
		ValidTo:    raw.firstTime(validToFields),
	}, nil
}

// parseDistanceKm resolves the track distance in kilometers. Numeric values
// are taken as kilometers. Strings with a "km" marker are parsed after
// stripping unit characters; strings with a bare "m" marker are parsed the
// same way and divided by 1000. Absent fields default to zero.
func parseDistanceKm(raw Raw) (float64, error) {
	v, ok := raw.first(distanceFields)
	if !ok {
		return 0, nil
	}

	var km float64
	switch val := v.(type) {
	case string:
		lower := strings.ToLower(val)
		switch {
		case strings.Contains(lower, "km"):
			n, err := parseLooseNumber(lower)
			if err != nil {
				return 0, fmt.Errorf("invalid distance %q: %w", val, err)
			}
			km = n
		case strings.Contains(lower, "m"):
			n, err := parseLooseNumber(lower)
			if err != nil {
				return 0, fmt.Errorf("invalid distance %q: %w", val, err)
			}
			km = n / 1000
		default:
			n, err := asNumber(val)
			if err != nil {
				return 0, fmt.Errorf("invalid distance: %w", err)
			}
			km = n
		}
	default:
		n, err := asNumber(v)
		if err != nil {
			return 0, fmt.Errorf("invalid distance: %w", err)
		}
		km = n
	}

	if km < 0 {
		return 0, fmt.Errorf("negative distance %v", km)
	}
	return math.Round(km*100) / 100, nil
}

// parseLooseNumber strips everything except digits, separators, and sign from
// a unit-bearing string ("12,4 km" → "12.4") and parses the remainder.
func parseLooseNumber(s string) (float64, error) {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' || r == '-' {
			b.WriteRune(r)
		}
	}
	cleaned := strings.Replace(b.String(), ",", ".", 1)
	return asNumber(cleaned)
}

func parseElevationGain(raw Raw) (*int, error) {
	v, ok := raw.first(elevationFields)
	if !ok {
		return nil, nil
	}
	n, err := asNumber(v)
	if err != nil {
		return nil, fmt.Errorf("invalid elevation gain: %w", err)
	}
	gain := int(math.Round(n))
	return &gain, nil
}

func parseCapacity(raw Raw) (*int, error) {
	v, ok := raw.first(capacityFields)
	if !ok {
		return nil, nil
	}
	n, err := asNumber(v)
	if err != nil {
		return nil, fmt.Errorf("invalid capacity: %w", err)
	}
	capacity := int(math.Round(n))
	if capacity < 0 {
		return nil, nil
	}
	return &capacity, nil
}

func parseDifficulty(raw Raw) Difficulty {
	s, ok := raw.firstString(difficultyFields)
	if !ok {
		return DifficultyUnset
	}
	if d, ok := difficultySynonyms[strings.ToLower(strings.TrimSpace(s))]; ok {
		return d
	}
	return DifficultyUnset
}

func parseStatus(raw Raw) Status {
	s, ok := raw.firstString(statusFields)
	if !ok {
		return StatusUnknown
	}
	lower := strings.ToLower(s)
	switch {
	case strings.Contains(lower, "open"):
		return StatusOpen
	case strings.Contains(lower, "caution"), strings.Contains(lower, "alert"):
		return StatusCaution
	case strings.Contains(lower, "close"):
		return StatusClosed
	default:
		return StatusUnknown
	}
}

func parseSourceType(raw Raw) SourceType {
	s, _ := raw.firstString(sourceTypeFields)
	lower := strings.ToLower(s)
	switch {
	case strings.Contains(lower, "hut"):
		return SourceHut
	case strings.Contains(lower, "camp"):
		return SourceCampsite
	case strings.Contains(lower, "region"):
		return SourceRegion
	default:
		return SourceTrack
	}
}

func parseSeverity(raw Raw) Severity {
	s, ok := raw.firstString(severityFields)
	if !ok {
		return SeverityNone
	}
	lower := strings.ToLower(s)
	switch {
	case strings.Contains(lower, "close"):
		return SeverityClosed
	case strings.Contains(lower, "warn"), strings.Contains(lower, "caution"):
		return SeverityWarning
	case strings.Contains(lower, "info"):
		return SeverityInfo
	default:
		return SeverityNone
	}
}
