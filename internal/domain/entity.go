package domain

import "time"

// Collection names in the document store.
const (
	CollectionHikes     = "hikes"
	CollectionHuts      = "huts"
	CollectionCampsites = "campsites"
	CollectionAlerts    = "docAlerts"
)

// Coordinate is a WGS-84 latitude/longitude pair.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether the coordinate lies inside the WGS-84 range.
func (c Coordinate) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// Difficulty is the normalized track difficulty grade.
// The zero value means the upstream grade was absent or unrecognized.
type Difficulty string

const (
	DifficultyEasy     Difficulty = "easy"
	DifficultyModerate Difficulty = "moderate"
	DifficultyHard     Difficulty = "hard"
	DifficultyUnset    Difficulty = ""
)

// Status is the derived track status summary.
type Status string

const (
	StatusOpen    Status = "open"
	StatusCaution Status = "caution"
	StatusClosed  Status = "closed"
	StatusUnknown Status = "unknown"
)

// Severity is an alert severity level. The zero value means the upstream
// severity was absent or unrecognized.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityClosed  Severity = "closed"
	SeverityNone    Severity = ""
)

// Rank returns the severity's position in the total order info < warning < closed.
// Unset severities rank below info.
func (s Severity) Rank() int {
	switch s {
	case SeverityInfo:
		return 1
	case SeverityWarning:
		return 2
	case SeverityClosed:
		return 3
	default:
		return 0
	}
}

// Outranks reports whether s is strictly greater than other in severity order.
func (s Severity) Outranks(other Severity) bool {
	return s.Rank() > other.Rank()
}

// TrackStatus maps an alert severity onto the track status it implies:
// closed → closed, warning → caution, info → open.
func (s Severity) TrackStatus() Status {
	switch s {
	case SeverityClosed:
		return StatusClosed
	case SeverityWarning:
		return StatusCaution
	case SeverityInfo:
		return StatusOpen
	default:
		return StatusUnknown
	}
}

// SourceType identifies which asset collection an alert refers to.
type SourceType string

const (
	SourceTrack    SourceType = "track"
	SourceHut      SourceType = "hut"
	SourceCampsite SourceType = "campsite"
	SourceRegion   SourceType = "region"
)

// Hike is the canonical representation of a DOC track.
type Hike struct {
	DocTrackID           string     `json:"docTrackId"`
	Name                 string     `json:"name"`
	Region               string     `json:"region"`
	Start                Coordinate `json:"start"`
	DistanceKm           float64    `json:"distanceKm"`
	ElevationGainM       *int       `json:"elevationGainM,omitempty"`
	Difficulty           Difficulty `json:"difficulty,omitempty"`
	Overnight            bool       `json:"overnight"`
	Tags                 []string   `json:"tags"`
	Features             []string   `json:"features"`
	GeojsonPath          string     `json:"geojsonPath,omitempty"`
	StatusSummary        Status     `json:"statusSummary"`
	LastOfficialStatusAt *time.Time `json:"lastOfficialStatusAt,omitempty"`
}

// Hut is the canonical representation of a DOC hut.
type Hut struct {
	DocHutID   string     `json:"docHutId"`
	Name       string     `json:"name"`
	Location   Coordinate `json:"location"`
	Capacity   *int       `json:"capacity,omitempty"`
	Facilities []string   `json:"facilities"`
	BookingURL string     `json:"bookingUrl,omitempty"`
}

// Campsite is the canonical representation of a DOC campsite.
type Campsite struct {
	DocCampsiteID string     `json:"docCampsiteId"`
	Name          string     `json:"name"`
	Location      Coordinate `json:"location"`
	Type          string     `json:"type,omitempty"`
	Facilities    []string   `json:"facilities"`
	BookingURL    string     `json:"bookingUrl,omitempty"`
}

// Alert is the canonical representation of a DOC alert.
type Alert struct {
	AlertID    string     `json:"alertId"`
	SourceType SourceType `json:"sourceType"`
	SourceID   string     `json:"sourceId,omitempty"`
	Title      string     `json:"title"`
	Body       string     `json:"body"`
	Severity   Severity   `json:"severity,omitempty"`
	Region     string     `json:"region,omitempty"`
	ValidFrom  *time.Time `json:"validFrom,omitempty"`
	ValidTo    *time.Time `json:"validTo,omitempty"`
}
