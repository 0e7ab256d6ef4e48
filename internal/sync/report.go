package sync

import "fmt"

// ItemError records one skipped record during a sync run. Per-item failures
// never abort the run; they are accumulated here and logged as they happen.
type ItemError struct {
	Collection string
	ID         string // empty when the record failed before an identifier was known
	Err        error
}

func (e ItemError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s: %v", e.Collection, e.Err)
	}
	return fmt.Sprintf("%s/%s: %v", e.Collection, e.ID, e.Err)
}

// Report accumulates per-item outcomes for one sync run.
type Report struct {
	Errors []ItemError
}

// Failed returns the number of skipped items.
func (r *Report) Failed() int {
	return len(r.Errors)
}

func (r *Report) add(collection, id string, err error) {
	r.Errors = append(r.Errors, ItemError{Collection: collection, ID: id, Err: err})
}

// AssetSummary reports an asset sync run. Counts reflect attempted items, not
// just successes; skipped items are listed in Report.
type AssetSummary struct {
	Tracks        int    `json:"tracks"`
	Huts          int    `json:"huts"`
	Campsites     int    `json:"campsites"`
	GeojsonStored int    `json:"geojsonStored"`
	Report        Report `json:"-"`
}

// AlertSummary reports an alert sync run.
type AlertSummary struct {
	Alerts        int    `json:"alerts"`
	TracksUpdated int    `json:"tracksUpdated"`
	Report        Report `json:"-"`
}
