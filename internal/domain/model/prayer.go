package model

import (
	"encoding/json"
	"time"
)

// DayRecord is a single day as delivered by the upstream API: the timing
// table plus the date and meta blocks, which are passed through untouched.
type DayRecord struct {
	Timings map[string]string `json:"timings"`
	Date    json.RawMessage   `json:"date,omitempty"`
	Meta    json.RawMessage   `json:"meta,omitempty"`
}

// HasTimings reports whether every listed timing field is present and non-empty.
func (r *DayRecord) HasTimings(fields []string) bool {
	if r == nil || r.Timings == nil {
		return false
	}
	for _, f := range fields {
		if r.Timings[f] == "" {
			return false
		}
	}
	return true
}

// LocationInfo describes the resolved district a schedule belongs to.
type LocationInfo struct {
	District    string      `json:"district"`
	City        string      `json:"city"`
	Coordinates Coordinates `json:"coordinates"`
}

// PrayerData is the persisted daily cache document: one day of timings for
// one resolved place, with provenance and the write timestamp.
type PrayerData struct {
	Timings  map[string]string `json:"timings"`
	Date     json.RawMessage   `json:"date,omitempty"`
	Meta     json.RawMessage   `json:"meta,omitempty"`
	Location *LocationInfo     `json:"location,omitempty"`
	Source   string            `json:"source"`
	CachedAt time.Time         `json:"cachedAt"`
}

// PrayerTimesResult is the outcome of the retrieval pipeline. Exactly one of
// Data and Ambiguity is set; Source tags which tier produced Data.
type PrayerTimesResult struct {
	Source    string
	Data      *PrayerData
	Ambiguity *CityAmbiguity
}
