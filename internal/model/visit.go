package model

import "time"

// Visit is a timestamped event recording that a page was viewed.
// Visits are keyed by the compound key [time+url]: a page can be visited
// many times, but two visits to the same URL in the same millisecond are
// considered one event.
type Visit struct {
	// Time is the visit timestamp in Unix milliseconds.
	// Milliseconds match the precision of the exported extension records
	// and are part of the primary key, so the integer form is canonical.
	Time int64 `json:"time"`

	// URL is the canonicalized URL of the visited page.
	URL string `json:"url"`

	// DurationMS is how long the page was active, in milliseconds.
	// Zero when unknown.
	DurationMS int64 `json:"duration,omitempty"`

	// ScrollPx is the maximum scroll depth reached, in pixels.
	// Zero when unknown.
	ScrollPx int64 `json:"scroll_px,omitempty"`
}

// NewVisit creates a Visit for url at time t.
func NewVisit(url string, t time.Time) Visit {
	return Visit{
		Time: t.UnixMilli(),
		URL:  url,
	}
}

// Timestamp returns the visit time as a time.Time.
func (v Visit) Timestamp() time.Time {
	return time.UnixMilli(v.Time)
}
