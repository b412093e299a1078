// Package indicator holds the normalized time-series model for economic
// indicators and the cache-first repository that produces them.
package indicator

import (
	"sort"
	"time"
)

// Observation is one (date, value) data point of an indicator series.
//
// Date always carries a 12:00 UTC time component. The fixed midday anchor
// keeps the calendar day stable when the timestamp is rendered in another
// timezone; every producer of an Observation must uphold this.
type Observation struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// Series is an ordered sequence of observations for one indicator over one
// date range. A Series returned by the Repository is shared with the cache:
// callers must not mutate it and should re-sort via Ascending/Descending,
// which copy.
type Series []Observation

// Day builds the midday-anchored date for a calendar day.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
}

// Ascending returns a copy of the series sorted by date, oldest first.
func (s Series) Ascending() Series {
	out := make(Series, len(s))
	copy(out, s)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// Descending returns a copy of the series sorted by date, newest first.
func (s Series) Descending() Series {
	out := make(Series, len(s))
	copy(out, s)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}
