package indicator

import (
	"errors"
	"time"
)

// ErrEmptySeries is returned when a metric is requested over a series with
// no observations. Callers should present a "no data" state.
var ErrEmptySeries = errors.New("indicator: empty series")

// LookbackUnit names the calendar distance to look back for a comparison.
type LookbackUnit string

const (
	LookbackDay   LookbackUnit = "day"
	LookbackMonth LookbackUnit = "month"
	LookbackYear  LookbackUnit = "year"
)

// Lookback selects the reference observation for a period-over-period
// comparison. With Periods == 0 the reference is the observation nearest to
// the latest date shifted back one Unit. With Periods > 0 the reference is
// picked by index position instead, counting back from the latest
// observation in ascending order; useful for fixed-frequency series where
// e.g. 20 trading days approximate a month and 240 a year.
type Lookback struct {
	Unit    LookbackUnit `json:"unit"`
	Periods int          `json:"periods,omitempty"`
}

// DerivedMetric is the latest observation of a series together with a
// reference observation one lookback earlier and the percent change between
// the two.
type DerivedMetric struct {
	Latest        Observation  `json:"latest"`
	Reference     *Observation `json:"reference,omitempty"`
	PercentChange float64      `json:"percentChange"`
}

// LatestAndChange computes the DerivedMetric for a series.
//
// The latest observation is the one with the maximum date; on equal dates
// the first in ascending sort order wins. When the reference value is zero
// the percent change is reported as 0 rather than ±Inf, so the result stays
// JSON-encodable. A missing reference (index lookback beyond the start of
// the series) also yields 0.
func LatestAndChange(s Series, lb Lookback) (DerivedMetric, error) {
	if len(s) == 0 {
		return DerivedMetric{}, ErrEmptySeries
	}

	asc := s.Ascending()
	latestIdx := len(asc) - 1
	// Equal trailing dates: keep the first of the run.
	for latestIdx > 0 && asc[latestIdx-1].Date.Equal(asc[latestIdx].Date) {
		latestIdx--
	}
	latest := asc[latestIdx]

	var ref *Observation
	if lb.Periods > 0 {
		if i := latestIdx - lb.Periods; i >= 0 {
			ref = &asc[i]
		}
	} else {
		target := shiftBack(latest.Date, lb.Unit)
		ref = nearest(asc, target)
	}

	m := DerivedMetric{Latest: latest, Reference: ref}
	if ref != nil && ref.Value != 0 {
		m.PercentChange = (latest.Value - ref.Value) / ref.Value * 100
	}
	return m, nil
}

func shiftBack(t time.Time, unit LookbackUnit) time.Time {
	switch unit {
	case LookbackYear:
		return t.AddDate(-1, 0, 0)
	case LookbackMonth:
		return t.AddDate(0, -1, 0)
	default:
		return t.AddDate(0, 0, -1)
	}
}

// nearest returns the observation closest to target by absolute time
// difference. Ties go to the earlier date; the full-scan keeps the search
// correct even on unevenly spaced series.
func nearest(asc Series, target time.Time) *Observation {
	if len(asc) == 0 {
		return nil
	}
	best := 0
	bestDiff := absDuration(asc[0].Date.Sub(target))
	for i := 1; i < len(asc); i++ {
		diff := absDuration(asc[i].Date.Sub(target))
		if diff < bestDiff {
			best, bestDiff = i, diff
		}
	}
	return &asc[best]
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
