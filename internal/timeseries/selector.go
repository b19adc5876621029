// Package timeseries selects the reading applicable to a reference instant
// from the two time-series shapes the upstream weather APIs produce.
package timeseries

import (
	"sort"
	"time"
)

// Measurement is an instant-keyed reading: the value becomes effective at
// Start and remains the latest until a later measurement supersedes it.
type Measurement struct {
	Start time.Time
	Value float64
}

// Period is an interval-keyed reading, effective within [Start, End).
type Period struct {
	Start time.Time
	End   time.Time
	Value string
}

// LatestAt returns the value of the last measurement in input order whose
// effective start is at or before now. The forward scan assumes the series is
// sorted ascending by start; an unsorted series is sorted (stably) first so a
// mis-ordered feed cannot select a superseded value. The second return is
// false when no measurement qualifies.
func LatestAt(measurements []Measurement, now time.Time) (float64, bool) {
	if !sortedByStart(measurements) {
		sorted := make([]Measurement, len(measurements))
		copy(sorted, measurements)
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Start.Before(sorted[j].Start)
		})
		measurements = sorted
	}

	var (
		value float64
		found bool
	)
	for _, m := range measurements {
		if !m.Start.After(now) {
			value = m.Value
			found = true
		}
	}
	return value, found
}

// ActiveAt returns the first period containing now, start-inclusive and
// end-exclusive. Unlike the instant-keyed grid series, a period series is not
// guaranteed to cover every instant; the second return is false when no period
// matches, which callers treat as a stale or malformed feed.
func ActiveAt(periods []Period, now time.Time) (Period, bool) {
	for _, p := range periods {
		if !now.Before(p.Start) && now.Before(p.End) {
			return p, true
		}
	}
	return Period{}, false
}

func sortedByStart(measurements []Measurement) bool {
	for i := 1; i < len(measurements); i++ {
		if measurements[i].Start.Before(measurements[i-1].Start) {
			return false
		}
	}
	return true
}
