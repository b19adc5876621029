// Package sun normalizes sunrise/sunset information from the two upstream
// shapes (absolute instants from the sunrise API, epoch seconds embedded in a
// current-conditions payload) and derives the day/night display state.
package sun

import "time"

// Icon classes used by the widget stylesheet for the next sun event.
const (
	IconSunset  = "wi-sunset"
	IconSunrise = "wi-sunrise"
)

// Times holds the absolute sunrise and sunset instants for one calendar day.
// Times are derived fresh on every refresh; caching them across days is
// invalid, see Times.StaleAt.
type Times struct {
	Sunrise time.Time
	Sunset  time.Time
}

// FromEpochSeconds builds Times from the integer epoch-second fields carried
// by a current-conditions payload.
func FromEpochSeconds(sunrise, sunset int64) Times {
	return Times{
		Sunrise: time.Unix(sunrise, 0).UTC(),
		Sunset:  time.Unix(sunset, 0).UTC(),
	}
}

// State is the day/night portion of a weather snapshot: whether it is
// currently daytime and which sun event comes next. NextEvent is an absolute
// instant; formatting it is the renderer's concern.
type State struct {
	IsDaytime     bool      `json:"isDaytime"`
	NextEvent     time.Time `json:"nextEvent"`
	NextEventIcon string    `json:"nextEventIcon"`
}

// Resolve derives the display state for now from a day's sun times. During
// daytime the next event is sunset, otherwise sunrise.
func Resolve(t Times, now time.Time) State {
	daytime := t.Sunrise.Before(now) && t.Sunset.After(now)

	next := t.Sunrise
	icon := IconSunrise
	if daytime {
		next = t.Sunset
		icon = IconSunset
	}

	return State{
		IsDaytime:     daytime,
		NextEvent:     next,
		NextEventIcon: icon,
	}
}

// StaleAt reports whether the times belong to a calendar day other than the
// one containing now. Stale times must be re-fetched, never extrapolated
// across a day boundary.
func (t Times) StaleAt(now time.Time) bool {
	if t.Sunrise.IsZero() || t.Sunset.IsZero() {
		return true
	}
	y1, m1, d1 := t.Sunrise.Date()
	y2, m2, d2 := now.In(t.Sunrise.Location()).Date()
	return y1 != y2 || m1 != m2 || d1 != d2
}
