package sun

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(hour int) time.Time {
	return time.Date(2026, 3, 14, hour, 0, 0, 0, time.UTC)
}

func TestResolveDaytime(t *testing.T) {
	times := Times{Sunrise: day(6), Sunset: day(18)}

	state := Resolve(times, day(12))
	assert.True(t, state.IsDaytime)
	assert.Equal(t, day(18), state.NextEvent)
	assert.Equal(t, IconSunset, state.NextEventIcon)
}

func TestResolveBeforeSunrise(t *testing.T) {
	times := Times{Sunrise: day(6), Sunset: day(18)}

	state := Resolve(times, day(4))
	assert.False(t, state.IsDaytime)
	assert.Equal(t, day(6), state.NextEvent)
	assert.Equal(t, IconSunrise, state.NextEventIcon)
}

func TestResolveAfterSunset(t *testing.T) {
	times := Times{Sunrise: day(6), Sunset: day(18)}

	state := Resolve(times, day(20))
	assert.False(t, state.IsDaytime)
	// After sunset the next sunrise shown is still the fetched one; the
	// orchestrator re-fetches times each cycle, so by the next refresh the
	// instant belongs to the new day.
	assert.Equal(t, IconSunrise, state.NextEventIcon)
}

func TestFromEpochSeconds(t *testing.T) {
	sunrise := day(6).Unix()
	sunset := day(18).Unix()

	times := FromEpochSeconds(sunrise, sunset)
	assert.True(t, times.Sunrise.Equal(day(6)))
	assert.True(t, times.Sunset.Equal(day(18)))
}

func TestStaleAtDayRollover(t *testing.T) {
	times := Times{Sunrise: day(6), Sunset: day(18)}

	assert.False(t, times.StaleAt(day(12)))
	assert.False(t, times.StaleAt(day(23)))

	// Crossing midnight invalidates the times.
	nextDay := day(12).Add(24 * time.Hour)
	assert.True(t, times.StaleAt(nextDay))
}

func TestStaleAtZeroTimes(t *testing.T) {
	assert.True(t, Times{}.StaleAt(day(12)))
}

func TestStaleAtComparesInTimesLocation(t *testing.T) {
	loc := time.FixedZone("UTC-8", -8*3600)
	times := Times{
		Sunrise: time.Date(2026, 3, 14, 6, 0, 0, 0, loc),
		Sunset:  time.Date(2026, 3, 14, 18, 0, 0, 0, loc),
	}

	// 02:00 UTC on the 15th is still the evening of the 14th locally.
	nowUTC := time.Date(2026, 3, 15, 2, 0, 0, 0, time.UTC)
	assert.False(t, times.StaleAt(nowUTC))
}
