package weather

import (
	"context"
	"time"

	"github.com/dashhost/weather-widget/internal/sun"
)

// Clock supplies the reference instant for selectors and snapshots. It is
// injected so the pipeline is deterministic under test.
type Clock interface {
	Now() time.Time
}

// Scheduler drives the refresh cadence. The production implementation wraps
// time.AfterFunc; tests substitute a synchronous fake.
type Scheduler interface {
	After(delay time.Duration, fn func())
}

// LocationResolver turns coordinates into a LocationContext (forecast office,
// grid cell, city/state). Sources without an office concept leave it nil and
// the orchestrator builds a bare context from the coordinates.
type LocationResolver interface {
	ResolvePoint(ctx context.Context, c Coordinates) (LocationContext, error)
}

// MeasurementSource produces the full observation set for one refresh cycle.
type MeasurementSource interface {
	Name() string
	Fetch(ctx context.Context, loc LocationContext) (Observations, error)
}

// SunSource fetches the day's sunrise/sunset instants. Nil when the
// measurement source embeds them in its own payload.
type SunSource interface {
	FetchSunTimes(ctx context.Context, c Coordinates) (sun.Times, error)
}

// Notifier receives the pipeline's typed events, one method per event kind.
// The rendering layer and any logging sink hang off this interface.
type Notifier interface {
	SnapshotReady(s WeatherSnapshot)
	RefreshFailed(err error)
}

// SystemClock is the production Clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// TimerScheduler is the production Scheduler, backed by time.AfterFunc.
type TimerScheduler struct{}

func (TimerScheduler) After(delay time.Duration, fn func()) {
	time.AfterFunc(delay, fn)
}
