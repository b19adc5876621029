package weather

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/dashhost/weather-widget/internal/sun"
)

// State tracks where the orchestrator is in its refresh cycle.
type State int

const (
	StateIdle State = iota
	StateResolvingLocation
	StateFetching
	StateAssembling
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateResolvingLocation:
		return "resolving-location"
	case StateFetching:
		return "fetching"
	case StateAssembling:
		return "assembling"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// RefreshConfig holds the orchestrator's cadence and display settings.
type RefreshConfig struct {
	// UpdateInterval is the normal delay between successful refreshes.
	UpdateInterval time.Duration
	// RetryDelay is the shorter delay used after a failed refresh.
	RetryDelay time.Duration
	// InitialDelay postpones the very first refresh after Start.
	InitialDelay time.Duration
	// CycleTimeout bounds all upstream calls within one cycle.
	CycleTimeout time.Duration

	Display DisplayOptions
}

// Orchestrator runs the multi-step refresh sequence: resolve the location
// (cached), fetch measurements and sun times concurrently, assemble a
// snapshot, and schedule the next cycle. Cycles never overlap: the next one is
// scheduled only once the current one reaches Ready or Failed, so snapshots
// are observed in strictly increasing FetchedAt order.
type Orchestrator struct {
	cfg       RefreshConfig
	source    MeasurementSource
	resolver  LocationResolver
	sunSource SunSource
	clock     Clock
	scheduler Scheduler
	notifier  Notifier

	mu            sync.Mutex
	coords        Coordinates
	state         State
	location      *LocationContext
	last          *WeatherSnapshot
	lastFetchedAt time.Time
	running       bool
}

// NewOrchestrator wires the pipeline together. resolver and sunSource may be
// nil for sources that need no office lookup or embed their own sun times.
func NewOrchestrator(
	cfg RefreshConfig,
	coords Coordinates,
	source MeasurementSource,
	resolver LocationResolver,
	sunSource SunSource,
	clock Clock,
	scheduler Scheduler,
	notifier Notifier,
) *Orchestrator {
	return &Orchestrator{
		cfg:       cfg,
		coords:    coords,
		source:    source,
		resolver:  resolver,
		sunSource: sunSource,
		clock:     clock,
		scheduler: scheduler,
		notifier:  notifier,
		state:     StateIdle,
	}
}

// Start schedules the first refresh after the configured initial delay.
func (o *Orchestrator) Start() {
	o.scheduler.After(o.cfg.InitialDelay, o.refreshJob)
}

// RefreshNow runs one refresh cycle immediately. It is a no-op if a cycle is
// already in flight; cycles must not overlap. The cycle does not schedule a
// follow-up: the timer chain started by Start stays the only one, so an
// external refresh never doubles the cadence.
func (o *Orchestrator) RefreshNow() {
	o.runCycle(false)
}

// Latest returns the most recent successfully assembled snapshot. The second
// return is false while no refresh has ever succeeded, which is the renderer's
// cue to show its loading indicator.
func (o *Orchestrator) Latest() (WeatherSnapshot, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.last == nil {
		return WeatherSnapshot{}, false
	}
	return *o.last, true
}

// State returns the orchestrator's current cycle state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// SetCoordinates replaces the tracked location. A coordinate change is the
// only thing that invalidates the cached LocationContext.
func (o *Orchestrator) SetCoordinates(c Coordinates) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if c != o.coords {
		o.coords = c
		o.location = nil
	}
}

func (o *Orchestrator) refreshJob() {
	o.runCycle(true)
}

// runCycle executes one full refresh. Retries never reuse partially fetched
// data: a new cycle starts from the cached location context but re-fetches all
// measurements and sun times. scheduleNext is set only for timer-driven
// cycles; one-off cycles finish without queueing another.
func (o *Orchestrator) runCycle(scheduleNext bool) {
	o.mu.Lock()
	if o.running {
		o.mu.Unlock()
		return
	}
	o.running = true
	o.state = StateResolvingLocation
	coords := o.coords
	cached := o.location
	o.mu.Unlock()

	if !coords.Valid() {
		o.fail(&ConfigurationError{Reason: "latitude and longitude are required"}, scheduleNext)
		return
	}

	timeout := o.cfg.CycleTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	loc, err := o.resolveLocation(ctx, coords, cached)
	if err != nil {
		o.fail(err, scheduleNext)
		return
	}

	o.setState(StateFetching)

	obs, times, err := o.fetchAll(ctx, loc)
	if err != nil {
		o.fail(err, scheduleNext)
		return
	}

	o.setState(StateAssembling)

	now := o.nextFetchInstant()
	snapshot, err := Assemble(obs, loc, times, now, o.cfg.Display)
	if err != nil {
		o.fail(err, scheduleNext)
		return
	}

	o.mu.Lock()
	o.state = StateReady
	o.last = &snapshot
	o.lastFetchedAt = snapshot.FetchedAt
	o.running = false
	o.mu.Unlock()

	o.notifier.SnapshotReady(snapshot)
	if scheduleNext {
		o.scheduler.After(o.cfg.UpdateInterval, o.refreshJob)
	}
}

func (o *Orchestrator) resolveLocation(ctx context.Context, coords Coordinates, cached *LocationContext) (LocationContext, error) {
	if cached != nil {
		return *cached, nil
	}
	if o.resolver == nil {
		loc := LocationContext{Coordinates: coords}
		o.storeLocation(loc)
		return loc, nil
	}

	log.Printf("weather: resolving forecast office for %.4f,%.4f", coords.Latitude, coords.Longitude)
	loc, err := o.resolver.ResolvePoint(ctx, coords)
	if err != nil {
		return LocationContext{}, err
	}
	o.storeLocation(loc)
	return loc, nil
}

func (o *Orchestrator) storeLocation(loc LocationContext) {
	o.mu.Lock()
	defer o.mu.Unlock()
	// Discard the resolution if the coordinates changed underneath us.
	if o.coords == loc.Coordinates {
		o.location = &loc
	}
}

// fetchAll runs the measurement fetch and the sun-times fetch concurrently and
// joins both before assembly. Either failure fails the whole cycle.
func (o *Orchestrator) fetchAll(ctx context.Context, loc LocationContext) (Observations, sun.Times, error) {
	var (
		wg      sync.WaitGroup
		obs     Observations
		obsErr  error
		times   sun.Times
		timeErr error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		obs, obsErr = o.source.Fetch(ctx, loc)
	}()

	if o.sunSource != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			times, timeErr = o.sunSource.FetchSunTimes(ctx, loc.Coordinates)
		}()
	}

	wg.Wait()

	if obsErr != nil {
		return Observations{}, sun.Times{}, obsErr
	}
	if timeErr != nil {
		return Observations{}, sun.Times{}, timeErr
	}
	if o.sunSource == nil {
		if obs.SunTimes == nil {
			return Observations{}, sun.Times{}, &IncompleteDataError{Metric: "sunTimes"}
		}
		times = *obs.SunTimes
	}
	return obs, times, nil
}

// nextFetchInstant returns the snapshot timestamp, nudged forward if the clock
// has not advanced past the previous snapshot. FetchedAt must strictly
// increase across successive snapshots.
func (o *Orchestrator) nextFetchInstant() time.Time {
	now := o.clock.Now()
	o.mu.Lock()
	defer o.mu.Unlock()
	if !now.After(o.lastFetchedAt) {
		now = o.lastFetchedAt.Add(time.Nanosecond)
	}
	return now
}

func (o *Orchestrator) setState(s State) {
	o.mu.Lock()
	o.state = s
	o.mu.Unlock()
}

// fail transitions the cycle to Failed, keeps the last good snapshot on
// display, notifies the sink, and schedules a retry unless the failure is a
// configuration problem a retry cannot fix or the cycle was a one-off.
func (o *Orchestrator) fail(err error, scheduleNext bool) {
	o.mu.Lock()
	o.state = StateFailed
	o.running = false
	o.mu.Unlock()

	o.notifier.RefreshFailed(err)

	if scheduleNext && Retryable(err) {
		o.scheduler.After(o.cfg.RetryDelay, o.refreshJob)
	}
}
