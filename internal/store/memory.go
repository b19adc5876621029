// Package store keeps a bounded in-memory history of assembled snapshots so
// the dashboard host can query the current view and recent readings.
package store

import (
	"errors"
	"sync"
	"time"

	"github.com/dashhost/weather-widget/internal/weather"
)

var (
	// ErrNotFound is returned when no snapshot is available yet.
	ErrNotFound = errors.New("no weather snapshot available")
)

// MemoryStore is a concurrency-safe in-memory snapshot history.
type MemoryStore struct {
	mu sync.RWMutex

	snapshots []weather.WeatherSnapshot

	// retention configuration
	maxHistory int           // max number of snapshots (0 = unlimited)
	maxAge     time.Duration // optional max age of snapshots
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxHistory is <= 0, it is treated as unlimited.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		maxHistory: maxHistory,
		maxAge:     maxAge,
	}
}

// Save appends a snapshot and enforces the count-based retention limit.
// Snapshots arrive in strictly increasing FetchedAt order from the
// orchestrator, so the slice stays time-ordered.
func (s *MemoryStore) Save(snapshot weather.WeatherSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshots = append(s.snapshots, snapshot)

	if s.maxHistory > 0 && len(s.snapshots) > s.maxHistory {
		over := len(s.snapshots) - s.maxHistory
		s.snapshots = s.snapshots[over:]
	}
}

// Latest returns the most recent snapshot.
func (s *MemoryStore) Latest() (weather.WeatherSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.snapshots) == 0 {
		return weather.WeatherSnapshot{}, ErrNotFound
	}
	return s.snapshots[len(s.snapshots)-1], nil
}

// Range returns all snapshots fetched between from and to (inclusive).
func (s *MemoryStore) Range(from, to time.Time) ([]weather.WeatherSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []weather.WeatherSnapshot
	for _, snap := range s.snapshots {
		if !snap.FetchedAt.Before(from) && !snap.FetchedAt.After(to) {
			result = append(result, snap)
		}
	}

	if len(result) == 0 {
		return nil, ErrNotFound
	}
	return result, nil
}

// PruneExpired drops snapshots older than the configured max age. It is
// called periodically by the maintenance scheduler. The most recent snapshot
// is always kept so the widget never loses its last-known-good display.
func (s *MemoryStore) PruneExpired(now time.Time) int {
	if s.maxAge <= 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := now.Add(-s.maxAge)
	i := 0
	for ; i < len(s.snapshots)-1; i++ {
		if !s.snapshots[i].FetchedAt.Before(cutoff) {
			break
		}
	}
	if i > 0 {
		s.snapshots = s.snapshots[i:]
	}
	return i
}

// Recorder adapts the store to the pipeline's notifier interface so each
// completed snapshot is persisted. Failures are not recorded; the last good
// snapshot stays on display.
type Recorder struct {
	Store *MemoryStore
}

func (r Recorder) SnapshotReady(s weather.WeatherSnapshot) { r.Store.Save(s) }

func (r Recorder) RefreshFailed(error) {}
