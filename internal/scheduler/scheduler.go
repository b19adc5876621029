// Package scheduler runs the periodic housekeeping jobs that are independent
// of the refresh cadence, which the orchestrator drives itself.
package scheduler

import (
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/dashhost/weather-widget/internal/store"
)

// Maintenance periodically prunes expired snapshots from the store.
type Maintenance struct {
	scheduler *gocron.Scheduler
	store     *store.MemoryStore
	interval  time.Duration
}

// New creates a maintenance scheduler for the given store.
func New(st *store.MemoryStore, interval time.Duration) *Maintenance {
	return &Maintenance{
		scheduler: gocron.NewScheduler(time.UTC),
		store:     st,
		interval:  interval,
	}
}

// Start schedules the retention sweep and starts the underlying scheduler.
func (m *Maintenance) Start() error {
	minutes := int(m.interval.Minutes())
	if minutes <= 0 {
		minutes = 60
	}

	_, err := m.scheduler.Every(minutes).Minutes().Do(func() {
		dropped := m.store.PruneExpired(time.Now().UTC())
		if dropped > 0 {
			log.Printf("scheduler: pruned %d expired snapshots", dropped)
		}
	})
	if err != nil {
		return err
	}

	m.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (m *Maintenance) Stop() {
	if m.scheduler != nil {
		m.scheduler.Stop()
	}
}
