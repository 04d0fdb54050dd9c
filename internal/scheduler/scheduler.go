// Package scheduler runs the two periodic jobs of the weather core: warming
// the cache for tracked locations (so widgets and notifications read fresh
// data) and sweeping cache records past the retention bound.
package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/Vdem07/weather-glass-app-sub000/internal/weather"
)

// Scheduler owns the gocron instance and the job wiring.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   *weather.Service
	store     weather.Store

	locations     []weather.Coordinate
	warmInterval  time.Duration
	sweepInterval time.Duration
	retention     time.Duration
}

// New creates a Scheduler. locations may be empty, in which case only the
// sweep job is scheduled.
func New(service *weather.Service, store weather.Store, locations []weather.Coordinate, warmInterval, sweepInterval, retention time.Duration) *Scheduler {
	return &Scheduler{
		scheduler:     gocron.NewScheduler(time.UTC),
		service:       service,
		store:         store,
		locations:     locations,
		warmInterval:  warmInterval,
		sweepInterval: sweepInterval,
		retention:     retention,
	}
}

// Start schedules the jobs and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if len(s.locations) > 0 {
		if _, err := s.scheduler.Every(s.warmInterval).Do(s.warmTrackedLocations); err != nil {
			return err
		}
	} else {
		log.Println("scheduler: no tracked locations configured; skipping warmup job")
	}

	if _, err := s.scheduler.Every(s.sweepInterval).Do(s.sweepExpired); err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

func (s *Scheduler) warmTrackedLocations() {
	log.Printf("scheduler: warming cache for %d tracked locations", len(s.locations))

	var wg sync.WaitGroup
	for _, coord := range s.locations {
		coord := coord
		wg.Add(1)
		go func() {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if err := s.service.Refresh(ctx, coord); err != nil {
				// Warmup is best-effort; the per-request fallback chain still
				// covers cold reads.
				log.Printf("scheduler: warmup failed for %s: %v", coord.CacheKey(), err)
			}
		}()
	}
	wg.Wait()
}

func (s *Scheduler) sweepExpired() {
	removed, err := s.store.SweepExpired(s.retention)
	if err != nil {
		log.Printf("scheduler: cache sweep failed: %v", err)
		return
	}
	if removed > 0 {
		log.Printf("scheduler: swept %d expired cache records", removed)
	}
}
