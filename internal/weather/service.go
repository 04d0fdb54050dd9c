package weather

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"
)

// ErrDataUnavailable is the only error surfaced to callers: no fetch was
// possible and no cache exists. Consumers show a "no data" state.
var ErrDataUnavailable = errors.New("weather data unavailable")

// Service is the single entry point of the weather core. Per request it
// checks the cache, decides freshness, fetches from both adapters
// concurrently, fuses, persists and returns the best available data — live,
// fresh-cached, or stale-cached flagged offline. Only total unavailability
// propagates outward.
type Service struct {
	store     Store
	primary   PrimaryProvider
	secondary UVProvider

	// refreshInterval is the user-configurable staleness horizon; it is
	// unrelated to the store's 1-year retention bound.
	refreshInterval time.Duration
	adapterTimeout  time.Duration

	now func() time.Time
}

// NewService creates the orchestrator. adapterTimeout bounds each provider
// call so a hung upstream cannot stall the fallback decision.
func NewService(store Store, primary PrimaryProvider, secondary UVProvider, refreshInterval, adapterTimeout time.Duration) *Service {
	return &Service{
		store:           store,
		primary:         primary,
		secondary:       secondary,
		refreshInterval: refreshInterval,
		adapterTimeout:  adapterTimeout,
		now:             time.Now,
	}
}

// Snapshot returns the fused current-weather snapshot for the coordinate.
func (s *Service) Snapshot(ctx context.Context, coord Coordinate) (*WeatherSnapshot, error) {
	rec, err := s.record(ctx, coord)
	if err != nil {
		return nil, err
	}
	return &rec.Snapshot, nil
}

// DailyForecast returns the aggregated daily forecast (up to 5 days).
func (s *Service) DailyForecast(ctx context.Context, coord Coordinate) ([]DailyForecastEntry, error) {
	rec, err := s.record(ctx, coord)
	if err != nil {
		return nil, err
	}
	return rec.Daily, nil
}

// HourlyForecast returns the fused 3-hourly forecast list.
func (s *Service) HourlyForecast(ctx context.Context, coord Coordinate) ([]HourlyForecastEntry, error) {
	rec, err := s.record(ctx, coord)
	if err != nil {
		return nil, err
	}
	return rec.Hourly, nil
}

// Refresh forces a fetch-and-persist for the coordinate regardless of cache
// freshness. Used by the warmup scheduler for tracked locations.
func (s *Service) Refresh(ctx context.Context, coord Coordinate) error {
	_, err := s.fetchAndPersist(ctx, coord)
	return err
}

// record drives the per-request state machine:
// CheckCache -> fresh: return | stale/missing: Fetch
// Fetch -> success: Persist+Return | failure: FallbackToCache
// FallbackToCache -> has cache: return stale flagged offline | no cache: ErrDataUnavailable.
func (s *Service) record(ctx context.Context, coord Coordinate) (*CacheRecord, error) {
	if !coord.Valid() {
		return nil, fmt.Errorf("invalid coordinate (%.4f, %.4f)", coord.Lat, coord.Lon)
	}

	now := s.now()

	// A missing, corrupt or unreadable cache entry all mean the same thing
	// here: no usable cache.
	cached, _ := s.store.Read(coord)
	if cached != nil && !cached.Stale(now, s.refreshInterval) {
		return cached, nil
	}

	rec, fetchErr := s.fetchAndPersist(ctx, coord)
	if fetchErr == nil {
		return rec, nil
	}

	if cached != nil {
		log.Printf("weather fetch failed for %s, serving stale cache (age %s): %v",
			coord.CacheKey(), cached.Age(now).Round(time.Second), fetchErr)
		cached.Snapshot.Offline = true

		// Stale data went out; try to make the next read fresh. Failure is
		// swallowed, we are already in degraded mode.
		go s.backgroundRefresh(coord)

		return cached, nil
	}

	return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, fetchErr)
}

// fetchAndPersist issues both adapter calls concurrently, awaits them jointly,
// fuses the results and writes the cache. The secondary failing never fails
// the fetch; the primary failing always does.
func (s *Service) fetchAndPersist(ctx context.Context, coord Coordinate) (*CacheRecord, error) {
	var (
		wg         sync.WaitGroup
		primaryObs *PrimaryObservation
		primaryErr error
		uvReport   *UVReport
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		callCtx, cancel := context.WithTimeout(ctx, s.adapterTimeout)
		defer cancel()
		primaryObs, primaryErr = s.primary.Fetch(callCtx, coord)
	}()

	if s.secondary != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			callCtx, cancel := context.WithTimeout(ctx, s.adapterTimeout)
			defer cancel()

			report, err := s.secondary.Fetch(callCtx, coord)
			if err != nil {
				// Recovered by the UV fallback chain.
				log.Printf("provider %s fetch failed for %s: %v", s.secondary.Name(), coord.CacheKey(), err)
				return
			}
			uvReport = report
		}()
	}

	wg.Wait()

	if primaryErr != nil {
		log.Printf("provider %s fetch failed for %s: %v", s.primary.Name(), coord.CacheKey(), primaryErr)
		return nil, ErrPrimaryUnavailable
	}

	rec, err := Fuse(primaryObs, uvReport, coord, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.store.Write(rec); err != nil {
		// The snapshot is still good; only the next offline fallback suffers.
		log.Printf("cache write failed for %s: %v", coord.CacheKey(), err)
	}

	return rec, nil
}

// backgroundRefresh runs a detached fetch so a future read finds fresh cache.
// Its lifetime is bounded by the adapter timeouts, not by caller interest;
// the cache write is an idempotent overwrite, so completing late is safe.
func (s *Service) backgroundRefresh(coord Coordinate) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*s.adapterTimeout)
	defer cancel()

	if _, err := s.fetchAndPersist(ctx, coord); err != nil {
		log.Printf("background refresh failed for %s: %v", coord.CacheKey(), err)
	}
}
