package weather

import (
	"context"
	"time"
)

// PrimaryObservation is the primary adapter's normalized output: the current
// reading plus the 5-day/3-hour forecast list. Optional provider-native
// fields stay nil when absent so the fusion chain can tell "missing" from
// "zero".
type PrimaryObservation struct {
	Location Location
	Instant  Instant

	// Native derived values, when the provider reports them.
	UVIndex              *float64
	DewPointC            *float64
	PrecipProbabilityPct *int

	Forecast []ForecastStep
}

// ForecastStep is one 3-hour step of the primary forecast list.
type ForecastStep struct {
	Timestamp            time.Time // UTC
	TemperatureC         float64
	CloudinessPct        int
	ConditionMain        string
	ConditionDesc        string
	ConditionCode        int
	PrecipProbabilityPct *int
}

// UVReport is the secondary adapter's normalized output: the current UV value
// plus an optional hourly UV forecast.
type UVReport struct {
	Current float64

	// Hourly maps forecastHourKey(t) to the forecast UV for that hour.
	Hourly map[string]float64
}

// NewUVReport creates a report with the given current value.
func NewUVReport(current float64) *UVReport {
	return &UVReport{Current: current, Hourly: make(map[string]float64)}
}

// AddHourly records a forecast UV value for the hour of t.
func (r *UVReport) AddHourly(t time.Time, uv float64) {
	if r.Hourly == nil {
		r.Hourly = make(map[string]float64)
	}
	r.Hourly[forecastHourKey(t)] = uv
}

// forecastHourKey identifies a forecast hour across providers.
func forecastHourKey(t time.Time) string {
	return t.UTC().Format("2006-01-02T15")
}

// At returns the forecast UV for the hour of t, if the secondary provider
// covered it.
func (r *UVReport) At(t time.Time) (float64, bool) {
	if r == nil || r.Hourly == nil {
		return 0, false
	}
	v, ok := r.Hourly[forecastHourKey(t)]
	return v, ok
}

// PrimaryProvider is the general-purpose weather source: current conditions,
// forecast list and geocoding. Core meteorological fields have no other
// source.
type PrimaryProvider interface {
	Name() string
	Fetch(ctx context.Context, coord Coordinate) (*PrimaryObservation, error)
}

// UVProvider is the UV-specialized secondary source. Independently fallible;
// the fusion layer tolerates its absence.
type UVProvider interface {
	Name() string
	Fetch(ctx context.Context, coord Coordinate) (*UVReport, error)
}

// Store is the contract the cache store must satisfy. The store is dumb:
// staleness decisions stay with the orchestrator, the store only enforces the
// long retention bound via SweepExpired.
type Store interface {
	Read(coord Coordinate) (*CacheRecord, error)
	Write(rec *CacheRecord) error
	SweepExpired(maxAge time.Duration) (int, error)
}
