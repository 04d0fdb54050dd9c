package weather

import (
	"fmt"
	"time"
)

// UVSource records which fallback tier produced a UV index value.
type UVSource string

const (
	UVSourcePrimaryAPI   UVSource = "PrimaryAPI"
	UVSourceSecondaryAPI UVSource = "SecondaryAPI"
	UVSourceComputed     UVSource = "Computed"
	UVSourceDefault      UVSource = "Default"
)

// Coordinate is a validated latitude/longitude pair. It doubles as the cache
// key via fixed 4-decimal rounding, which keeps cache cardinality bounded
// while staying city-granular.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid reports whether the coordinate lies in the physical range.
func (c Coordinate) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// CacheKey returns the canonical store key for this coordinate.
// Nearby coordinates collide on purpose: 4 decimals is roughly 11 meters.
func (c Coordinate) CacheKey() string {
	return fmt.Sprintf("weather_cache_%.4f_%.4f", c.Lat, c.Lon)
}

// Location names the place a snapshot describes.
type Location struct {
	Name        string     `json:"name"`
	CountryCode string     `json:"countryCode"`
	Coord       Coordinate `json:"coord"`
}

// Instant holds the point-in-time meteorological reading, sourced exclusively
// from the primary provider. Units follow the provider wire format: Celsius,
// hPa, m/s, meters.
type Instant struct {
	Timestamp     time.Time `json:"timestamp"` // always UTC
	TemperatureC  float64   `json:"temperatureC"`
	FeelsLikeC    float64   `json:"feelsLikeC"`
	HumidityPct   int       `json:"humidityPct"`
	PressureHpa   float64   `json:"pressureHpa"`
	WindSpeedMS   float64   `json:"windSpeedMs"`
	WindDirDeg    int       `json:"windDirectionDeg"`
	CloudinessPct int       `json:"cloudinessPct"`
	VisibilityM   int       `json:"visibilityMeters"`
	ConditionMain string    `json:"conditionMain"`
	ConditionDesc string    `json:"conditionDescription"`
	ConditionCode int       `json:"conditionCode"`
}

// Derived holds values produced by the fallback chain. Every field is always
// populated (or deliberately nil for "unavailable"), never left undefined;
// UVProvenance records which tier won.
type Derived struct {
	UVIndex      int        `json:"uvIndex"`
	UVProvenance UVSource   `json:"uvSource"`
	DewPointC    *float64   `json:"dewPointC"`         // nil = unavailable, never zero
	Sunrise      *time.Time `json:"sunrise,omitempty"` // omitted when the model degenerates (polar night/day)
	Sunset       *time.Time `json:"sunset,omitempty"`
}

// WeatherSnapshot is one fused, point-in-time weather reading for a
// coordinate. It is the canonical unit handed to screens, widgets and the
// notification scheduler.
type WeatherSnapshot struct {
	Location Location `json:"location"`
	Instant  Instant  `json:"instant"`
	Derived  Derived  `json:"derived"`

	// PrecipProbabilityPct is nil when neither the provider nor the
	// condition heuristic could produce a value.
	PrecipProbabilityPct *int `json:"precipitationProbabilityPct"`

	// Offline marks a snapshot served from stale cache after a failed fetch.
	Offline bool `json:"offline"`
}

// DailyForecastEntry aggregates the 3-hourly forecast list into one calendar
// day: day values come from the reading nearest solar noon, night values from
// the minimum of late-night/early-morning readings.
type DailyForecastEntry struct {
	Date          time.Time `json:"date"` // midnight UTC of the forecast day
	DayTempC      float64   `json:"dayTemp"`
	NightTempC    float64   `json:"nightTemp"`
	ConditionMain string    `json:"conditionMain"`
	ConditionDesc string    `json:"conditionDescription"`
	UVIndex       int       `json:"uvIndex"`
	UVProvenance  UVSource  `json:"uvSource"`
}

// HourlyForecastEntry is a single 3-hour forecast step with its fused UV.
type HourlyForecastEntry struct {
	Timestamp            time.Time `json:"timestampUtc"`
	TemperatureC         float64   `json:"temperature"`
	ConditionMain        string    `json:"conditionMain"`
	ConditionDesc        string    `json:"conditionDescription"`
	UVIndex              int       `json:"uvIndex"`
	PrecipProbabilityPct *int      `json:"precipitationProbabilityPct"`

	// UVProvenance is carried for the daily aggregation but not part of the
	// hourly wire format.
	UVProvenance UVSource `json:"-"`
}

// CacheRecord is the unit the store persists per rounded coordinate. It is
// created or overwritten on every successful fetch and owned exclusively by
// the store.
type CacheRecord struct {
	Coord     Coordinate            `json:"coord"`
	Snapshot  WeatherSnapshot       `json:"snapshot"`
	Daily     []DailyForecastEntry  `json:"daily"`
	Hourly    []HourlyForecastEntry `json:"hourly"`
	WrittenAt time.Time             `json:"writtenAtUtc"`
}

// Age returns how old the record is at the given instant.
func (r *CacheRecord) Age(now time.Time) time.Duration {
	return now.Sub(r.WrittenAt)
}

// Stale reports whether the record is older than the refresh interval.
// Staleness is a freshness decision, distinct from the 1-year retention
// bound enforced by the store sweep.
func (r *CacheRecord) Stale(now time.Time, refreshInterval time.Duration) bool {
	return r.Age(now) > refreshInterval
}
