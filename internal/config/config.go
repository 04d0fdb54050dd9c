package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/Vdem07/weather-glass-app-sub000/internal/weather"
)

// AppConfig holds everything injectable: API keys, base URL overrides (so
// tests can point adapters at doubles), the two cache policies and the HTTP
// surface settings.
type AppConfig struct {
	OpenWeatherAPIKey    string
	WeatherAPIKey        string
	GoogleGeocoderAPIKey string

	// Base URL overrides; empty means the real APIs.
	OpenWeatherBaseURL string
	WeatherAPIBaseURL  string

	// RefreshInterval is the staleness horizon for cached snapshots.
	RefreshInterval time.Duration

	// CacheRetention is the hard storage bound: records older than this are
	// swept regardless of the refresh interval.
	CacheRetention time.Duration

	// SweepInterval is how often the retention sweep runs.
	SweepInterval time.Duration

	// AdapterTimeout bounds each outbound provider call.
	AdapterTimeout time.Duration

	// CachePath is the sqlite file for the persistent cache; empty keeps the
	// cache in memory.
	CachePath string

	Port string

	// TrackedLocations are warmed periodically so widget reads hit fresh
	// cache.
	TrackedLocations []weather.Coordinate
}

// Load reads configuration from the environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{
		OpenWeatherAPIKey:    os.Getenv("OPENWEATHER_API_KEY"),
		WeatherAPIKey:        os.Getenv("WEATHERAPI_API_KEY"),
		GoogleGeocoderAPIKey: os.Getenv("GOOGLE_GEOCODER_API_KEY"),
		OpenWeatherBaseURL:   os.Getenv("OPENWEATHER_BASE_URL"),
		WeatherAPIBaseURL:    os.Getenv("WEATHERAPI_BASE_URL"),
		CachePath:            os.Getenv("CACHE_PATH"),
		Port:                 getenvDefault("PORT", "8080"),
	}

	var err error
	if cfg.RefreshInterval, err = getenvDuration("REFRESH_INTERVAL", 30*time.Minute); err != nil {
		return nil, err
	}
	if cfg.CacheRetention, err = getenvDuration("CACHE_RETENTION", 365*24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.SweepInterval, err = getenvDuration("SWEEP_INTERVAL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.AdapterTimeout, err = getenvDuration("ADAPTER_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}

	if cfg.TrackedLocations, err = parseTrackedLocations(os.Getenv("TRACKED_LOCATIONS")); err != nil {
		return nil, err
	}

	return cfg, nil
}

// parseTrackedLocations parses "lat:lon,lat:lon" pairs.
func parseTrackedLocations(raw string) ([]weather.Coordinate, error) {
	if raw == "" {
		return nil, nil
	}

	var coords []weather.Coordinate
	for _, pair := range strings.Split(raw, ",") {
		parts := strings.Split(strings.TrimSpace(pair), ":")
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid TRACKED_LOCATIONS entry %q, want lat:lon", pair)
		}
		lat, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid latitude in %q: %w", pair, err)
		}
		lon, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid longitude in %q: %w", pair, err)
		}
		coord := weather.Coordinate{Lat: lat, Lon: lon}
		if !coord.Valid() {
			return nil, fmt.Errorf("coordinate %q out of range", pair)
		}
		coords = append(coords, coord)
	}
	return coords, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
