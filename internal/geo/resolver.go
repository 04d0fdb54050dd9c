// Package geo resolves city names to coordinates for the "add city" flow.
// The primary weather provider's geocoding endpoint is tried first; a Google
// geocoder can be configured as a fallback tier.
package geo

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/kelvins/geocoder"

	"github.com/Vdem07/weather-glass-app-sub000/internal/weather"
	"github.com/Vdem07/weather-glass-app-sub000/internal/weather/providers"
)

// ErrNotFound is returned when no tier could resolve the query.
var ErrNotFound = errors.New("location not found")

// Geocoder is the slice of the primary adapter the resolver needs.
type Geocoder interface {
	Geocode(ctx context.Context, city, country string) ([]providers.GeoResult, error)
}

// Resolver turns "city, country" queries into validated coordinates.
type Resolver struct {
	primary        Geocoder
	googleFallback bool
}

// NewResolver creates a resolver over the primary provider's geocoding
// endpoint. A non-empty googleAPIKey enables the Google geocoder fallback.
func NewResolver(primary Geocoder, googleAPIKey string) *Resolver {
	if googleAPIKey != "" {
		geocoder.ApiKey = googleAPIKey
	}
	return &Resolver{primary: primary, googleFallback: googleAPIKey != ""}
}

// Resolve returns the best-matching location for a city name, optionally
// qualified by an ISO country code.
func (r *Resolver) Resolve(ctx context.Context, city, country string) (weather.Location, error) {
	if city == "" {
		return weather.Location{}, fmt.Errorf("city must not be empty")
	}

	results, err := r.primary.Geocode(ctx, city, country)
	if err == nil && len(results) > 0 {
		best := results[0]
		return weather.Location{
			Name:        best.Name,
			CountryCode: best.Country,
			Coord:       weather.Coordinate{Lat: best.Lat, Lon: best.Lon},
		}, nil
	}
	if err != nil {
		log.Printf("geocoding via primary provider failed for %q: %v", city, err)
	}

	if r.googleFallback {
		if loc, gErr := r.resolveGoogle(city, country); gErr == nil {
			return loc, nil
		} else {
			log.Printf("google geocoder fallback failed for %q: %v", city, gErr)
		}
	}

	return weather.Location{}, ErrNotFound
}

func (r *Resolver) resolveGoogle(city, country string) (weather.Location, error) {
	loc, err := geocoder.Geocoding(geocoder.Address{City: city, Country: country})
	if err != nil {
		return weather.Location{}, err
	}

	coord := weather.Coordinate{Lat: loc.Latitude, Lon: loc.Longitude}
	if !coord.Valid() {
		return weather.Location{}, fmt.Errorf("geocoder returned out-of-range coordinate")
	}
	return weather.Location{
		Name:        city,
		CountryCode: country,
		Coord:       coord,
	}, nil
}
