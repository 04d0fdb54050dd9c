package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/Vdem07/weather-glass-app-sub000/internal/geo"
	"github.com/Vdem07/weather-glass-app-sub000/internal/weather"
)

type stubService struct {
	snapshot *weather.WeatherSnapshot
	err      error
}

func (s *stubService) Snapshot(ctx context.Context, coord weather.Coordinate) (*weather.WeatherSnapshot, error) {
	return s.snapshot, s.err
}

func (s *stubService) DailyForecast(ctx context.Context, coord weather.Coordinate) ([]weather.DailyForecastEntry, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []weather.DailyForecastEntry{{DayTempC: 20}}, nil
}

func (s *stubService) HourlyForecast(ctx context.Context, coord weather.Coordinate) ([]weather.HourlyForecastEntry, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []weather.HourlyForecastEntry{{TemperatureC: 20}}, nil
}

type stubResolver struct {
	loc weather.Location
	err error
}

func (r *stubResolver) Resolve(ctx context.Context, city, country string) (weather.Location, error) {
	return r.loc, r.err
}

func newTestApp(svc WeatherService, resolver LocationResolver) *fiber.App {
	app := fiber.New()
	RegisterRoutes(app, svc, resolver)
	return app
}

func TestCurrentWeatherValidation(t *testing.T) {
	app := newTestApp(&stubService{snapshot: &weather.WeatherSnapshot{}}, nil)

	cases := []struct {
		name string
		url  string
		want int
	}{
		{"missing params", "/api/v1/weather/current", http.StatusBadRequest},
		{"non-numeric", "/api/v1/weather/current?lat=abc&lon=1", http.StatusBadRequest},
		{"lat out of range", "/api/v1/weather/current?lat=91&lon=0", http.StatusBadRequest},
		{"lon out of range", "/api/v1/weather/current?lat=0&lon=181", http.StatusBadRequest},
		{"valid", "/api/v1/weather/current?lat=55.7558&lon=37.6173", http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.url, nil)
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if resp.StatusCode != tc.want {
				t.Fatalf("expected status %d, got %d", tc.want, resp.StatusCode)
			}
		})
	}
}

func TestCurrentWeatherReturnsSnapshot(t *testing.T) {
	dew := 9.3
	snap := &weather.WeatherSnapshot{
		Location: weather.Location{Name: "Moscow", CountryCode: "RU"},
		Derived:  weather.Derived{UVIndex: 5, UVProvenance: weather.UVSourceSecondaryAPI, DewPointC: &dew},
	}
	app := newTestApp(&stubService{snapshot: snap}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/weather/current?lat=55.7558&lon=37.6173", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var got weather.WeatherSnapshot
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got.Location.Name != "Moscow" || got.Derived.UVProvenance != weather.UVSourceSecondaryAPI {
		t.Errorf("unexpected snapshot: %+v", got)
	}
}

func TestDataUnavailableMapsToNotFound(t *testing.T) {
	app := newTestApp(&stubService{err: weather.ErrDataUnavailable}, nil)

	for _, url := range []string{
		"/api/v1/weather/current?lat=1&lon=1",
		"/api/v1/weather/forecast/daily?lat=1&lon=1",
		"/api/v1/weather/forecast/hourly?lat=1&lon=1",
	} {
		req := httptest.NewRequest(http.MethodGet, url, nil)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("%s: expected 404, got %d", url, resp.StatusCode)
		}
	}
}

func TestGeoResolve(t *testing.T) {
	resolver := &stubResolver{loc: weather.Location{
		Name:        "Moscow",
		CountryCode: "RU",
		Coord:       weather.Coordinate{Lat: 55.7558, Lon: 37.6173},
	}}
	app := newTestApp(&stubService{snapshot: &weather.WeatherSnapshot{}}, resolver)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/geo/resolve?city=Moscow&country=RU", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	// Missing city.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/geo/resolve", nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	// Unresolvable city.
	app = newTestApp(&stubService{snapshot: &weather.WeatherSnapshot{}}, &stubResolver{err: geo.ErrNotFound})
	req = httptest.NewRequest(http.MethodGet, "/api/v1/geo/resolve?city=Nowhere", nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}
