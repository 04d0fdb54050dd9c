package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/Vdem07/weather-glass-app-sub000/internal/weather"
	"github.com/sony/gobreaker"
)

const (
	defaultWeatherAPIBaseURL = "https://api.weatherapi.com"

	// The provider caps its forecast at 10 days.
	maxUVForecastDays = 10
)

// WeatherAPIProvider is the UV-specialized secondary source, backed by
// WeatherAPI.com: the current `uv` value plus the per-hour UV forecast from
// `forecastday[].hour[]`.
type WeatherAPIProvider struct {
	name    string
	apiKey  string
	baseURL string
	days    int
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

// NewWeatherAPIProvider creates the secondary adapter. baseURL is injectable
// for test doubles; empty means the real API.
func NewWeatherAPIProvider(client *http.Client, apiKey, baseURL string) *WeatherAPIProvider {
	if baseURL == "" {
		baseURL = defaultWeatherAPIBaseURL
	}
	return &WeatherAPIProvider{
		name:    "weatherapi",
		apiKey:  apiKey,
		baseURL: baseURL,
		days:    maxUVForecastDays,
		httpCfg: defaultHTTPConfig(client),
		circuit: newCircuit("weatherapi"),
	}
}

func (p *WeatherAPIProvider) Name() string {
	return p.name
}

// waForecast mirrors the /v1/forecast.json response, UV fields only.
type waForecast struct {
	Current struct {
		UV float64 `json:"uv"`
	} `json:"current"`
	Forecast struct {
		ForecastDay []struct {
			Hour []struct {
				TimeEpoch int64   `json:"time_epoch"`
				UV        float64 `json:"uv"`
			} `json:"hour"`
		} `json:"forecastday"`
	} `json:"forecast"`
}

// Fetch retrieves the current UV value and the hourly UV forecast in a single
// forecast call.
func (p *WeatherAPIProvider) Fetch(ctx context.Context, coord weather.Coordinate) (*weather.UVReport, error) {
	if p.apiKey == "" {
		return nil, adapterErr(p.name, fmt.Errorf("api key is not configured"))
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("key", p.apiKey)
		values.Set("q", fmt.Sprintf("%f,%f", coord.Lat, coord.Lon))
		values.Set("days", fmt.Sprintf("%d", p.days))

		u := fmt.Sprintf("%s/v1/forecast.json?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	var payload waForecast
	if err := getJSON(ctx, p.httpCfg, p.circuit, buildRequest, &payload); err != nil {
		return nil, adapterErr(p.name, err)
	}

	report := weather.NewUVReport(payload.Current.UV)
	for _, day := range payload.Forecast.ForecastDay {
		for _, h := range day.Hour {
			report.AddHourly(time.Unix(h.TimeEpoch, 0).UTC(), h.UV)
		}
	}

	return report, nil
}
