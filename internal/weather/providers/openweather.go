package providers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/Vdem07/weather-glass-app-sub000/internal/weather"
	"github.com/sony/gobreaker"
)

const defaultOpenWeatherBaseURL = "https://api.openweathermap.org"

// OpenWeatherProvider is the primary weather source: current conditions, the
// 5-day/3-hour forecast list and geocoding-by-name, all from OpenWeatherMap.
// Field names and units (metric via the units param, hPa, m/s) are preserved
// exactly for compatibility with previously persisted cache payloads.
type OpenWeatherProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

// NewOpenWeatherProvider creates the primary adapter. baseURL is injectable
// for test doubles; empty means the real API.
func NewOpenWeatherProvider(client *http.Client, apiKey, baseURL string) *OpenWeatherProvider {
	if baseURL == "" {
		baseURL = defaultOpenWeatherBaseURL
	}
	return &OpenWeatherProvider{
		name:    "openweathermap",
		apiKey:  apiKey,
		baseURL: baseURL,
		httpCfg: defaultHTTPConfig(client),
		circuit: newCircuit("openweather"),
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

// owmCondition mirrors the provider's weather[] element.
type owmCondition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
}

// owmCurrent mirrors the /data/2.5/weather response.
type owmCurrent struct {
	Coord struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"coord"`
	Weather []owmCondition `json:"weather"`
	Main    struct {
		Temp      float64  `json:"temp"`
		FeelsLike float64  `json:"feels_like"`
		Pressure  float64  `json:"pressure"`
		Humidity  int      `json:"humidity"`
		DewPoint  *float64 `json:"dew_point"`
	} `json:"main"`
	Visibility int `json:"visibility"`
	Wind       struct {
		Speed float64 `json:"speed"`
		Deg   int     `json:"deg"`
	} `json:"wind"`
	Clouds struct {
		All int `json:"all"`
	} `json:"clouds"`
	Dt  int64 `json:"dt"`
	Sys struct {
		Country string `json:"country"`
	} `json:"sys"`
	Name string `json:"name"`

	// Present on some plans only.
	UVI *float64 `json:"uvi"`
}

// owmForecast mirrors the /data/2.5/forecast response.
type owmForecast struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp float64 `json:"temp"`
		} `json:"main"`
		Weather []owmCondition `json:"weather"`
		Clouds  struct {
			All int `json:"all"`
		} `json:"clouds"`
		Pop *float64 `json:"pop"` // probability of precipitation, 0..1
	} `json:"list"`
}

func (p *OpenWeatherProvider) query(coord weather.Coordinate) url.Values {
	values := url.Values{}
	values.Set("appid", p.apiKey)
	values.Set("units", "metric")
	values.Set("lat", fmt.Sprintf("%f", coord.Lat))
	values.Set("lon", fmt.Sprintf("%f", coord.Lon))
	return values
}

func (p *OpenWeatherProvider) getRequest(path string, values url.Values) func() (*http.Request, error) {
	return func() (*http.Request, error) {
		u := fmt.Sprintf("%s%s?%s", p.baseURL, path, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}
}

// Fetch retrieves the current reading and the 3-hour forecast list. A failed
// forecast call degrades to a current-only observation; a failed current call
// fails the adapter.
func (p *OpenWeatherProvider) Fetch(ctx context.Context, coord weather.Coordinate) (*weather.PrimaryObservation, error) {
	if p.apiKey == "" {
		return nil, adapterErr(p.name, fmt.Errorf("api key is not configured"))
	}

	var current owmCurrent
	if err := getJSON(ctx, p.httpCfg, p.circuit, p.getRequest("/data/2.5/weather", p.query(coord)), &current); err != nil {
		return nil, adapterErr(p.name, err)
	}

	obs := &weather.PrimaryObservation{
		Location: weather.Location{
			Name:        current.Name,
			CountryCode: current.Sys.Country,
			Coord:       weather.Coordinate{Lat: current.Coord.Lat, Lon: current.Coord.Lon},
		},
		Instant: weather.Instant{
			Timestamp:     time.Unix(current.Dt, 0).UTC(),
			TemperatureC:  current.Main.Temp,
			FeelsLikeC:    current.Main.FeelsLike,
			HumidityPct:   current.Main.Humidity,
			PressureHpa:   current.Main.Pressure,
			WindSpeedMS:   current.Wind.Speed,
			WindDirDeg:    current.Wind.Deg,
			CloudinessPct: current.Clouds.All,
			VisibilityM:   current.Visibility,
		},
		UVIndex:   current.UVI,
		DewPointC: current.Main.DewPoint,
	}
	if len(current.Weather) > 0 {
		obs.Instant.ConditionMain = current.Weather[0].Main
		obs.Instant.ConditionDesc = current.Weather[0].Description
		obs.Instant.ConditionCode = current.Weather[0].ID
	}
	if obs.Instant.Timestamp.IsZero() || current.Dt == 0 {
		obs.Instant.Timestamp = time.Now().UTC()
	}

	var forecast owmForecast
	if err := getJSON(ctx, p.httpCfg, p.circuit, p.getRequest("/data/2.5/forecast", p.query(coord)), &forecast); err != nil {
		log.Printf("provider %s forecast fetch failed for %s: %v", p.name, coord.CacheKey(), err)
		return obs, nil
	}

	for _, item := range forecast.List {
		step := weather.ForecastStep{
			Timestamp:     time.Unix(item.Dt, 0).UTC(),
			TemperatureC:  item.Main.Temp,
			CloudinessPct: item.Clouds.All,
		}
		if len(item.Weather) > 0 {
			step.ConditionMain = item.Weather[0].Main
			step.ConditionDesc = item.Weather[0].Description
			step.ConditionCode = item.Weather[0].ID
		}
		if item.Pop != nil {
			pct := int(*item.Pop * 100)
			step.PrecipProbabilityPct = &pct
		}
		obs.Forecast = append(obs.Forecast, step)
	}

	return obs, nil
}

// GeoResult is one geocoding-by-name match.
type GeoResult struct {
	Name    string  `json:"name"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Country string  `json:"country"`
}

// Geocode resolves a city name (optionally qualified by ISO country code) to
// coordinates via the provider's /geo/1.0/direct endpoint.
func (p *OpenWeatherProvider) Geocode(ctx context.Context, city, country string) ([]GeoResult, error) {
	if p.apiKey == "" {
		return nil, adapterErr(p.name, fmt.Errorf("api key is not configured"))
	}

	q := city
	if country != "" {
		q = fmt.Sprintf("%s,%s", city, country)
	}
	values := url.Values{}
	values.Set("appid", p.apiKey)
	values.Set("q", q)
	values.Set("limit", "5")

	var results []GeoResult
	if err := getJSON(ctx, p.httpCfg, p.circuit, p.getRequest("/geo/1.0/direct", values), &results); err != nil {
		return nil, adapterErr(p.name, err)
	}
	return results, nil
}
