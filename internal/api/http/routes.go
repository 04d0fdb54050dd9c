package httpapi

import (
	"context"
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/Vdem07/weather-glass-app-sub000/internal/geo"
	"github.com/Vdem07/weather-glass-app-sub000/internal/weather"
)

var validate = validator.New()

// WeatherService is the collaborator interface the HTTP layer consumes. The
// rest of the app (screens, widgets, notification scheduler) goes through
// these three calls and nothing else.
type WeatherService interface {
	Snapshot(ctx context.Context, coord weather.Coordinate) (*weather.WeatherSnapshot, error)
	DailyForecast(ctx context.Context, coord weather.Coordinate) ([]weather.DailyForecastEntry, error)
	HourlyForecast(ctx context.Context, coord weather.Coordinate) ([]weather.HourlyForecastEntry, error)
}

// LocationResolver resolves city-name queries for the "add city" flow.
type LocationResolver interface {
	Resolve(ctx context.Context, city, country string) (weather.Location, error)
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service WeatherService, resolver LocationResolver) {
	v1 := app.Group("/api/v1")

	v1.Get("/weather/current", func(c *fiber.Ctx) error {
		coord, err := parseCoordQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		snapshot, err := service.Snapshot(c.Context(), coord)
		if err != nil {
			return mapServiceError(err)
		}
		return c.JSON(snapshot)
	})

	v1.Get("/weather/forecast/daily", func(c *fiber.Ctx) error {
		coord, err := parseCoordQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		entries, err := service.DailyForecast(c.Context(), coord)
		if err != nil {
			return mapServiceError(err)
		}
		return c.JSON(fiber.Map{"coord": coord, "daily": entries})
	})

	v1.Get("/weather/forecast/hourly", func(c *fiber.Ctx) error {
		coord, err := parseCoordQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		entries, err := service.HourlyForecast(c.Context(), coord)
		if err != nil {
			return mapServiceError(err)
		}
		return c.JSON(fiber.Map{"coord": coord, "hourly": entries})
	})

	if resolver != nil {
		v1.Get("/geo/resolve", func(c *fiber.Ctx) error {
			city := c.Query("city")
			if city == "" {
				return fiber.NewError(fiber.StatusBadRequest, "city query parameter is required")
			}

			loc, err := resolver.Resolve(c.Context(), city, c.Query("country"))
			if err != nil {
				if errors.Is(err, geo.ErrNotFound) {
					return fiber.NewError(fiber.StatusNotFound, "location not found")
				}
				return fiber.NewError(fiber.StatusInternalServerError, "failed to resolve location")
			}
			return c.JSON(loc)
		})
	}
}

// coordQuery holds the lat/lon query parameters.
type coordQuery struct {
	Lat float64 `validate:"gte=-90,lte=90"`
	Lon float64 `validate:"gte=-180,lte=180"`
}

func parseCoordQuery(c *fiber.Ctx) (weather.Coordinate, error) {
	latStr := c.Query("lat")
	lonStr := c.Query("lon")
	if latStr == "" || lonStr == "" {
		return weather.Coordinate{}, errors.New("lat and lon query parameters are required")
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return weather.Coordinate{}, errors.New("lat must be a number")
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return weather.Coordinate{}, errors.New("lon must be a number")
	}

	q := coordQuery{Lat: lat, Lon: lon}
	if err := validate.Struct(q); err != nil {
		return weather.Coordinate{}, err
	}

	return weather.Coordinate{Lat: lat, Lon: lon}, nil
}

// mapServiceError converts orchestrator errors to HTTP responses. Only
// ErrDataUnavailable is a defined outcome; anything else is internal.
func mapServiceError(err error) error {
	if errors.Is(err, weather.ErrDataUnavailable) {
		return fiber.NewError(fiber.StatusNotFound, "weather data unavailable")
	}
	return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch weather data")
}
