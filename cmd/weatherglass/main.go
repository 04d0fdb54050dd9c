package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/Vdem07/weather-glass-app-sub000/internal/api/http"
	"github.com/Vdem07/weather-glass-app-sub000/internal/config"
	"github.com/Vdem07/weather-glass-app-sub000/internal/geo"
	"github.com/Vdem07/weather-glass-app-sub000/internal/scheduler"
	"github.com/Vdem07/weather-glass-app-sub000/internal/store"
	"github.com/Vdem07/weather-glass-app-sub000/internal/weather"
	"github.com/Vdem07/weather-glass-app-sub000/internal/weather/providers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.AdapterTimeout,
	}

	// Cache store: sqlite when a path is configured, in-memory otherwise.
	var cache interface {
		weather.Store
		Close() error
	}
	if cfg.CachePath != "" {
		sqliteStore, err := store.NewSQLiteStore(cfg.CachePath)
		if err != nil {
			log.Fatalf("failed to open cache store: %v", err)
		}
		cache = sqliteStore
	} else {
		log.Println("INFO: CACHE_PATH not set; using in-memory cache")
		cache = store.NewMemoryStore()
	}
	defer cache.Close()

	// Source adapters with resilience (backoff + circuit breaker).
	primary := providers.NewOpenWeatherProvider(httpClient, cfg.OpenWeatherAPIKey, cfg.OpenWeatherBaseURL)
	secondary := providers.NewWeatherAPIProvider(httpClient, cfg.WeatherAPIKey, cfg.WeatherAPIBaseURL)

	// Orchestrator over cache, adapters and fusion.
	service := weather.NewService(cache, primary, secondary, cfg.RefreshInterval, cfg.AdapterTimeout)

	resolver := geo.NewResolver(primary, cfg.GoogleGeocoderAPIKey)

	// Periodic cache warmup and retention sweep.
	sched := scheduler.New(service, cache, cfg.TrackedLocations, cfg.RefreshInterval, cfg.SweepInterval, cfg.CacheRetention)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "weather-glass",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weather-glass",
		})
	})

	httpapi.RegisterRoutes(app, service, resolver)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
