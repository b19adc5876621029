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

	httpapi "github.com/dashhost/weather-widget/internal/api/http"
	"github.com/dashhost/weather-widget/internal/config"
	"github.com/dashhost/weather-widget/internal/scheduler"
	"github.com/dashhost/weather-widget/internal/store"
	"github.com/dashhost/weather-widget/internal/weather"
	"github.com/dashhost/weather-widget/internal/weather/providers"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.CycleTimeout,
	}

	// In-memory snapshot history with configured retention.
	memStore := store.NewMemoryStore(cfg.StoreMaxHistory, cfg.StoreMaxAge)

	// Measurement pipeline: NOAA grid APIs by default, or a
	// current-conditions feed with embedded sun times.
	var (
		source    weather.MeasurementSource
		resolver  weather.LocationResolver
		sunSource weather.SunSource
	)
	switch cfg.Source {
	case config.SourceConditions:
		source = providers.NewConditionsClient(httpClient, cfg.ConditionsURL)
	default:
		noaa := providers.NewNOAAClient(httpClient)
		source = noaa
		resolver = noaa
		sunSource = providers.NewSunriseSunsetClient(httpClient)
	}

	refreshCfg := weather.RefreshConfig{
		UpdateInterval: cfg.UpdateInterval,
		RetryDelay:     cfg.RetryDelay,
		InitialDelay:   cfg.InitialLoadDelay,
		CycleTimeout:   cfg.CycleTimeout,
		Display: weather.DisplayOptions{
			UseBeaufortWind:           cfg.UseBeaufortWind,
			UseKmhWind:                cfg.UseKmhWind,
			RoundTemperatureToInteger: cfg.RoundTemperatureToInteger,
			DecimalSeparator:          cfg.DecimalSeparator,
		},
	}

	// Each snapshot goes to the log and into the store.
	notifier := weather.FanoutNotifier{
		weather.LogNotifier{},
		store.Recorder{Store: memStore},
	}

	orch := weather.NewOrchestrator(
		refreshCfg,
		cfg.Coordinates(),
		source,
		resolver,
		sunSource,
		weather.SystemClock{},
		weather.TimerScheduler{},
		notifier,
	)
	orch.Start()

	// Periodic store retention sweep.
	maint := scheduler.New(memStore, time.Hour)
	if err := maint.Start(); err != nil {
		log.Fatalf("failed to start maintenance scheduler: %v", err)
	}
	defer maint.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "weather-widget",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
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

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weather-widget",
			"state":   orch.State().String(),
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, orch, memStore, httpapi.ViewConfig{
		UnitsMode:                 cfg.Units,
		RoundTemperatureToInteger: cfg.RoundTemperatureToInteger,
		DecimalSeparator:          cfg.DecimalSeparator,
		Show12HourTime:            cfg.Show12HourTime,
		ShowAmPm:                  cfg.ShowAmPm,
		ShowUpperCaseAmPm:         cfg.ShowUpperCaseAmPm,
	})

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
