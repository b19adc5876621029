// Package config loads the widget configuration from the environment.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelvins/geocoder"

	"github.com/dashhost/weather-widget/internal/weather"
)

// Source names recognized in WIDGET_SOURCE.
const (
	SourceNOAA       = "noaa"
	SourceConditions = "conditions"
)

type AppConfig struct {
	// Coordinates the widget tracks. Required unless an address is given.
	Latitude  float64
	Longitude float64

	// Source selects the measurement pipeline: the NOAA grid APIs (default)
	// or a current-conditions snapshot feed at ConditionsURL.
	Source        string `validate:"oneof=noaa conditions"`
	ConditionsURL string

	// Refresh cadence.
	UpdateInterval   time.Duration
	RetryDelay       time.Duration
	InitialLoadDelay time.Duration
	CycleTimeout     time.Duration

	// Display settings. Units selects the temperature scale that leads the
	// rendered display strings.
	Units                     string `validate:"oneof=metric imperial default"`
	UseBeaufortWind           bool
	UseKmhWind                bool
	RoundTemperatureToInteger bool
	DecimalSeparator          string
	Show12HourTime            bool
	ShowAmPm                  bool
	ShowUpperCaseAmPm         bool

	// In-memory store retention.
	StoreMaxHistory int
	StoreMaxAge     time.Duration

	Port string
}

var validate = validator.New()

// Load reads configuration from environment with sensible defaults. Missing
// coordinates are a weather.ConfigurationError: the refresh pipeline cannot
// run without a location and retrying cannot fix that.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("config: no .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{
		Source:           getenvDefault("WIDGET_SOURCE", SourceNOAA),
		ConditionsURL:    os.Getenv("WIDGET_CONDITIONS_URL"),
		Units:            getenvDefault("WIDGET_UNITS", "imperial"),
		DecimalSeparator: getenvDefault("WIDGET_DECIMAL_SEPARATOR", "."),
		Port:             getenvDefault("PORT", "8080"),
	}

	var err error
	if cfg.UpdateInterval, err = getenvDuration("WIDGET_UPDATE_INTERVAL", 10*time.Minute); err != nil {
		return nil, err
	}
	if cfg.RetryDelay, err = getenvDuration("WIDGET_RETRY_DELAY", 2500*time.Millisecond); err != nil {
		return nil, err
	}
	if cfg.InitialLoadDelay, err = getenvDuration("WIDGET_INITIAL_LOAD_DELAY", 0); err != nil {
		return nil, err
	}
	if cfg.CycleTimeout, err = getenvDuration("WIDGET_CYCLE_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.StoreMaxAge, err = getenvDuration("WIDGET_STORE_MAX_AGE", 24*time.Hour); err != nil {
		return nil, err
	}
	cfg.StoreMaxHistory = getenvInt("WIDGET_STORE_MAX_HISTORY", 144) // roughly 24h at 10-minute refreshes

	cfg.UseBeaufortWind = getenvBool("WIDGET_USE_BEAUFORT", false)
	cfg.UseKmhWind = getenvBool("WIDGET_USE_KMH_WIND", true)
	cfg.RoundTemperatureToInteger = getenvBool("WIDGET_ROUND_TEMP", false)
	cfg.Show12HourTime = getenvBool("WIDGET_12_HOUR_TIME", true)
	cfg.ShowAmPm = getenvBool("WIDGET_SHOW_AM_PM", true)
	cfg.ShowUpperCaseAmPm = getenvBool("WIDGET_UPPERCASE_AM_PM", false)

	if err := loadCoordinates(cfg); err != nil {
		return nil, err
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.Source == SourceConditions && cfg.ConditionsURL == "" {
		return nil, &weather.ConfigurationError{Reason: "WIDGET_CONDITIONS_URL is required for the conditions source"}
	}

	return cfg, nil
}

// Coordinates returns the configured geographic point.
func (c *AppConfig) Coordinates() weather.Coordinates {
	return weather.Coordinates{Latitude: c.Latitude, Longitude: c.Longitude}
}

// loadCoordinates reads WIDGET_LAT/WIDGET_LON, falling back to geocoding
// WIDGET_LOCATION_CITY once at startup when coordinates are not given.
func loadCoordinates(cfg *AppConfig) error {
	latStr := os.Getenv("WIDGET_LAT")
	lonStr := os.Getenv("WIDGET_LON")

	if latStr != "" && lonStr != "" {
		lat, err := strconv.ParseFloat(latStr, 64)
		if err != nil {
			return &weather.ConfigurationError{Reason: "invalid WIDGET_LAT: " + latStr}
		}
		lon, err := strconv.ParseFloat(lonStr, 64)
		if err != nil {
			return &weather.ConfigurationError{Reason: "invalid WIDGET_LON: " + lonStr}
		}
		cfg.Latitude = lat
		cfg.Longitude = lon
		return nil
	}

	city := os.Getenv("WIDGET_LOCATION_CITY")
	if city == "" {
		return &weather.ConfigurationError{Reason: "WIDGET_LAT/WIDGET_LON or WIDGET_LOCATION_CITY must be set"}
	}

	geocoder.ApiKey = os.Getenv("GEOCODER_API_KEY")
	if geocoder.ApiKey == "" {
		return &weather.ConfigurationError{Reason: "GEOCODER_API_KEY is required to geocode WIDGET_LOCATION_CITY"}
	}

	address := geocoder.Address{
		City:    city,
		State:   os.Getenv("WIDGET_LOCATION_STATE"),
		Country: os.Getenv("WIDGET_LOCATION_COUNTRY"),
	}
	location, err := geocoder.Geocoding(address)
	if err != nil {
		return fmt.Errorf("geocoding %q failed: %w", city, err)
	}

	log.Printf("config: geocoded %q to %.4f,%.4f", city, location.Latitude, location.Longitude)
	cfg.Latitude = location.Latitude
	cfg.Longitude = location.Longitude
	return nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
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
