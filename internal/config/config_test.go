package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dashhost/weather-widget/internal/weather"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("WIDGET_LAT", "38.8977")
	t.Setenv("WIDGET_LON", "-77.0365")

	cfg, err := Load()
	assert.NoError(t, err)

	assert.Equal(t, SourceNOAA, cfg.Source)
	assert.Equal(t, 10*time.Minute, cfg.UpdateInterval)
	assert.Equal(t, 2500*time.Millisecond, cfg.RetryDelay)
	assert.Equal(t, ".", cfg.DecimalSeparator)
	assert.Equal(t, "imperial", cfg.Units)
	assert.True(t, cfg.UseKmhWind)
	assert.False(t, cfg.UseBeaufortWind)
	assert.InDelta(t, 38.8977, cfg.Latitude, 1e-9)
	assert.True(t, cfg.Coordinates().Valid())
}

func TestLoadMissingCoordinates(t *testing.T) {
	t.Setenv("WIDGET_LAT", "")
	t.Setenv("WIDGET_LON", "")
	t.Setenv("WIDGET_LOCATION_CITY", "")

	_, err := Load()
	var cfgErr *weather.ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))
}

func TestLoadInvalidLatitude(t *testing.T) {
	t.Setenv("WIDGET_LAT", "not-a-number")
	t.Setenv("WIDGET_LON", "-77.0365")

	_, err := Load()
	var cfgErr *weather.ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))
}

func TestLoadConditionsSourceNeedsURL(t *testing.T) {
	t.Setenv("WIDGET_LAT", "38.8977")
	t.Setenv("WIDGET_LON", "-77.0365")
	t.Setenv("WIDGET_SOURCE", "conditions")

	_, err := Load()
	var cfgErr *weather.ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))

	t.Setenv("WIDGET_CONDITIONS_URL", "https://conditions.example/current")
	cfg, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, SourceConditions, cfg.Source)
}

func TestLoadUnitsMode(t *testing.T) {
	t.Setenv("WIDGET_LAT", "38.8977")
	t.Setenv("WIDGET_LON", "-77.0365")
	t.Setenv("WIDGET_UNITS", "metric")

	cfg, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, "metric", cfg.Units)

	t.Setenv("WIDGET_UNITS", "kelvinish")
	_, err = Load()
	assert.Error(t, err)
}

func TestLoadRejectsUnknownSource(t *testing.T) {
	t.Setenv("WIDGET_LAT", "38.8977")
	t.Setenv("WIDGET_LON", "-77.0365")
	t.Setenv("WIDGET_SOURCE", "bogus")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadCadenceOverrides(t *testing.T) {
	t.Setenv("WIDGET_LAT", "38.8977")
	t.Setenv("WIDGET_LON", "-77.0365")
	t.Setenv("WIDGET_UPDATE_INTERVAL", "5m")
	t.Setenv("WIDGET_RETRY_DELAY", "10s")

	cfg, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, 5*time.Minute, cfg.UpdateInterval)
	assert.Equal(t, 10*time.Second, cfg.RetryDelay)

	t.Setenv("WIDGET_UPDATE_INTERVAL", "nonsense")
	_, err = Load()
	assert.Error(t, err)
}
