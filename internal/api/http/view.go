package httpapi

import (
	"time"

	"github.com/dashhost/weather-widget/internal/units"
	"github.com/dashhost/weather-widget/internal/weather"
)

// Units modes recognized in ViewConfig.UnitsMode. Metric and imperial pick
// which temperature scale leads the display string; default renders Kelvin.
const (
	UnitsImperial = "imperial"
	UnitsMetric   = "metric"
	UnitsDefault  = "default"
)

// ViewConfig carries the presentation settings applied when rendering a
// snapshot for the dashboard host.
type ViewConfig struct {
	UnitsMode                 string
	RoundTemperatureToInteger bool
	DecimalSeparator          string
	Show12HourTime            bool
	ShowAmPm                  bool
	ShowUpperCaseAmPm         bool
}

// SnapshotView is the wire form of a snapshot: the raw values plus the
// display strings the widget renders verbatim.
type SnapshotView struct {
	weather.WeatherSnapshot

	TemperatureDisplay string `json:"temperatureDisplay"`
	FeelsLikeDisplay   string `json:"feelsLikeDisplay"`
	SunEventDisplay    string `json:"sunEventDisplay"`
}

func buildView(s weather.WeatherSnapshot, cfg ViewConfig) SnapshotView {
	return SnapshotView{
		WeatherSnapshot:    s,
		TemperatureDisplay: formatTemperature(s.TemperatureF, s.TemperatureC, cfg),
		FeelsLikeDisplay:   formatTemperature(s.FeelsLikeF, s.FeelsLikeC, cfg),
		SunEventDisplay:    formatEventTime(s.Sun.NextEvent, cfg),
	}
}

// formatTemperature renders a temperature in the configured units mode. The
// native scale keeps the configured rounding; the secondary reading is always
// rounded to an integer.
func formatTemperature(fahrenheit, celsius float64, cfg ViewConfig) string {
	switch cfg.UnitsMode {
	case UnitsMetric:
		return units.RoundForDisplay(celsius, cfg.RoundTemperatureToInteger, cfg.DecimalSeparator) +
			"°C / " + units.RoundForDisplay(fahrenheit, true, cfg.DecimalSeparator) + "°F"
	case UnitsDefault:
		return units.RoundForDisplay(units.CelsiusToKelvin(celsius), cfg.RoundTemperatureToInteger, cfg.DecimalSeparator) + "K"
	default:
		return units.RoundForDisplay(fahrenheit, cfg.RoundTemperatureToInteger, cfg.DecimalSeparator) +
			"°F / " + units.RoundForDisplay(celsius, true, cfg.DecimalSeparator) + "°C"
	}
}

// formatEventTime renders the next sun event in the configured local time
// representation: 24-hour, or 12-hour with optional (upper/lower case) AM/PM.
func formatEventTime(t time.Time, cfg ViewConfig) string {
	if !cfg.Show12HourTime {
		return t.Format("15:04")
	}
	if !cfg.ShowAmPm {
		return t.Format("3:04")
	}
	if cfg.ShowUpperCaseAmPm {
		return t.Format("3:04 PM")
	}
	return t.Format("3:04 pm")
}
