package weather

import (
	"strconv"
	"time"

	"github.com/dashhost/weather-widget/internal/sun"
	"github.com/dashhost/weather-widget/internal/timeseries"
	"github.com/dashhost/weather-widget/internal/units"
)

// Assemble combines the selected measurements, the location metadata and the
// day's sun times into one WeatherSnapshot. It is all-or-nothing: if any
// required metric has no applicable value for now, no snapshot is produced and
// the whole refresh is failed with an IncompleteDataError.
func Assemble(obs Observations, loc LocationContext, times sun.Times, now time.Time, opts DisplayOptions) (WeatherSnapshot, error) {
	temp, ok := timeseries.LatestAt(obs.Temperature, now)
	if !ok {
		return WeatherSnapshot{}, &IncompleteDataError{Metric: "temperature"}
	}
	feels, ok := timeseries.LatestAt(obs.ApparentTemperature, now)
	if !ok {
		return WeatherSnapshot{}, &IncompleteDataError{Metric: "apparentTemperature"}
	}
	humidity, ok := timeseries.LatestAt(obs.Humidity, now)
	if !ok {
		return WeatherSnapshot{}, &IncompleteDataError{Metric: "relativeHumidity"}
	}
	windSpeed, ok := timeseries.LatestAt(obs.WindSpeed, now)
	if !ok {
		return WeatherSnapshot{}, &IncompleteDataError{Metric: "windSpeed"}
	}
	windDeg, ok := timeseries.LatestAt(obs.WindDirection, now)
	if !ok {
		return WeatherSnapshot{}, &IncompleteDataError{Metric: "windDirection"}
	}

	period, ok := timeseries.ActiveAt(obs.HourlyPeriods, now)
	if !ok {
		return WeatherSnapshot{}, &IncompleteDataError{Metric: "hourlyIcon"}
	}

	if times.StaleAt(now) {
		return WeatherSnapshot{}, &IncompleteDataError{Metric: "sunTimes"}
	}

	var tempF, tempC, feelsF, feelsC float64
	switch obs.Units {
	case UnitsGridMetric:
		tempC, feelsC = temp, feels
		tempF = units.CelsiusToFahrenheit(temp)
		feelsF = units.CelsiusToFahrenheit(feels)
	default:
		tempF, feelsF = temp, feels
		tempC = units.FahrenheitToCelsius(temp)
		feelsC = units.FahrenheitToCelsius(feels)
	}

	return WeatherSnapshot{
		TemperatureF:       tempF,
		TemperatureC:       tempC,
		FeelsLikeF:         feelsF,
		FeelsLikeC:         feelsC,
		HumidityPct:        humidity,
		WindSpeedDisplay:   windDisplay(windSpeed, obs.Units, opts),
		WindDirectionLabel: units.DegreesToCompass(windDeg),
		WindDegrees:        windDeg,
		IconKey:            period.Value,
		Sun:                sun.Resolve(times, now),
		LocationLabel:      loc.Label(),
		FetchedAt:          now,
	}, nil
}

// windDisplay renders the wind speed according to the configured wind scale.
// Grid speeds arrive in m/s; native speeds pass through unconverted.
func windDisplay(speed float64, srcUnits SourceUnits, opts DisplayOptions) string {
	if srcUnits == UnitsGridMetric {
		if opts.UseBeaufortWind {
			return strconv.Itoa(units.MetersPerSecondToBeaufort(speed))
		}
		if opts.UseKmhWind {
			speed = units.KilometersPerHour(speed)
		}
	}
	return units.RoundForDisplay(speed, true, opts.DecimalSeparator)
}
