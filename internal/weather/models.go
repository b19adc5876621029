package weather

import (
	"time"

	"github.com/dashhost/weather-widget/internal/sun"
	"github.com/dashhost/weather-widget/internal/timeseries"
)

// Coordinates identifies the geographic point the widget tracks.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether the coordinates were actually configured. The widget
// has no sensible default location, so the zero value means "missing".
func (c Coordinates) Valid() bool {
	return c.Latitude != 0 || c.Longitude != 0
}

// LocationContext is the result of resolving coordinates to a forecast office
// and grid cell. It is resolved once per distinct coordinate pair and cached
// until the coordinates change; there is no TTL.
type LocationContext struct {
	Coordinates

	OfficeID  string `json:"officeId"`
	GridX     int    `json:"gridX"`
	GridY     int    `json:"gridY"`
	CityName  string `json:"cityName"`
	StateCode string `json:"stateCode"`

	// Endpoint URLs handed back by the point lookup.
	GridDataURL       string `json:"-"`
	HourlyForecastURL string `json:"-"`
}

// Label renders the "City, ST" header string shown next to the widget title.
func (l LocationContext) Label() string {
	if l.CityName == "" {
		return ""
	}
	if l.StateCode == "" {
		return l.CityName
	}
	return l.CityName + ", " + l.StateCode
}

// SourceUnits tags which unit system a measurement source delivers. The
// assembler decides per source which conversion to apply; it never infers
// units from value magnitudes.
type SourceUnits int

const (
	// UnitsGridMetric marks the NOAA grid-data series: temperatures in
	// Celsius, wind speeds in m/s.
	UnitsGridMetric SourceUnits = iota
	// UnitsNative marks the current-conditions source, whose values are
	// already in the display system and pass through unconverted.
	UnitsNative
)

// Observations is the raw material for one snapshot: the instant-keyed grid
// series for the five required metrics, the interval-keyed hourly periods the
// icon is chosen from, and (for the embedded-epoch source shape) the day's
// sun times.
type Observations struct {
	Units SourceUnits

	Temperature         []timeseries.Measurement
	ApparentTemperature []timeseries.Measurement
	Humidity            []timeseries.Measurement
	WindSpeed           []timeseries.Measurement
	WindDirection       []timeseries.Measurement

	HourlyPeriods []timeseries.Period

	// SunTimes is set only by sources that embed sunrise/sunset in the
	// measurement payload; otherwise the orchestrator fetches them from the
	// dedicated sun-times source.
	SunTimes *sun.Times
}

// WeatherSnapshot is the immutable, fully-populated view model one refresh
// cycle produces. A snapshot is either complete or not produced at all; the
// renderer never sees partial data.
type WeatherSnapshot struct {
	TemperatureF float64 `json:"temperatureF"`
	TemperatureC float64 `json:"temperatureC"`
	FeelsLikeF   float64 `json:"feelsLikeF"`
	FeelsLikeC   float64 `json:"feelsLikeC"`
	HumidityPct  float64 `json:"humidityPercent"`

	WindSpeedDisplay   string  `json:"windSpeed"`
	WindDirectionLabel string  `json:"windDirection"`
	WindDegrees        float64 `json:"windDegrees"`

	IconKey string    `json:"iconKey"`
	Sun     sun.State `json:"sun"`

	LocationLabel string    `json:"locationLabel"`
	FetchedAt     time.Time `json:"fetchedAt"`
}

// DisplayOptions controls how numeric values are rendered into the snapshot's
// display fields.
type DisplayOptions struct {
	UseBeaufortWind           bool
	UseKmhWind                bool
	RoundTemperatureToInteger bool
	DecimalSeparator          string
}
