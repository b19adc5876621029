package providers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/dashhost/weather-widget/internal/timeseries"
	"github.com/dashhost/weather-widget/internal/weather"
)

// NOAAClient talks to api.weather.gov. It resolves a point to its forecast
// office and grid cell, then fetches the grid-data time series and the hourly
// forecast periods from the URLs the point lookup hands back.
type NOAAClient struct {
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewNOAAClient(client *http.Client) *NOAAClient {
	return &NOAAClient{
		baseURL: "https://api.weather.gov",
		httpCfg: defaultHTTPConfig(client),
		circuit: newBreaker("noaa"),
	}
}

func (c *NOAAClient) Name() string { return "noaa" }

// ResolvePoint looks up the forecast office and grid cell for a coordinate
// pair. The result is cached by the orchestrator until the coordinates change.
func (c *NOAAClient) ResolvePoint(ctx context.Context, coords weather.Coordinates) (weather.LocationContext, error) {
	url := fmt.Sprintf("%s/points/%.4f,%.4f", c.baseURL, coords.Latitude, coords.Longitude)

	var payload struct {
		Properties struct {
			CWA              string `json:"cwa"`
			GridX            int    `json:"gridX"`
			GridY            int    `json:"gridY"`
			ForecastGridData string `json:"forecastGridData"`
			ForecastHourly   string `json:"forecastHourly"`
			RelativeLocation struct {
				Properties struct {
					City  string `json:"city"`
					State string `json:"state"`
				} `json:"properties"`
			} `json:"relativeLocation"`
		} `json:"properties"`
	}

	if err := getJSON(ctx, c.httpCfg, c.circuit, url, &payload); err != nil {
		return weather.LocationContext{}, err
	}

	return weather.LocationContext{
		Coordinates:       coords,
		OfficeID:          payload.Properties.CWA,
		GridX:             payload.Properties.GridX,
		GridY:             payload.Properties.GridY,
		CityName:          payload.Properties.RelativeLocation.Properties.City,
		StateCode:         payload.Properties.RelativeLocation.Properties.State,
		GridDataURL:       payload.Properties.ForecastGridData,
		HourlyForecastURL: payload.Properties.ForecastHourly,
	}, nil
}

// gridValue is one entry of a NOAA grid-data series. validTime is an ISO
// "start/duration" interval; only the start instant matters for selection.
type gridValue struct {
	ValidTime string  `json:"validTime"`
	Value     float64 `json:"value"`
}

// Fetch retrieves the grid-data series and the hourly forecast periods for a
// resolved location. Grid values are metric: Celsius temperatures, m/s winds.
func (c *NOAAClient) Fetch(ctx context.Context, loc weather.LocationContext) (weather.Observations, error) {
	if loc.GridDataURL == "" || loc.HourlyForecastURL == "" {
		return weather.Observations{}, &weather.IncompleteDataError{Metric: "gridEndpoints"}
	}

	var grid struct {
		Properties struct {
			Temperature         struct{ Values []gridValue } `json:"temperature"`
			ApparentTemperature struct{ Values []gridValue } `json:"apparentTemperature"`
			RelativeHumidity    struct{ Values []gridValue } `json:"relativeHumidity"`
			WindSpeed           struct{ Values []gridValue } `json:"windSpeed"`
			WindDirection       struct{ Values []gridValue } `json:"windDirection"`
		} `json:"properties"`
	}

	if err := getJSON(ctx, c.httpCfg, c.circuit, loc.GridDataURL, &grid); err != nil {
		return weather.Observations{}, err
	}

	var hourly struct {
		Properties struct {
			Periods []struct {
				StartTime time.Time `json:"startTime"`
				EndTime   time.Time `json:"endTime"`
				Icon      string    `json:"icon"`
			} `json:"periods"`
		} `json:"properties"`
	}

	if err := getJSON(ctx, c.httpCfg, c.circuit, loc.HourlyForecastURL, &hourly); err != nil {
		return weather.Observations{}, err
	}

	periods := make([]timeseries.Period, 0, len(hourly.Properties.Periods))
	for _, p := range hourly.Properties.Periods {
		periods = append(periods, timeseries.Period{
			Start: p.StartTime,
			End:   p.EndTime,
			Value: p.Icon,
		})
	}

	return weather.Observations{
		Units:               weather.UnitsGridMetric,
		Temperature:         gridSeries(grid.Properties.Temperature.Values),
		ApparentTemperature: gridSeries(grid.Properties.ApparentTemperature.Values),
		Humidity:            gridSeries(grid.Properties.RelativeHumidity.Values),
		WindSpeed:           gridSeries(grid.Properties.WindSpeed.Values),
		WindDirection:       gridSeries(grid.Properties.WindDirection.Values),
		HourlyPeriods:       periods,
	}, nil
}

// gridSeries converts raw grid values to measurements, dropping entries whose
// validTime cannot be parsed.
func gridSeries(values []gridValue) []timeseries.Measurement {
	ms := make([]timeseries.Measurement, 0, len(values))
	for _, v := range values {
		start, err := parseValidTimeStart(v.ValidTime)
		if err != nil {
			continue
		}
		ms = append(ms, timeseries.Measurement{Start: start, Value: v.Value})
	}
	return ms
}

// parseValidTimeStart extracts the start instant from a NOAA validTime string
// such as "2026-03-14T12:00:00+00:00/PT1H".
func parseValidTimeStart(validTime string) (time.Time, error) {
	start, _, _ := strings.Cut(validTime, "/")
	return time.Parse(time.RFC3339, start)
}
