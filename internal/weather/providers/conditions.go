package providers

import (
	"context"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/dashhost/weather-widget/internal/sun"
	"github.com/dashhost/weather-widget/internal/timeseries"
	"github.com/dashhost/weather-widget/internal/weather"
)

// ConditionsClient fetches a "current conditions" snapshot payload: a single
// reading with epoch-second sunrise/sunset fields embedded, as produced by a
// weather-refreshed feed. Values arrive already in the display unit system and
// pass through the assembler unconverted.
type ConditionsClient struct {
	url     string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewConditionsClient(client *http.Client, url string) *ConditionsClient {
	return &ConditionsClient{
		url:     url,
		httpCfg: defaultHTTPConfig(client),
		circuit: newBreaker("conditions"),
	}
}

func (c *ConditionsClient) Name() string { return "conditions" }

// Fetch normalizes the snapshot payload to the same observation shape the
// grid source produces: each scalar becomes a one-entry instant-keyed series
// effective from the reading's own timestamp, and the icon becomes a single
// period covering the hour of the reading.
func (c *ConditionsClient) Fetch(ctx context.Context, _ weather.LocationContext) (weather.Observations, error) {
	var payload struct {
		Current struct {
			Dt        int64   `json:"dt"`
			Sunrise   int64   `json:"sunrise"`
			Sunset    int64   `json:"sunset"`
			Temp      float64 `json:"temp"`
			FeelsLike float64 `json:"feels_like"`
			Humidity  float64 `json:"humidity"`
			WindSpeed float64 `json:"wind_speed"`
			WindDeg   float64 `json:"wind_deg"`
			Weather   []struct {
				Icon string `json:"icon"`
			} `json:"weather"`
		} `json:"current"`
	}

	if err := getJSON(ctx, c.httpCfg, c.circuit, c.url, &payload); err != nil {
		return weather.Observations{}, err
	}

	cur := payload.Current
	if cur.Dt == 0 {
		return weather.Observations{}, &weather.IncompleteDataError{Metric: "current"}
	}
	if len(cur.Weather) == 0 {
		return weather.Observations{}, &weather.IncompleteDataError{Metric: "hourlyIcon"}
	}

	at := time.Unix(cur.Dt, 0).UTC()
	single := func(v float64) []timeseries.Measurement {
		return []timeseries.Measurement{{Start: at, Value: v}}
	}

	times := sun.FromEpochSeconds(cur.Sunrise, cur.Sunset)

	return weather.Observations{
		Units:               weather.UnitsNative,
		Temperature:         single(cur.Temp),
		ApparentTemperature: single(cur.FeelsLike),
		Humidity:            single(cur.Humidity),
		WindSpeed:           single(cur.WindSpeed),
		WindDirection:       single(cur.WindDeg),
		HourlyPeriods: []timeseries.Period{
			{Start: at, End: at.Add(time.Hour), Value: cur.Weather[0].Icon},
		},
		SunTimes: &times,
	}, nil
}
