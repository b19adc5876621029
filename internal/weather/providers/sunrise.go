package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/dashhost/weather-widget/internal/sun"
	"github.com/dashhost/weather-widget/internal/weather"
)

// SunriseSunsetClient fetches today's sunrise and sunset instants from
// api.sunrise-sunset.org. With formatted=0 the API returns absolute RFC3339
// timestamps instead of locale strings.
type SunriseSunsetClient struct {
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewSunriseSunsetClient(client *http.Client) *SunriseSunsetClient {
	return &SunriseSunsetClient{
		baseURL: "https://api.sunrise-sunset.org/json",
		httpCfg: defaultHTTPConfig(client),
		circuit: newBreaker("sunrise-sunset"),
	}
}

func (c *SunriseSunsetClient) FetchSunTimes(ctx context.Context, coords weather.Coordinates) (sun.Times, error) {
	values := url.Values{}
	values.Set("lat", fmt.Sprintf("%f", coords.Latitude))
	values.Set("lng", fmt.Sprintf("%f", coords.Longitude))
	values.Set("formatted", "0")

	u := fmt.Sprintf("%s?%s", c.baseURL, values.Encode())

	var payload struct {
		Results struct {
			Sunrise time.Time `json:"sunrise"`
			Sunset  time.Time `json:"sunset"`
		} `json:"results"`
		Status string `json:"status"`
	}

	if err := getJSON(ctx, c.httpCfg, c.circuit, u, &payload); err != nil {
		return sun.Times{}, err
	}

	if payload.Status != "OK" {
		return sun.Times{}, &weather.TransportError{
			URL: u,
			Err: fmt.Errorf("sunrise api returned status %q", payload.Status),
		}
	}

	return sun.Times{
		Sunrise: payload.Results.Sunrise,
		Sunset:  payload.Results.Sunset,
	}, nil
}
