package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dashhost/weather-widget/internal/timeseries"
	"github.com/dashhost/weather-widget/internal/weather"
)

const pointsBody = `{
  "properties": {
    "cwa": "LWX",
    "gridX": 97,
    "gridY": 71,
    "forecastGridData": "%s/gridpoints/LWX/97,71",
    "forecastHourly": "%s/gridpoints/LWX/97,71/forecast/hourly",
    "relativeLocation": {
      "properties": {"city": "Washington", "state": "DC"}
    }
  }
}`

const gridBody = `{
  "properties": {
    "temperature": {"values": [
      {"validTime": "2026-03-14T09:00:00+00:00/PT3H", "value": 18},
      {"validTime": "2026-03-14T12:00:00+00:00/PT3H", "value": 20}
    ]},
    "apparentTemperature": {"values": [{"validTime": "2026-03-14T09:00:00+00:00/PT6H", "value": 19}]},
    "relativeHumidity": {"values": [{"validTime": "2026-03-14T09:00:00+00:00/PT6H", "value": 55}]},
    "windSpeed": {"values": [{"validTime": "2026-03-14T09:00:00+00:00/PT6H", "value": 5}]},
    "windDirection": {"values": [{"validTime": "2026-03-14T09:00:00+00:00/PT6H", "value": 200}]}
  }
}`

const hourlyBody = `{
  "properties": {
    "periods": [
      {"startTime": "2026-03-14T11:00:00+00:00", "endTime": "2026-03-14T12:00:00+00:00", "icon": "clear"},
      {"startTime": "2026-03-14T12:00:00+00:00", "endTime": "2026-03-14T13:00:00+00:00", "icon": "cloudy"}
    ]
  }
}`

func noaaTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	var srv *httptest.Server

	mux.HandleFunc("/points/", func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		w.Write([]byte(fmt.Sprintf(pointsBody, srv.URL, srv.URL)))
	})
	mux.HandleFunc("/gridpoints/LWX/97,71", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(gridBody))
	})
	mux.HandleFunc("/gridpoints/LWX/97,71/forecast/hourly", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(hourlyBody))
	})

	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestNOAAResolvePoint(t *testing.T) {
	srv := noaaTestServer(t)

	client := NewNOAAClient(srv.Client())
	client.baseURL = srv.URL

	loc, err := client.ResolvePoint(context.Background(), weather.Coordinates{Latitude: 38.89, Longitude: -77.03})
	assert.NoError(t, err)
	assert.Equal(t, "LWX", loc.OfficeID)
	assert.Equal(t, 97, loc.GridX)
	assert.Equal(t, 71, loc.GridY)
	assert.Equal(t, "Washington, DC", loc.Label())
	assert.Equal(t, srv.URL+"/gridpoints/LWX/97,71", loc.GridDataURL)
}

func TestNOAAFetchObservations(t *testing.T) {
	srv := noaaTestServer(t)

	client := NewNOAAClient(srv.Client())
	client.baseURL = srv.URL

	loc, err := client.ResolvePoint(context.Background(), weather.Coordinates{Latitude: 38.89, Longitude: -77.03})
	assert.NoError(t, err)

	obs, err := client.Fetch(context.Background(), loc)
	assert.NoError(t, err)
	assert.Equal(t, weather.UnitsGridMetric, obs.Units)
	assert.Len(t, obs.Temperature, 2)
	assert.Nil(t, obs.SunTimes)

	now := time.Date(2026, 3, 14, 12, 30, 0, 0, time.UTC)
	v, ok := timeseries.LatestAt(obs.Temperature, now)
	assert.True(t, ok)
	assert.Equal(t, 20.0, v)

	p, ok := timeseries.ActiveAt(obs.HourlyPeriods, now)
	assert.True(t, ok)
	assert.Equal(t, "cloudy", p.Value)
}

func TestNOAAFetchWithoutEndpoints(t *testing.T) {
	client := NewNOAAClient(http.DefaultClient)

	_, err := client.Fetch(context.Background(), weather.LocationContext{})
	var incomplete *weather.IncompleteDataError
	assert.True(t, errors.As(err, &incomplete))
}

func TestNOAATransportErrorOnServerFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	client := NewNOAAClient(srv.Client())
	client.baseURL = srv.URL
	client.httpCfg.Backoff.MaxRetries = 0

	_, err := client.ResolvePoint(context.Background(), weather.Coordinates{Latitude: 1, Longitude: 1})
	var transport *weather.TransportError
	assert.True(t, errors.As(err, &transport))
	assert.Equal(t, http.StatusBadGateway, transport.Status)
}

func TestSunriseSunsetClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "0", r.URL.Query().Get("formatted"))
		w.Write([]byte(`{
		  "results": {
		    "sunrise": "2026-03-14T06:00:00+00:00",
		    "sunset": "2026-03-14T18:00:00+00:00"
		  },
		  "status": "OK"
		}`))
	}))
	t.Cleanup(srv.Close)

	client := NewSunriseSunsetClient(srv.Client())
	client.baseURL = srv.URL

	times, err := client.FetchSunTimes(context.Background(), weather.Coordinates{Latitude: 38.89, Longitude: -77.03})
	assert.NoError(t, err)
	assert.Equal(t, 6, times.Sunrise.UTC().Hour())
	assert.Equal(t, 18, times.Sunset.UTC().Hour())
}

func TestSunriseSunsetClientRejectsBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results": {}, "status": "INVALID_REQUEST"}`))
	}))
	t.Cleanup(srv.Close)

	client := NewSunriseSunsetClient(srv.Client())
	client.baseURL = srv.URL

	_, err := client.FetchSunTimes(context.Background(), weather.Coordinates{Latitude: 1, Longitude: 1})
	var transport *weather.TransportError
	assert.True(t, errors.As(err, &transport))
}

func TestConditionsClient(t *testing.T) {
	at := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(fmt.Sprintf(`{
		  "current": {
		    "dt": %d,
		    "sunrise": %d,
		    "sunset": %d,
		    "temp": 68,
		    "feels_like": 66.2,
		    "humidity": 55,
		    "wind_speed": 8,
		    "wind_deg": 200,
		    "weather": [{"icon": "wi-cloudy"}]
		  }
		}`, at.Unix(), at.Add(-6*time.Hour).Unix(), at.Add(6*time.Hour).Unix())))
	}))
	t.Cleanup(srv.Close)

	client := NewConditionsClient(srv.Client(), srv.URL)

	obs, err := client.Fetch(context.Background(), weather.LocationContext{})
	assert.NoError(t, err)
	assert.Equal(t, weather.UnitsNative, obs.Units)
	assert.NotNil(t, obs.SunTimes)
	assert.True(t, obs.SunTimes.Sunrise.Equal(at.Add(-6*time.Hour)))

	v, ok := timeseries.LatestAt(obs.Temperature, at)
	assert.True(t, ok)
	assert.Equal(t, 68.0, v)

	p, ok := timeseries.ActiveAt(obs.HourlyPeriods, at.Add(30*time.Minute))
	assert.True(t, ok)
	assert.Equal(t, "wi-cloudy", p.Value)
}

func TestConditionsClientMissingWeatherBlock(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"current": {"dt": 1765713600, "weather": []}}`))
	}))
	t.Cleanup(srv.Close)

	client := NewConditionsClient(srv.Client(), srv.URL)

	_, err := client.Fetch(context.Background(), weather.LocationContext{})
	var incomplete *weather.IncompleteDataError
	assert.True(t, errors.As(err, &incomplete))
}
