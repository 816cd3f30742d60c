package envdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/emberwatch/firefront-simulator/model"
)

// weatherReading is the slice of an EnvironmentalSample the weather service
// covers.
type weatherReading struct {
	TemperatureC     float64
	WindSpeedMS      float64
	WindDirectionDeg float64
	HumidityPct      float64
	PrecipitationMM  float64
}

// WeatherClient fetches current conditions from an open-meteo-compatible
// forecast endpoint.
type WeatherClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

type openMeteoCurrent struct {
	Current struct {
		Temperature2m      float64 `json:"temperature_2m"`
		RelativeHumidity2m float64 `json:"relative_humidity_2m"`
		Precipitation      float64 `json:"precipitation"`
		WindSpeed10m       float64 `json:"wind_speed_10m"`
		WindDirection10m   float64 `json:"wind_direction_10m"`
	} `json:"current"`
}

func (c *WeatherClient) fetch(ctx context.Context, p model.GeoPoint) (weatherReading, error) {
	q := url.Values{}
	q.Set("latitude", fmt.Sprintf("%.6f", p.Lat))
	q.Set("longitude", fmt.Sprintf("%.6f", p.Lng))
	q.Set("current", "temperature_2m,relative_humidity_2m,precipitation,wind_speed_10m,wind_direction_10m")
	q.Set("wind_speed_unit", "ms")

	var payload openMeteoCurrent
	if err := getJSON(ctx, c.httpClient(), c.BaseURL+"/v1/forecast?"+q.Encode(), &payload); err != nil {
		return weatherReading{}, fmt.Errorf("weather fetch: %w", err)
	}

	return weatherReading{
		TemperatureC:     payload.Current.Temperature2m,
		WindSpeedMS:      payload.Current.WindSpeed10m,
		WindDirectionDeg: payload.Current.WindDirection10m,
		HumidityPct:      payload.Current.RelativeHumidity2m,
		PrecipitationMM:  payload.Current.Precipitation,
	}, nil
}

func (c *WeatherClient) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

// getJSON issues a GET with the request context and decodes a JSON response.
// Non-2xx statuses are reported as errors wrapping ErrUnavailable so callers
// can treat all transport-level failures uniformly.
func getJSON(ctx context.Context, client *http.Client, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: unexpected status %d from %s", ErrUnavailable, resp.StatusCode, rawURL)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode: %v", ErrUnavailable, err)
	}
	return nil
}
