package envdata

import (
	"context"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/emberwatch/firefront-simulator/model"
)

const tracerName = "github.com/emberwatch/firefront-simulator/internal/envdata"

// Config names the endpoints of the three environmental services.
type Config struct {
	WeatherBaseURL   string
	ElevationBaseURL string
	LandCoverBaseURL string
	Timeout          time.Duration
}

// Composite fans one fetch out to the weather, elevation, and land-cover
// services and assembles a single immutable sample. Any sub-failure fails the
// fetch wholesale: the simulator never merges a partial sample into the
// previous one.
type Composite struct {
	weather   *WeatherClient
	elevation *ElevationClient
	landCover *LandCoverClient
	tracer    trace.Tracer
}

// NewComposite builds the production provider from service endpoints. All
// three clients share one timeout-bounded HTTP client.
func NewComposite(cfg Config) *Composite {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	httpClient := &http.Client{Timeout: timeout}

	return &Composite{
		weather:   &WeatherClient{BaseURL: cfg.WeatherBaseURL, HTTPClient: httpClient},
		elevation: &ElevationClient{BaseURL: cfg.ElevationBaseURL, HTTPClient: httpClient},
		landCover: &LandCoverClient{BaseURL: cfg.LandCoverBaseURL, HTTPClient: httpClient},
		tracer:    otel.Tracer(tracerName),
	}
}

// Fetch implements Provider.
func (c *Composite) Fetch(ctx context.Context, p model.GeoPoint) (model.EnvironmentalSample, error) {
	ctx, span := c.tracer.Start(ctx, "envdata.Fetch",
		trace.WithAttributes(
			attribute.Float64("ignition.lat", p.Lat),
			attribute.Float64("ignition.lng", p.Lng),
		),
	)
	defer span.End()

	weather, err := c.weather.fetch(ctx, p)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return model.EnvironmentalSample{}, err
	}

	slope, err := c.elevation.fetchSlope(ctx, p)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return model.EnvironmentalSample{}, err
	}

	landCover, fuel, err := c.landCover.fetch(ctx, p)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return model.EnvironmentalSample{}, err
	}

	sample := model.EnvironmentalSample{
		TemperatureC:     weather.TemperatureC,
		WindSpeedMS:      weather.WindSpeedMS,
		WindDirectionDeg: weather.WindDirectionDeg,
		HumidityPct:      weather.HumidityPct,
		PrecipitationMM:  weather.PrecipitationMM,
		SlopePct:         slope,
		Fuel:             fuel,
		LandCover:        landCover,
		ObservedAt:       time.Now().UTC(),
	}

	span.SetAttributes(
		attribute.Float64("sample.wind_speed_ms", sample.WindSpeedMS),
		attribute.Float64("sample.slope_pct", sample.SlopePct),
		attribute.String("sample.land_cover", string(sample.LandCover)),
	)
	return sample, nil
}
