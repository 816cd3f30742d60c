package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/emberwatch/firefront-simulator/core"
	"github.com/emberwatch/firefront-simulator/internal/envdata"
	"github.com/emberwatch/firefront-simulator/internal/logging"
	"github.com/emberwatch/firefront-simulator/model"
	"github.com/emberwatch/firefront-simulator/timectrl"
)

// jsonPresenter writes each frame as one JSON line on stdout.
type jsonPresenter struct {
	enc *json.Encoder
}

func (p *jsonPresenter) Present(frame timectrl.Frame) {
	if err := p.enc.Encode(frame); err != nil {
		fmt.Fprintln(os.Stderr, "encode frame:", err)
	}
}

func (p *jsonPresenter) Clear() {
	_ = p.enc.Encode(map[string]string{"type": "clear"})
}

func main() {
	var (
		lat      = flag.Float64("lat", 48.8566, "ignition latitude")
		lng      = flag.Float64("lng", 2.3522, "ignition longitude")
		duration = flag.Duration("duration", 6*time.Second, "real-world run duration")
		steps    = flag.Int("steps", 30, "number of time steps")
		zoom     = flag.Int("zoom", 13, "projection zoom level")

		temperature = flag.Float64("temperature", 25, "air temperature in degrees C")
		windSpeed   = flag.Float64("wind-speed", 5, "wind speed in m/s")
		windDir     = flag.Float64("wind-dir", 90, "wind direction in degrees")
		humidity    = flag.Float64("humidity", 40, "relative humidity in percent")
		precip      = flag.Float64("precipitation", 0, "precipitation in mm")
		slope       = flag.Float64("slope", 0, "terrain slope in percent")
		fuel        = flag.String("fuel", "dense", "fuel density: dense or sparse")
		landCover   = flag.String("land-cover", "forest", "land cover: forest, urban, residential, other")
	)
	flag.Parse()

	log := logging.NewFromEnv()
	ctx := context.Background()

	sample := model.EnvironmentalSample{
		TemperatureC:     *temperature,
		WindSpeedMS:      *windSpeed,
		WindDirectionDeg: *windDir,
		HumidityPct:      *humidity,
		PrecipitationMM:  *precip,
		SlopePct:         *slope,
		Fuel:             model.FuelDensity(*fuel),
		LandCover:        model.LandCover(*landCover),
	}

	session := core.NewSession()
	if err := session.Ignite(model.GeoPoint{Lat: *lat, Lng: *lng}); err != nil {
		log.Error(ctx, "ignite", logging.Any("error", err))
		os.Exit(1)
	}

	provider := envdata.Static{Sample: sample}
	fetched, err := provider.Fetch(ctx, model.GeoPoint{Lat: *lat, Lng: *lng})
	if err != nil {
		log.Error(ctx, "fetch sample", logging.Any("error", err))
		os.Exit(1)
	}
	session.ApplySample(fetched)

	rate, windDeg, factor := session.Conditions()
	log.Info(ctx, "conditions resolved",
		logging.Float64("spread_rate", rate),
		logging.Float64("wind_direction_deg", windDeg),
		logging.Float64("directional_factor", factor),
	)

	animator := timectrl.NewAnimator(
		session,
		core.NewWebMercatorProjector(*zoom),
		&jsonPresenter{enc: json.NewEncoder(os.Stdout)},
		timectrl.Config{StepCount: *steps},
		timectrl.WithLogger(log),
	)

	done, err := animator.Start(*duration)
	if err != nil {
		log.Error(ctx, "start animation", logging.Any("error", err))
		os.Exit(1)
	}
	<-done

	log.Info(ctx, "run complete", logging.Int("steps", *steps))
}
