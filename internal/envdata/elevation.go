package envdata

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/url"

	"github.com/emberwatch/firefront-simulator/core"
	"github.com/emberwatch/firefront-simulator/model"
)

// slopeRunMeters is the horizontal distance between the two elevation probes
// used to estimate terrain slope at the ignition point.
const slopeRunMeters = 100.0

// ElevationClient estimates terrain slope from two point elevations queried
// against an open-meteo-compatible elevation endpoint.
type ElevationClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

type elevationResponse struct {
	Elevation []float64 `json:"elevation"`
}

// fetchSlope samples elevation at p and at a point slopeRunMeters east of p,
// returning the grade in percent. The sign is discarded; the spread model
// treats any grade as upslope.
func (c *ElevationClient) fetchSlope(ctx context.Context, p model.GeoPoint) (float64, error) {
	east := core.OffsetEast(p, slopeRunMeters)

	q := url.Values{}
	q.Set("latitude", fmt.Sprintf("%.6f,%.6f", p.Lat, east.Lat))
	q.Set("longitude", fmt.Sprintf("%.6f,%.6f", p.Lng, east.Lng))

	var payload elevationResponse
	if err := getJSON(ctx, c.httpClient(), c.BaseURL+"/v1/elevation?"+q.Encode(), &payload); err != nil {
		return 0, fmt.Errorf("elevation fetch: %w", err)
	}
	if len(payload.Elevation) < 2 {
		return 0, fmt.Errorf("elevation fetch: %w: got %d elevations, want 2", ErrUnavailable, len(payload.Elevation))
	}

	rise := math.Abs(payload.Elevation[1] - payload.Elevation[0])
	return rise / slopeRunMeters * 100, nil
}

func (c *ElevationClient) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}
