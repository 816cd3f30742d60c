package envdata

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/emberwatch/firefront-simulator/model"
)

// LandCoverClient looks up the surface class and fuel density at a point from
// a land-cover classification service.
type LandCoverClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

type landCoverResponse struct {
	LandCover   string `json:"land_cover"`
	FuelDensity string `json:"fuel_density"`
}

func (c *LandCoverClient) fetch(ctx context.Context, p model.GeoPoint) (model.LandCover, model.FuelDensity, error) {
	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%.6f", p.Lat))
	q.Set("lng", fmt.Sprintf("%.6f", p.Lng))

	var payload landCoverResponse
	if err := getJSON(ctx, c.httpClient(), c.BaseURL+"/classify?"+q.Encode(), &payload); err != nil {
		return "", "", fmt.Errorf("land cover fetch: %w", err)
	}

	return normalizeLandCover(payload.LandCover), normalizeFuel(payload.FuelDensity), nil
}

func (c *LandCoverClient) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

// normalizeLandCover maps service classes onto the model's four-way split.
// Anything unrecognised is "other", which carries a neutral modifier.
func normalizeLandCover(class string) model.LandCover {
	switch class {
	case "forest", "wood", "woodland":
		return model.LandCoverForest
	case "urban", "industrial", "commercial":
		return model.LandCoverUrban
	case "residential":
		return model.LandCoverResidential
	default:
		return model.LandCoverOther
	}
}

func normalizeFuel(density string) model.FuelDensity {
	if density == "dense" {
		return model.FuelDense
	}
	return model.FuelSparse
}
