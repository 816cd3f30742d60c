package envdata

import (
	"context"
	"errors"
	"time"

	"github.com/emberwatch/firefront-simulator/model"
)

// ErrUnavailable indicates the environmental data source could not produce a
// complete sample. Callers keep the previous sample in effect.
var ErrUnavailable = errors.New("environmental data unavailable")

// Provider abstracts a source of environmental samples for a geographic
// point: live HTTP services in production, fixtures in tests and the CLI.
type Provider interface {
	Fetch(ctx context.Context, p model.GeoPoint) (model.EnvironmentalSample, error)
}

// Static is a Provider that always returns the same sample, stamped with the
// current time. Used by the headless CLI and in tests.
type Static struct {
	Sample model.EnvironmentalSample
}

// Fetch implements Provider.
func (s Static) Fetch(ctx context.Context, p model.GeoPoint) (model.EnvironmentalSample, error) {
	sample := s.Sample
	sample.ObservedAt = time.Now().UTC()
	return sample, nil
}
