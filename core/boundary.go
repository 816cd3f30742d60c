package core

import (
	"math"

	"github.com/emberwatch/firefront-simulator/model"
)

// Defaults for boundary sampling. Both are tunable through the server
// configuration; the constants are the values the model was calibrated with.
const (
	// DefaultAngularStep is the polar sweep increment in radians.
	DefaultAngularStep = 0.01
	// DefaultMinSpacing is the minimum distance between consecutive
	// accepted boundary points, in screen units.
	DefaultMinSpacing = 3.0
)

// Boundary samples one closed fire-front polygon as offsets relative to the
// ignition point's screen position.
//
// The radius at sweep angle theta is modulated toward the wind direction:
//
//	k = (directionalFactor - 1) * 1.5
//	r(theta) = baseRadius * (1 + k * cos(theta - windRad))
//
// which yields a cardioid-like lobe elongated downwind when the factor
// exceeds 1. A sampled point is accepted only if it is the first point or at
// least minSpacing away from the previously accepted point; this is a greedy
// online simplification that guarantees a spacing floor, not uniform density.
// The wrap-around segment from last back to first point is unconstrained and
// is closed by the consumer.
//
// A zero baseRadius degenerates to points at the origin; the result is never
// empty. The function is pure and holds no state between calls.
func Boundary(baseRadius, windDeg, directionalFactor, minSpacing float64) []model.ScreenPoint {
	return BoundaryWithStep(baseRadius, windDeg, directionalFactor, minSpacing, DefaultAngularStep)
}

// BoundaryWithStep is Boundary with an explicit angular step. Steps that are
// zero or negative fall back to DefaultAngularStep to keep the sweep finite.
func BoundaryWithStep(baseRadius, windDeg, directionalFactor, minSpacing, angularStep float64) []model.ScreenPoint {
	if angularStep <= 0 {
		angularStep = DefaultAngularStep
	}

	windRad := windDeg * math.Pi / 180
	k := (directionalFactor - 1) * 1.5

	points := make([]model.ScreenPoint, 0, int(2*math.Pi/angularStep)+1)
	for theta := 0.0; theta < 2*math.Pi; theta += angularStep {
		r := baseRadius * (1 + k*math.Cos(theta-windRad))
		pt := model.ScreenPoint{
			X: r * math.Cos(theta),
			Y: r * math.Sin(theta),
		}

		if len(points) == 0 {
			points = append(points, pt)
			continue
		}
		prev := points[len(points)-1]
		if math.Hypot(pt.X-prev.X, pt.Y-prev.Y) >= minSpacing {
			points = append(points, pt)
		}
	}
	return points
}
