package core

import (
	"math"

	"github.com/emberwatch/firefront-simulator/model"
)

// EarthRadiusM is the mean Earth radius used for great-circle distances.
const EarthRadiusM = 6371000.0

// EarthCircumferenceM is the equatorial circumference used by the local
// flat-Earth approximation when offsetting a point by a metre distance.
const EarthCircumferenceM = 40075000.0

// Projector converts a geographic coordinate to a screen-space position.
// The map layer owns the real projection; the core only needs this one call.
type Projector interface {
	Project(p model.GeoPoint) model.ScreenPoint
}

// HaversineMeters returns the great-circle distance between two points in
// metres using the haversine formula.
func HaversineMeters(a, b model.GeoPoint) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * EarthRadiusM * math.Asin(math.Sqrt(h))
}

// OffsetEast returns the point reached by moving east from p by the given
// distance, using metres-per-degree-longitude at p's latitude. The flat-Earth
// approximation is fine at the city scales the simulator works on.
func OffsetEast(p model.GeoPoint, meters float64) model.GeoPoint {
	metersPerDegree := EarthCircumferenceM * math.Cos(p.Lat*math.Pi/180) / 360
	return model.GeoPoint{Lat: p.Lat, Lng: p.Lng + meters/metersPerDegree}
}

// ScreenDistance converts a real-world distance in metres to a screen-space
// distance at the reference point, by projecting the reference and an
// eastward-offset point and measuring the screen delta.
//
// When ref is unset (zero value) or proj is nil the metre value is returned
// unchanged, treating metres as screen units. Callers must not depend on this
// fallback escaping upstream computations; it only keeps degenerate setups
// from faulting.
func ScreenDistance(meters float64, ref model.GeoPoint, proj Projector) float64 {
	if ref.IsZero() || proj == nil {
		return meters
	}
	origin := proj.Project(ref)
	shifted := proj.Project(OffsetEast(ref, meters))
	dx := shifted.X - origin.X
	dy := shifted.Y - origin.Y
	return math.Hypot(dx, dy)
}

// WebMercatorProjector projects WGS84 coordinates into Web-Mercator world
// pixels at a fixed zoom level, matching what slippy-map clients do.
type WebMercatorProjector struct {
	Zoom     int
	TileSize float64
}

// NewWebMercatorProjector returns a projector at the given zoom using the
// conventional 256px tile size.
func NewWebMercatorProjector(zoom int) WebMercatorProjector {
	return WebMercatorProjector{Zoom: zoom, TileSize: 256}
}

// Project implements Projector.
func (m WebMercatorProjector) Project(p model.GeoPoint) model.ScreenPoint {
	tileSize := m.TileSize
	if tileSize == 0 {
		tileSize = 256
	}
	scale := tileSize * math.Exp2(float64(m.Zoom))

	x := (p.Lng + 180) / 360 * scale

	latRad := p.Lat * math.Pi / 180
	// Clamp to the Mercator cutoff so poles do not blow up.
	sinLat := math.Sin(latRad)
	if sinLat > 0.9999 {
		sinLat = 0.9999
	} else if sinLat < -0.9999 {
		sinLat = -0.9999
	}
	y := (0.5 - math.Log((1+sinLat)/(1-sinLat))/(4*math.Pi)) * scale

	return model.ScreenPoint{X: x, Y: y}
}
