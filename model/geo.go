package model

// GeoPoint is a WGS84 geographic coordinate in degrees.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// IsZero reports whether the point is the zero value. The simulator uses
// (0, 0) as "no point set"; a real ignition in the Gulf of Guinea is not a
// supported input.
func (p GeoPoint) IsZero() bool {
	return p.Lat == 0 && p.Lng == 0
}

// ScreenPoint is a position (or offset) in screen units. Fire-front
// boundaries are expressed as ScreenPoint offsets relative to the projected
// ignition marker.
type ScreenPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}
