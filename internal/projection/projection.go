package projection

import "math"

// Point represents a planar (screen) coordinate
type Point struct {
	X float64
	Y float64
}

// IsFinite reports whether both coordinates are finite numbers
func (p Point) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) &&
		!math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// Projection converts between geographic and planar coordinates.
// Longitude and latitude are in degrees; x and y are in the units of Scale.
type Projection interface {
	// Project converts lon/lat to planar coordinates
	Project(lon, lat float64) (x, y float64)

	// Invert converts planar coordinates back to lon/lat for the current placement.
	// ok is false when the point cannot be inverted.
	Invert(x, y float64) (lon, lat float64, ok bool)

	Scale() float64
	SetScale(k float64)

	Translate() Point
	SetTranslate(t Point)
}
