package composite

import (
	"math"

	"asciiusa/internal/debug"
	"asciiusa/internal/geo"
	"asciiusa/internal/projection"
)

// InvertFunc converts planar coordinates back to lon/lat for a single component
type InvertFunc func(x, y float64) (lon, lat float64, ok bool)

// Circle describes the annular sector used to classify planar points.
// Radii are squared distances from Center; angles are atan2 results in radians.
type Circle struct {
	Center       projection.Point
	InnerRadius2 float64 // distance² to the projected far corner (lonMax, latMax)
	OuterRadius2 float64 // distance² to the projected near corner (lonMin, latMin)
	StartAngle   float64 // angle of the far corner
	EndAngle     float64 // angle of the near corner
}

// ExtentInverter decides whether a planar point falls inside the projected image of a
// geographic extent before deferring to the projection's own inverse.
//
// The extent's southern edge projects to a circular arc under a conic projection.
// A circle is fitted through three points of that edge, and the extent's image is
// approximated by the annular sector between the southwest and northeast corners.
// Points near the true boundary may be misclassified.
type ExtentInverter struct {
	projection projection.Projection
	extent     geo.Extent
	circle     Circle
	degenerate bool
}

// NewExtentInverter fits the classification circle for extent against p as currently placed.
// If the three calibration points are collinear (or the fit is otherwise not finite)
// the inverter is degenerate and never matches.
func NewExtentInverter(p projection.Projection, extent geo.Extent) *ExtentInverter {
	inv := &ExtentInverter{
		projection: p,
		extent:     extent,
	}

	lon0, lat0 := extent.Min.Lon, extent.Min.Lat
	lon1, lat1 := extent.Max.Lon, extent.Max.Lat

	a := project(p, lon0, lat0)
	b := project(p, 0.5*(lon0+lon1), lat0)
	c := project(p, lon1, lat0)
	d := project(p, lon1, lat1)

	ma := slope(a, b)
	mb := slope(b, c)

	// Center of the circle through a, b and c
	cx := 0.5 * (ma*mb*(a.Y-c.Y) + mb*(a.X+b.X) - ma*(b.X+c.X)) / (mb - ma)
	cy := (0.5*(a.X+b.X)-cx)/ma + 0.5*(a.Y+b.Y)

	dx0, dy0 := d.X-cx, d.Y-cy
	dx1, dy1 := a.X-cx, a.Y-cy

	inv.circle = Circle{
		Center:       projection.Point{X: cx, Y: cy},
		InnerRadius2: dx0*dx0 + dy0*dy0,
		OuterRadius2: dx1*dx1 + dy1*dy1,
		StartAngle:   math.Atan2(dy0, dx0),
		EndAngle:     math.Atan2(dy1, dx1),
	}

	if ma == mb || !inv.circle.Center.IsFinite() ||
		!isFinite(inv.circle.InnerRadius2) || !isFinite(inv.circle.OuterRadius2) {
		inv.degenerate = true
		debug.Log("Degenerate extent inverter for %s (slopes %g, %g)", extent, ma, mb)
	}

	return inv
}

// Contains reports whether (x, y) lies strictly inside the fitted annular sector.
// Angles are compared numerically without wrapping.
func (e *ExtentInverter) Contains(x, y float64) bool {
	if e.degenerate {
		return false
	}

	dx := x - e.circle.Center.X
	dy := y - e.circle.Center.Y
	r := dx*dx + dy*dy
	a := math.Atan2(dy, dx)

	return e.circle.InnerRadius2 < r && r < e.circle.OuterRadius2 &&
		e.circle.StartAngle < a && a < e.circle.EndAngle
}

// Invert returns the projection's inverse of (x, y) when the point is inside the sector
func (e *ExtentInverter) Invert(x, y float64) (lon, lat float64, ok bool) {
	if !e.Contains(x, y) {
		return 0, 0, false
	}
	return e.projection.Invert(x, y)
}

// Circle returns the fitted classification sector
func (e *ExtentInverter) Circle() Circle {
	return e.circle
}

// Degenerate reports whether the circle fit failed
func (e *ExtentInverter) Degenerate() bool {
	return e.degenerate
}

// Extent returns the geographic extent the inverter was built from
func (e *ExtentInverter) Extent() geo.Extent {
	return e.extent
}

func project(p projection.Projection, lon, lat float64) projection.Point {
	x, y := p.Project(lon, lat)
	return projection.Point{X: x, Y: y}
}

// slope is the finite-difference slope of the chord from a to b
func slope(a, b projection.Point) float64 {
	return (b.Y - a.Y) / (b.X - a.X)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
