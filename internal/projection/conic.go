package projection

import (
	"math"
)

const (
	// DefaultScale is the scale of a newly constructed projection
	DefaultScale = 150.0

	epsilon = 1e-6
	radians = math.Pi / 180.0
	degrees = 180.0 / math.Pi
)

// DefaultTranslate is the translate of a newly constructed projection (centre of a 960x500 canvas)
var DefaultTranslate = Point{X: 480, Y: 250}

// ConicOptions holds the shape parameters of a conic equal-area projection.
// All values are in degrees.
type ConicOptions struct {
	Rotate    [3]float64 // yaw, pitch, roll applied before projecting
	Center    [2]float64 // lon, lat of the point placed at Translate
	Parallels [2]float64 // standard parallels
}

// ConicEqualArea is a spherical Albers conic equal-area projection.
// Shape parameters are fixed at construction; scale and translate are mutable.
type ConicEqualArea struct {
	rotate    [3]float64
	center    [2]float64
	parallels [2]float64
	scale     float64
	translate Point

	rot rotation

	// Raw projection constants
	n           float64
	c           float64
	rho0        float64
	cylindrical bool
	cosPhi0     float64

	// Planar offsets derived from center, scale and translate
	dx float64
	dy float64
}

// NewConicEqualArea creates a conic equal-area projection with the default scale and translate.
// Parallels symmetric about the equator degenerate to a cylindrical equal-area projection.
func NewConicEqualArea(opts ConicOptions) *ConicEqualArea {
	p := &ConicEqualArea{
		rotate:    opts.Rotate,
		center:    opts.Center,
		parallels: opts.Parallels,
		scale:     DefaultScale,
		translate: DefaultTranslate,
	}

	p.rot = newRotation(p.rotate[0]*radians, p.rotate[1]*radians, p.rotate[2]*radians)
	p.calculateShape()
	p.calculateOffset()
	return p
}

// calculateShape derives the cone constants from the standard parallels
func (p *ConicEqualArea) calculateShape() {
	phi0 := p.parallels[0] * radians
	phi1 := p.parallels[1] * radians
	sinPhi0 := math.Sin(phi0)

	p.n = (sinPhi0 + math.Sin(phi1)) / 2
	if math.Abs(p.n) < epsilon {
		p.cylindrical = true
		p.cosPhi0 = math.Cos(phi0)
		return
	}

	p.c = 1 + sinPhi0*(2*p.n-sinPhi0)
	p.rho0 = math.Sqrt(p.c) / p.n
}

// calculateOffset places the projected center at translate
func (p *ConicEqualArea) calculateOffset() {
	cx, cy := p.forward(p.center[0]*radians, p.center[1]*radians)
	p.dx = p.translate.X - cx*p.scale
	p.dy = p.translate.Y + cy*p.scale
}

func (p *ConicEqualArea) forward(lambda, phi float64) (x, y float64) {
	if p.cylindrical {
		return lambda * p.cosPhi0, math.Sin(phi) / p.cosPhi0
	}

	rho := math.Sqrt(p.c-2*p.n*math.Sin(phi)) / p.n
	lambda *= p.n
	return rho * math.Sin(lambda), p.rho0 - rho*math.Cos(lambda)
}

func (p *ConicEqualArea) inverse(x, y float64) (lambda, phi float64) {
	if p.cylindrical {
		return x / p.cosPhi0, asin(y * p.cosPhi0)
	}

	rho0y := p.rho0 - y
	lambda = math.Atan2(x, math.Abs(rho0y)) * sign(rho0y)
	if rho0y*p.n < 0 {
		lambda -= math.Pi * sign(x) * sign(rho0y)
	}
	return lambda / p.n, asin((p.c - (x*x+rho0y*rho0y)*p.n*p.n) / (2 * p.n))
}

// Project converts lon/lat in degrees to planar coordinates.
// Y increases downward.
func (p *ConicEqualArea) Project(lon, lat float64) (x, y float64) {
	lambda, phi := p.rot.forward(lon*radians, lat*radians)
	x, y = p.forward(lambda, phi)
	return x*p.scale + p.dx, p.dy - y*p.scale
}

// Invert converts planar coordinates back to lon/lat in degrees
func (p *ConicEqualArea) Invert(x, y float64) (lon, lat float64, ok bool) {
	lambda, phi := p.inverse((x-p.dx)/p.scale, (p.dy-y)/p.scale)
	lambda, phi = p.rot.inverse(lambda, phi)

	lon = lambda * degrees
	lat = phi * degrees
	if !(Point{X: lon, Y: lat}).IsFinite() {
		return 0, 0, false
	}
	return lon, lat, true
}

// Scale returns the current scale
func (p *ConicEqualArea) Scale() float64 {
	return p.scale
}

// SetScale updates the scale and recalculates the planar offsets
func (p *ConicEqualArea) SetScale(k float64) {
	p.scale = k
	p.calculateOffset()
}

// Translate returns the planar position of the projection center
func (p *ConicEqualArea) Translate() Point {
	return p.translate
}

// SetTranslate moves the projection center and recalculates the planar offsets
func (p *ConicEqualArea) SetTranslate(t Point) {
	p.translate = t
	p.calculateOffset()
}

// Rotate returns the rotation angles in degrees
func (p *ConicEqualArea) Rotate() [3]float64 {
	return p.rotate
}

// Center returns the projection center as lon, lat in degrees
func (p *ConicEqualArea) Center() [2]float64 {
	return p.center
}

// Parallels returns the standard parallels in degrees
func (p *ConicEqualArea) Parallels() [2]float64 {
	return p.parallels
}

// asin clamps its argument to [-1, 1]
func asin(x float64) float64 {
	if x > 1 {
		return math.Pi / 2
	}
	if x < -1 {
		return -math.Pi / 2
	}
	return math.Asin(x)
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}
