package projection

import "math"

// rotation is a spherical rotation about the z axis (lambda), then the y axis (phi)
// and the x axis (gamma). Angles are in radians.
type rotation struct {
	dLambda float64

	hasPhiGamma bool
	cosDPhi     float64
	sinDPhi     float64
	cosDGamma   float64
	sinDGamma   float64
}

func newRotation(dLambda, dPhi, dGamma float64) rotation {
	r := rotation{
		dLambda: math.Mod(dLambda, 2*math.Pi),
	}

	if dPhi != 0 || dGamma != 0 {
		r.hasPhiGamma = true
		r.cosDPhi = math.Cos(dPhi)
		r.sinDPhi = math.Sin(dPhi)
		r.cosDGamma = math.Cos(dGamma)
		r.sinDGamma = math.Sin(dGamma)
	}

	return r
}

func (r rotation) forward(lambda, phi float64) (float64, float64) {
	lambda = wrapLambda(lambda + r.dLambda)
	if !r.hasPhiGamma {
		return lambda, phi
	}

	cosPhi := math.Cos(phi)
	x := math.Cos(lambda) * cosPhi
	y := math.Sin(lambda) * cosPhi
	z := math.Sin(phi)
	k := z*r.cosDPhi + x*r.sinDPhi

	return math.Atan2(y*r.cosDGamma-k*r.sinDGamma, x*r.cosDPhi-z*r.sinDPhi),
		asin(k*r.cosDGamma + y*r.sinDGamma)
}

func (r rotation) inverse(lambda, phi float64) (float64, float64) {
	if r.hasPhiGamma {
		cosPhi := math.Cos(phi)
		x := math.Cos(lambda) * cosPhi
		y := math.Sin(lambda) * cosPhi
		z := math.Sin(phi)
		k := z*r.cosDGamma - y*r.sinDGamma

		lambda = math.Atan2(y*r.cosDGamma+z*r.sinDGamma, x*r.cosDPhi+k*r.sinDPhi)
		phi = asin(k*r.cosDPhi - x*r.sinDPhi)
	}

	return wrapLambda(lambda - r.dLambda), phi
}

// wrapLambda folds a longitude in radians back into [-pi, pi]
func wrapLambda(lambda float64) float64 {
	if lambda > math.Pi {
		return lambda - 2*math.Pi
	}
	if lambda < -math.Pi {
		return lambda + 2*math.Pi
	}
	return lambda
}
