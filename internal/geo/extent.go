package geo

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidExtent is returned when an extent's minimum corner is not strictly below its maximum
var ErrInvalidExtent = errors.New("invalid extent")

// Extent is an axis-aligned geographic bounding box [[lonMin, latMin], [lonMax, latMax]]
type Extent struct {
	Min LatLon
	Max LatLon
}

// NewExtent creates an extent from its corner coordinates
func NewExtent(lonMin, latMin, lonMax, latMax float64) Extent {
	return Extent{
		Min: LatLon{Lat: latMin, Lon: lonMin},
		Max: LatLon{Lat: latMax, Lon: lonMax},
	}
}

// Validate checks that lonMin < lonMax and latMin < latMax
func (e Extent) Validate() error {
	for _, v := range []float64{e.Min.Lon, e.Min.Lat, e.Max.Lon, e.Max.Lat} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite coordinate in %s", ErrInvalidExtent, e)
		}
	}
	if e.Min.Lon >= e.Max.Lon {
		return fmt.Errorf("%w: longitude %g is not below %g", ErrInvalidExtent, e.Min.Lon, e.Max.Lon)
	}
	if e.Min.Lat >= e.Max.Lat {
		return fmt.Errorf("%w: latitude %g is not below %g", ErrInvalidExtent, e.Min.Lat, e.Max.Lat)
	}
	return nil
}

// Contains checks if a point is within the extent (edges included)
func (e Extent) Contains(lat, lon float64) bool {
	return lat >= e.Min.Lat && lat <= e.Max.Lat &&
		lon >= e.Min.Lon && lon <= e.Max.Lon
}

// Center returns the midpoint of the extent
func (e Extent) Center() LatLon {
	return LatLon{
		Lat: (e.Min.Lat + e.Max.Lat) / 2,
		Lon: (e.Min.Lon + e.Max.Lon) / 2,
	}
}

// Outline returns the extent boundary as a closed ring, densified so that
// each edge follows the curvature of a conic projection
func (e Extent) Outline(segments int) []LatLon {
	if segments < 1 {
		segments = 1
	}

	ring := make([]LatLon, 0, 4*segments+1)
	edge := func(from, to LatLon) {
		for i := 0; i < segments; i++ {
			t := float64(i) / float64(segments)
			ring = append(ring, LatLon{
				Lat: from.Lat + (to.Lat-from.Lat)*t,
				Lon: from.Lon + (to.Lon-from.Lon)*t,
			})
		}
	}

	sw := e.Min
	se := LatLon{Lat: e.Min.Lat, Lon: e.Max.Lon}
	ne := e.Max
	nw := LatLon{Lat: e.Max.Lat, Lon: e.Min.Lon}

	edge(sw, se)
	edge(se, ne)
	edge(ne, nw)
	edge(nw, sw)
	ring = append(ring, sw)

	return ring
}

// String formats the extent as [[lonMin, latMin], [lonMax, latMax]]
func (e Extent) String() string {
	return fmt.Sprintf("[[%g, %g], [%g, %g]]", e.Min.Lon, e.Min.Lat, e.Max.Lon, e.Max.Lat)
}
