package composite

import (
	"asciiusa/internal/geo"
	"asciiusa/internal/projection"
)

// Component names used by AlbersUSA
const (
	Lower48    = "lower48"
	PuertoRico = "puertoRico"
	Hawaii     = "hawaii"
	Alaska     = "alaska"
)

// AlbersUSA builds the United States composite for a 960x500 canvas at scale 1000:
// the lower 48 states with Alaska, Hawaii and Puerto Rico as insets.
// Standard parallels for each region follow the USGS map projection tables.
// The global translate is left at the projection default (480, 250).
func AlbersUSA() *Composite {
	lower48 := projection.NewConicEqualArea(projection.ConicOptions{
		Rotate:    [3]float64{98, 0, 0},
		Center:    [2]float64{0, 38},
		Parallels: [2]float64{29.5, 45.5},
	})

	alaska := projection.NewConicEqualArea(projection.ConicOptions{
		Rotate:    [3]float64{160, 0, 0},
		Center:    [2]float64{0, 60},
		Parallels: [2]float64{55, 65},
	})

	hawaii := projection.NewConicEqualArea(projection.ConicOptions{
		Rotate:    [3]float64{160, 0, 0},
		Center:    [2]float64{0, 20},
		Parallels: [2]float64{8, 18},
	})

	puertoRico := projection.NewConicEqualArea(projection.ConicOptions{
		Rotate:    [3]float64{60, 0, 0},
		Center:    [2]float64{0, 10},
		Parallels: [2]float64{8, 18},
	})

	puertoRicoExtent := geo.NewExtent(-67.5, 17.5, -65, 19)
	hawaiiExtent := geo.NewExtent(-164, 18, -154, 24)
	alaskaExtent := geo.NewExtent(-180, 50, -130, 72)

	c := New().
		Add(lower48, Params{Name: Lower48}).
		Add(puertoRico, Params{
			Name:      PuertoRico,
			Translate: projection.Point{X: .58, Y: .43},
			Scale:     1.5,
			Extent:    &puertoRicoExtent,
		}).
		Add(hawaii, Params{
			Name:      Hawaii,
			Translate: projection.Point{X: -.19, Y: .20},
			Scale:     1,
			Extent:    &hawaiiExtent,
		}).
		Add(alaska, Params{
			Name:      Alaska,
			Translate: projection.Point{X: -.40, Y: .17},
			Scale:     .6,
			Extent:    &alaskaExtent,
		})

	c.SetChooser(func(lon, lat float64) projection.Projection {
		switch {
		case lat > 50:
			return alaska
		case lon < -140:
			return hawaii
		case lat < 21:
			return puertoRico
		default:
			return lower48
		}
	})
	c.SetScale(1000)

	return c
}
