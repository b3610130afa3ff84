package projection

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLower48() *ConicEqualArea {
	return NewConicEqualArea(ConicOptions{
		Rotate:    [3]float64{98, 0, 0},
		Center:    [2]float64{0, 38},
		Parallels: [2]float64{29.5, 45.5},
	})
}

func TestConicEqualArea_Defaults(t *testing.T) {
	p := newLower48()

	assert.Equal(t, DefaultScale, p.Scale())
	assert.Equal(t, DefaultTranslate, p.Translate())
	assert.Equal(t, [3]float64{98, 0, 0}, p.Rotate())
	assert.Equal(t, [2]float64{0, 38}, p.Center())
	assert.Equal(t, [2]float64{29.5, 45.5}, p.Parallels())
}

func TestConicEqualArea_CenterMapsToTranslate(t *testing.T) {
	p := newLower48()
	p.SetScale(1000)
	p.SetTranslate(Point{X: 480, Y: 250})

	// rotate 98 moves lon -98 onto the central meridian
	x, y := p.Project(-98, 38)
	assert.InDelta(t, 480, x, 1e-9)
	assert.InDelta(t, 250, y, 1e-9)
}

func TestConicEqualArea_KnownPoint(t *testing.T) {
	p := newLower48()
	p.SetScale(1000)
	p.SetTranslate(Point{X: 480, Y: 250})

	x, y := p.Project(-100, 38)
	assert.InDelta(t, 452.76292133, x, 1e-6)
	assert.InDelta(t, 249.71341476, y, 1e-6)
}

func TestConicEqualArea_NorthIsUp(t *testing.T) {
	p := newLower48()

	_, ySouth := p.Project(-98, 30)
	_, yNorth := p.Project(-98, 45)
	assert.Less(t, yNorth, ySouth)

	xWest, _ := p.Project(-110, 38)
	xEast, _ := p.Project(-85, 38)
	assert.Less(t, xWest, xEast)
}

func TestConicEqualArea_RoundTrip(t *testing.T) {
	p := newLower48()
	p.SetScale(1000)
	p.SetTranslate(Point{X: 100, Y: -40})

	points := [][2]float64{
		{-98, 38}, {-100, 38}, {-122.4, 37.8}, {-74, 40.7}, {-80.2, 25.8}, {-95, 47},
	}
	for _, pt := range points {
		x, y := p.Project(pt[0], pt[1])
		lon, lat, ok := p.Invert(x, y)
		require.True(t, ok, "invert %v", pt)
		assert.InDelta(t, pt[0], lon, 1e-9, "lon of %v", pt)
		assert.InDelta(t, pt[1], lat, 1e-9, "lat of %v", pt)
	}
}

func TestConicEqualArea_ScaleIsLinearAroundTranslate(t *testing.T) {
	p := newLower48()
	p.SetTranslate(Point{X: 0, Y: 0})

	p.SetScale(100)
	x1, y1 := p.Project(-90, 42)
	p.SetScale(200)
	x2, y2 := p.Project(-90, 42)

	assert.InDelta(t, 2*x1, x2, 1e-9)
	assert.InDelta(t, 2*y1, y2, 1e-9)
}

func TestConicEqualArea_FullRotationRoundTrip(t *testing.T) {
	p := NewConicEqualArea(ConicOptions{
		Rotate:    [3]float64{20, -30, 10},
		Parallels: [2]float64{20, 50},
	})

	for _, pt := range [][2]float64{{10, 20}, {-5, 35}, {30, 40}} {
		x, y := p.Project(pt[0], pt[1])
		lon, lat, ok := p.Invert(x, y)
		require.True(t, ok)
		assert.InDelta(t, pt[0], lon, 1e-9)
		assert.InDelta(t, pt[1], lat, 1e-9)
	}
}

func TestConicEqualArea_SymmetricParallelsAreCylindrical(t *testing.T) {
	p := NewConicEqualArea(ConicOptions{Parallels: [2]float64{30, -30}})
	require.True(t, p.cylindrical)

	_, yA := p.Project(-40, 10)
	_, yB := p.Project(40, 10)
	assert.InDelta(t, yA, yB, 1e-9, "parallels are straight lines")

	x, y := p.Project(-40, -10)
	lon, lat, ok := p.Invert(x, y)
	require.True(t, ok)
	assert.InDelta(t, -40, lon, 1e-9)
	assert.InDelta(t, -10, lat, 1e-9)
}

func TestConicEqualArea_InvertNonFinite(t *testing.T) {
	p := newLower48()

	_, _, ok := p.Invert(math.NaN(), 0)
	assert.False(t, ok)
}

func TestPoint_IsFinite(t *testing.T) {
	assert.True(t, Point{X: 1, Y: 2}.IsFinite())
	assert.False(t, Point{X: math.Inf(1), Y: 2}.IsFinite())
	assert.False(t, Point{X: 0, Y: math.NaN()}.IsFinite())
}
