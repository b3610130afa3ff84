package render

import (
	"math"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"asciiusa/internal/composite"
	"asciiusa/internal/geo"
	"asciiusa/internal/projection"
)

func countChars(c *Canvas, char rune) int {
	n := 0
	for y := 0; y < c.Height(); y++ {
		for x := 0; x < c.Width(); x++ {
			if c.Get(x, y).Char == char {
				n++
			}
		}
	}
	return n
}

func countNonBlank(c *Canvas) int {
	return c.Width()*c.Height() - countChars(c, ' ')
}

func TestCanvas_SetGetBounds(t *testing.T) {
	c := NewCanvas(4, 3)

	c.Set(1, 2, 'x', StyleLabel)
	assert.Equal(t, Cell{Char: 'x', Style: StyleLabel}, c.Get(1, 2))

	c.Set(-1, 0, 'y', StyleLabel)
	c.Set(4, 0, 'y', StyleLabel)
	assert.Equal(t, 1, countNonBlank(c))
	assert.Equal(t, ' ', c.Get(10, 10).Char)

	c.Clear()
	assert.Equal(t, 0, countNonBlank(c))
}

func TestCanvas_DrawText(t *testing.T) {
	c := NewCanvas(10, 1)

	n := c.DrawText(0, 0, "ab", StyleLabel)
	assert.Equal(t, 2, n)
	assert.Equal(t, 'a', c.Get(0, 0).Char)
	assert.Equal(t, 'b', c.Get(1, 0).Char)

	// Wide runes take two columns
	n = c.DrawText(3, 0, "日本", StyleLabel)
	assert.Equal(t, 4, n)
	assert.Equal(t, '日', c.Get(3, 0).Char)
	assert.Equal(t, rune(0), c.Get(4, 0).Char)
	assert.Equal(t, '本', c.Get(5, 0).Char)
	assert.Equal(t, 4, TextWidth("日本"))
}

func TestCanvas_DrawLine(t *testing.T) {
	c := NewCanvas(10, 10)

	c.DrawLine(0, 0, 9, 9, '*', StyleLabel)
	for i := 0; i < 10; i++ {
		assert.Equal(t, '*', c.Get(i, i).Char)
	}
	assert.Equal(t, 10, countChars(c, '*'))

	c.Clear()
	c.DrawLine(-50, 3, -5, 3, '*', StyleLabel)
	assert.Equal(t, 0, countNonBlank(c), "off-canvas lines are skipped")

	c.DrawLine(-5, 3, 5, 3, '*', StyleLabel)
	assert.Equal(t, 6, countChars(c, '*'), "partially visible lines are clipped per cell")
}

func TestCanvas_Blit(t *testing.T) {
	c := NewCanvas(5, 3)
	c.DrawText(0, 0, "ab", StylePanel)
	c.DrawText(1, 2, "日", StylePanel)

	screen := tcell.NewSimulationScreen("")
	require.NoError(t, screen.Init())
	defer screen.Fini()
	screen.SetSize(10, 5)

	c.Blit(screen, 1, 1)
	screen.Show()

	mainc, _, _, _ := screen.GetContent(1, 1)
	assert.Equal(t, 'a', mainc)
	mainc, _, _, _ = screen.GetContent(2, 1)
	assert.Equal(t, 'b', mainc)
	mainc, _, _, _ = screen.GetContent(2, 3)
	assert.Equal(t, '日', mainc)
}

func TestViewport(t *testing.T) {
	v := Viewport{AspectRatio: 2}

	col, row, ok := v.ToCell(10.7, 9.9)
	require.True(t, ok)
	assert.Equal(t, 10, col)
	assert.Equal(t, 4, row)

	x, y := v.ToPlane(10, 4)
	assert.Equal(t, 10.5, x)
	assert.Equal(t, 9.0, y)

	_, _, ok = v.ToCell(math.NaN(), 0)
	assert.False(t, ok)
	_, _, ok = v.ToCell(1e12, 0)
	assert.False(t, ok)

	col, row, ok = Viewport{}.ToCell(3.2, 3.2)
	require.True(t, ok)
	assert.Equal(t, 3, col)
	assert.Equal(t, 3, row, "a zero aspect ratio means square cells")
}

func TestPalette(t *testing.T) {
	palette := Palette(4)
	require.Len(t, palette, 4)
	for i := range palette {
		assert.True(t, palette[i].IsValid())
		for j := i + 1; j < len(palette); j++ {
			assert.Greater(t, palette[i].DistanceCIEDE2000(palette[j]), 0.05, "colors %d and %d", i, j)
		}
	}

	assert.Len(t, ComponentStyles(3), 3)
	assert.Empty(t, Palette(0))
}

// fittedAlbersUSA places the composite on a 96x25 canvas with 2:1 cells
func fittedAlbersUSA() *composite.Composite {
	c := composite.AlbersUSA()
	c.SetScale(100)
	c.SetTranslate(projection.Point{X: 48, Y: 25})
	return c
}

func TestMapRenderer_LinesAndLabels(t *testing.T) {
	canvas := NewCanvas(96, 25)
	features := map[geo.FeatureType][]*geo.Feature{
		geo.FeatureStateBorder: {
			geo.NewLineFeature(geo.FeatureStateBorder, []geo.LatLon{{Lat: 38, Lon: -100}, {Lat: 38, Lon: -90}}),
		},
		geo.FeatureCity: {
			geo.NewPointFeature(geo.FeatureCity, geo.LatLon{Lat: 38, Lon: -100}, "Dodge"),
		},
	}

	r := NewMapRenderer(fittedAlbersUSA(), features, canvas, Viewport{AspectRatio: 2})
	r.RenderMap()

	// (-100, 38) projects to plane (45.28, 24.97), cell (45, 12)
	assert.Equal(t, '●', canvas.Get(45, 12).Char)
	assert.Equal(t, 'D', canvas.Get(46, 12).Char)
	assert.Equal(t, 'e', canvas.Get(50, 12).Char)
	assert.Greater(t, countChars(canvas, '·'), 5)
}

func TestMapRenderer_BreaksLinesBetweenComponents(t *testing.T) {
	canvas := NewCanvas(96, 25)
	r := NewMapRenderer(fittedAlbersUSA(), nil, canvas, Viewport{AspectRatio: 2})

	// Lower 48 to Hawaii: the endpoints are drawn by different components
	r.RenderLine([]geo.LatLon{{Lat: 38, Lon: -100}, {Lat: 20, Lon: -156}}, '#', StyleLabel)
	assert.Equal(t, 0, countNonBlank(canvas))

	r.RenderLine([]geo.LatLon{{Lat: 20, Lon: -156}, {Lat: 21, Lon: -157}}, '#', StyleLabel)
	assert.Greater(t, countChars(canvas, '#'), 0)
}

func TestMapRenderer_InsetFrames(t *testing.T) {
	canvas := NewCanvas(96, 25)
	c := fittedAlbersUSA()
	r := NewMapRenderer(c, nil, canvas, Viewport{AspectRatio: 2})

	r.RenderInsetFrames()
	assert.Greater(t, countChars(canvas, '.'), 10)

	// The Hawaii frame is drawn in the Hawaii component's color
	styles := ComponentStyles(c.Len())
	found := false
	for y := 0; y < canvas.Height() && !found; y++ {
		for x := 0; x < canvas.Width(); x++ {
			cell := canvas.Get(x, y)
			if cell.Char == '.' && cell.Style == styles[2] {
				found = true
				break
			}
		}
	}
	assert.True(t, found)
	assert.Equal(t, styles[1], r.ComponentStyle(1))
	assert.Equal(t, StyleLabel, r.ComponentStyle(9))
}

func TestMapRenderer_PlainProjection(t *testing.T) {
	p := projection.NewConicEqualArea(projection.ConicOptions{
		Rotate:    [3]float64{98, 0, 0},
		Center:    [2]float64{0, 38},
		Parallels: [2]float64{29.5, 45.5},
	})
	p.SetScale(100)
	p.SetTranslate(projection.Point{X: 48, Y: 25})

	canvas := NewCanvas(96, 25)
	r := NewMapRenderer(p, nil, canvas, Viewport{AspectRatio: 2})
	r.RenderInsetFrames()
	assert.Equal(t, 0, countNonBlank(canvas), "only composites have inset frames")

	r.RenderLine([]geo.LatLon{{Lat: 38, Lon: -100}, {Lat: 20, Lon: -156}}, '#', StyleLabel)
	assert.Greater(t, countChars(canvas, '#'), 0)
}
