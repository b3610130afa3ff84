package ui

import (
	"fmt"
	"math"

	"asciiusa/internal/composite"
	"asciiusa/internal/debug"
	"asciiusa/internal/geo"
	"asciiusa/internal/projection"
	"asciiusa/internal/render"

	"github.com/gdamore/tcell/v2"
)

// Layouts are authored for a 960x500 frame; the map is fitted to the terminal from it
const (
	frameWidth  = 960.0
	frameHeight = 500.0

	minZoom  = 0.25
	maxZoom  = 32.0
	zoomStep = 1.25
)

// Probe is the result of inverting the cell under the crosshair
type Probe struct {
	Col, Row int
	X, Y     float64
	Match    composite.Match
	OK       bool
}

// MapView displays the composite map and the crosshair
type MapView struct {
	renderer    *render.MapRenderer
	composite   *composite.Composite
	canvas      *render.Canvas
	viewport    render.Viewport
	width       int
	height      int
	baseScale   float64
	zoom        float64
	pan         projection.Point // Offset of the frame centre in units of the scale
	cursorX     int
	cursorY     int
	aspectRatio float64
}

// NewMapView creates a map view fitted to width x height cells.
// The composite's current scale is taken as the layout scale for a 960x500 frame.
func NewMapView(width, height int, c *composite.Composite, features map[geo.FeatureType][]*geo.Feature, aspectRatio float64) *MapView {
	viewport := render.Viewport{AspectRatio: aspectRatio}
	canvas := render.NewCanvas(width, height)

	m := &MapView{
		renderer:    render.NewMapRenderer(c, features, canvas, viewport),
		composite:   c,
		canvas:      canvas,
		viewport:    viewport,
		width:       width,
		height:      height,
		baseScale:   c.Scale(),
		zoom:        1,
		cursorX:     width / 2,
		cursorY:     height / 2,
		aspectRatio: aspectRatio,
	}
	m.fit()

	return m
}

// fit propagates the zoom and pan to the composite's scale and translate
func (m *MapView) fit() {
	k := m.baseScale * m.zoom * math.Min(float64(m.width)/frameWidth, float64(m.height)*m.aspect()/frameHeight)
	if k <= 0 {
		return
	}

	m.composite.SetScale(k)
	m.composite.SetTranslate(projection.Point{
		X: float64(m.width)/2 + m.pan.X*k,
		Y: float64(m.height)*m.aspect()/2 + m.pan.Y*k,
	})

	debug.Log("Map fitted to %dx%d: scale %.2f translate %v", m.width, m.height, k, m.composite.Translate())
}

func (m *MapView) aspect() float64 {
	if m.aspectRatio <= 0 {
		return 1
	}
	return m.aspectRatio
}

// Draw renders the map view to the screen
func (m *MapView) Draw(screen tcell.Screen) {
	m.canvas.Clear()

	m.renderer.RenderMap()

	m.canvas.Set(m.cursorX, m.cursorY, '╋', render.StyleCrosshair)

	m.canvas.Blit(screen, 0, 0)
}

// DrawStatus draws the scale, zoom and key help on the top row
func (m *MapView) DrawStatus(screen tcell.Screen) {
	status := fmt.Sprintf(" scale %.0f  zoom %.2fx  hjkl:move wasd:pan +/-:zoom 0:reset tab:inset enter:probe q:quit",
		m.composite.Scale(), m.zoom)
	drawText(screen, 0, 0, m.width, status, render.StyleLabel.Dim(true))
}

// Probe inverts the plane point at the centre of the crosshair cell
func (m *MapView) Probe() Probe {
	x, y := m.viewport.ToPlane(m.cursorX, m.cursorY)
	match, ok := m.composite.Locate(x, y)

	return Probe{
		Col:   m.cursorX,
		Row:   m.cursorY,
		X:     x,
		Y:     y,
		Match: match,
		OK:    ok,
	}
}

// MoveCursor moves the crosshair by dx, dy cells, stopping at the edges
func (m *MapView) MoveCursor(dx, dy int) {
	m.SetCursor(m.cursorX+dx, m.cursorY+dy)
}

// SetCursor places the crosshair, clamped to the view
func (m *MapView) SetCursor(col, row int) {
	m.cursorX = clamp(col, 0, m.width-1)
	m.cursorY = clamp(row, 0, m.height-1)
}

// Cursor returns the crosshair cell
func (m *MapView) Cursor() (col, row int) {
	return m.cursorX, m.cursorY
}

// CenterCursorOn moves the crosshair to a component: the centre of its extent,
// or the point its projection is centred on when it has none
func (m *MapView) CenterCursorOn(comp composite.Component) {
	target := comp.Projection.Translate()
	if inv := comp.ExtentInverter(); inv != nil {
		centre := inv.Extent().Center()
		x, y := comp.Projection.Project(centre.Lon, centre.Lat)
		target = projection.Point{X: x, Y: y}
	}

	col, row, ok := m.viewport.ToCell(target.X, target.Y)
	if !ok {
		return
	}
	m.SetCursor(col, row)
	debug.Log("Cursor moved to %s at cell %d,%d", comp.Params.Name, col, row)
}

// Pan shifts the view by an eighth of the screen per step
func (m *MapView) Pan(dx, dy int) {
	k := m.composite.Scale()
	if k <= 0 {
		return
	}
	m.pan.X -= float64(dx) * float64(m.width) / 8 / k
	m.pan.Y -= float64(dy) * float64(m.height) * m.aspect() / 8 / k
	m.fit()
}

// ZoomIn increases the scale around the frame centre
func (m *MapView) ZoomIn() {
	m.SetZoom(m.zoom * zoomStep)
}

// ZoomOut decreases the scale around the frame centre
func (m *MapView) ZoomOut() {
	m.SetZoom(m.zoom / zoomStep)
}

// SetZoom sets the zoom factor relative to the fitted layout
func (m *MapView) SetZoom(zoom float64) {
	m.zoom = math.Max(minZoom, math.Min(maxZoom, zoom))
	m.fit()
	debug.Log("Map zoom changed to %.2fx", m.zoom)
}

// Zoom returns the current zoom factor
func (m *MapView) Zoom() float64 {
	return m.zoom
}

// Reset restores the fitted layout
func (m *MapView) Reset() {
	m.zoom = 1
	m.pan = projection.Point{}
	m.fit()
}

// UpdateDimensions updates the view dimensions when the screen is resized
func (m *MapView) UpdateDimensions(width, height int) {
	m.width = width
	m.height = height

	m.canvas = render.NewCanvas(width, height)
	m.renderer.UpdateCanvas(m.canvas)
	m.fit()
	m.SetCursor(m.cursorX, m.cursorY)
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
