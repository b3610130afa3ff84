package render

import (
	"math"

	"asciiusa/internal/composite"
	"asciiusa/internal/debug"
	"asciiusa/internal/geo"
	"asciiusa/internal/projection"

	"github.com/gdamore/tcell/v2"
)

// Viewport maps projection-plane coordinates to canvas cells.
// A cell is one plane unit wide and AspectRatio units tall, compensating for
// character cells that are taller than they are wide.
type Viewport struct {
	AspectRatio float64
}

// maxCell bounds projected cell coordinates so far-off points cannot overflow int
const maxCell = 1 << 20

// ToCell converts plane coordinates to a cell; ok is false for non-finite or absurdly distant points
func (v Viewport) ToCell(x, y float64) (col, row int, ok bool) {
	fx := math.Floor(x)
	fy := math.Floor(y / v.aspect())
	if !(projection.Point{X: fx, Y: fy}).IsFinite() || math.Abs(fx) > maxCell || math.Abs(fy) > maxCell {
		return 0, 0, false
	}
	return int(fx), int(fy), true
}

// ToPlane returns the plane coordinates of the centre of a cell
func (v Viewport) ToPlane(col, row int) (x, y float64) {
	return float64(col) + 0.5, (float64(row) + 0.5) * v.aspect()
}

func (v Viewport) aspect() float64 {
	if v.AspectRatio <= 0 {
		return 1
	}
	return v.AspectRatio
}

// MapRenderer renders geographic features through a projection onto a canvas
type MapRenderer struct {
	projection projection.Projection
	composite  *composite.Composite
	features   map[geo.FeatureType][]*geo.Feature
	canvas     *Canvas
	viewport   Viewport
	styles     []tcell.Style
}

// NewMapRenderer creates a new map renderer.
// When p is a *composite.Composite, lines are broken where they cross between
// components and each inset's extent is framed in the component's color.
func NewMapRenderer(p projection.Projection, features map[geo.FeatureType][]*geo.Feature, canvas *Canvas, viewport Viewport) *MapRenderer {
	m := &MapRenderer{
		projection: p,
		features:   features,
		canvas:     canvas,
		viewport:   viewport,
	}
	if c, ok := p.(*composite.Composite); ok {
		m.composite = c
		m.styles = ComponentStyles(c.Len())
	}
	return m
}

// RenderMap draws all geographic features to the canvas
func (m *MapRenderer) RenderMap() {
	// Lines first so point labels stay readable on top
	m.renderLines(geo.FeatureLake)
	m.renderLines(geo.FeatureStateBorder)
	m.RenderInsetFrames()
	m.renderPoints(geo.FeatureCity)
	m.renderPoints(geo.FeaturePlace)
}

// ComponentStyle returns the style used for a composite component index
func (m *MapRenderer) ComponentStyle(index int) tcell.Style {
	if index < 0 || index >= len(m.styles) {
		return StyleLabel
	}
	return m.styles[index]
}

func (m *MapRenderer) renderLines(ftype geo.FeatureType) {
	features := m.features[ftype]
	if len(features) == 0 {
		return
	}

	style := GetStyleForFeature(ftype)
	char := GetCharForFeature(ftype)
	for _, feature := range features {
		if feature.IsLine() {
			m.RenderLine(feature.Points, char, style)
		}
	}
}

// RenderLine draws a polyline through the projection.
// Segments with a non-finite endpoint, or whose endpoints belong to different
// composite components, are skipped.
func (m *MapRenderer) RenderLine(points []geo.LatLon, char rune, style tcell.Style) {
	prevCol, prevRow, prevOK := 0, 0, false
	prevComponent := -1

	for _, pt := range points {
		x, y := m.projection.Project(pt.Lon, pt.Lat)
		col, row, ok := m.viewport.ToCell(x, y)

		component := -1
		if m.composite != nil {
			component = m.composite.Classify(pt.Lon, pt.Lat)
		}

		if ok && prevOK && component == prevComponent && m.shortSegment(prevCol, prevRow, col, row) {
			m.canvas.DrawLine(prevCol, prevRow, col, row, char, style)
		}

		prevCol, prevRow, prevOK = col, row, ok
		prevComponent = component
	}
}

// RenderInsetFrames outlines the extent of every component that has one,
// drawn with that component's own projection
func (m *MapRenderer) RenderInsetFrames() {
	if m.composite == nil {
		return
	}

	for i, comp := range m.composite.Components() {
		inv := comp.ExtentInverter()
		if inv == nil {
			continue
		}

		style := m.ComponentStyle(i)
		prevCol, prevRow, prevOK := 0, 0, false
		for _, pt := range inv.Extent().Outline(16) {
			x, y := comp.Projection.Project(pt.Lon, pt.Lat)
			col, row, ok := m.viewport.ToCell(x, y)
			if ok && prevOK && m.shortSegment(prevCol, prevRow, col, row) {
				m.canvas.DrawLine(prevCol, prevRow, col, row, '.', style)
			}
			prevCol, prevRow, prevOK = col, row, ok
		}

		if debug.Enabled() {
			circle := inv.Circle()
			debug.Log("Inset %s: centre (%.1f, %.1f) angles [%.4f, %.4f] degenerate=%v",
				comp.Params.Name, circle.Center.X, circle.Center.Y, circle.StartAngle, circle.EndAngle, inv.Degenerate())
		}
	}
}

func (m *MapRenderer) renderPoints(ftype geo.FeatureType) {
	features := m.features[ftype]
	if len(features) == 0 {
		return
	}

	style := GetStyleForFeature(ftype)
	char := GetCharForFeature(ftype)
	drawn := 0
	for _, feature := range features {
		if !feature.IsPoint() {
			continue
		}

		x, y := m.projection.Project(feature.Point.Lon, feature.Point.Lat)
		col, row, ok := m.viewport.ToCell(x, y)
		if !ok || !m.canvas.InBounds(col, row) {
			continue
		}

		m.canvas.Set(col, row, char, style)
		drawn++

		if feature.Name != "" && m.labelFits(col+1, row, feature.Name) {
			m.canvas.DrawText(col+1, row, feature.Name, StyleLabel)
		}
	}

	debug.Log("Rendered %d of %d %s features", drawn, len(features), ftype)
}

// shortSegment rejects segments spanning several canvas widths, which only
// arise from points near a projection singularity
func (m *MapRenderer) shortSegment(x0, y0, x1, y1 int) bool {
	return abs(x1-x0) <= 4*m.canvas.Width()+4 && abs(y1-y0) <= 4*m.canvas.Height()+4
}

// labelFits reports whether text fits on the canvas at (x, y) without covering
// anything except line work
func (m *MapRenderer) labelFits(x, y int, text string) bool {
	width := TextWidth(text)
	if x+width > m.canvas.Width() {
		return false
	}
	for i := 0; i < width; i++ {
		switch m.canvas.Get(x+i, y).Char {
		case ' ', GetCharForFeature(geo.FeatureStateBorder), GetCharForFeature(geo.FeatureLake), '.':
		default:
			return false
		}
	}
	return true
}

// UpdateCanvas updates the renderer's canvas
func (m *MapRenderer) UpdateCanvas(canvas *Canvas) {
	m.canvas = canvas
}

