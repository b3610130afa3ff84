package ui

import (
	"fmt"

	"asciiusa/internal/composite"
	"asciiusa/internal/render"

	"github.com/gdamore/tcell/v2"
)

// ProbeView shows the inversion of the crosshair position
type ProbeView struct {
	panel
	probe     Probe
	composite *composite.Composite
	styles    []tcell.Style
}

// NewProbeView creates a new probe panel
func NewProbeView(x, y, width, height int, c *composite.Composite) *ProbeView {
	return &ProbeView{
		panel:     panel{x: x, y: y, width: width, height: height},
		composite: c,
		styles:    render.ComponentStyles(c.Len()),
	}
}

// SetProbe sets the probe result to display
func (d *ProbeView) SetProbe(p Probe) {
	d.probe = p
}

// Lines returns the panel body, one entry per row
func (d *ProbeView) Lines() []string {
	p := d.probe
	t := d.composite.Translate()

	lines := []string{
		fmt.Sprintf("Cell:      %d, %d", p.Col, p.Row),
		fmt.Sprintf("Plane:     %.2f, %.2f", p.X, p.Y),
	}
	if p.OK {
		lines = append(lines,
			fmt.Sprintf("Component: %s", displayName(p.Match.Name)),
			fmt.Sprintf("Longitude: %.4f", p.Match.Lon),
			fmt.Sprintf("Latitude:  %.4f", p.Match.Lat),
			d.extentLine(),
		)
	} else {
		lines = append(lines, "Component: no match", "", "", "")
	}
	lines = append(lines,
		fmt.Sprintf("Scale:     %.2f", d.composite.Scale()),
		fmt.Sprintf("Translate: %.2f, %.2f", t.X, t.Y),
	)
	return lines
}

// Draw renders the probe panel to the screen
func (d *ProbeView) Draw(screen tcell.Screen) {
	d.clear(screen)
	d.drawBorder(screen, "Probe")

	y := d.y + 1
	for i, line := range d.Lines() {
		if y+i >= d.y+d.height-1 {
			break
		}

		style := render.StylePanel
		if i == 2 {
			style = d.componentStyle()
		}
		drawText(screen, d.x+2, y+i, d.width-4, line, style)
	}

	d.drawFooter(screen, "Press ESC to return")
}

// extentLine reports whether the inverted point lies in the matched component's extent.
// The inset sector only approximates the extent, so points near its edges can fall outside.
func (d *ProbeView) extentLine() string {
	components := d.composite.Components()
	i := d.probe.Match.Index
	if i < 0 || i >= len(components) {
		return ""
	}

	inv := components[i].ExtentInverter()
	if inv == nil {
		return "Extent:    none"
	}
	if inv.Extent().Contains(d.probe.Match.Lat, d.probe.Match.Lon) {
		return "Extent:    inside " + inv.Extent().String()
	}
	return "Extent:    outside " + inv.Extent().String()
}

// componentStyle colors the component row like the matched component on the map
func (d *ProbeView) componentStyle() tcell.Style {
	if !d.probe.OK {
		return render.StyleNoMatch
	}
	if i := d.probe.Match.Index; i >= 0 && i < len(d.styles) {
		return d.styles[i]
	}
	return render.StylePanel
}

// UpdateDimensions updates the view dimensions
func (d *ProbeView) UpdateDimensions(x, y, width, height int) {
	d.resize(x, y, width, height)
}
