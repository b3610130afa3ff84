package ui

import (
	"asciiusa/internal/render"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English, cases.NoLower)

// displayName converts a component name such as "puertoRico" to "PuertoRico"
func displayName(name string) string {
	if name == "" {
		return "(unnamed)"
	}
	return titleCaser.String(name)
}

// panel is a bordered, opaque rectangle on the screen
type panel struct {
	x, y          int
	width, height int
}

// clear blanks the panel interior so the map does not show through
func (p *panel) clear(screen tcell.Screen) {
	for row := p.y + 1; row < p.y+p.height-1; row++ {
		for col := p.x + 1; col < p.x+p.width-1; col++ {
			screen.SetContent(col, row, ' ', nil, tcell.StyleDefault)
		}
	}
}

// drawBorder draws the panel border with a centred title
func (p *panel) drawBorder(screen tcell.Screen, title string) {
	style := render.StylePanel

	screen.SetContent(p.x, p.y, '┌', nil, style)
	screen.SetContent(p.x+p.width-1, p.y, '┐', nil, style)
	screen.SetContent(p.x, p.y+p.height-1, '└', nil, style)
	screen.SetContent(p.x+p.width-1, p.y+p.height-1, '┘', nil, style)

	for i := 1; i < p.width-1; i++ {
		screen.SetContent(p.x+i, p.y, '─', nil, style)
		screen.SetContent(p.x+i, p.y+p.height-1, '─', nil, style)
	}

	for i := 1; i < p.height-1; i++ {
		screen.SetContent(p.x, p.y+i, '│', nil, style)
		screen.SetContent(p.x+p.width-1, p.y+i, '│', nil, style)
	}

	if title != "" {
		title = runewidth.Truncate(title, p.width-2, "…")
		titleX := p.x + (p.width-runewidth.StringWidth(title))/2
		drawText(screen, titleX, p.y, p.width-2, title, render.StylePanelTitle)
	}
}

// drawFooter centres text on the bottom border
func (p *panel) drawFooter(screen tcell.Screen, text string) {
	text = runewidth.Truncate(text, p.width-2, "…")
	x := p.x + (p.width-runewidth.StringWidth(text))/2
	drawText(screen, x, p.y+p.height-1, p.width-2, text, render.StylePanel.Dim(true))
}

// contains reports whether a screen cell lies inside the panel, border included
func (p *panel) contains(col, row int) bool {
	return col >= p.x && col < p.x+p.width && row >= p.y && row < p.y+p.height
}

func (p *panel) resize(x, y, width, height int) {
	p.x = x
	p.y = y
	p.width = width
	p.height = height
}

// drawText writes text at (x, y), clipped to maxWidth columns, and returns the columns used
func drawText(screen tcell.Screen, x, y, maxWidth int, text string, style tcell.Style) int {
	col := 0
	for _, ch := range text {
		w := runewidth.RuneWidth(ch)
		if w == 0 {
			continue
		}
		if col+w > maxWidth {
			break
		}
		screen.SetContent(x+col, y, ch, nil, style)
		col += w
	}
	return col
}
