package render

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// Canvas represents a 2D grid of cells for ASCII rendering
type Canvas struct {
	width  int
	height int
	cells  [][]Cell
}

// Cell represents a single character cell with style
type Cell struct {
	Char  rune
	Style tcell.Style
}

var blank = Cell{Char: ' ', Style: tcell.StyleDefault}

// NewCanvas creates a new blank canvas
func NewCanvas(width, height int) *Canvas {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}

	cells := make([][]Cell, height)
	for i := range cells {
		cells[i] = make([]Cell, width)
		for j := range cells[i] {
			cells[i][j] = blank
		}
	}

	return &Canvas{
		width:  width,
		height: height,
		cells:  cells,
	}
}

// InBounds reports whether (x, y) is a cell of the canvas
func (c *Canvas) InBounds(x, y int) bool {
	return x >= 0 && x < c.width && y >= 0 && y < c.height
}

// Set sets the character and style at the given position.
// Coordinates are 0-indexed with (0,0) at top-left; out of range writes are ignored.
func (c *Canvas) Set(x, y int, char rune, style tcell.Style) {
	if c.InBounds(x, y) {
		c.cells[y][x] = Cell{Char: char, Style: style}
	}
}

// Get retrieves the cell at the given position
func (c *Canvas) Get(x, y int) Cell {
	if c.InBounds(x, y) {
		return c.cells[y][x]
	}
	return blank
}

// Clear resets the entire canvas to spaces with default style
func (c *Canvas) Clear() {
	for y := range c.cells {
		for x := range c.cells[y] {
			c.cells[y][x] = blank
		}
	}
}

// DrawText draws a string at the given position and returns the number of columns used.
// Wide runes occupy two columns.
func (c *Canvas) DrawText(x, y int, text string, style tcell.Style) int {
	col := x
	for _, char := range text {
		w := runewidth.RuneWidth(char)
		if w == 0 {
			continue
		}
		c.Set(col, y, char, style)
		for i := 1; i < w; i++ {
			c.Set(col+i, y, 0, style)
		}
		col += w
	}
	return col - x
}

// TextWidth returns the number of columns text occupies
func TextWidth(text string) int {
	return runewidth.StringWidth(text)
}

// DrawLine implements Bresenham's line algorithm.
// Lines with both endpoints beyond the same canvas edge are skipped.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int, char rune, style tcell.Style) {
	if (x0 < 0 && x1 < 0) || (y0 < 0 && y1 < 0) ||
		(x0 >= c.width && x1 >= c.width) || (y0 >= c.height && y1 >= c.height) {
		return
	}

	dx := abs(x1 - x0)
	dy := abs(y1 - y0)

	sx := -1
	if x0 < x1 {
		sx = 1
	}

	sy := -1
	if y0 < y1 {
		sy = 1
	}

	err := dx - dy

	for {
		c.Set(x0, y0, char, style)

		if x0 == x1 && y0 == y1 {
			break
		}

		e2 := 2 * err

		if e2 > -dy {
			err -= dy
			x0 += sx
		}

		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// Width returns the canvas width
func (c *Canvas) Width() int {
	return c.width
}

// Height returns the canvas height
func (c *Canvas) Height() int {
	return c.height
}

// Blit renders the canvas to a tcell screen
func (c *Canvas) Blit(screen tcell.Screen, offsetX, offsetY int) {
	for y := 0; y < c.height; y++ {
		for x := 0; x < c.width; x++ {
			cell := c.cells[y][x]
			if cell.Char == 0 {
				// Continuation of a wide rune
				continue
			}
			screen.SetContent(offsetX+x, offsetY+y, cell.Char, nil, cell.Style)
		}
	}
}

// abs returns the absolute value of an integer
func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
