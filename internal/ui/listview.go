package ui

import (
	"fmt"

	"asciiusa/internal/composite"
	"asciiusa/internal/render"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// LegendView lists the composite's components in their map colors.
// The component under the crosshair is marked; one entry is selected for navigation.
type LegendView struct {
	panel
	components    []composite.Component
	styles        []tcell.Style
	selectedIndex int
	activeIndex   int
	scrollOffset  int
	maxVisible    int
}

// NewLegendView creates a new component legend
func NewLegendView(x, y, width, height int) *LegendView {
	maxVisible := height - 2 // Account for border
	if maxVisible < 1 {
		maxVisible = 1
	}

	return &LegendView{
		panel:       panel{x: x, y: y, width: width, height: height},
		activeIndex: -1,
		maxVisible:  maxVisible,
	}
}

// Update refreshes the component list
func (l *LegendView) Update(components []composite.Component) {
	l.components = components
	l.styles = render.ComponentStyles(len(components))

	if l.selectedIndex >= len(l.components) {
		l.selectedIndex = len(l.components) - 1
	}
	if l.selectedIndex < 0 {
		l.selectedIndex = 0
	}

	l.adjustScroll()
}

// SetActive marks the component under the crosshair; -1 marks none
func (l *LegendView) SetActive(index int) {
	l.activeIndex = index
}

// SelectNext moves selection down, wrapping to the top
func (l *LegendView) SelectNext() {
	if len(l.components) == 0 {
		return
	}
	l.selectedIndex = (l.selectedIndex + 1) % len(l.components)
	l.adjustScroll()
}

// SelectPrev moves selection up, wrapping to the bottom
func (l *LegendView) SelectPrev() {
	if len(l.components) == 0 {
		return
	}
	l.selectedIndex = (l.selectedIndex - 1 + len(l.components)) % len(l.components)
	l.adjustScroll()
}

// adjustScroll adjusts scroll offset to keep selected item visible
func (l *LegendView) adjustScroll() {
	if l.selectedIndex >= l.scrollOffset+l.maxVisible {
		l.scrollOffset = l.selectedIndex - l.maxVisible + 1
	}

	if l.selectedIndex < l.scrollOffset {
		l.scrollOffset = l.selectedIndex
	}

	if l.scrollOffset < 0 {
		l.scrollOffset = 0
	}
}

// GetSelected returns the selected component
func (l *LegendView) GetSelected() (composite.Component, bool) {
	if l.selectedIndex >= 0 && l.selectedIndex < len(l.components) {
		return l.components[l.selectedIndex], true
	}
	return composite.Component{}, false
}

// SelectedIndex returns the index of the selected component
func (l *LegendView) SelectedIndex() int {
	return l.selectedIndex
}

// Draw renders the legend to the screen
func (l *LegendView) Draw(screen tcell.Screen) {
	l.clear(screen)
	l.drawBorder(screen, "Components")

	visibleCount := min(l.maxVisible, len(l.components)-l.scrollOffset)
	for i := 0; i < visibleCount; i++ {
		index := l.scrollOffset + i
		comp := l.components[index]

		marker := ' '
		if index == l.activeIndex {
			marker = '▸'
		}

		text := fmt.Sprintf("%s ×%g", displayName(comp.Params.Name), comp.Params.Scale)
		if comp.ExtentInverter() != nil {
			text += " inset"
		}

		style := render.StylePanel
		if index == l.selectedIndex {
			style = render.StyleListSelected
		}

		x := l.x + 1
		y := l.y + i + 1
		screen.SetContent(x, y, marker, nil, render.StyleCrosshair)
		screen.SetContent(x+1, y, '■', nil, l.styles[index])

		width := l.width - 5
		text = runewidth.FillRight(runewidth.Truncate(text, width, "…"), width)
		drawText(screen, x+3, y, width, text, style)
	}

	if len(l.components) > l.maxVisible {
		screen.SetContent(l.x+l.width-2, l.y, '↕', nil, render.StylePanel)
	}
}

// UpdateDimensions updates the view dimensions
func (l *LegendView) UpdateDimensions(x, y, width, height int) {
	l.resize(x, y, width, height)
	l.maxVisible = height - 2
	if l.maxVisible < 1 {
		l.maxVisible = 1
	}
	l.adjustScroll()
}
