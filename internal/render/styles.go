package render

import (
	"math"

	"asciiusa/internal/geo"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// Style definitions for different map features
var (
	StyleStateBorder  = tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	StyleLake         = tcell.StyleDefault.Foreground(tcell.ColorDarkCyan)
	StyleCity         = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	StylePlace        = tcell.StyleDefault.Foreground(tcell.ColorOrange)
	StyleLabel        = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	StyleCrosshair    = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	StylePanel        = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	StylePanelTitle   = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	StyleNoMatch      = tcell.StyleDefault.Foreground(tcell.ColorRed)
	StyleListSelected = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorWhite)
)

// GetStyleForFeature returns the appropriate style for a feature type
func GetStyleForFeature(ftype geo.FeatureType) tcell.Style {
	switch ftype {
	case geo.FeatureStateBorder:
		return StyleStateBorder
	case geo.FeatureLake:
		return StyleLake
	case geo.FeatureCity:
		return StyleCity
	case geo.FeaturePlace:
		return StylePlace
	default:
		return tcell.StyleDefault
	}
}

// GetCharForFeature returns the appropriate character for drawing a feature
func GetCharForFeature(ftype geo.FeatureType) rune {
	switch ftype {
	case geo.FeatureStateBorder:
		return '·'
	case geo.FeatureLake:
		return '~'
	case geo.FeatureCity:
		return '●'
	case geo.FeaturePlace:
		return '@'
	default:
		return '·'
	}
}

// Palette returns n visually distinct colors, one per composite component.
// Hues are spread evenly around the HCL wheel at fixed chroma and luminance
// so every color reads equally well on a dark terminal.
func Palette(n int) []colorful.Color {
	colors := make([]colorful.Color, n)
	for i := range colors {
		hue := math.Mod(40+360*float64(i)/float64(n), 360)
		colors[i] = colorful.Hcl(hue, 0.55, 0.75).Clamped()
	}
	return colors
}

// ComponentStyles converts the palette for n components to tcell styles
func ComponentStyles(n int) []tcell.Style {
	palette := Palette(n)
	styles := make([]tcell.Style, n)
	for i, c := range palette {
		r, g, b := c.RGB255()
		styles[i] = tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(r), int32(g), int32(b)))
	}
	return styles
}
