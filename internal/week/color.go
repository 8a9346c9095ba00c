package week

import (
	"github.com/lucasb-eyer/go-colorful"
)

// DefaultColor is used when a schedule arrives without a category color.
const DefaultColor = "#3498db"

// Lighten raises each RGB channel of a hex color by percent (0-100) of the
// full channel range, clamping at white. Continuation fragments use a 20%
// tint of the category color.
func Lighten(hex string, percent int) string {
	return shift(hex, float64(percent)/100)
}

// Darken lowers each RGB channel by percent of the full range.
func Darken(hex string, percent int) string {
	return shift(hex, -float64(percent)/100)
}

func shift(hex string, amount float64) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		c, _ = colorful.Hex(DefaultColor)
	}
	return colorful.Color{
		R: clamp01(c.R + amount),
		G: clamp01(c.G + amount),
		B: clamp01(c.B + amount),
	}.Hex()
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
