package gallery

import (
	"math"
	"math/rand"

	"github.com/lucasb-eyer/go-colorful"
)

// Palette is a hue band in HCL space, sampled by position along [0, 1]
type Palette struct {
	Hue       float64 // degrees
	Spread    float64 // degrees covered from t=0 to t=1
	Chroma    float64
	Luminance float64
}

// RandomPalette picks a hue band with moderate chroma
func RandomPalette(rng *rand.Rand) Palette {
	return Palette{
		Hue:       rng.Float64() * 360,
		Spread:    40 + rng.Float64()*140,
		Chroma:    0.5 + rng.Float64()*0.3,
		Luminance: 0.6 + rng.Float64()*0.2,
	}
}

// At returns the colour at t, clamped to displayable RGB
func (p Palette) At(t float64) colorful.Color {
	h := math.Mod(p.Hue+p.Spread*t, 360)
	if h < 0 {
		h += 360
	}
	return colorful.Hcl(h, p.Chroma, p.Luminance).Clamped()
}

// Dim blends the colour at t toward black by amount in [0, 1]
func (p Palette) Dim(t, amount float64) colorful.Color {
	return p.At(t).BlendRgb(colorful.Color{}, amount).Clamped()
}

// headingGlyphs are arrows for 8 sectors, clockwise from east with y growing downward
var headingGlyphs = [...]rune{'→', '↘', '↓', '↙', '←', '↖', '↑', '↗'}

// headingGlyph returns the arrow closest to heading h (radians)
func headingGlyph(h float64) rune {
	sector := int(math.Round(h / (math.Pi / 4)))
	sector = ((sector % 8) + 8) % 8
	return headingGlyphs[sector]
}

// speedGlyph grades a speed into a dot weight
func speedGlyph(speed, fast float64) rune {
	switch {
	case speed > fast:
		return '*'
	case speed > fast/2:
		return ':'
	default:
		return '.'
	}
}
