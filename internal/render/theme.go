package render

import "github.com/gogpu/gg"

const defaultPrimaryHex = "#2b6cb0"

// Theme is the palette one render draws with. The primary colour comes
// from the caller, everything else is derived or fixed so graphics from
// different teams stay visually consistent.
type Theme struct {
	Background   gg.RGBA
	Pitch        gg.RGBA
	PitchLine    gg.RGBA
	Primary      gg.RGBA
	PrimaryLight gg.RGBA
	PrimaryDark  gg.RGBA
	Accent       gg.RGBA
	Text         gg.RGBA
	TextMuted    gg.RGBA
	Panel        gg.RGBA
	Grid         gg.RGBA
}

// NewTheme builds a palette around a primary hex colour. An empty or
// unparseable value falls back to the default primary.
func NewTheme(primaryHex string) Theme {
	if primaryHex == "" {
		primaryHex = defaultPrimaryHex
	}
	primary := gg.Hex(primaryHex)
	return Theme{
		Background:   gg.HSL(150, 0.18, 0.10),
		Pitch:        gg.HSL(150, 0.22, 0.14),
		PitchLine:    gg.HSL(150, 0.10, 0.72),
		Primary:      primary,
		PrimaryLight: primary.Lerp(gg.White, 0.35),
		PrimaryDark:  primary.Lerp(gg.Black, 0.35),
		Accent:       gg.Hex("#f2a33c"),
		Text:         gg.HSL(0, 0, 0.95),
		TextMuted:    gg.HSL(0, 0, 0.68),
		Panel:        gg.HSL(150, 0.16, 0.07),
		Grid:         gg.HSL(150, 0.06, 0.28),
	}
}

func setColor(dc *gg.Context, c gg.RGBA) {
	dc.SetColor(c.Color())
}

func withAlpha(c gg.RGBA, a float64) gg.RGBA {
	c.A = a
	return c
}
