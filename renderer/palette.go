// Package renderer draws heightmaps as images and terminal text.
package renderer

import (
	"image/color"

	"github.com/pthm-cable/earthnoise/config"
	"github.com/pthm-cable/earthnoise/terrain"
)

// Palette colours a normalised height by its terrain band.
type Palette struct {
	Low   [terrain.CellSnow + 1]color.RGBA // Colour at the bottom of each band
	High  [terrain.CellSnow + 1]color.RGBA // Colour at the top of each band
	Bands config.TerrainConfig
}

// DefaultPalette returns an earth-like ramp for the given band limits.
func DefaultPalette(b config.TerrainConfig) Palette {
	return Palette{
		Low: [...]color.RGBA{
			terrain.CellDeepWater: {8, 20, 60, 255},
			terrain.CellWater:     {20, 60, 140, 255},
			terrain.CellShore:     {200, 190, 130, 255},
			terrain.CellLowland:   {60, 140, 50, 255},
			terrain.CellHighland:  {110, 100, 70, 255},
			terrain.CellSnow:      {220, 220, 225, 255},
		},
		High: [...]color.RGBA{
			terrain.CellDeepWater: {20, 60, 140, 255},
			terrain.CellWater:     {60, 130, 200, 255},
			terrain.CellShore:     {220, 210, 160, 255},
			terrain.CellLowland:   {110, 160, 70, 255},
			terrain.CellHighland:  {150, 140, 120, 255},
			terrain.CellSnow:      {255, 255, 255, 255},
		},
		Bands: b,
	}
}

// Color returns the colour for normalised height h in cell c. The colour is
// interpolated across the band so relief stays visible inside it.
func (p Palette) Color(h float64, c terrain.Cell) color.RGBA {
	if c > terrain.CellSnow {
		return color.RGBA{255, 0, 255, 255}
	}
	lo, hi := terrain.BandRange(c, p.Bands)
	t := 0.5
	if hi > lo {
		t = clamp01((h - lo) / (hi - lo))
	}
	return mix(p.Low[c], p.High[c], t)
}

// Gradient maps v in [0,1] to a dark blue, cyan, yellow, white ramp. It is
// used when no classification is available.
func Gradient(v float64) color.RGBA {
	v = clamp01(v)
	var r, g, b float64
	switch {
	case v < 0.25:
		// Dark blue to blue
		t := v / 0.25
		r, g, b = 10+t*30, 20+t*60, 60+t*100
	case v < 0.5:
		// Blue to cyan
		t := (v - 0.25) / 0.25
		r, g, b = 40+t*20, 80+t*120, 160+t*40
	case v < 0.75:
		// Cyan to yellow-green
		t := (v - 0.5) / 0.25
		r, g, b = 60+t*140, 200-t*40, 200-t*150
	default:
		// Yellow-green to white
		t := (v - 0.75) / 0.25
		r, g, b = 200+t*55, 160+t*95, 50+t*205
	}
	return color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 255}
}

func mix(a, b color.RGBA, t float64) color.RGBA {
	l := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*t + 0.5)
	}
	return color.RGBA{R: l(a.R, b.R), G: l(a.G, b.G), B: l(a.B, b.B), A: 255}
}

func clamp01(v float64) float64 {
	switch {
	case v < 0 || v != v:
		return 0
	case v > 1:
		return 1
	}
	return v
}
