package terrain

import (
	"github.com/pthm-cable/earthnoise/config"
)

// Cell represents the type of terrain at a heightmap pixel.
type Cell uint8

const (
	CellDeepWater Cell = iota
	CellWater
	CellShore
	CellLowland
	CellHighland
	CellSnow
)

var cellNames = [...]string{"deep_water", "water", "shore", "lowland", "highland", "snow"}

func (c Cell) String() string {
	if int(c) < len(cellNames) {
		return cellNames[c]
	}
	return "unknown"
}

// IsLand reports whether the cell lies above sea level.
func (c Cell) IsLand() bool {
	return c >= CellShore
}

// ClassifyHeight maps a normalised height in [0,1] to a terrain band.
func ClassifyHeight(h float64, t config.TerrainConfig) Cell {
	switch {
	case h < t.DeepLevel:
		return CellDeepWater
	case h < t.SeaLevel:
		return CellWater
	case h < t.SeaLevel+t.ShoreWidth:
		return CellShore
	case h < t.MountainLevel:
		return CellLowland
	case h < t.SnowLevel:
		return CellHighland
	default:
		return CellSnow
	}
}

// Classify normalises the heightmap and bands every pixel.
func (h *Heightmap) Classify(t config.TerrainConfig) []Cell {
	return h.Normalized().ClassifyNormalized(t)
}

// ClassifyNormalized bands a heightmap whose values are already in [0,1].
func (h *Heightmap) ClassifyNormalized(t config.TerrainConfig) []Cell {
	cells := make([]Cell, len(h.Values))
	for i, v := range h.Values {
		cells[i] = ClassifyHeight(v, t)
	}
	return cells
}

// LandFraction returns the share of cells above sea level.
func LandFraction(cells []Cell) float64 {
	if len(cells) == 0 {
		return 0
	}
	land := 0
	for _, c := range cells {
		if c.IsLand() {
			land++
		}
	}
	return float64(land) / float64(len(cells))
}

// BandRange returns the normalised height interval covered by cell c.
func BandRange(c Cell, t config.TerrainConfig) (lo, hi float64) {
	switch c {
	case CellDeepWater:
		return 0, t.DeepLevel
	case CellWater:
		return t.DeepLevel, t.SeaLevel
	case CellShore:
		return t.SeaLevel, t.SeaLevel + t.ShoreWidth
	case CellLowland:
		return t.SeaLevel + t.ShoreWidth, t.MountainLevel
	case CellHighland:
		return t.MountainLevel, t.SnowLevel
	default:
		return t.SnowLevel, 1
	}
}
