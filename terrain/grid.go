// Package terrain turns fractal noise into heightmaps and classifies them
// into terrain bands.
package terrain

import (
	"fmt"
	"math"

	"github.com/pthm-cable/earthnoise/config"
)

// Projections understood by Grid.
const (
	ProjectionPlane  = "plane"
	ProjectionSphere = "sphere"
)

// Grid maps heightmap pixels to 3D noise coordinates.
type Grid struct {
	Width, Height int
	Scale         float64 // Noise units per pixel
	OriginX       float64
	OriginY       float64
	OriginZ       float64
	Projection    string
}

// GridFromConfig copies grid settings out of the config.
func GridFromConfig(c config.GridConfig) Grid {
	return Grid{
		Width:      c.Width,
		Height:     c.Height,
		Scale:      c.Scale,
		OriginX:    c.OriginX,
		OriginY:    c.OriginY,
		OriginZ:    c.OriginZ,
		Projection: c.Projection,
	}
}

// Validate rejects grids that cannot produce finite sample points.
func (g Grid) Validate() error {
	if g.Width <= 0 || g.Height <= 0 {
		return fmt.Errorf("terrain: grid size %dx%d", g.Width, g.Height)
	}
	if !(g.Scale > 0) || math.IsInf(g.Scale, 0) {
		return fmt.Errorf("terrain: grid scale %v", g.Scale)
	}
	for _, o := range []float64{g.OriginX, g.OriginY, g.OriginZ} {
		if math.IsNaN(o) || math.IsInf(o, 0) {
			return fmt.Errorf("terrain: grid origin %v", o)
		}
	}
	switch g.Projection {
	case "", ProjectionPlane, ProjectionSphere:
	default:
		return fmt.Errorf("terrain: unknown projection %q", g.Projection)
	}
	for _, c := range [][2]int{{0, 0}, {g.Width - 1, 0}, {0, g.Height - 1}, {g.Width - 1, g.Height - 1}} {
		x, y, z := g.Point(c[0], c[1])
		if !finite(x) || !finite(y) || !finite(z) {
			return fmt.Errorf("terrain: grid corner (%d,%d) maps to (%v, %v, %v)", c[0], c[1], x, y, z)
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Point returns the noise coordinate for pixel (px, py).
//
// The plane projection lays pixels on z = OriginZ. The sphere projection
// treats the grid as an equirectangular map: columns are longitude, rows are
// latitude, and the radius is chosen so one pixel at the equator spans Scale
// noise units. Sampling a 3D field on the sphere gives a map with no seam at
// the antimeridian and no pinching at the poles.
func (g Grid) Point(px, py int) (x, y, z float64) {
	if g.Projection != ProjectionSphere {
		return g.OriginX + float64(px)*g.Scale, g.OriginY + float64(py)*g.Scale, g.OriginZ
	}

	lon := (float64(px)+0.5)/float64(g.Width)*2*math.Pi - math.Pi
	lat := math.Pi/2 - (float64(py)+0.5)/float64(g.Height)*math.Pi
	r := g.Scale * float64(g.Width) / (2 * math.Pi)

	cosLat := math.Cos(lat)
	x = g.OriginX + r*cosLat*math.Cos(lon)
	y = g.OriginY + r*cosLat*math.Sin(lon)
	z = g.OriginZ + r*math.Sin(lat)
	return x, y, z
}
