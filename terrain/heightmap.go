package terrain

import (
	"fmt"

	"github.com/dgravesa/go-parallel/parallel"

	"github.com/pthm-cable/earthnoise/noise"
)

// Sampler evaluates fractal noise over a single-octave source.
type Sampler struct {
	Source  noise.Source
	Fractal noise.Fractal
	Compat  bool // Sum silently for octaves <= 0 instead of failing
}

// Height returns the fractal value at (x, y, z).
func (s Sampler) Height(x, y, z float64) (float64, error) {
	if s.Compat {
		return s.Fractal.Compat(s.Source, x, y, z), nil
	}
	return s.Fractal.Sample(s.Source, x, y, z)
}

// Heightmap is a row-major grid of raw fractal heights.
type Heightmap struct {
	W, H   int
	Values []float64
}

// Generate fills a heightmap for g. Rows are sampled concurrently; each
// goroutine writes its own row, and the result does not depend on
// scheduling. Unless s.Compat is set, the first failing point (in row-major
// order) aborts generation with its error.
func Generate(s Sampler, g Grid) (*Heightmap, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if !s.Compat {
		if err := s.Fractal.Validate(); err != nil {
			return nil, err
		}
	}

	hm := &Heightmap{W: g.Width, H: g.Height, Values: make([]float64, g.Width*g.Height)}
	rowErrs := make([]error, g.Height)

	parallel.For(g.Height, func(py, _ int) {
		row := hm.Values[py*g.Width : (py+1)*g.Width]
		for px := range row {
			x, y, z := g.Point(px, py)
			v, err := s.Height(x, y, z)
			if err != nil {
				rowErrs[py] = fmt.Errorf("terrain: pixel (%d,%d): %w", px, py, err)
				return
			}
			row[px] = v
		}
	})
	for _, err := range rowErrs {
		if err != nil {
			return nil, err
		}
	}
	return hm, nil
}

// At returns the height at (x, y).
func (h *Heightmap) At(x, y int) float64 {
	return h.Values[y*h.W+x]
}

// MinMax returns the extremes of the heightmap. An empty map gives 0, 0.
func (h *Heightmap) MinMax() (lo, hi float64) {
	if len(h.Values) == 0 {
		return 0, 0
	}
	lo, hi = h.Values[0], h.Values[0]
	for _, v := range h.Values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// Normalized returns a copy rescaled to [0,1]. A flat map becomes all 0.5.
func (h *Heightmap) Normalized() *Heightmap {
	out := &Heightmap{W: h.W, H: h.H, Values: make([]float64, len(h.Values))}
	lo, hi := h.MinMax()
	span := hi - lo
	for i, v := range h.Values {
		if span == 0 {
			out.Values[i] = 0.5
			continue
		}
		out.Values[i] = (v - lo) / span
	}
	return out
}
