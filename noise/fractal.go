package noise

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidParameter is matched by every *InvalidParameterError.
var ErrInvalidParameter = errors.New("noise: invalid fractal parameter")

// InvalidParameterError names the rejected fractal argument.
type InvalidParameterError struct {
	Name  string
	Value float64
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("noise: invalid %s: %v", e.Name, e.Value)
}

func (e *InvalidParameterError) Unwrap() error { return ErrInvalidParameter }

// Fractal layers octaves of a Source. Octave i is sampled at frequency
// Persistence^i and weighted by Gain^i; both are direct powers, not running
// products. The sum is not normalised, so its range depends on all three
// parameters.
type Fractal struct {
	Octaves     int
	Persistence float64
	Gain        float64
}

// Validate rejects a non-positive octave count and non-finite bases.
func (fr Fractal) Validate() error {
	if fr.Octaves <= 0 {
		return &InvalidParameterError{Name: "octaves", Value: float64(fr.Octaves)}
	}
	if !finite(fr.Persistence) {
		return &InvalidParameterError{Name: "persistence", Value: fr.Persistence}
	}
	if !finite(fr.Gain) {
		return &InvalidParameterError{Name: "gain", Value: fr.Gain}
	}
	return nil
}

// Sample validates the parameters and coordinates, then sums the octaves.
func (fr Fractal) Sample(src Source, x, y, z float64) (float64, error) {
	if err := fr.Validate(); err != nil {
		return 0, err
	}
	for _, c := range [...]struct {
		name string
		v    float64
	}{{"x", x}, {"y", y}, {"z", z}} {
		if !finite(c.v) {
			return 0, &InvalidParameterError{Name: c.name, Value: c.v}
		}
	}
	return fr.sum(src, x, y, z, true)
}

// Compat sums the octaves without validation. A non-positive octave count
// gives an empty sum of 0 and non-finite inputs propagate as NaN.
func (fr Fractal) Compat(src Source, x, y, z float64) float64 {
	v, _ := fr.sum(src, x, y, z, false)
	return v
}

// sum adds the octaves. With strict set it stops at the first octave whose
// frequency, scaled coordinate, amplitude or running total leaves the finite
// range and blames the base that drove it there.
func (fr Fractal) sum(src Source, x, y, z float64, strict bool) (float64, error) {
	total := 0.0
	for i := 0; i < fr.Octaves; i++ {
		freq := math.Pow(fr.Persistence, float64(i))
		amp := math.Pow(fr.Gain, float64(i))
		sx, sy, sz := x*freq, y*freq, z*freq
		if strict {
			if !finite(freq) || !finite(sx) || !finite(sy) || !finite(sz) {
				return 0, &InvalidParameterError{Name: "persistence", Value: fr.Persistence}
			}
			if !finite(amp) {
				return 0, &InvalidParameterError{Name: "gain", Value: fr.Gain}
			}
		}
		total += float64(src.Sample3D(sx, sy, sz) * amp)
		if strict && !finite(total) {
			return 0, &InvalidParameterError{Name: "gain", Value: fr.Gain}
		}
	}
	return total, nil
}

// FractalSample3D sums octaves of f at (x, y, z). It fails with
// *InvalidParameterError for octaves <= 0, any non-finite argument, or
// bases large enough to push an octave past the float64 range.
func (f *Field) FractalSample3D(x, y, z float64, octaves int, persistence, gain float64) (float64, error) {
	return Fractal{Octaves: octaves, Persistence: persistence, Gain: gain}.Sample(f, x, y, z)
}

// FractalSample3DCompat is FractalSample3D with the legacy policy: it never
// fails and returns 0 when octaves <= 0.
func (f *Field) FractalSample3DCompat(x, y, z float64, octaves int, persistence, gain float64) float64 {
	return Fractal{Octaves: octaves, Persistence: persistence, Gain: gain}.Compat(f, x, y, z)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
