package noise

import (
	"math"
)

// Bound is the documented envelope of Sample3D for the canonical gradient
// set. Observed extremes sit just under 1.
const Bound = 1.0

// Source is anything that yields a scalar for a 3D point.
type Source interface {
	Sample3D(x, y, z float64) float64
}

// Field is single-octave gradient noise over a permutation table.
// It holds no mutable state and is safe for concurrent use.
type Field struct {
	table *PermutationTable
}

// NewField creates a noise field. A nil table selects CanonicalTable.
func NewField(table *PermutationTable) *Field {
	if table == nil {
		table = CanonicalTable()
	}
	return &Field{table: table}
}

// Table returns the permutation table backing the field.
func (f *Field) Table() *PermutationTable {
	return f.table
}

// Sample3D returns the noise value at (x, y, z). It is zero on every integer
// lattice point and periodic with period 256 on each axis. NaN or infinite
// inputs yield NaN.
func (f *Field) Sample3D(x, y, z float64) float64 {
	p := &f.table.perm

	// Find unit cube
	fx, fy, fz := math.Floor(x), math.Floor(y), math.Floor(z)
	X := cell(fx)
	Y := cell(fy)
	Z := cell(fz)

	// Relative position in cube
	x -= fx
	y -= fy
	z -= fz

	u := fade(x)
	v := fade(y)
	w := fade(z)

	// Hash cube corners
	A := p[X] + Y
	AA := p[A] + Z
	AB := p[A+1] + Z
	B := p[X+1] + Y
	BA := p[B] + Z
	BB := p[B+1] + Z

	// x first, then y, then z
	x00 := lerp(u, grad3D(p[AA], x, y, z), grad3D(p[BA], x-1, y, z))
	x10 := lerp(u, grad3D(p[AB], x, y-1, z), grad3D(p[BB], x-1, y-1, z))
	x01 := lerp(u, grad3D(p[AA+1], x, y, z-1), grad3D(p[BA+1], x-1, y, z-1))
	x11 := lerp(u, grad3D(p[AB+1], x, y-1, z-1), grad3D(p[BB+1], x-1, y-1, z-1))

	y0 := lerp(v, x00, x10)
	y1 := lerp(v, x01, x11)

	return lerp(w, y0, y1)
}

// cell reduces an integral coordinate to its lattice index in [0,255].
// Beyond 2^53 the reduction goes through math.Mod, since converting such
// values to int is implementation-defined and differs between amd64 and arm64.
func cell(f float64) int {
	if math.Abs(f) < 1<<53 {
		return int(f) & 255
	}
	m := math.Mod(f, 256)
	if m < 0 {
		m += 256
	}
	return int(m) & 255
}

// The explicit float64 conversions below keep the compiler from fusing
// multiply-add pairs, so results match bit for bit across architectures.

// fade is 6t^5 - 15t^4 + 10t^3.
func fade(t float64) float64 {
	a := float64(t*6) - 15
	b := float64(t*a) + 10
	return t * t * t * b
}

func lerp(t, a, b float64) float64 {
	return a + float64(t*(b-a))
}

// grad3D dots one of 12 cube-edge directions (4 repeated to fill 16
// slots) with (x, y, z), chosen by the low 4 bits of hash.
func grad3D(hash int, x, y, z float64) float64 {
	h := hash & 15
	u := x
	if h >= 8 {
		u = y
	}
	v := y
	if h >= 4 {
		if h == 12 || h == 14 {
			v = x
		} else {
			v = z
		}
	}
	if h&1 != 0 {
		u = -u
	}
	if h&2 != 0 {
		v = -v
	}
	return u + v
}
