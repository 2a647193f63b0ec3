package noise

import (
	"errors"
	"fmt"

	perlin "github.com/aquilax/go-perlin"
	"github.com/ojrac/opensimplex-go"
)

// Basis names accepted by NewSource.
const (
	BasisPerlin      = "perlin"
	BasisOpenSimplex = "opensimplex"
	BasisGEGL        = "gegl"
)

// ErrUnknownBasis is returned by NewSource for an unrecognised basis name.
var ErrUnknownBasis = errors.New("noise: unknown basis")

// openSimplexSource adapts opensimplex.Noise to Source.
type openSimplexSource struct {
	n opensimplex.Noise
}

func (s openSimplexSource) Sample3D(x, y, z float64) float64 {
	return s.n.Eval3(x, y, z)
}

// geglSource adapts the single-octave GEGL Perlin generator to Source.
type geglSource struct {
	p *perlin.Perlin
}

func (s geglSource) Sample3D(x, y, z float64) float64 {
	return s.p.Noise3D(x, y, z)
}

// NewSource returns the single-octave basis named by basis. The perlin basis
// uses table (nil for canonical); the others are seeded from seed.
func NewSource(basis string, table *PermutationTable, seed int64) (Source, error) {
	switch basis {
	case "", BasisPerlin:
		return NewField(table), nil
	case BasisOpenSimplex:
		return openSimplexSource{n: opensimplex.New(seed)}, nil
	case BasisGEGL:
		// alpha and beta only matter for n > 1
		return geglSource{p: perlin.NewPerlin(2, 2, 1, seed)}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBasis, basis)
	}
}
