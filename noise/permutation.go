// Package noise implements 3D gradient noise over a fixed permutation table
// and the octave summation used for terrain synthesis.
package noise

import (
	"errors"
	"fmt"
	"sync"
)

const (
	// SeedSize is the length of a permutation seed.
	SeedSize = 256
	// TableSize is the length of the duplicated lookup table.
	TableSize = 2 * SeedSize
)

// ErrInvalidSeed is matched by every *InvalidSeedError.
var ErrInvalidSeed = errors.New("noise: invalid permutation seed")

// InvalidSeedError reports why a seed is not a permutation of 0..255.
type InvalidSeedError struct {
	Len   int // length of the rejected seed
	Index int // offending position, -1 for a length mismatch
	Value int // value at Index
	Prev  int // earlier position holding the same value, -1 if none
}

func (e *InvalidSeedError) Error() string {
	switch {
	case e.Index < 0:
		return fmt.Sprintf("noise: seed has %d entries, want %d", e.Len, SeedSize)
	case e.Prev >= 0:
		return fmt.Sprintf("noise: seed value %d at index %d repeats index %d", e.Value, e.Index, e.Prev)
	default:
		return fmt.Sprintf("noise: seed value %d at index %d outside [0,255]", e.Value, e.Index)
	}
}

func (e *InvalidSeedError) Unwrap() error { return ErrInvalidSeed }

// canonicalSeed is Ken Perlin's reference permutation.
var canonicalSeed = [SeedSize]int{
	151, 160, 137, 91, 90, 15, 131, 13, 201, 95, 96, 53, 194, 233, 7, 225,
	140, 36, 103, 30, 69, 142, 8, 99, 37, 240, 21, 10, 23, 190, 6, 148,
	247, 120, 234, 75, 0, 26, 197, 62, 94, 252, 219, 203, 117, 35, 11, 32,
	57, 177, 33, 88, 237, 149, 56, 87, 174, 20, 125, 136, 171, 168, 68, 175,
	74, 165, 71, 134, 139, 48, 27, 166, 77, 146, 158, 231, 83, 111, 229, 122,
	60, 211, 133, 230, 220, 105, 92, 41, 55, 46, 245, 40, 244, 102, 143, 54,
	65, 25, 63, 161, 1, 216, 80, 73, 209, 76, 132, 187, 208, 89, 18, 169,
	200, 196, 135, 130, 116, 188, 159, 86, 164, 100, 109, 198, 173, 186, 3, 64,
	52, 217, 226, 250, 124, 123, 5, 202, 38, 147, 118, 126, 255, 82, 85, 212,
	207, 206, 59, 227, 47, 16, 58, 17, 182, 189, 28, 42, 223, 183, 170, 213,
	119, 248, 152, 2, 44, 154, 163, 70, 221, 153, 101, 155, 167, 43, 172, 9,
	129, 22, 39, 253, 19, 98, 108, 110, 79, 113, 224, 232, 178, 185, 112, 104,
	218, 246, 97, 228, 251, 34, 242, 193, 238, 210, 144, 12, 191, 179, 162, 241,
	81, 51, 145, 235, 249, 14, 239, 107, 49, 192, 214, 31, 181, 199, 106, 157,
	184, 84, 204, 176, 115, 121, 50, 45, 127, 4, 150, 254, 138, 236, 205, 93,
	222, 114, 67, 29, 24, 72, 243, 141, 128, 195, 78, 66, 215, 61, 156, 180,
}

// CanonicalSeed returns a copy of the reference permutation.
func CanonicalSeed() []int {
	s := make([]int, SeedSize)
	copy(s, canonicalSeed[:])
	return s
}

// PermutationTable hashes lattice coordinates. Index i and i+256 hold the
// same value so adjacent-cell lookups never need a second mask.
// A table is immutable once built.
type PermutationTable struct {
	perm [TableSize]int
}

// BuildPermutationTable validates seed and duplicates it into a 512-entry table.
func BuildPermutationTable(seed []int) (*PermutationTable, error) {
	if len(seed) != SeedSize {
		return nil, &InvalidSeedError{Len: len(seed), Index: -1, Prev: -1}
	}

	var seen [SeedSize]int
	for i := range seen {
		seen[i] = -1
	}
	for i, v := range seed {
		if v < 0 || v >= SeedSize {
			return nil, &InvalidSeedError{Len: len(seed), Index: i, Value: v, Prev: -1}
		}
		if seen[v] >= 0 {
			return nil, &InvalidSeedError{Len: len(seed), Index: i, Value: v, Prev: seen[v]}
		}
		seen[v] = i
	}

	t := &PermutationTable{}
	for i, v := range seed {
		t.perm[i] = v
		t.perm[i+SeedSize] = v
	}
	return t, nil
}

// CanonicalTable returns the shared table built from CanonicalSeed.
// It is constructed on first use and never modified.
var CanonicalTable = sync.OnceValue(func() *PermutationTable {
	t, err := BuildPermutationTable(canonicalSeed[:])
	if err != nil {
		panic(err)
	}
	return t
})

// Lookup returns the hash stored at index, which must be in [0,511].
func (t *PermutationTable) Lookup(index int) int {
	return t.perm[index]
}

// Seed returns a copy of the permutation the table was built from.
func (t *PermutationTable) Seed() []int {
	s := make([]int, SeedSize)
	copy(s, t.perm[:SeedSize])
	return s
}
