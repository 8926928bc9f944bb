package variation

import (
	"errors"
	"math/rand"

	"github.com/ifsflame/flameserver/grid"
)

// ErrInvalidRange is returned by generateF64 when min >= max.
var ErrInvalidRange = errors.New("variation: invalid random range")

func generateF64(r *rand.Rand, min, max float64) (float64, error) {
	if min >= max {
		return 0, ErrInvalidRange
	}
	return min + r.Float64()*(max-min), nil
}

// AffineSamplerConfig bounds the weight range used by rejection sampling.
type AffineSamplerConfig struct {
	MinWeight float64
	MaxWeight float64
}

// SampleAffine draws a random base affine, color, and weight, accepting only
// when the contractivity inequalities hold, retrying otherwise. The
// inequalities are preserved bit-exactly from the source renderer and are
// intentionally non-standard (Open Question 2): they mix individual-column
// contractivity bounds with a joint bound keyed on the determinant.
func SampleAffine(r *rand.Rand, cfg AffineSamplerConfig) (Affine, grid.Color, float64, error) {
	for {
		a, err := generateF64(r, -1.5, 1.5)
		if err != nil {
			return Affine{}, grid.Color{}, 0, err
		}
		b, err := generateF64(r, -1.5, 1.5)
		if err != nil {
			return Affine{}, grid.Color{}, 0, err
		}
		c, err := generateF64(r, -2.0, 2.0)
		if err != nil {
			return Affine{}, grid.Color{}, 0, err
		}
		d, err := generateF64(r, -1.5, 1.5)
		if err != nil {
			return Affine{}, grid.Color{}, 0, err
		}
		e, err := generateF64(r, -1.5, 1.5)
		if err != nil {
			return Affine{}, grid.Color{}, 0, err
		}
		f, err := generateF64(r, -2.0, 2.0)
		if err != nil {
			return Affine{}, grid.Color{}, 0, err
		}

		if !Accept(a, b, d, e) {
			continue
		}

		weight, err := generateF64(r, cfg.MinWeight, cfg.MaxWeight)
		if err != nil {
			return Affine{}, grid.Color{}, 0, err
		}
		color := randomColor(r)
		return Affine{A: a, B: b, C: c, D: d, E: e, F: f}, color, weight, nil
	}
}

// Accept implements the §4.E.1 acceptance predicate exactly:
//
//	a²+d² < 1  ∧  b²+e² < 1  ∧  a²+b²+d²+e² < 1 + (ae-bd)²
//
// Exposed standalone so property tests can probe the boundary bit-for-bit
// without going through the RNG.
func Accept(a, b, d, e float64) bool {
	det := a*e - b*d
	return (a*a+d*d) < 1.0 &&
		(b*b+e*e) < 1.0 &&
		(a*a+b*b+d*d+e*e) < 1.0+det*det
}

func randomColor(r *rand.Rand) grid.Color {
	return grid.Color{
		R: uint8(r.Intn(256)),
		G: uint8(r.Intn(256)),
		B: uint8(r.Intn(256)),
	}
}
