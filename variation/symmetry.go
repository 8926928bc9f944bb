package variation

import (
	"math"

	"github.com/ifsflame/flameserver/geom"
)

// SymmetryRotation applies a rotation by theta: (cosθ -sinθ; sinθ cosθ).
type SymmetryRotation struct {
	Theta float64
}

// NewSymmetryStep returns the rotation for replica s of K, at angle
// s*2π/K.
func NewSymmetryStep(s, k int) SymmetryRotation {
	return SymmetryRotation{Theta: float64(s) * 2 * math.Pi / float64(k)}
}

// Apply rotates p by the rotation's theta.
func (s SymmetryRotation) Apply(p geom.Point) geom.Point {
	cos, sin := math.Cos(s.Theta), math.Sin(s.Theta)
	return geom.Point{
		X: cos*p.X - sin*p.Y,
		Y: sin*p.X + cos*p.Y,
	}
}
