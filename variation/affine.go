package variation

import "github.com/ifsflame/flameserver/geom"

// Affine is the base linear transform (a*x+b*y+c, d*x+e*y+f) applied before
// a variation's nonlinear warp.
type Affine struct {
	A, B, C, D, E, F float64
}

// Apply computes the affine map of p.
func (aff Affine) Apply(p geom.Point) geom.Point {
	return geom.Point{
		X: aff.A*p.X + aff.B*p.Y + aff.C,
		Y: aff.D*p.X + aff.E*p.Y + aff.F,
	}
}
