// Package geom holds the small value types shared by the variation library
// and the chaos-game renderer: points in world space and the world rect.
package geom

import "math"

// Point is a 2D coordinate in the chaos-game's world space.
type Point struct {
	X, Y float64
}

// R returns the point's distance from the origin.
func (p Point) R() float64 {
	return math.Sqrt(p.X*p.X + p.Y*p.Y)
}

// Theta returns atan(x/y), not the conventional atan2(y,x). Quadrant
// information is lost and the value diverges at y=0; this mirrors the
// source renderer's variation formulas and is preserved intentionally.
func (p Point) Theta() float64 {
	return math.Atan(p.X / p.Y)
}
