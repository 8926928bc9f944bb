package variation

import (
	"math"

	"github.com/ifsflame/flameserver/geom"
)

// warpFunc is a nonlinear variation warp F(u,v), applied to the result of
// the variation's base affine transform.
type warpFunc func(p geom.Point) geom.Point

func warpLinear(p geom.Point) geom.Point {
	return p
}

func warpSpherical(p geom.Point) geom.Point {
	r2 := p.X*p.X + p.Y*p.Y
	return geom.Point{X: p.X / r2, Y: p.Y / r2}
}

func warpPolar(p geom.Point) geom.Point {
	r := p.R()
	theta := p.Theta()
	return geom.Point{X: theta / math.Pi, Y: r - 1}
}

func warpHandkerchief(p geom.Point) geom.Point {
	r := p.R()
	theta := p.Theta()
	return geom.Point{
		X: r * math.Sin(theta+r),
		Y: r * math.Cos(theta-r),
	}
}

func warpHeart(p geom.Point) geom.Point {
	r := p.R()
	theta := p.Theta()
	return geom.Point{
		X: r * math.Sin(theta*r),
		Y: -r * math.Cos(theta*r),
	}
}

func warpDisc(p geom.Point) geom.Point {
	r := p.R()
	theta := p.Theta()
	return geom.Point{
		X: (theta / math.Pi) * math.Sin(math.Pi*r),
		Y: (theta / math.Pi) * math.Cos(math.Pi*r),
	}
}

func warpSpiral(p geom.Point) geom.Point {
	r := p.R()
	theta := p.Theta()
	return geom.Point{
		X: math.Cos(theta)/r + math.Sin(r),
		Y: math.Sin(theta)/r - math.Cos(r),
	}
}

func warpHyperbolic(p geom.Point) geom.Point {
	r := p.R()
	theta := p.Theta()
	return geom.Point{
		X: math.Sin(theta) / r,
		Y: r * math.Cos(theta),
	}
}

func warpDiamond(p geom.Point) geom.Point {
	r := p.R()
	theta := p.Theta()
	return geom.Point{
		X: math.Sin(theta) * math.Cos(r),
		Y: math.Sin(r) * math.Cos(theta),
	}
}

func warpEx(p geom.Point) geom.Point {
	r := p.R()
	theta := p.Theta()
	p0 := math.Sin(theta + r)
	p1 := math.Cos(theta - r)
	p03 := p0 * p0 * p0
	p13 := p1 * p1 * p1
	return geom.Point{
		X: r * (p03 + p13),
		Y: r * (p03 - p13),
	}
}

func warpSinusoidal(p geom.Point) geom.Point {
	return geom.Point{X: math.Sin(p.X), Y: math.Cos(p.Y)}
}

func warpSwirl(p geom.Point) geom.Point {
	r2 := p.X*p.X + p.Y*p.Y
	sinr2, cosr2 := math.Sin(r2), math.Cos(r2)
	return geom.Point{
		X: p.X*sinr2 - p.Y*cosr2,
		Y: p.X*cosr2 + p.Y*sinr2,
	}
}

func warpHorseshoe(p geom.Point) geom.Point {
	r := p.R()
	return geom.Point{
		X: (p.X - p.Y) * (p.X + p.Y) / r,
		Y: 2 * p.X * p.Y / r,
	}
}
