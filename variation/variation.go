package variation

import (
	"errors"
	"fmt"

	"github.com/ifsflame/flameserver/geom"
	"github.com/ifsflame/flameserver/grid"
)

// ErrUnknownVariation is returned by Create when id does not name a
// registered variation.
var ErrUnknownVariation = errors.New("variation: unknown id")

// catalogEntry is the immutable, registry-side description of one named
// variation: its warp function and its LaTeX formula for the catalog API.
type catalogEntry struct {
	id           string
	name         string
	formulaLatex string
	warp         warpFunc
}

var catalog = []catalogEntry{
	{"linear", "Linear", `(u, v)`, warpLinear},
	{"spherical", "Spherical", `\left(\frac{u}{r^2}, \frac{v}{r^2}\right)`, warpSpherical},
	{"polar", "Polar", `\left(\frac{\theta}{\pi}, r - 1\right)`, warpPolar},
	{"handkerchief", "Handkerchief", `\left(r\sin(\theta+r), r\cos(\theta-r)\right)`, warpHandkerchief},
	{"heart", "Heart", `\left(r\sin(\theta r), -r\cos(\theta r)\right)`, warpHeart},
	{"disc", "Disc", `\left(\frac{\theta}{\pi}\sin(\pi r), \frac{\theta}{\pi}\cos(\pi r)\right)`, warpDisc},
	{"spiral", "Spiral", `\left(\frac{\cos\theta}{r}+\sin r, \frac{\sin\theta}{r}-\cos r\right)`, warpSpiral},
	{"hyperbolic", "Hyperbolic", `\left(\frac{\sin\theta}{r}, r\cos\theta\right)`, warpHyperbolic},
	{"diamond", "Diamond", `\left(\sin\theta\cos r, \sin r\cos\theta\right)`, warpDiamond},
	{"ex", "Ex", `\left(r(p_0^3+p_1^3), r(p_0^3-p_1^3)\right),\ p_0=\sin(\theta+r),\ p_1=\cos(\theta-r)`, warpEx},
	{"sinusoidal", "Sinusoidal", `(\sin u, \cos v)`, warpSinusoidal},
	{"swirl", "Swirl", `\left(u\sin r^2 - v\cos r^2, u\cos r^2 + v\sin r^2\right)`, warpSwirl},
	{"horseshoe", "Horseshoe", `\left(\frac{(u-v)(u+v)}{r}, \frac{2uv}{r}\right)`, warpHorseshoe},
}

func lookup(id string) (catalogEntry, bool) {
	for _, c := range catalog {
		if c.id == id {
			return c, true
		}
	}
	return catalogEntry{}, false
}

// CatalogItem is the public, read-only description of a registered variation
// returned by the /api/variations endpoint.
type CatalogItem struct {
	ID           string
	Name         string
	FormulaLatex string
}

// Catalog returns the stable, ordered list of every registered variation.
func Catalog() []CatalogItem {
	items := make([]CatalogItem, len(catalog))
	for i, c := range catalog {
		items[i] = CatalogItem{ID: c.id, Name: c.name, FormulaLatex: c.formulaLatex}
	}
	return items
}

// Variation is an immutable, constructed instance of a catalog entry: a base
// affine transform, a weight, and a color, tagged with its catalog id/name.
type Variation struct {
	ID     string
	Name   string
	Base   Affine
	Weight float64
	Color  grid.Color
	warp   warpFunc
}

// Create builds a Variation from a registered id, a base affine, weight, and
// color. It returns ErrUnknownVariation if id is not registered.
func Create(id string, base Affine, weight float64, color grid.Color) (Variation, error) {
	entry, ok := lookup(id)
	if !ok {
		return Variation{}, fmt.Errorf("%w: %q", ErrUnknownVariation, id)
	}
	return Variation{
		ID:     entry.id,
		Name:   entry.name,
		Base:   base,
		Weight: weight,
		Color:  color,
		warp:   entry.warp,
	}, nil
}

// Apply computes F_k(A*p): the base affine followed by the variation's
// nonlinear warp.
func (v Variation) Apply(p geom.Point) geom.Point {
	return v.warp(v.Base.Apply(p))
}
