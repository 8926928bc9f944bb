package variation

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ifsflame/flameserver/geom"
	"github.com/ifsflame/flameserver/grid"
)

func TestCatalog_ListsAllThirteenWarps(t *testing.T) {
	items := Catalog()
	assert.Len(t, items, 13)

	ids := make(map[string]bool, len(items))
	for _, it := range items {
		ids[it.ID] = true
		assert.NotEmpty(t, it.FormulaLatex)
	}
	assert.True(t, ids["linear"])
	assert.True(t, ids["spherical"])
	assert.True(t, ids["horseshoe"])
}

func TestCreate_UnknownIDReturnsSentinel(t *testing.T) {
	_, err := Create("not-a-real-variation", Affine{}, 1.0, grid.Color{})
	assert.ErrorIs(t, err, ErrUnknownVariation)
}

func TestVariation_Apply_LinearIsIdentityAfterAffine(t *testing.T) {
	base := Affine{A: 2, B: 0, C: 1, D: 0, E: 2, F: 1}
	v, err := Create("linear", base, 1.0, grid.Color{})
	require.NoError(t, err)

	out := v.Apply(geom.Point{X: 1, Y: 1})
	assert.Equal(t, geom.Point{X: 3, Y: 3}, out)
}

func TestWarpSpherical(t *testing.T) {
	p := geom.Point{X: 1, Y: 1}
	out := warpSpherical(p)
	r2 := 2.0
	assert.InDelta(t, 1.0/r2, out.X, 1e-9)
	assert.InDelta(t, 1.0/r2, out.Y, 1e-9)
}

func TestAccept_BoundaryCases(t *testing.T) {
	cases := []struct {
		name       string
		a, b, d, e float64
		want       bool
	}{
		{"identity-ish contractive", 0.5, 0, 0, 0.5, true},
		{"a^2+d^2 at boundary fails", 1.0, 0, 0, 0.1, false},
		{"b^2+e^2 at boundary fails", 0.1, 1.0, 0, 0, false},
		{"zero affine accepted", 0, 0, 0, 0, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, Accept(c.a, c.b, c.d, c.e))
		})
	}
}

func TestSampleAffine_AlwaysReturnsAcceptedAffine(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 50; i++ {
		aff, color, weight, err := SampleAffine(r, AffineSamplerConfig{MinWeight: 0.1, MaxWeight: 1.0})
		require.NoError(t, err)
		assert.True(t, Accept(aff.A, aff.B, aff.D, aff.E))
		assert.GreaterOrEqual(t, weight, 0.1)
		assert.LessOrEqual(t, weight, 1.0)
		_ = color
	}
}

func TestTransformationSet_Sample_RespectsWeighting(t *testing.T) {
	heavy, err := Create("linear", Affine{A: 1, E: 1}, 99.0, grid.Color{})
	require.NoError(t, err)
	light, err := Create("spherical", Affine{A: 1, E: 1}, 1.0, grid.Color{})
	require.NoError(t, err)

	ts, err := NewTransformationSet([]Variation{heavy, light})
	require.NoError(t, err)

	r := rand.New(rand.NewSource(7))
	heavyCount := 0
	const trials = 2000
	for i := 0; i < trials; i++ {
		if ts.Sample(r).ID == "linear" {
			heavyCount++
		}
	}
	// heavy carries 99/100 of the weight; allow generous slack for the RNG.
	assert.Greater(t, heavyCount, trials*9/10)
}

func TestNewTransformationSet_EmptyIsError(t *testing.T) {
	_, err := NewTransformationSet(nil)
	assert.ErrorIs(t, err, ErrEmptySelection)
}

func TestSymmetryRotation_IdentityAtZero(t *testing.T) {
	step := NewSymmetryStep(0, 4)
	p := geom.Point{X: 1, Y: 2}
	assert.Equal(t, p, step.Apply(p))
}

func TestSymmetryRotation_FullTurnReturnsToStart(t *testing.T) {
	const k = 5
	p := geom.Point{X: 1, Y: 0}
	for s := 0; s < k; s++ {
		p = NewSymmetryStep(1, k).Apply(p)
	}
	assert.InDelta(t, 1.0, p.X, 1e-9)
	assert.InDelta(t, 0.0, p.Y, 1e-9)
}

func TestGenerateTransformationSet_UnknownID(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	_, err := GenerateTransformationSet(r, []string{"bogus"}, AffineSamplerConfig{MinWeight: 0.1, MaxWeight: 1.0})
	assert.ErrorIs(t, err, ErrUnknownVariation)
}

func TestGenerateTransformationSet_BuildsUsableSet(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	ts, err := GenerateTransformationSet(r, []string{"linear", "swirl"}, AffineSamplerConfig{MinWeight: 0.1, MaxWeight: 1.0})
	require.NoError(t, err)
	assert.Equal(t, 2, ts.Len())

	v := ts.Sample(rand.New(rand.NewSource(2)))
	out := v.Apply(geom.Point{X: 0.1, Y: 0.1})
	assert.False(t, math.IsNaN(out.X))
	assert.False(t, math.IsNaN(out.Y))
}
