package grid

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccumulate_FirstHitSetsColorOutright(t *testing.T) {
	g := New(2, 2)
	g.Accumulate(0, 0, Color{R: 10, G: 20, B: 30})

	acc, ok := g.Pixel(0, 0)
	require.True(t, ok)
	assert.Equal(t, Color{R: 10, G: 20, B: 30}, acc.Color)
	assert.Equal(t, int64(1), acc.Hits)
}

// TestAccumulate_HalvingRule matches S5: four hits on one cell with
// (255,0,0),(0,0,0),(0,255,0),(0,0,255) in order must settle at (31,63,127).
// R: 255 -> 127 -> 63 -> 31; G: 0 -> 0 -> 127 -> 63; B: 0 -> 0 -> 0 -> 127.
func TestAccumulate_HalvingRule(t *testing.T) {
	g := New(2, 2)
	hits := []Color{
		{R: 255, G: 0, B: 0},
		{R: 0, G: 0, B: 0},
		{R: 0, G: 255, B: 0},
		{R: 0, G: 0, B: 255},
	}
	for _, c := range hits {
		g.Accumulate(1, 1, c)
	}

	acc, ok := g.Pixel(1, 1)
	require.True(t, ok)
	assert.Equal(t, Color{R: 31, G: 63, B: 127}, acc.Color)
	assert.Equal(t, int64(4), acc.Hits)
}

func TestAccumulate_OutOfBoundsIsNoOp(t *testing.T) {
	g := New(2, 2)
	g.Accumulate(-1, 0, Color{R: 1})
	g.Accumulate(0, 5, Color{R: 1})

	_, ok := g.Pixel(-1, 0)
	assert.False(t, ok)
}

func TestAccumulate_ConcurrentWritersDoNotRace(t *testing.T) {
	g := New(4, 4)
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			g.Accumulate(2, 2, Color{R: uint8(n)})
		}(i)
	}
	wg.Wait()

	acc, ok := g.Pixel(2, 2)
	require.True(t, ok)
	assert.Equal(t, int64(100), acc.Hits)
}

func TestScaleColorAndSetNormal(t *testing.T) {
	g := New(1, 1)
	g.Accumulate(0, 0, Color{R: 200, G: 100, B: 50})
	g.SetNormal(0, 0, 0.5)
	g.ScaleColor(0, 0, 0.5)

	acc, ok := g.Pixel(0, 0)
	require.True(t, ok)
	assert.Equal(t, Color{R: 100, G: 50, B: 25}, acc.Color)
	assert.Equal(t, 0.5, acc.Normal)
}

func TestEach_VisitsEveryCellInRowMajorOrder(t *testing.T) {
	g := New(2, 2)
	g.Accumulate(1, 0, Color{R: 9})

	var seen []int
	g.Each(func(x, y int, acc PixelAcc) {
		seen = append(seen, x+y*2)
	})
	assert.Equal(t, []int{0, 1, 2, 3}, seen)
}
