package renderer

import (
	"context"
	"math"
	"math/rand"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/ifsflame/flameserver/geom"
	"github.com/ifsflame/flameserver/grid"
	"github.com/ifsflame/flameserver/variation"
)

// Progress is a monotonically increasing sample counter, safe to read from a
// goroutine other than the one incrementing it. Relaxed ordering is
// sufficient: monotonicity is the only property callers require.
type Progress struct {
	n int64
}

// Load returns the current sample count.
func (p *Progress) Load() int64 { return atomic.LoadInt64(&p.n) }

func (p *Progress) add(delta int64) { atomic.AddInt64(&p.n, delta) }

// Renderer holds everything the chaos game needs to run: the shared grid it
// writes into, the world rect, the transformation set to sample from, and
// the run parameters. All fields are immutable for the duration of Render.
type Renderer struct {
	Grid            *grid.Grid
	World           geom.Rect
	Transformations variation.TransformationSet
	Samples         int
	IterPerSample   int
	Symmetry        int
	Gamma           float64
	MaxThreads      int
	Progress        *Progress
}

// Render partitions Samples across MaxThreads workers and runs the chaos
// game concurrently, writing hits into Grid. Any worker error cancels the
// remaining workers and is returned to the caller.
func (rdr *Renderer) Render(ctx context.Context) error {
	threads := rdr.MaxThreads
	if threads < 1 {
		threads = 1
	}
	base := rdr.Samples / threads
	remainder := rdr.Samples % threads

	g, gctx := errgroup.WithContext(ctx)
	for t := 0; t < threads; t++ {
		start := t*base + min(t, remainder)
		count := base
		if t < remainder {
			count++
		}
		seed := int64(t) + 1
		g.Go(func() error {
			return rdr.renderRange(gctx, rand.New(rand.NewSource(seed)), start, count)
		})
	}
	return g.Wait()
}

func (rdr *Renderer) renderRange(ctx context.Context, r *rand.Rand, start, count int) error {
	ts := rdr.Transformations
	for i := 0; i < count; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		current := randomPointIn(r, rdr.World)

		for iter := -20; iter < rdr.IterPerSample; iter++ {
			t := ts.Sample(r)
			current = t.Apply(current)

			if iter < 0 {
				continue
			}

			for s := 0; s < rdr.Symmetry; s++ {
				step := variation.NewSymmetryStep(s, rdr.Symmetry)
				q := step.Apply(current)
				if !rdr.World.Contains(q) {
					continue
				}
				px := int(math.Floor(float64(rdr.Grid.Width) * (q.X - rdr.World.X) / rdr.World.Width))
				py := int(math.Floor(float64(rdr.Grid.Height) * (q.Y - rdr.World.Y) / rdr.World.Height))
				rdr.Grid.Accumulate(px, py, t.Color)
			}
		}

		if rdr.Progress != nil {
			rdr.Progress.add(1)
		}
	}
	return nil
}

func randomPointIn(r *rand.Rand, world geom.Rect) geom.Point {
	return geom.Point{
		X: world.X + r.Float64()*world.Width,
		Y: world.Y + r.Float64()*world.Height,
	}
}

// ApplyGammaCorrection runs the two-pass log-density + gamma tone mapping
// described in §4.C, single-threaded over the grid, after Render has
// completed.
func (rdr *Renderer) ApplyGammaCorrection() {
	maxNormal := 0.0
	rdr.Grid.Each(func(x, y int, acc grid.PixelAcc) {
		if acc.Hits <= 0 {
			return
		}
		normal := math.Log10(float64(acc.Hits))
		rdr.Grid.SetNormal(x, y, normal)
		if normal > maxNormal {
			maxNormal = normal
		}
	})

	if maxNormal <= 0 {
		return
	}

	rdr.Grid.Each(func(x, y int, acc grid.PixelAcc) {
		if acc.Hits <= 0 {
			return
		}
		normal := acc.Normal / maxNormal
		gain := math.Pow(normal, 1.0/rdr.Gamma)
		rdr.Grid.ScaleColor(x, y, gain)
	})
}
