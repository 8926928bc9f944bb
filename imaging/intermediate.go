package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"math"

	"github.com/ifsflame/flameserver/grid"
)

// ExportIntermediate renders a live snapshot of g without mutating it: a
// first pass records (r,g,b,hits) and the max log-density across the grid, a
// second pass applies gamma scaling to produce the output pixels. Uses the
// fastest PNG compression level, matching the "do not slow down the hot
// render loop for a snapshot" intent.
func ExportIntermediate(g *grid.Grid, gamma float64) ([]byte, error) {
	type sample struct {
		acc grid.PixelAcc
	}
	samples := make([]sample, g.Width*g.Height)
	maxNormal := 0.0

	g.Each(func(x, y int, acc grid.PixelAcc) {
		idx := y*g.Width + x
		samples[idx] = sample{acc: acc}
		if acc.Hits > 0 {
			n := math.Log10(float64(acc.Hits))
			if n > maxNormal {
				maxNormal = n
			}
		}
	})

	img := image.NewRGBA(image.Rect(0, 0, g.Width, g.Height))
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			idx := y*g.Width + x
			acc := samples[idx].acc
			offset := img.PixOffset(x, y)

			if acc.Hits > 0 && maxNormal > 0 {
				normal := math.Log10(float64(acc.Hits)) / maxNormal
				gain := math.Pow(normal, 1.0/gamma)
				img.Pix[offset+0] = uint8(float64(acc.Color.R) * gain)
				img.Pix[offset+1] = uint8(float64(acc.Color.G) * gain)
				img.Pix[offset+2] = uint8(float64(acc.Color.B) * gain)
			}
			img.Pix[offset+3] = 255
		}
	}

	var buf bytes.Buffer
	encoder := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := encoder.Encode(&buf, img); err != nil {
		return nil, errors.Join(ErrEncodeFailed, err)
	}
	return buf.Bytes(), nil
}
