// Package imaging encodes a rendered grid into PNG bytes: the final
// gamma-corrected export and the non-destructive live intermediate snapshot.
package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/png"

	"github.com/ifsflame/flameserver/grid"
)

// ErrEncodeFailed wraps a codec error from the underlying PNG encoder.
var ErrEncodeFailed = errors.New("imaging: png encode failed")

// ExportFinal encodes an already gamma-corrected grid as an RGBA8 PNG with
// alpha=255 everywhere, using the encoder's default (zlib) compression.
func ExportFinal(g *grid.Grid) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, g.Width, g.Height))
	g.Each(func(x, y int, acc grid.PixelAcc) {
		offset := img.PixOffset(x, y)
		img.Pix[offset+0] = acc.Color.R
		img.Pix[offset+1] = acc.Color.G
		img.Pix[offset+2] = acc.Color.B
		img.Pix[offset+3] = 255
	})

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errors.Join(ErrEncodeFailed, err)
	}
	return buf.Bytes(), nil
}
