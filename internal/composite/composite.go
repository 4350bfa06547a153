// Package composite cuts the subject out of a source image with a hard mask
// and encodes the result losslessly.
package composite

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"math"

	"bgremover/pkg/types"
)

// MaxPixels caps the output surface.
const MaxPixels = 1 << 28

var encoder = png.Encoder{CompressionLevel: png.DefaultCompression}

// Composite returns a new W x H raster. Where the mask is set the pixel is
// the source RGB at full opacity; elsewhere it is white at zero alpha. The
// inputs are not modified.
func Composite(asset types.ImageAsset, mask types.Mask) (*image.NRGBA, error) {
	w, h := asset.Width(), asset.Height()
	if mask.Width != w || mask.Height != h || len(mask.Bits) != mask.Width*mask.Height {
		return nil, ErrDimensionMismatch(w, h, mask.Width, mask.Height)
	}
	dst, err := newSurface(w, h)
	if err != nil {
		return nil, err
	}
	src := asset.Image
	for y := 0; y < h; y++ {
		so := src.PixOffset(src.Rect.Min.X, src.Rect.Min.Y+y)
		do := y * dst.Stride
		row := mask.Bits[y*w : (y+1)*w]
		for x, on := range row {
			d := dst.Pix[do+4*x : do+4*x+4 : do+4*x+4]
			if on {
				s := src.Pix[so+4*x : so+4*x+4 : so+4*x+4]
				d[0], d[1], d[2], d[3] = s[0], s[1], s[2], 0xff
				continue
			}
			d[0], d[1], d[2], d[3] = 0xff, 0xff, 0xff, 0
		}
	}
	return dst, nil
}

func newSurface(w, h int) (*image.NRGBA, error) {
	if w <= 0 || h <= 0 {
		return nil, ErrRenderSurfaceUnavailable(fmt.Sprintf("invalid size %dx%d", w, h))
	}
	if w > math.MaxInt32/h || w*h > MaxPixels {
		return nil, ErrRenderSurfaceUnavailable(fmt.Sprintf("size %dx%d exceeds limit", w, h))
	}
	return image.NewNRGBA(image.Rect(0, 0, w, h)), nil
}

// EncodePNG encodes img as PNG. Alpha is preserved exactly and equal inputs
// produce equal bytes.
func EncodePNG(img *image.NRGBA) ([]byte, error) {
	if img == nil {
		return nil, ErrRenderSurfaceUnavailable("nil image")
	}
	var buf bytes.Buffer
	if err := encoder.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
