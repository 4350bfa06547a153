package imageio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"bgremover/pkg/types"
)

// DefaultMaxPixels bounds decoded images (roughly an 8K x 8K photo).
const DefaultMaxPixels = 64 << 20

// Decoder turns upload bytes into fully decoded assets.
type Decoder struct {
	// MaxPixels rejects images with more pixels; <= 0 uses DefaultMaxPixels.
	MaxPixels int
}

// Decode decodes data into an ImageAsset with origin-based NRGBA pixels.
// EXIF orientation is applied so the asset matches what a browser displays.
// Every failure is a decode error; a partially decoded image is never returned.
func (d Decoder) Decode(ctx context.Context, name string, data []byte) (types.ImageAsset, error) {
	if err := ctx.Err(); err != nil {
		return types.ImageAsset{}, err
	}
	if len(data) == 0 {
		return types.ImageAsset{}, ErrDecode(name, errors.New("empty file"))
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return types.ImageAsset{}, ErrDecode(name, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return types.ImageAsset{}, ErrDecode(name, fmt.Errorf("invalid dimensions %dx%d", cfg.Width, cfg.Height))
	}
	limit := d.MaxPixels
	if limit <= 0 {
		limit = DefaultMaxPixels
	}
	if cfg.Width*cfg.Height > limit {
		return types.ImageAsset{}, ErrDecode(name, fmt.Errorf("image too large: %dx%d", cfg.Width, cfg.Height))
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return types.ImageAsset{}, ErrDecode(name, err)
	}
	if err := ctx.Err(); err != nil {
		return types.ImageAsset{}, err
	}
	// Clone normalizes any decoded model to NRGBA anchored at (0,0).
	return types.ImageAsset{Name: name, Format: format, Image: imaging.Clone(img)}, nil
}

// Decode uses a zero-value Decoder.
func Decode(ctx context.Context, name string, data []byte) (types.ImageAsset, error) {
	return Decoder{}.Decode(ctx, name, data)
}
