// Package segment turns a decoded image into a hard subject mask using a
// loaded segmentation model.
package segment

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
	"github.com/rs/zerolog"
	"golang.org/x/image/draw"

	"bgremover/internal/model"
	"bgremover/pkg/types"
)

// Engine runs segmentation. It holds no per-image state and is safe for
// concurrent use.
type Engine struct {
	log zerolog.Logger
}

// NewEngine returns an Engine logging to logger (nil discards).
func NewEngine(logger *zerolog.Logger) *Engine {
	e := &Engine{log: zerolog.Nop()}
	if logger != nil {
		e.log = *logger
	}
	return e
}

// Segment produces a mask exactly the size of asset. Pixels whose upsampled
// score exceeds cfg.SegmentationThreshold are subject; everything else is
// background. Partial masks are never returned.
func (e *Engine) Segment(ctx context.Context, asset types.ImageAsset, h *model.Handle, cfg Config) (types.Mask, error) {
	if !h.Ready() {
		return types.Mask{}, ErrInference(errors.New("model handle not ready"))
	}
	w, ht := asset.Width(), asset.Height()
	if w <= 0 || ht <= 0 {
		return types.Mask{}, ErrInference(fmt.Errorf("empty input %dx%d", w, ht))
	}
	if err := cfg.Validate(); err != nil {
		return types.Mask{}, ErrInference(err)
	}
	scale, _ := ParseResolution(cfg.InternalResolution)

	input := scaleInput(asset.Image, scale)
	scores, err := h.Net().Infer(ctx, input)
	if err != nil {
		if ctx.Err() != nil {
			return types.Mask{}, ctx.Err()
		}
		return types.Mask{}, ErrInference(err)
	}
	if !scores.Valid() {
		return types.Mask{}, ErrInference(fmt.Errorf("malformed score grid %dx%d (%d values)", scores.Width, scores.Height, len(scores.Values)))
	}

	mask := threshold(upsample(scores, w, ht), w, ht, cfg.SegmentationThreshold)
	e.log.Debug().
		Int("width", w).Int("height", ht).
		Int("model_w", scores.Width).Int("model_h", scores.Height).
		Int("subject_px", mask.Count()).
		Msg("segmented")
	return mask, nil
}

// scaleInput resizes img by scale, keeping at least one pixel per side.
func scaleInput(img *image.NRGBA, scale float64) *image.NRGBA {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	sw := max(1, int(math.Round(float64(w)*scale)))
	sh := max(1, int(math.Round(float64(h)*scale)))
	if sw == w && sh == h {
		return img
	}
	return imaging.Clone(resize.Resize(uint(sw), uint(sh), img, resize.Bilinear))
}

// upsample maps the score grid onto a w x h plane. Scores are clamped to
// [0,1] and carried as 16-bit gray so bilinear filtering keeps precision.
func upsample(s model.Scores, w, h int) []float64 {
	out := make([]float64, w*h)
	if s.Width == w && s.Height == h {
		for i, v := range s.Values {
			out[i] = clamp01(float64(v))
		}
		return out
	}
	src := image.NewGray16(image.Rect(0, 0, s.Width, s.Height))
	for i, v := range s.Values {
		q := uint16(math.Round(clamp01(float64(v)) * 0xffff))
		src.Pix[2*i] = uint8(q >> 8)
		src.Pix[2*i+1] = uint8(q)
	}
	dst := image.NewGray16(image.Rect(0, 0, w, h))
	draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	for i := range out {
		q := uint16(dst.Pix[2*i])<<8 | uint16(dst.Pix[2*i+1])
		out[i] = float64(q) / 0xffff
	}
	return out
}

func threshold(scores []float64, w, h int, thr float64) types.Mask {
	m := types.NewMask(w, h)
	for i, v := range scores {
		m.Bits[i] = v > thr
	}
	return m
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
