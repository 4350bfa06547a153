package session

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"bgremover/internal/model"
	"bgremover/internal/segment"
	"bgremover/pkg/types"
)

// constNet scores every pixel with the same probability.
type constNet struct{ score float32 }

func (n constNet) Infer(_ context.Context, img *image.NRGBA) (model.Scores, error) {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	s := model.Scores{Width: w, Height: h, Values: make([]float32, w*h)}
	for i := range s.Values {
		s.Values[i] = n.score
	}
	return s, nil
}

var errNoGPU = errors.New("no gpu")

// switchLoader fails every backend while failing is set.
type switchLoader struct {
	failing atomic.Bool
	calls   atomic.Int32
}

func (l *switchLoader) Load(_ context.Context, b model.BackendKind, _ model.ModelSpec) (model.Net, error) {
	l.calls.Add(1)
	if l.failing.Load() {
		return nil, errNoGPU
	}
	return constNet{score: 1}, nil
}

// staticModels always returns the same handle.
type staticModels struct{ h *model.Handle }

func (m staticModels) Handle(context.Context) (*model.Handle, error) { return m.h, nil }

func handleScoring(score float32) staticModels {
	return staticModels{h: model.NewHandle(model.BackendBaseline, model.ModelSpec{}, constNet{score: score})}
}

// gatedSegmenter blocks its first call until release is closed.
type gatedSegmenter struct {
	inner   Segmenter
	calls   atomic.Int32
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func newGated() *gatedSegmenter {
	return &gatedSegmenter{
		inner:   segment.NewEngine(nil),
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (g *gatedSegmenter) Segment(ctx context.Context, a types.ImageAsset, h *model.Handle, cfg segment.Config) (types.Mask, error) {
	if g.calls.Add(1) == 1 {
		g.once.Do(func() { close(g.entered) })
		<-g.release
	}
	return g.inner.Segment(ctx, a, h, cfg)
}

func solidPNG(t *testing.T, w, h int, c color.NRGBA) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func decodePNG(t *testing.T, data []byte) *image.NRGBA {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode result: %v", err)
	}
	out := image.NewNRGBA(img.Bounds())
	for y := img.Bounds().Min.Y; y < img.Bounds().Max.Y; y++ {
		for x := img.Bounds().Min.X; x < img.Bounds().Max.X; x++ {
			out.Set(x, y, img.At(x, y))
		}
	}
	return out
}

func waitFor(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(5 * time.Second):
		t.Fatalf("timeout waiting")
	}
}
