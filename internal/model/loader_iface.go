package model

import (
	"context"
	"image"
)

// Loader abstracts the inference runtime used by the Manager.
// Concrete implementations (e.g., OpenCV DNN) should satisfy this interface.
type Loader interface {
	// Load initializes the network described by spec on the given backend.
	// It must fail rather than silently run on a different backend.
	Load(ctx context.Context, backend BackendKind, spec ModelSpec) (Net, error)
}

// Net is an initialized segmentation network.
type Net interface {
	// Infer returns per-pixel subject probabilities in [0,1] for img. The
	// score grid may be smaller than img (output stride); callers rescale.
	Infer(ctx context.Context, img *image.NRGBA) (Scores, error)
}

// Scores is a row-major probability grid produced by a Net.
type Scores struct {
	Width  int
	Height int
	Values []float32
}

// Valid reports whether the grid is non-empty and consistent.
func (s Scores) Valid() bool {
	return s.Width > 0 && s.Height > 0 && len(s.Values) == s.Width*s.Height
}
