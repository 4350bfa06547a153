//go:build !gocv

package model

// This file provides a no-CGO stub for the OpenCV DNN loader. It is compiled
// when the 'gocv' build tag is NOT set, keeping default builds CGO-free.
// The real loader lives in loader_dnn.go (tagged 'gocv').

import (
	"context"
)

// dnnBuilt indicates whether this binary can run the segmentation network.
var dnnBuilt = false

// dnnLoader refuses every backend so that Manager.Handle reports
// BackendUnavailable rather than running a mocked network.
type dnnLoader struct{}

// NewDNNLoader returns the OpenCV DNN loader for this build.
func NewDNNLoader() Loader { return dnnLoader{} }

func (dnnLoader) Load(ctx context.Context, backend BackendKind, spec ModelSpec) (Net, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return nil, ErrDependencyUnavailable("opencv dnn support not built (missing 'gocv' build tag)")
}
