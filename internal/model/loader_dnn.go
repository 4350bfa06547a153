//go:build gocv

package model

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"
	"os"
	"strings"
	"sync"

	"gocv.io/x/gocv"
)

// dnnBuilt indicates this binary was compiled with OpenCV DNN support.
var dnnBuilt = true

// MobileNet inputs are normalized to [-1,1].
const (
	inputMean  = 127.5
	inputScale = 1.0 / 127.5
)

type dnnLoader struct{}

// NewDNNLoader returns a Loader backed by OpenCV's DNN module.
func NewDNNLoader() Loader { return dnnLoader{} }

// dnnNet owns the loaded network. gocv.Net is not safe for concurrent
// forward passes, so Infer serializes on mu.
type dnnNet struct {
	mu     sync.Mutex
	net    gocv.Net
	stride int
}

func (dnnLoader) Load(ctx context.Context, backend BackendKind, spec ModelSpec) (Net, error) {
	if strings.TrimSpace(spec.Path) == "" {
		return nil, errors.New("model path is empty")
	}
	if fi, err := os.Stat(spec.Path); err != nil || fi.IsDir() {
		return nil, fmt.Errorf("model weights not found: %s", spec.Path)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	net := gocv.ReadNet(spec.Path, "")
	if net.Empty() {
		return nil, fmt.Errorf("read network %s", spec.Path)
	}
	var backendType gocv.NetBackendType
	var target gocv.NetTargetType
	switch backend {
	case BackendAccelerated:
		backendType, target = gocv.NetBackendCUDA, gocv.NetTargetCUDAFP16
		if spec.QuantBytes >= 4 {
			target = gocv.NetTargetCUDA
		}
	case BackendBaseline:
		backendType, target = gocv.NetBackendOpenCV, gocv.NetTargetCPU
	default:
		_ = net.Close()
		return nil, fmt.Errorf("unknown backend %q", backend)
	}
	if err := net.SetPreferableBackend(backendType); err != nil {
		_ = net.Close()
		return nil, fmt.Errorf("set backend: %w", err)
	}
	if err := net.SetPreferableTarget(target); err != nil {
		_ = net.Close()
		return nil, fmt.Errorf("set target: %w", err)
	}
	n := &dnnNet{net: net, stride: spec.OutputStride}
	// Warm up so backend errors surface now instead of on the first upload.
	warm := image.NewNRGBA(image.Rect(0, 0, spec.OutputStride*4+1, spec.OutputStride*4+1))
	if _, err := n.Infer(ctx, warm); err != nil {
		_ = net.Close()
		return nil, fmt.Errorf("warmup: %w", err)
	}
	return n, nil
}

func (n *dnnNet) Infer(ctx context.Context, img *image.NRGBA) (Scores, error) {
	if err := ctx.Err(); err != nil {
		return Scores{}, err
	}
	src, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return Scores{}, fmt.Errorf("image to mat: %w", err)
	}
	defer src.Close()

	b := img.Bounds()
	size := image.Pt(validInputSize(b.Dx(), n.stride), validInputSize(b.Dy(), n.stride))
	// Mats are BGR; the network was trained on RGB.
	blob := gocv.BlobFromImage(src, inputScale, size, gocv.NewScalar(inputMean, inputMean, inputMean, 0), true, false)
	defer blob.Close()

	n.mu.Lock()
	defer n.mu.Unlock()
	n.net.SetInput(blob, "")
	out := n.net.Forward("")
	defer out.Close()
	if out.Empty() {
		return Scores{}, errors.New("forward produced no output")
	}
	dims := out.Size()
	if len(dims) < 2 {
		return Scores{}, fmt.Errorf("unexpected output shape %v", dims)
	}
	data, err := out.DataPtrFloat32()
	if err != nil {
		return Scores{}, fmt.Errorf("read output: %w", err)
	}
	h, w := outputHW(dims)
	if h*w == 0 || len(data) < h*w {
		return Scores{}, fmt.Errorf("unexpected output shape %v", dims)
	}
	vals := make([]float32, h*w)
	for i := range vals {
		vals[i] = sigmoid(data[i])
	}
	return Scores{Width: w, Height: h, Values: vals}, nil
}

// validInputSize rounds a dimension so that (size-1) is divisible by stride.
func validInputSize(v, stride int) int {
	if stride <= 0 {
		return v
	}
	if v < stride+1 {
		return stride + 1
	}
	return (v-1)/stride*stride + 1
}

// outputHW picks height and width from NCHW or NHWC single-channel output.
func outputHW(dims []int) (int, int) {
	switch len(dims) {
	case 4:
		if dims[1] == 1 {
			return dims[2], dims[3]
		}
		return dims[1], dims[2]
	case 3:
		return dims[1], dims[2]
	default:
		return dims[0], dims[1]
	}
}

func sigmoid(v float32) float32 {
	return float32(1 / (1 + math.Exp(-float64(v))))
}
