package model

import (
	"context"
	"errors"
	"image"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// fakeNet returns a constant score grid.
type fakeNet struct{ score float32 }

func (n fakeNet) Infer(ctx context.Context, img *image.NRGBA) (Scores, error) {
	b := img.Bounds()
	vals := make([]float32, b.Dx()*b.Dy())
	for i := range vals {
		vals[i] = n.score
	}
	return Scores{Width: b.Dx(), Height: b.Dy(), Values: vals}, nil
}

// fakeLoader is a lightweight in-memory loader used for tests.
type fakeLoader struct {
	mu    sync.Mutex
	fail  map[BackendKind]error
	delay time.Duration
	gate  chan struct{}
	calls atomic.Int32
	order []BackendKind
}

func (f *fakeLoader) Load(ctx context.Context, backend BackendKind, spec ModelSpec) (Net, error) {
	f.calls.Add(1)
	if f.gate != nil {
		<-f.gate
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	f.mu.Lock()
	f.order = append(f.order, backend)
	err := f.fail[backend]
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return fakeNet{score: 1}, nil
}

func (f *fakeLoader) setFail(b BackendKind, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail == nil {
		f.fail = map[BackendKind]error{}
	}
	if err == nil {
		delete(f.fail, b)
		return
	}
	f.fail[b] = err
}

func (f *fakeLoader) loadOrder() []BackendKind {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]BackendKind(nil), f.order...)
}

var errNoGPU = errors.New("webgl context lost")

// testCtx returns a context with a short timeout, canceled on test cleanup.
func testCtx(t *testing.T) context.Context {
	t.Helper()
	c, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return c
}
