package model

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestNewWithConfigDefaults(t *testing.T) {
	m := NewWithConfig(ManagerConfig{ModelPath: "w.onnx"})
	if len(m.backends) != 2 || m.backends[0] != BackendAccelerated || m.backends[1] != BackendBaseline {
		t.Fatalf("unexpected default backends: %v", m.backends)
	}
	spec := m.Spec()
	if spec.Architecture != "MobileNetV1" || spec.OutputStride != 16 || spec.Multiplier != 0.75 || spec.QuantBytes != 2 {
		t.Fatalf("unexpected spec: %+v", spec)
	}
	if m.Snapshot().State != StateIdle {
		t.Fatalf("expected idle, got %s", m.Snapshot().State)
	}
	if m.Ready() {
		t.Fatalf("expected not ready before first Handle")
	}
}

func TestHandle_PrefersAccelerated(t *testing.T) {
	l := &fakeLoader{}
	m := NewWithConfig(ManagerConfig{Loader: l})
	h, err := m.Handle(testCtx(t))
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if h.Backend != BackendAccelerated || !h.Ready() {
		t.Fatalf("unexpected handle: %+v", h)
	}
	if got := l.loadOrder(); len(got) != 1 {
		t.Fatalf("expected one load, got %v", got)
	}
}

func TestHandle_FallsBackToBaseline(t *testing.T) {
	l := &fakeLoader{}
	l.setFail(BackendAccelerated, errNoGPU)
	pub := NewMemoryPublisher()
	m := NewWithConfig(ManagerConfig{Loader: l, Publisher: pub})
	h, err := m.Handle(testCtx(t))
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if h.Backend != BackendBaseline {
		t.Fatalf("expected baseline, got %s", h.Backend)
	}
	want := []string{"init_start", "backend_fallback", "init_ready"}
	got := pub.Names()
	if len(got) != len(want) {
		t.Fatalf("events=%v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("events=%v want %v", got, want)
		}
	}
	if s := m.Snapshot(); s.State != StateReady || s.Backend != BackendBaseline {
		t.Fatalf("unexpected snapshot: %+v", s)
	}
}

func TestHandle_IsCachedAfterSuccess(t *testing.T) {
	l := &fakeLoader{}
	m := NewWithConfig(ManagerConfig{Loader: l})
	h1, err := m.Handle(testCtx(t))
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	h2, err := m.Handle(testCtx(t))
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if h1 != h2 {
		t.Fatalf("expected the same handle")
	}
	if n := l.calls.Load(); n != 1 {
		t.Fatalf("expected a single load, got %d", n)
	}
}

func TestHandle_ConcurrentCallersShareInit(t *testing.T) {
	l := &fakeLoader{gate: make(chan struct{})}
	m := NewWithConfig(ManagerConfig{Loader: l})

	const callers = 16
	var wg sync.WaitGroup
	handles := make([]*Handle, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			handles[i], errs[i] = m.Handle(context.Background())
		}(i)
	}
	// Let the callers pile up on the in-flight initialization.
	time.Sleep(20 * time.Millisecond)
	close(l.gate)
	wg.Wait()

	for i := 0; i < callers; i++ {
		if errs[i] != nil {
			t.Fatalf("caller %d: %v", i, errs[i])
		}
		if handles[i] != handles[0] {
			t.Fatalf("caller %d got a different handle", i)
		}
	}
	if n := l.calls.Load(); n != 1 {
		t.Fatalf("expected exactly one backend load, got %d", n)
	}
}

func TestHandle_BothBackendsFail_ThenRetry(t *testing.T) {
	l := &fakeLoader{}
	l.setFail(BackendAccelerated, errNoGPU)
	l.setFail(BackendBaseline, errors.New("cpu backend init failed"))
	m := NewWithConfig(ManagerConfig{Loader: l})

	_, err := m.Handle(testCtx(t))
	if err == nil || !IsBackendUnavailable(err) {
		t.Fatalf("expected backend unavailable, got %v", err)
	}
	if !errors.Is(err, errNoGPU) {
		t.Fatalf("expected causes to be wrapped: %v", err)
	}
	if s := m.Snapshot(); s.State != StateError || s.Err == "" {
		t.Fatalf("unexpected snapshot: %+v", s)
	}
	if m.Ready() {
		t.Fatalf("failed init must not leave a cached handle")
	}

	// The next call starts over instead of reusing a poisoned result.
	l.setFail(BackendBaseline, nil)
	h, err := m.Handle(testCtx(t))
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if h.Backend != BackendBaseline {
		t.Fatalf("expected baseline after retry, got %s", h.Backend)
	}
	if n := l.calls.Load(); n != 4 {
		t.Fatalf("expected 4 load attempts, got %d", n)
	}
	if s := m.Snapshot(); s.Attempts != 2 {
		t.Fatalf("expected 2 init attempts, got %d", s.Attempts)
	}
}

func TestHandle_WaiterCanceled(t *testing.T) {
	l := &fakeLoader{gate: make(chan struct{})}
	m := NewWithConfig(ManagerConfig{Loader: l})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := m.Handle(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled, got %v", err)
	}
	// The initialization keeps running for other callers.
	close(l.gate)
	if _, err := m.Handle(testCtx(t)); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if n := l.calls.Load(); n != 1 {
		t.Fatalf("expected one load, got %d", n)
	}
}

func TestStubLoader_ReportsBackendUnavailable(t *testing.T) {
	if dnnBuilt {
		t.Skip("opencv dnn compiled in")
	}
	m := New("missing.onnx")
	_, err := m.Handle(testCtx(t))
	if !IsBackendUnavailable(err) || !IsDependencyUnavailable(err) {
		t.Fatalf("expected backend unavailable wrapping dependency error, got %v", err)
	}
}

func TestSanityCheck(t *testing.T) {
	if r := New("").SanityCheck(); r.ModelFound || r.Error == "" {
		t.Fatalf("expected missing path report: %+v", r)
	}
	dir := t.TempDir()
	p := filepath.Join(dir, "bodypix-mobilenetv1.onnx")
	if err := os.WriteFile(p, []byte("onnx"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if r := New(p).SanityCheck(); !r.ModelFound || r.Error != "" {
		t.Fatalf("expected model found: %+v", r)
	}
	if r := New(dir).SanityCheck(); r.ModelFound {
		t.Fatalf("directory must not count as model: %+v", r)
	}
}

func TestStatus(t *testing.T) {
	m := NewWithConfig(ManagerConfig{Loader: &fakeLoader{}, Backends: []BackendKind{BackendBaseline}})
	if _, err := m.Handle(testCtx(t)); err != nil {
		t.Fatalf("handle: %v", err)
	}
	st := m.Status()
	if st.State != "ready" || st.Backend != "baseline" || st.LastError != "" {
		t.Fatalf("unexpected status: %+v", st)
	}
}
