package main

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"bgremover/internal/config"
)

func TestSplitCSV(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"a,b,c", []string{"a", "b", "c"}},
		{" a , b , c ", []string{"a", "b", "c"}},
		{"a,,c", []string{"a", "c"}},
		{"", nil},
	}
	for _, c := range cases {
		got := splitCSV(c.in)
		if len(got) != len(c.want) {
			t.Fatalf("%q -> %v, want %v", c.in, got, c.want)
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Fatalf("%q -> %v, want %v", c.in, got, c.want)
			}
		}
	}
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"remove", "serve", "check"} {
		if c, _, err := root.Find([]string{name}); err != nil || c.Name() != name {
			t.Fatalf("missing subcommand %s: %v", name, err)
		}
	}
	for _, f := range []string{"config", "log-level", "models-dir", "model", "backends"} {
		if root.PersistentFlags().Lookup(f) == nil {
			t.Fatalf("missing persistent flag --%s", f)
		}
	}
}

func TestAppInit_FlagsOverrideConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "cfg.yaml")
	os.WriteFile(cfgPath, []byte("log_level: error\nmodels_dir: /from/config\nbackends: [accelerated]\n"), 0o644)

	a := &app{configPath: cfgPath, modelsDir: "/from/flag", backends: "baseline"}
	if err := a.init(&bytes.Buffer{}); err != nil {
		t.Fatalf("init: %v", err)
	}
	if a.cfg.ModelsDir != "/from/flag" || a.cfg.LogLevel != "error" {
		t.Fatalf("unexpected cfg %+v", a.cfg)
	}
	if len(a.cfg.Backends) != 1 || a.cfg.Backends[0] != "baseline" {
		t.Fatalf("backends %v", a.cfg.Backends)
	}
	if a.log.GetLevel() != zerolog.ErrorLevel {
		t.Fatalf("log level %v", a.log.GetLevel())
	}

	bad := &app{backends: "warp-drive"}
	if err := bad.init(&bytes.Buffer{}); err == nil {
		t.Fatalf("expected invalid backend error")
	}
}

func TestNewManager_NoWeights(t *testing.T) {
	a := &app{cfg: config.ApplyDefaults(config.Config{ModelsDir: t.TempDir()})}
	if _, err := a.newManager(); err == nil {
		t.Fatalf("expected error when the models dir has no weights")
	}
}

// The weights file is not a real network, so every backend fails; each file
// reports its own error and no output is written.
func TestRemove_ReportsBackendFailurePerFile(t *testing.T) {
	dir := t.TempDir()
	weights := filepath.Join(dir, "bodypix-mobilenetv1.onnx")
	os.WriteFile(weights, []byte("stub"), 0o644)
	in := filepath.Join(dir, "Face Shot.png")
	var buf bytes.Buffer
	png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 4, 4)))
	os.WriteFile(in, buf.Bytes(), 0o644)

	a := &app{cfg: config.ApplyDefaults(config.Config{ModelPath: weights}), log: zerolog.Nop()}
	var out bytes.Buffer
	err := a.remove(context.Background(), []string{in, filepath.Join(dir, "missing.png")}, "", &out)
	if err == nil {
		t.Fatalf("expected errors")
	}
	if !strings.Contains(err.Error(), "Face Shot.png") || !strings.Contains(err.Error(), "missing.png") {
		t.Fatalf("error does not name both files: %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "face-shot-no-bg.png")); statErr == nil || out.Len() != 0 {
		t.Fatalf("failed run must not write or report output")
	}
}
