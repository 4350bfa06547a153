package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"bgremover/internal/common/fsutil"
	"bgremover/pkg/types"
)

// weightsExt is the only weights format the DNN loader reads.
const weightsExt = ".onnx"

// LoadDir scans a directory for *.onnx files and builds a registry from filenames.
// ID is the full filename (including extension); Path is the absolute file path.
// Results are sorted by ID so that selection is stable.
func LoadDir(dir string) ([]types.Model, error) {
	base, err := fsutil.ExpandHome(dir)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("abs path: %w", err)
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var models []types.Model
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(strings.ToLower(name), weightsExt) {
			continue
		}
		var size int64
		if fi, err := e.Info(); err == nil {
			size = fi.Size()
		}
		models = append(models, types.Model{ID: name, Path: filepath.Join(abs, name), SizeBytes: size})
	}
	sort.Slice(models, func(i, j int) bool { return models[i].ID < models[j].ID })
	return models, nil
}

// Pick returns the first model whose ID contains variant (case-insensitive).
// An empty variant selects the first model.
func Pick(models []types.Model, variant string) (types.Model, bool) {
	v := strings.ToLower(strings.TrimSpace(variant))
	for _, m := range models {
		if v == "" || strings.Contains(strings.ToLower(m.ID), v) {
			return m, true
		}
	}
	return types.Model{}, false
}

// Resolve finds the weights for variant inside dir.
func Resolve(dir, variant string) (types.Model, error) {
	models, err := LoadDir(dir)
	if err != nil {
		return types.Model{}, err
	}
	m, ok := Pick(models, variant)
	if !ok {
		return types.Model{}, fmt.Errorf("no %s weights matching %q in %s", weightsExt, variant, dir)
	}
	return m, nil
}
