package model

import (
	"os"
)

// SanityReport describes runtime checks for external dependencies.
type SanityReport struct {
	DNNBuilt   bool   `json:"dnn_built"`
	ModelFound bool   `json:"model_found"`
	ModelPath  string `json:"model_path,omitempty"`
	Error      string `json:"error,omitempty"`
}

// SanityCheck validates that the inference runtime is compiled in and the
// weights file exists. It does not mutate state and is safe to call at any time.
func (m *Manager) SanityCheck() SanityReport {
	r := SanityReport{DNNBuilt: dnnBuilt, ModelPath: m.spec.Path}
	if m.spec.Path == "" {
		r.Error = "model path not configured"
		return r
	}
	fi, err := os.Stat(m.spec.Path)
	switch {
	case err != nil:
		r.Error = err.Error()
	case fi.IsDir():
		r.Error = "model path is a directory"
	default:
		r.ModelFound = true
	}
	return r
}
