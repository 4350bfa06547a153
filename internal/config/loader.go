package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"bgremover/internal/common/fsutil"
	"bgremover/internal/model"
	"bgremover/internal/segment"
)

// Config holds deployment parameters for the remover.
// Zero values mean "unspecified" and are replaced by ApplyDefaults.
type Config struct {
	Addr      string   `json:"addr" yaml:"addr" toml:"addr"`
	ModelsDir string   `json:"models_dir" yaml:"models_dir" toml:"models_dir"`
	ModelPath string   `json:"model_path" yaml:"model_path" toml:"model_path"`
	Backends  []string `json:"backends" yaml:"backends" toml:"backends"`

	InternalResolution string `json:"internal_resolution" yaml:"internal_resolution" toml:"internal_resolution"`
	// Pointer so that an explicit 0 is distinguishable from unset.
	SegmentationThreshold *float64 `json:"segmentation_threshold" yaml:"segmentation_threshold" toml:"segmentation_threshold"`

	MaxUploadMB int    `json:"max_upload_mb" yaml:"max_upload_mb" toml:"max_upload_mb"`
	IdleTimeout string `json:"idle_timeout" yaml:"idle_timeout" toml:"idle_timeout"`
	LogLevel    string `json:"log_level" yaml:"log_level" toml:"log_level"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	thr := segment.DefaultSegmentationThreshold
	backends := make([]string, 0, len(model.DefaultBackends))
	for _, b := range model.DefaultBackends {
		backends = append(backends, string(b))
	}
	return Config{
		Addr:                  "127.0.0.1:8080",
		ModelsDir:             "~/models/segmentation",
		Backends:              backends,
		InternalResolution:    segment.DefaultInternalResolution,
		SegmentationThreshold: &thr,
		MaxUploadMB:           25,
		IdleTimeout:           "10m",
		LogLevel:              "info",
	}
}

// ApplyDefaults fills unspecified fields from Defaults and expands ~ in paths.
func ApplyDefaults(c Config) Config {
	d := Defaults()
	if c.Addr == "" {
		c.Addr = d.Addr
	}
	if c.ModelsDir == "" {
		c.ModelsDir = d.ModelsDir
	}
	if len(c.Backends) == 0 {
		c.Backends = d.Backends
	}
	if c.InternalResolution == "" {
		c.InternalResolution = d.InternalResolution
	}
	if c.SegmentationThreshold == nil {
		c.SegmentationThreshold = d.SegmentationThreshold
	}
	if c.MaxUploadMB <= 0 {
		c.MaxUploadMB = d.MaxUploadMB
	}
	if c.IdleTimeout == "" {
		c.IdleTimeout = d.IdleTimeout
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	c.ModelsDir = expand(c.ModelsDir)
	c.ModelPath = expand(c.ModelPath)
	return c
}

// expand leaves the path untouched when the home directory is unknown.
func expand(p string) string {
	if e, err := fsutil.ExpandHome(p); err == nil {
		return e
	}
	return p
}

// Validate checks values that would otherwise fail late.
func (c Config) Validate() error {
	if _, err := c.BackendKinds(); err != nil {
		return err
	}
	if _, err := c.IdleTimeoutDuration(); err != nil {
		return err
	}
	return c.SegmentConfig().Validate()
}

// BackendKinds converts Backends into model backend kinds.
func (c Config) BackendKinds() ([]model.BackendKind, error) {
	out := make([]model.BackendKind, 0, len(c.Backends))
	for _, b := range c.Backends {
		k := model.BackendKind(strings.ToLower(strings.TrimSpace(b)))
		switch k {
		case model.BackendAccelerated, model.BackendBaseline:
			out = append(out, k)
		default:
			return nil, fmt.Errorf("unknown backend %q", b)
		}
	}
	return out, nil
}

// SegmentConfig returns the segmentation parameters. Call after ApplyDefaults.
func (c Config) SegmentConfig() segment.Config {
	sc := segment.Config{InternalResolution: c.InternalResolution, SegmentationThreshold: segment.DefaultSegmentationThreshold}
	if c.SegmentationThreshold != nil {
		sc.SegmentationThreshold = *c.SegmentationThreshold
	}
	return sc
}

// IdleTimeoutDuration parses IdleTimeout. Zero disables idle teardown.
func (c Config) IdleTimeoutDuration() (time.Duration, error) {
	if c.IdleTimeout == "" || c.IdleTimeout == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.IdleTimeout)
	if err != nil {
		return 0, fmt.Errorf("invalid idle_timeout %q: %w", c.IdleTimeout, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("idle_timeout must not be negative")
	}
	return d, nil
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}
