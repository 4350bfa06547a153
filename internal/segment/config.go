package segment

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	DefaultInternalResolution    = "medium"
	DefaultSegmentationThreshold = 0.7
)

// Named internal resolutions, as fractions of the input size.
var namedResolutions = map[string]float64{
	"low":    0.25,
	"medium": 0.5,
	"high":   0.75,
	"full":   1.0,
}

// Config holds the per-run segmentation parameters.
type Config struct {
	// InternalResolution is low|medium|high|full or a scale in (0,2].
	InternalResolution string
	// SegmentationThreshold classifies a pixel as subject when its score is
	// strictly greater than this value.
	SegmentationThreshold float64
}

// DefaultConfig returns the fixed parameters the remover runs with.
func DefaultConfig() Config {
	return Config{
		InternalResolution:    DefaultInternalResolution,
		SegmentationThreshold: DefaultSegmentationThreshold,
	}
}

// ParseResolution resolves a named or numeric internal resolution. Empty
// selects the default.
func ParseResolution(s string) (float64, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		s = DefaultInternalResolution
	}
	if v, ok := namedResolutions[s]; ok {
		return v, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid internal resolution %q", s)
	}
	if !(v > 0 && v <= 2) {
		return 0, fmt.Errorf("internal resolution %v out of range (0,2]", v)
	}
	return v, nil
}

// Validate checks the config without running anything.
func (c Config) Validate() error {
	if _, err := ParseResolution(c.InternalResolution); err != nil {
		return err
	}
	if math.IsNaN(c.SegmentationThreshold) || math.IsInf(c.SegmentationThreshold, 0) {
		return fmt.Errorf("segmentation threshold must be finite")
	}
	return nil
}
