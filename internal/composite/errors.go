package composite

import (
	"errors"
	"fmt"
)

// dimensionMismatchError reports a mask that does not cover the source.
type dimensionMismatchError struct {
	srcW, srcH   int
	maskW, maskH int
}

func (e dimensionMismatchError) Error() string {
	return fmt.Sprintf("dimension mismatch: image %dx%d, mask %dx%d", e.srcW, e.srcH, e.maskW, e.maskH)
}

// ErrDimensionMismatch constructs a dimensionMismatchError.
func ErrDimensionMismatch(srcW, srcH, maskW, maskH int) error {
	return dimensionMismatchError{srcW: srcW, srcH: srcH, maskW: maskW, maskH: maskH}
}

// IsDimensionMismatch reports whether err is a dimension mismatch.
func IsDimensionMismatch(err error) bool {
	var e dimensionMismatchError
	return errors.As(err, &e)
}

// renderSurfaceError reports that no output raster could be allocated.
type renderSurfaceError struct{ reason string }

func (e renderSurfaceError) Error() string { return "render surface unavailable: " + e.reason }

// ErrRenderSurfaceUnavailable constructs a renderSurfaceError.
func ErrRenderSurfaceUnavailable(reason string) error { return renderSurfaceError{reason: reason} }

// IsRenderSurfaceUnavailable reports whether err is a render surface failure.
func IsRenderSurfaceUnavailable(err error) bool {
	var e renderSurfaceError
	return errors.As(err, &e)
}
