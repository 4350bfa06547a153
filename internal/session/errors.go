package session

import (
	"errors"

	"bgremover/internal/composite"
	"bgremover/internal/imageio"
	"bgremover/internal/model"
	"bgremover/internal/segment"
)

// ErrSuperseded is returned by a run whose session was replaced by a newer
// upload (or torn down) before it finished. Its results were discarded.
var ErrSuperseded = errors.New("session superseded")

// Classify maps a pipeline error onto an ErrorKind.
func Classify(err error) ErrorKind {
	switch {
	case err == nil:
		return ""
	case model.IsBackendUnavailable(err), model.IsDependencyUnavailable(err):
		return KindBackendUnavailable
	case imageio.IsDecodeError(err):
		return KindImageDecode
	case segment.IsInferenceError(err):
		return KindInference
	case composite.IsDimensionMismatch(err):
		return KindDimensionMismatch
	case composite.IsRenderSurfaceUnavailable(err):
		return KindRenderSurfaceUnavailable
	default:
		return KindUnknown
	}
}
