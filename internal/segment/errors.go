package segment

import "errors"

// inferenceError reports a failed or malformed model run.
type inferenceError struct{ err error }

func (e inferenceError) Error() string { return "inference failed: " + e.err.Error() }
func (e inferenceError) Unwrap() error { return e.err }

// ErrInference wraps err as an inference failure.
func ErrInference(err error) error { return inferenceError{err: err} }

// IsInferenceError reports whether err came from a failed segmentation run.
func IsInferenceError(err error) bool {
	var e inferenceError
	return errors.As(err, &e)
}
