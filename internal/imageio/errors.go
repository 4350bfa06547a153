package imageio

import "errors"

// decodeError signals that upload bytes could not become an ImageAsset.
type decodeError struct {
	name string
	err  error
}

func (e decodeError) Error() string {
	if e.name == "" {
		return "failed to load image: " + e.err.Error()
	}
	return "failed to load image " + e.name + ": " + e.err.Error()
}

func (e decodeError) Unwrap() error { return e.err }

// ErrDecode constructs a decodeError for the named upload.
func ErrDecode(name string, err error) error { return decodeError{name: name, err: err} }

// IsDecodeError reports whether err indicates undecodable input.
func IsDecodeError(err error) bool {
	var e decodeError
	return errors.As(err, &e)
}
