package model

import (
	"errors"
	"strings"
)

// backendUnavailableError signals that no compute backend could be
// initialized. It carries one cause per attempted backend.
type backendUnavailableError struct{ causes []error }

func (e backendUnavailableError) Error() string {
	if len(e.causes) == 0 {
		return "no compute backend available"
	}
	parts := make([]string, 0, len(e.causes))
	for _, c := range e.causes {
		parts = append(parts, c.Error())
	}
	return "no compute backend available: " + strings.Join(parts, "; ")
}

func (e backendUnavailableError) Unwrap() []error { return e.causes }

// ErrBackendUnavailable constructs a backendUnavailableError.
func ErrBackendUnavailable(causes ...error) error {
	return backendUnavailableError{causes: append([]error(nil), causes...)}
}

// IsBackendUnavailable reports whether err indicates that every backend failed.
func IsBackendUnavailable(err error) bool {
	var e backendUnavailableError
	return errors.As(err, &e)
}

// dependencyUnavailableError signals a runtime that was not compiled in.
type dependencyUnavailableError struct{ msg string }

func (e dependencyUnavailableError) Error() string { return e.msg }

// ErrDependencyUnavailable constructs a dependencyUnavailableError.
func ErrDependencyUnavailable(msg string) error { return dependencyUnavailableError{msg: msg} }

// IsDependencyUnavailable reports whether err indicates a missing runtime dependency.
func IsDependencyUnavailable(err error) bool {
	var e dependencyUnavailableError
	return errors.As(err, &e)
}
