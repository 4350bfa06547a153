package session

import (
	"time"

	"bgremover/pkg/types"
)

// Status is the externally visible stage of a session.
type Status string

const (
	StatusIdle         Status = "idle"
	StatusLoadingModel Status = "loading_model"
	StatusSegmenting   Status = "segmenting"
	StatusCompositing  Status = "compositing"
	StatusSuccess      Status = "success"
	StatusError        Status = "error"
)

// Terminal reports whether no further transition can happen.
func (s Status) Terminal() bool { return s == StatusSuccess || s == StatusError }

// ErrorKind classifies a failed session.
type ErrorKind string

const (
	KindBackendUnavailable       ErrorKind = "backend_unavailable"
	KindImageDecode              ErrorKind = "image_decode"
	KindInference                ErrorKind = "inference"
	KindDimensionMismatch        ErrorKind = "dimension_mismatch"
	KindRenderSurfaceUnavailable ErrorKind = "render_surface_unavailable"
	KindUnknown                  ErrorKind = "unknown"
)

// Upload is one user-supplied file.
type Upload struct {
	Name string
	Data []byte
}

// Snapshot is a copy of the latest session's state.
type Snapshot struct {
	ID           uint64
	Status       Status
	FileName     string
	DownloadName string
	SourceURL    string
	ResultURL    string
	ErrorKind    ErrorKind
	Error        string
	StartedAt    time.Time
	FinishedAt   time.Time
}

// Processing reports whether a run is still in flight.
func (s Snapshot) Processing() bool {
	return s.Status != StatusIdle && !s.Status.Terminal()
}

// API converts the snapshot into its wire form.
func (s Snapshot) API() types.SessionStatus {
	return types.SessionStatus{
		ID:           s.ID,
		Status:       string(s.Status),
		FileName:     s.FileName,
		DownloadName: s.DownloadName,
		SourceURL:    s.SourceURL,
		ResultURL:    s.ResultURL,
		ErrorKind:    string(s.ErrorKind),
		Error:        s.Error,
		Processing:   s.Processing(),
	}
}
