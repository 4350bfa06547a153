package types

// UploadResponse is returned by POST /upload once a session has been started.
type UploadResponse struct {
	// Sequence id of the session created for this upload.
	// example: 3
	SessionID uint64 `json:"session_id" example:"3"`
	// Status of the session right after creation.
	// example: loading_model
	Status string `json:"status" example:"loading_model"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: image field is required
	Error string `json:"error" example:"image field is required"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}

// SessionStatus describes the latest processing session for GET /status.
type SessionStatus struct {
	// Sequence id of the session; 0 when nothing was uploaded yet.
	// example: 3
	ID uint64 `json:"id" example:"3"`
	// Lifecycle state: idle, loading_model, segmenting, compositing, success, error.
	// example: segmenting
	Status string `json:"status" example:"segmenting"`
	// Original upload file name.
	// example: Team Photo.JPG
	FileName string `json:"file_name,omitempty" example:"Team Photo.JPG"`
	// Suggested download name for the result.
	// example: team-photo-no-bg.png
	DownloadName string `json:"download_name" example:"team-photo-no-bg.png"`
	// Ephemeral URL of the uploaded source image.
	// example: /blob/2CQf3mJvHhV9Rrx2bS6Z0kq3n1T
	SourceURL string `json:"source_url,omitempty" example:"/blob/2CQf3mJvHhV9Rrx2bS6Z0kq3n1T"`
	// Ephemeral URL of the transparent PNG result.
	// example: /blob/2CQf3pZ3a7kq1b1w9oKX7hJm3Lz
	ResultURL string `json:"result_url,omitempty" example:"/blob/2CQf3pZ3a7kq1b1w9oKX7hJm3Lz"`
	// Error classification when status is error.
	// example: backend_unavailable
	ErrorKind string `json:"error_kind,omitempty" example:"backend_unavailable"`
	// Human-readable error message when status is error.
	Error string `json:"error,omitempty"`
	// True while a session is running.
	// example: true
	Processing bool `json:"processing" example:"true"`
}

// ModelStatus reports the model manager state for GET /readyz details.
type ModelStatus struct {
	// State of the model: idle, loading, ready, error.
	// example: ready
	State string `json:"state" example:"ready"`
	// Backend that initialized successfully.
	// example: baseline
	Backend string `json:"backend,omitempty" example:"baseline"`
	// Last initialization error, if any.
	LastError string `json:"last_error,omitempty"`
}

// KeepaliveResponse tells an open page when to call POST /keepalive again.
type KeepaliveResponse struct {
	// Milliseconds until the next keepalive is due; 0 when idle teardown is disabled.
	// example: 200000
	NextMS int64 `json:"next_ms" example:"200000"`
}
