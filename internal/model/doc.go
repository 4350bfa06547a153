// Package model owns the lazily initialized segmentation model. It is split
// into small files by concern:
//
//   - manager.go: Manager type and the Handle entry point.
//   - config.go: ManagerConfig, fixed model constants and defaults.
//   - types.go: State, BackendKind, ModelSpec, Handle, Snapshot.
//   - errors.go: error kinds and helpers (IsBackendUnavailable).
//   - init.go: backend fallback loop run under the single-flight guard.
//   - loader_iface.go: Loader/Net abstractions over the inference runtime.
//   - events.go, eventpub_memory.go: lifecycle event publishing.
//   - metrics.go: Prometheus collectors for initialization attempts.
//   - status_report.go: Snapshot/Status helpers.
//
// Build tags and runtimes:
//
//   - OpenCV DNN (standard):
//     Uses gocv. Enabled with `-tags=gocv`.
//     Files: loader_dnn.go.
//     A no-CGO stub exists when the tag is not set: loader_dnn_stub.go.
//     The stub fails every backend, so Handle reports BackendUnavailable
//     instead of producing fake masks.
//
// A Manager initializes at most one Handle for its lifetime. A failed
// initialization is not cached: the next Handle call starts over.
package model
