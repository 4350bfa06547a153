// Package preview backs the local preview UI: one browser tab, one
// processor, background runs and idle teardown.
package preview

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"bgremover/internal/janitor"
	"bgremover/internal/session"
	"bgremover/pkg/types"
)

// ModelState reports model readiness for /readyz.
type ModelState interface {
	Ready() bool
	Status() types.ModelStatus
}

// Service adapts a session.Processor to the HTTP layer.
type Service struct {
	proc    *session.Processor
	models  ModelState
	janitor *janitor.Janitor
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// New wires a preview service. j may be nil when idle teardown is disabled.
func New(proc *session.Processor, models ModelState, j *janitor.Janitor, logger *zerolog.Logger) *Service {
	s := &Service{proc: proc, models: models, janitor: j, log: zerolog.Nop()}
	if logger != nil {
		s.log = *logger
	}
	return s
}

// Upload starts a session and processes it in the background. The janitor
// is touched first so a sweep cannot land between Start and the touch.
func (s *Service) Upload(ctx context.Context, name string, data []byte) types.UploadResponse {
	up := session.Upload{Name: name, Data: data}
	s.touch()
	snap := s.proc.Start(up)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if _, err := s.proc.Process(ctx, snap.ID, up); err != nil && !errors.Is(err, session.ErrSuperseded) {
			s.log.Debug().Err(err).Uint64("session", snap.ID).Msg("background run failed")
		}
	}()
	return types.UploadResponse{SessionID: snap.ID, Status: string(snap.Status)}
}

// Status reports the latest session. Polling keeps the session alive.
func (s *Service) Status() types.SessionStatus {
	s.touch()
	return s.proc.Current().API()
}

// Blob resolves a live reference.
func (s *Service) Blob(id string) (string, []byte, bool) {
	s.touch()
	ref, data, ok := s.proc.Refs().Open(id)
	if !ok {
		return "", nil, false
	}
	return ref.ContentType, data, true
}

// Download returns the latest successful result.
func (s *Service) Download() (string, []byte, bool) {
	s.touch()
	return s.proc.Download()
}

// Keepalive marks the page as still open and returns when it should call
// again. A finished session stays alive as long as its tab keeps calling.
func (s *Service) Keepalive() time.Duration {
	s.touch()
	if s.janitor == nil || s.janitor.Idle() <= 0 {
		return 0
	}
	return keepaliveInterval(s.janitor.Idle())
}

// keepaliveInterval leaves room for two missed calls before teardown.
func keepaliveInterval(idle time.Duration) time.Duration {
	next := idle / 3
	if next < 10*time.Millisecond {
		next = 10 * time.Millisecond
	}
	return next
}

// Unload tears the session down (the tab is going away).
func (s *Service) Unload() int {
	if s.janitor != nil {
		s.janitor.Disarm()
	}
	return s.proc.Teardown()
}

func (s *Service) Ready() bool { return s.models.Ready() }

func (s *Service) ModelStatus() types.ModelStatus { return s.models.Status() }

// Wait blocks until background runs have returned.
func (s *Service) Wait() { s.wg.Wait() }

func (s *Service) touch() {
	if s.janitor != nil {
		s.janitor.Touch()
	}
}
