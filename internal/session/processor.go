// Package session runs uploads through decode, model, segmentation and
// compositing, and keeps only the newest upload's results visible.
package session

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"bgremover/internal/composite"
	"bgremover/internal/imageio"
	"bgremover/internal/model"
	"bgremover/internal/refs"
	"bgremover/internal/segment"
	"bgremover/pkg/types"
)

// ModelProvider hands out the shared model handle.
type ModelProvider interface {
	Handle(ctx context.Context) (*model.Handle, error)
}

// Segmenter produces a mask for a decoded image.
type Segmenter interface {
	Segment(ctx context.Context, asset types.ImageAsset, h *model.Handle, cfg segment.Config) (types.Mask, error)
}

// Config wires a Processor.
type Config struct {
	Models    ModelProvider
	Segmenter Segmenter
	Decoder   imageio.Decoder
	Refs      *refs.Store
	Logger    *zerolog.Logger

	// Segment is used as given; nil selects segment.DefaultConfig.
	Segment *segment.Config
}

// Processor owns the sequence of sessions for one user. Only the session
// with the highest id may change visible state or publish references.
type Processor struct {
	mu  sync.Mutex
	seq uint64
	cur Snapshot

	models  ModelProvider
	seg     Segmenter
	decoder imageio.Decoder
	refs    *refs.Store
	segCfg  segment.Config
	log     zerolog.Logger
}

// New builds a Processor. Models is required; other fields have defaults.
func New(cfg Config) *Processor {
	p := &Processor{
		cur:     Snapshot{Status: StatusIdle},
		models:  cfg.Models,
		seg:     cfg.Segmenter,
		decoder: cfg.Decoder,
		refs:    cfg.Refs,
		segCfg:  segment.DefaultConfig(),
		log:     zerolog.Nop(),
	}
	if cfg.Logger != nil {
		p.log = *cfg.Logger
	}
	if p.seg == nil {
		p.seg = segment.NewEngine(cfg.Logger)
	}
	if p.refs == nil {
		p.refs = refs.NewStore("")
	}
	if cfg.Segment != nil {
		p.segCfg = *cfg.Segment
	}
	return p
}

// Refs exposes the reference store backing this processor.
func (p *Processor) Refs() *refs.Store { return p.refs }

// Start opens a new session for up and returns its initial snapshot without
// running the pipeline. Continue with Process.
func (p *Processor) Start(up Upload) Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cur.ID != 0 {
		if p.cur.Processing() {
			sessionsTotal.WithLabelValues("superseded").Inc()
		}
		p.refs.RevokeOwner(p.cur.ID)
	}
	p.seq++
	id := p.seq
	p.cur = Snapshot{
		ID:           id,
		Status:       StatusLoadingModel,
		FileName:     up.Name,
		DownloadName: imageio.DownloadName(up.Name),
		StartedAt:    time.Now(),
	}
	if len(up.Data) > 0 {
		if ref, err := p.refs.Publish(id, refs.SlotSource, up.Data, http.DetectContentType(up.Data)); err == nil {
			p.cur.SourceURL = ref.URL
		}
	}
	p.log.Info().Uint64("session", id).Str("file", up.Name).Int("bytes", len(up.Data)).Msg("session start")
	return p.cur
}

// Run starts a session for up and processes it to completion.
func (p *Processor) Run(ctx context.Context, up Upload) (Snapshot, error) {
	s := p.Start(up)
	return p.Process(ctx, s.ID, up)
}

// Process drives session id through the pipeline. If a newer session starts
// (or Teardown runs) first, the work still finishes but its outcome is
// dropped and ErrSuperseded is returned.
func (p *Processor) Process(ctx context.Context, id uint64, up Upload) (Snapshot, error) {
	asset, err := timed("decode", func() (types.ImageAsset, error) {
		return p.decoder.Decode(ctx, up.Name, up.Data)
	})
	if err != nil {
		return p.fail(id, err)
	}

	h, err := timed("model", func() (*model.Handle, error) { return p.models.Handle(ctx) })
	if err != nil {
		return p.fail(id, err)
	}
	if !p.advance(id, StatusSegmenting) {
		return p.superseded(id)
	}

	mask, err := timed("segment", func() (types.Mask, error) { return p.seg.Segment(ctx, asset, h, p.segCfg) })
	if err != nil {
		return p.fail(id, err)
	}
	if !p.advance(id, StatusCompositing) {
		return p.superseded(id)
	}

	png, err := timed("composite", func() ([]byte, error) {
		img, err := composite.Composite(asset, mask)
		if err != nil {
			return nil, err
		}
		return composite.EncodePNG(img)
	})
	if err != nil {
		return p.fail(id, err)
	}
	return p.succeed(id, png, mask)
}

func (p *Processor) advance(id uint64, to Status) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if id != p.seq {
		return false
	}
	p.cur.Status = to
	p.log.Debug().Uint64("session", id).Str("status", string(to)).Msg("session transition")
	return true
}

func (p *Processor) succeed(id uint64, png []byte, mask types.Mask) (Snapshot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if id != p.seq {
		return p.supersededLocked(id)
	}
	ref, err := p.refs.Publish(id, refs.SlotResult, png, "image/png")
	if errors.Is(err, refs.ErrStale) {
		return p.supersededLocked(id)
	}
	if err != nil {
		return p.failLocked(id, err)
	}
	p.cur.Status = StatusSuccess
	p.cur.ResultURL = ref.URL
	p.cur.FinishedAt = time.Now()
	sessionsTotal.WithLabelValues("success").Inc()
	p.log.Info().
		Uint64("session", id).
		Int("subject_px", mask.Count()).
		Int("png_bytes", len(png)).
		Dur("dur", p.cur.FinishedAt.Sub(p.cur.StartedAt)).
		Msg("session success")
	return p.cur, nil
}

func (p *Processor) fail(id uint64, err error) (Snapshot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if id != p.seq {
		return p.supersededLocked(id)
	}
	return p.failLocked(id, err)
}

// failLocked records err on the latest session and revokes everything it
// published. The caller holds p.mu.
func (p *Processor) failLocked(id uint64, err error) (Snapshot, error) {
	kind := Classify(err)
	p.refs.RevokeOwner(id)
	p.cur.Status = StatusError
	p.cur.ErrorKind = kind
	p.cur.Error = err.Error()
	p.cur.SourceURL = ""
	p.cur.ResultURL = ""
	p.cur.FinishedAt = time.Now()
	sessionsTotal.WithLabelValues("error").Inc()
	sessionErrorsTotal.WithLabelValues(string(kind)).Inc()
	p.log.Error().Err(err).Uint64("session", id).Str("kind", string(kind)).Msg("session failed")
	return p.cur, err
}

func (p *Processor) superseded(id uint64) (Snapshot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.supersededLocked(id)
}

func (p *Processor) supersededLocked(id uint64) (Snapshot, error) {
	p.log.Debug().Uint64("session", id).Uint64("latest", p.seq).Msg("discarding superseded session")
	return Snapshot{}, ErrSuperseded
}

// Current returns the latest session's state.
func (p *Processor) Current() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cur
}

// Result returns the PNG bytes of the latest session if it succeeded.
func (p *Processor) Result() (refs.Ref, []byte, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.resultLocked()
}

// Download returns the suggested file name and PNG bytes of the latest
// session if it succeeded.
func (p *Processor) Download() (string, []byte, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, data, ok := p.resultLocked()
	if !ok {
		return "", nil, false
	}
	return p.cur.DownloadName, data, true
}

func (p *Processor) resultLocked() (refs.Ref, []byte, bool) {
	if p.cur.Status != StatusSuccess {
		return refs.Ref{}, nil, false
	}
	ref, data, ok := p.refs.Get(refs.SlotResult)
	if !ok || ref.Owner != p.cur.ID {
		return refs.Ref{}, nil, false
	}
	return ref, data, true
}

// Teardown supersedes any in-flight run and revokes every reference. The
// processor returns to idle; the next upload starts a fresh session.
func (p *Processor) Teardown() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cur.Processing() {
		sessionsTotal.WithLabelValues("superseded").Inc()
	}
	p.seq++
	n := p.refs.RevokeAll()
	p.cur = Snapshot{Status: StatusIdle}
	p.log.Info().Int("revoked", n).Msg("session teardown")
	return n
}

func timed[T any](stage string, fn func() (T, error)) (T, error) {
	start := time.Now()
	v, err := fn()
	stageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
	return v, err
}
