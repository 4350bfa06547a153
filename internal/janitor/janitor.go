// Package janitor tears down a preview session that the browser abandoned
// without sending an unload.
package janitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Target is torn down once it has been idle for too long. Teardown runs
// under the janitor's lock and must not call back into it.
type Target interface {
	Teardown() int
}

// Janitor periodically checks when the target was last touched.
type Janitor struct {
	target   Target
	idle     time.Duration
	interval time.Duration
	log      zerolog.Logger
	now      func() time.Time

	mu    sync.Mutex
	last  time.Time
	armed bool

	cron *cron.Cron
}

// New returns a janitor that tears target down after idle without a Touch,
// checking every interval (clamped to at least one second).
func New(target Target, idle, interval time.Duration, logger *zerolog.Logger) *Janitor {
	if interval < time.Second {
		interval = time.Second
	}
	j := &Janitor{
		target:   target,
		idle:     idle,
		interval: interval,
		log:      zerolog.Nop(),
		now:      time.Now,
		cron:     cron.New(),
	}
	if logger != nil {
		j.log = *logger
	}
	return j
}

// Touch records activity and arms the next idle teardown.
func (j *Janitor) Touch() {
	j.mu.Lock()
	j.last = j.now()
	j.armed = true
	j.mu.Unlock()
}

// Disarm drops a pending teardown (the target was already torn down).
func (j *Janitor) Disarm() {
	j.mu.Lock()
	j.armed = false
	j.mu.Unlock()
}

// Sweep tears the target down if it is armed and idle. It reports whether a
// teardown happened. The lock is held through Teardown, so a Touch that
// races the sweep either lands first and cancels it, or waits for it and
// re-arms against the fresh state.
func (j *Janitor) Sweep() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	if !j.armed || j.idle <= 0 {
		return false
	}
	idleFor := j.now().Sub(j.last)
	if idleFor < j.idle {
		return false
	}
	j.armed = false
	n := j.target.Teardown()
	j.log.Info().Dur("idle", idleFor).Int("revoked", n).Msg("idle session torn down")
	return true
}

// Idle returns the configured idle timeout; zero or less means disabled.
func (j *Janitor) Idle() time.Duration { return j.idle }

// Start schedules Sweep. It is a no-op when idle teardown is disabled.
func (j *Janitor) Start() error {
	if j.idle <= 0 {
		return nil
	}
	if _, err := j.cron.AddFunc(fmt.Sprintf("@every %s", j.interval), func() { j.Sweep() }); err != nil {
		return fmt.Errorf("schedule janitor: %w", err)
	}
	j.cron.Start()
	j.log.Debug().Dur("idle", j.idle).Dur("every", j.interval).Msg("janitor started")
	return nil
}

// Stop halts scheduling and waits for a running sweep, bounded by ctx.
func (j *Janitor) Stop(ctx context.Context) {
	done := j.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}
