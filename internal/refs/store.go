// Package refs hands out short-lived, revocable references to in-memory
// image bytes. Each slot holds at most one live reference.
package refs

import (
	"errors"
	"sync"
	"time"

	"github.com/segmentio/ksuid"
)

// Slot names a display position.
type Slot string

const (
	SlotSource Slot = "source"
	SlotResult Slot = "result"
)

// ErrStale is returned when a newer owner already holds the slot.
var ErrStale = errors.New("refs: slot held by a newer owner")

// Ref is a published reference. The bytes live in the Store until revoked.
type Ref struct {
	ID          string    `json:"id"`
	Slot        Slot      `json:"slot"`
	Owner       uint64    `json:"owner"`
	URL         string    `json:"url"`
	ContentType string    `json:"content_type"`
	Size        int       `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
}

type entry struct {
	ref  Ref
	data []byte
}

// Store tracks live references. The zero value is not usable; call NewStore.
type Store struct {
	mu     sync.Mutex
	prefix string
	byID   map[string]*entry
	bySlot map[Slot]string
}

// NewStore creates a store whose refs resolve under urlPrefix (e.g. "/blob/").
func NewStore(urlPrefix string) *Store {
	if urlPrefix == "" {
		urlPrefix = "/blob/"
	}
	return &Store{
		prefix: urlPrefix,
		byID:   make(map[string]*entry),
		bySlot: make(map[Slot]string),
	}
}

// Publish stores data in slot on behalf of owner. The slot's previous ref is
// revoked in the same critical section. If the current holder is a newer
// owner, nothing changes and ErrStale is returned.
func (s *Store) Publish(owner uint64, slot Slot, data []byte, contentType string) (Ref, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.bySlot[slot]; ok {
		if cur := s.byID[id]; cur != nil && cur.ref.Owner > owner {
			return Ref{}, ErrStale
		}
		s.revokeLocked(id)
	}
	id := ksuid.New().String()
	ref := Ref{
		ID:          id,
		Slot:        slot,
		Owner:       owner,
		URL:         s.prefix + id,
		ContentType: contentType,
		Size:        len(data),
		CreatedAt:   time.Now(),
	}
	s.byID[id] = &entry{ref: ref, data: data}
	s.bySlot[slot] = id
	liveRefs.WithLabelValues(string(slot)).Set(1)
	publishedTotal.WithLabelValues(string(slot)).Inc()
	return ref, nil
}

// RevokeOwner revokes every ref published by owner and returns how many.
// Refs of other owners are untouched.
func (s *Store) RevokeOwner(owner uint64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, e := range s.byID {
		if e.ref.Owner == owner {
			s.revokeLocked(id)
			n++
		}
	}
	return n
}

// RevokeSlot revokes the ref in slot if owner holds it.
func (s *Store) RevokeSlot(owner uint64, slot Slot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.bySlot[slot]
	if !ok || s.byID[id].ref.Owner != owner {
		return false
	}
	s.revokeLocked(id)
	return true
}

// RevokeAll drops every live ref.
func (s *Store) RevokeAll() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.byID)
	for id := range s.byID {
		s.revokeLocked(id)
	}
	return n
}

func (s *Store) revokeLocked(id string) {
	e, ok := s.byID[id]
	if !ok {
		return
	}
	delete(s.byID, id)
	if s.bySlot[e.ref.Slot] == id {
		delete(s.bySlot, e.ref.Slot)
		liveRefs.WithLabelValues(string(e.ref.Slot)).Set(0)
	}
	revokedTotal.WithLabelValues(string(e.ref.Slot)).Inc()
}

// Open resolves a live ref. Revoked or unknown ids report false.
func (s *Store) Open(id string) (Ref, []byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.byID[id]
	if !ok {
		return Ref{}, nil, false
	}
	return e.ref, e.data, true
}

// Get returns the live ref in slot, if any.
func (s *Store) Get(slot Slot) (Ref, []byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.bySlot[slot]
	if !ok {
		return Ref{}, nil, false
	}
	e := s.byID[id]
	return e.ref, e.data, true
}

// Live returns the number of live refs in slot (0 or 1).
func (s *Store) Live(slot Slot) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bySlot[slot]; ok {
		return 1
	}
	return 0
}

// Len returns the total number of live refs.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}
