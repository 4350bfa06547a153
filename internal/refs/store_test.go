package refs

import (
	"errors"
	"strings"
	"sync"
	"testing"
)

func TestPublish_ReplacesSlotAndRevokesPrevious(t *testing.T) {
	s := NewStore("")
	r1, err := s.Publish(1, SlotSource, []byte("a"), "image/png")
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if !strings.HasPrefix(r1.URL, "/blob/") || r1.Size != 1 {
		t.Fatalf("unexpected ref %+v", r1)
	}
	r2, err := s.Publish(2, SlotSource, []byte("bb"), "image/png")
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if r1.ID == r2.ID {
		t.Fatalf("ids must differ")
	}
	if _, _, ok := s.Open(r1.ID); ok {
		t.Fatalf("old ref still resolvable")
	}
	if _, data, ok := s.Open(r2.ID); !ok || string(data) != "bb" {
		t.Fatalf("new ref not resolvable")
	}
	if s.Live(SlotSource) != 1 || s.Len() != 1 {
		t.Fatalf("live=%d len=%d", s.Live(SlotSource), s.Len())
	}
}

func TestPublish_OlderOwnerIsStale(t *testing.T) {
	s := NewStore("/blob/")
	newer, _ := s.Publish(5, SlotResult, []byte("new"), "image/png")
	if _, err := s.Publish(4, SlotResult, []byte("old"), "image/png"); !errors.Is(err, ErrStale) {
		t.Fatalf("expected ErrStale, got %v", err)
	}
	if _, data, ok := s.Open(newer.ID); !ok || string(data) != "new" {
		t.Fatalf("newer ref must survive a stale publish")
	}
}

func TestRevokeOwner_LeavesOtherOwners(t *testing.T) {
	s := NewStore("")
	s.Publish(1, SlotSource, []byte("s1"), "")
	s.Publish(1, SlotResult, []byte("r1"), "")
	src2, _ := s.Publish(2, SlotSource, []byte("s2"), "")

	if n := s.RevokeOwner(1); n != 1 {
		t.Fatalf("revoked %d, want 1 (only owner 1's result)", n)
	}
	if _, _, ok := s.Open(src2.ID); !ok {
		t.Fatalf("owner 2's ref revoked by owner 1")
	}
	if s.Live(SlotResult) != 0 {
		t.Fatalf("owner 1's result still live")
	}
	if s.RevokeSlot(1, SlotSource) {
		t.Fatalf("owner 1 must not revoke owner 2's slot")
	}
	if !s.RevokeSlot(2, SlotSource) || s.Len() != 0 {
		t.Fatalf("owner 2 could not revoke its own slot")
	}
}

func TestRevokeAll(t *testing.T) {
	s := NewStore("")
	a, _ := s.Publish(1, SlotSource, []byte("a"), "")
	b, _ := s.Publish(1, SlotResult, []byte("b"), "")
	if n := s.RevokeAll(); n != 2 {
		t.Fatalf("revoked %d, want 2", n)
	}
	for _, id := range []string{a.ID, b.ID} {
		if _, _, ok := s.Open(id); ok {
			t.Fatalf("ref %s survived RevokeAll", id)
		}
	}
	if _, _, ok := s.Get(SlotSource); ok {
		t.Fatalf("slot still populated")
	}
}

func TestHygieneAfterManyPublishes(t *testing.T) {
	s := NewStore("")
	var wg sync.WaitGroup
	for i := 1; i <= 50; i++ {
		wg.Add(1)
		go func(owner uint64) {
			defer wg.Done()
			s.Publish(owner, SlotSource, []byte{byte(owner)}, "")
			s.Publish(owner, SlotResult, []byte{byte(owner)}, "")
		}(uint64(i))
	}
	wg.Wait()
	if s.Live(SlotSource) != 1 || s.Live(SlotResult) != 1 || s.Len() != 2 {
		t.Fatalf("live source=%d result=%d len=%d", s.Live(SlotSource), s.Live(SlotResult), s.Len())
	}
}
