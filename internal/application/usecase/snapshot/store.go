// Package snapshot holds the last-observed authoritative collection per entity kind.
package snapshot

import (
	"sync"
	"time"

	"github.com/fitness-tracker/companion/internal/application/adapter"
	"github.com/fitness-tracker/companion/internal/domain/entity"
)

// Recorded is the result of storing a snapshot: the snapshot it replaced
// (nil on the first call for a kind) and the newly stored one.
type Recorded struct {
	Previous *entity.Snapshot
	Current  *entity.Snapshot
}

// HasPrevious returns true if a prior snapshot existed for the kind.
func (r Recorded) HasPrevious() bool {
	return r.Previous != nil
}

// kindState is the per-kind bookkeeping.
type kindState struct {
	current *entity.Snapshot
	issued  uint64 // last sequence handed out by NextSequence
	applied uint64 // sequence of the current snapshot
}

// Store keeps the current snapshot per entity kind. It never keeps history:
// the replaced snapshot is handed back to the caller and forgotten.
type Store struct {
	mu    sync.Mutex
	kinds map[entity.EntityKind]*kindState
	clock adapter.Clock
}

// NewStore creates an empty snapshot store.
func NewStore(clock adapter.Clock) *Store {
	if clock == nil {
		clock = adapter.SystemClock()
	}
	return &Store{
		kinds: make(map[entity.EntityKind]*kindState),
		clock: clock,
	}
}

func (s *Store) state(kind entity.EntityKind) *kindState {
	st, ok := s.kinds[kind]
	if !ok {
		st = &kindState{}
		s.kinds[kind] = st
	}
	return st
}

// NextSequence issues the sequence number for a fetch about to start.
func (s *Store) NextSequence(kind entity.EntityKind) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state(kind)
	st.issued++
	return st.issued
}

// Record stores entities as the new current snapshot for kind unconditionally.
func (s *Store) Record(kind entity.EntityKind, entities []entity.Entity) Recorded {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state(kind)
	st.issued++
	return s.apply(st, kind, st.issued, entities)
}

// RecordSequenced stores entities only if seq is newer than the sequence of
// the current snapshot. A slow fetch resolving after a newer one is dropped
// and false is returned.
func (s *Store) RecordSequenced(kind entity.EntityKind, seq uint64, entities []entity.Entity) (Recorded, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state(kind)
	if seq <= st.applied {
		return Recorded{Previous: st.current, Current: st.current}, false
	}
	if seq > st.issued {
		st.issued = seq
	}
	return s.apply(st, kind, seq, entities), true
}

func (s *Store) apply(st *kindState, kind entity.EntityKind, seq uint64, entities []entity.Entity) Recorded {
	next := entity.NewSnapshot(kind, seq, s.clock.Now(), entities)
	previous := st.current

	st.current = next
	st.applied = seq

	return Recorded{Previous: previous, Current: next}
}

// Current returns the last committed snapshot for kind, or nil.
func (s *Store) Current(kind entity.EntityKind) *entity.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if st, ok := s.kinds[kind]; ok {
		return st.current
	}
	return nil
}

// LastAppliedAt returns when the current snapshot for kind was recorded.
func (s *Store) LastAppliedAt(kind entity.EntityKind) (time.Time, bool) {
	snap := s.Current(kind)
	if snap == nil {
		return time.Time{}, false
	}
	return snap.ObservedAt(), true
}

// Reset forgets everything stored for kind.
func (s *Store) Reset(kind entity.EntityKind) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.kinds, kind)
}
