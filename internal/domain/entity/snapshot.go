package entity

import "time"

// Snapshot is an immutable point-in-time copy of a fetched entity collection.
// Iteration order is the order the entities were fetched in.
type Snapshot struct {
	kind       EntityKind
	sequence   uint64
	observedAt time.Time
	order      []Entity
	byID       map[string]Entity
}

// NewSnapshot copies entities into a new Snapshot. Later duplicates of an id
// replace the earlier value but keep the first position.
func NewSnapshot(kind EntityKind, sequence uint64, observedAt time.Time, entities []Entity) *Snapshot {
	s := &Snapshot{
		kind:       kind,
		sequence:   sequence,
		observedAt: observedAt,
		order:      make([]Entity, 0, len(entities)),
		byID:       make(map[string]Entity, len(entities)),
	}

	for _, e := range entities {
		if e == nil {
			continue
		}
		id := e.EntityID()
		if _, exists := s.byID[id]; exists {
			for i := range s.order {
				if s.order[i].EntityID() == id {
					s.order[i] = e
					break
				}
			}
		} else {
			s.order = append(s.order, e)
		}
		s.byID[id] = e
	}

	return s
}

// Kind returns the entity kind held by the snapshot.
func (s *Snapshot) Kind() EntityKind { return s.kind }

// Sequence returns the fetch sequence number the snapshot was applied with.
func (s *Snapshot) Sequence() uint64 { return s.sequence }

// ObservedAt returns when the snapshot was recorded.
func (s *Snapshot) ObservedAt() time.Time { return s.observedAt }

// Len returns the number of entities.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// Get looks up an entity by id.
func (s *Snapshot) Get(id string) (Entity, bool) {
	if s == nil {
		return nil, false
	}
	e, ok := s.byID[id]
	return e, ok
}

// Entities returns a copy of the entities in fetch order.
func (s *Snapshot) Entities() []Entity {
	if s == nil {
		return nil
	}
	out := make([]Entity, len(s.order))
	copy(out, s.order)
	return out
}
