package entity

import (
	"time"

	"github.com/google/uuid"
)

// TransitionEvent records a status change observed strictly between two
// consecutive snapshots of the same entity.
type TransitionEvent struct {
	ID         uuid.UUID
	Kind       EntityKind
	EntityID   string
	From       Status
	To         Status
	ObservedAt time.Time
	Entity     Entity // value from the newer snapshot
}

// NewTransitionEvent creates a TransitionEvent for the given entity.
func NewTransitionEvent(from Status, current Entity, observedAt time.Time) TransitionEvent {
	return TransitionEvent{
		ID:         uuid.New(),
		Kind:       current.EntityKind(),
		EntityID:   current.EntityID(),
		From:       from,
		To:         current.EntityStatus(),
		ObservedAt: observedAt,
		Entity:     current,
	}
}

// SameTransition reports whether two events describe the same logical edge.
func (e TransitionEvent) SameTransition(other TransitionEvent) bool {
	return e.Kind == other.Kind &&
		e.EntityID == other.EntityID &&
		e.From == other.From &&
		e.To == other.To
}
