// Package entity defines the core business entities for the domain layer.
package entity

// EntityKind identifies a polled entity collection.
type EntityKind string

const (
	KindGoal             EntityKind = "goal"
	KindWater            EntityKind = "water"
	KindScheduledWorkout EntityKind = "scheduled_workout"
)

// Status is the finite status value of an entity.
type Status string

// Entity is a remotely owned record observed through polling.
type Entity interface {
	EntityID() string
	EntityKind() EntityKind
	EntityStatus() Status
}

// ParseEntityKind converts a raw string into a known EntityKind.
func ParseEntityKind(raw string) (EntityKind, bool) {
	switch EntityKind(raw) {
	case KindGoal, KindWater, KindScheduledWorkout:
		return EntityKind(raw), true
	default:
		return "", false
	}
}

// IsReArmable returns true for kinds whose derived status may flip both ways.
func (k EntityKind) IsReArmable() bool {
	return k == KindWater
}
