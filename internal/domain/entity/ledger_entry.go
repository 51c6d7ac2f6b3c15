package entity

import "time"

// IdempotencyEntry records that the side effect identified by EffectKey fired.
// Entries are append-only and never expire.
type IdempotencyEntry struct {
	EffectKey string
	FiredAt   time.Time
}

// DedupeEntry tracks when a user-facing message was last displayed.
type DedupeEntry struct {
	MessageKey  string
	LastShownAt time.Time
}
