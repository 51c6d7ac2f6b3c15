// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/fitness-tracker/companion/internal/domain/entity"
)

// IdempotencyLedger is the append-only record of fired effect keys, plus the
// generation counters used to re-arm threshold effects.
type IdempotencyLedger interface {
	// Insert records the entry if its key is absent. It returns false when the
	// key was already present. The check and the write must be atomic.
	Insert(ctx context.Context, entry entity.IdempotencyEntry) (bool, error)

	// Exists reports whether an effect key has been recorded.
	Exists(ctx context.Context, effectKey string) (bool, error)

	// Generation returns the current generation for a re-armable scope (0 if unset).
	Generation(ctx context.Context, scope string) (int64, error)

	// AdvanceGeneration increments the generation for a scope and returns the new value.
	AdvanceGeneration(ctx context.Context, scope string) (int64, error)
}
