// Package cache implements adapters backed by Redis.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fitness-tracker/companion/internal/application/adapter"
	"github.com/fitness-tracker/companion/internal/domain/entity"
	domainerror "github.com/fitness-tracker/companion/internal/domain/error"
)

const keyPrefix = "companion"

// idempotencyLedger implements adapter.IdempotencyLedger on Redis. Keys never
// expire, matching the append-only ledger semantics.
type idempotencyLedger struct {
	client    redis.UniversalClient
	namespace string
}

// NewIdempotencyLedger creates a Redis ledger scoped to namespace.
func NewIdempotencyLedger(client redis.UniversalClient, namespace string) adapter.IdempotencyLedger {
	return &idempotencyLedger{
		client:    client,
		namespace: namespace,
	}
}

func (l *idempotencyLedger) effectKey(effectKey string) string {
	return keyPrefix + ":" + l.namespace + ":effect:" + effectKey
}

func (l *idempotencyLedger) generationKey(scope string) string {
	return keyPrefix + ":" + l.namespace + ":generation:" + scope
}

// Insert records the entry with SETNX.
func (l *idempotencyLedger) Insert(ctx context.Context, e entity.IdempotencyEntry) (bool, error) {
	inserted, err := l.client.SetNX(ctx, l.effectKey(e.EffectKey), e.FiredAt.UTC().Format(time.RFC3339Nano), 0).Result()
	if err != nil {
		return false, domainerror.NewLedgerError(domainerror.ErrCodeLedgerWriteFailed, "failed to record effect", err)
	}
	return inserted, nil
}

// Exists reports whether an effect key has been recorded.
func (l *idempotencyLedger) Exists(ctx context.Context, effectKey string) (bool, error) {
	n, err := l.client.Exists(ctx, l.effectKey(effectKey)).Result()
	if err != nil {
		return false, domainerror.NewLedgerError(domainerror.ErrCodeLedgerUnavailable, "failed to read effect", err)
	}
	return n > 0, nil
}

// Generation returns the current generation for a scope.
func (l *idempotencyLedger) Generation(ctx context.Context, scope string) (int64, error) {
	gen, err := l.client.Get(ctx, l.generationKey(scope)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, domainerror.NewLedgerError(domainerror.ErrCodeLedgerUnavailable, "failed to read generation", err)
	}
	return gen, nil
}

// AdvanceGeneration increments the generation with INCR.
func (l *idempotencyLedger) AdvanceGeneration(ctx context.Context, scope string) (int64, error) {
	gen, err := l.client.Incr(ctx, l.generationKey(scope)).Result()
	if err != nil {
		return 0, domainerror.NewLedgerError(domainerror.ErrCodeLedgerWriteFailed, "failed to advance generation", err)
	}
	return gen, nil
}
