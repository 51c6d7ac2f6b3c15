package persistence

import (
	"context"
	"sync"

	"github.com/fitness-tracker/companion/internal/application/adapter"
	"github.com/fitness-tracker/companion/internal/domain/entity"
)

// memoryLedger is a process-local IdempotencyLedger. Its entries do not
// survive a restart.
type memoryLedger struct {
	mu          sync.Mutex
	entries     map[string]entity.IdempotencyEntry
	generations map[string]int64
}

// NewMemoryLedger creates an empty in-memory ledger.
func NewMemoryLedger() adapter.IdempotencyLedger {
	return &memoryLedger{
		entries:     make(map[string]entity.IdempotencyEntry),
		generations: make(map[string]int64),
	}
}

func (l *memoryLedger) Insert(_ context.Context, e entity.IdempotencyEntry) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.entries[e.EffectKey]; ok {
		return false, nil
	}
	l.entries[e.EffectKey] = e
	return true, nil
}

func (l *memoryLedger) Exists(_ context.Context, effectKey string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, ok := l.entries[effectKey]
	return ok, nil
}

func (l *memoryLedger) Generation(_ context.Context, scope string) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.generations[scope], nil
}

func (l *memoryLedger) AdvanceGeneration(_ context.Context, scope string) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.generations[scope]++
	return l.generations[scope], nil
}
