// Package polling composes fetch, snapshot, detection and dispatch for each
// polled entity kind.
package polling

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/fitness-tracker/companion/internal/application/usecase/achievement"
	"github.com/fitness-tracker/companion/internal/application/usecase/snapshot"
	"github.com/fitness-tracker/companion/internal/application/usecase/transition"
	"github.com/fitness-tracker/companion/internal/domain/entity"
)

// PollOutput represents the outcome of a single poll.
type PollOutput struct {
	Kind        entity.EntityKind
	Sequence    uint64
	Applied     bool // the fetched snapshot became current
	Stale       bool // a newer snapshot was already applied
	Fired       int
	Resets      int
	Transitions []entity.TransitionEvent
}

// Pipeline applies fetched collections and dispatches their transitions.
// It is shared by the per-kind poll use cases. Applies of one kind run one
// at a time, from recording the snapshot through the last dispatch.
type Pipeline struct {
	mu    sync.Mutex
	kinds map[entity.EntityKind]*sync.Mutex

	store      *snapshot.Store
	detector   *transition.Detector
	dispatcher *achievement.Dispatcher
	logger     *slog.Logger
}

// NewPipeline creates a new Pipeline.
func NewPipeline(store *snapshot.Store, detector *transition.Detector, dispatcher *achievement.Dispatcher) *Pipeline {
	return &Pipeline{
		kinds:      make(map[entity.EntityKind]*sync.Mutex),
		store:      store,
		detector:   detector,
		dispatcher: dispatcher,
		logger:     slog.With("component", "poll_pipeline"),
	}
}

// Store returns the snapshot store the pipeline writes to.
func (p *Pipeline) Store() *snapshot.Store {
	return p.store
}

// Begin issues the sequence number for a fetch about to start.
func (p *Pipeline) Begin(kind entity.EntityKind) uint64 {
	return p.store.NextSequence(kind)
}

// Apply records the fetched entities under seq and dispatches the resulting
// transitions. Results arriving after ctx is done are discarded. Ledger
// failures do not stop the remaining events; they are joined and returned.
func (p *Pipeline) Apply(ctx context.Context, kind entity.EntityKind, seq uint64, entities []entity.Entity) (*PollOutput, error) {
	output := &PollOutput{Kind: kind, Sequence: seq}

	if err := ctx.Err(); err != nil {
		p.logger.Debug("Discarding poll result after cancellation", "kind", kind, "sequence", seq)
		return output, err
	}

	lock := p.lockFor(kind)
	lock.Lock()
	defer lock.Unlock()

	rec, applied := p.store.RecordSequenced(kind, seq, entities)
	if !applied {
		output.Stale = true
		p.logger.Debug("Discarding stale poll result", "kind", kind, "sequence", seq, "current_entities", rec.Current.Len())
		return output, nil
	}
	output.Applied = true

	var errs []error

	for _, reset := range p.detector.DetectResets(kind, rec.Previous, rec.Current) {
		if err := p.dispatcher.ObserveReset(ctx, reset); err != nil {
			p.logger.Error("Failed to re-arm effect", "kind", kind, "entity_id", reset.EntityID, "error", err)
			errs = append(errs, err)
			continue
		}
		output.Resets++
	}

	output.Transitions = p.detector.Detect(kind, rec.Previous, rec.Current)
	for _, ev := range output.Transitions {
		fired, err := p.dispatcher.MaybeFire(ctx, ev)
		if err != nil {
			p.logger.Error("Failed to dispatch transition", "kind", kind, "entity_id", ev.EntityID, "error", err)
			errs = append(errs, err)
			continue
		}
		if fired {
			output.Fired++
		}
	}

	return output, errors.Join(errs...)
}

func (p *Pipeline) lockFor(kind entity.EntityKind) *sync.Mutex {
	p.mu.Lock()
	defer p.mu.Unlock()

	lock, ok := p.kinds[kind]
	if !ok {
		lock = &sync.Mutex{}
		p.kinds[kind] = lock
	}
	return lock
}
