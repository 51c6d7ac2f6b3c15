// Package worker runs the per-kind poll loops.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fitness-tracker/companion/internal/application/usecase/polling"
	"github.com/fitness-tracker/companion/internal/domain/entity"
	"github.com/fitness-tracker/companion/internal/infra/metrics"
)

// Poller is one per-kind poll use case.
type Poller interface {
	Kind() entity.EntityKind
	Execute(ctx context.Context) (*polling.PollOutput, error)
}

// Worker polls one entity kind on a fixed interval.
type Worker struct {
	poller       Poller
	pollInterval time.Duration
	logger       *slog.Logger
}

// DefaultPollInterval replaces a non-positive poll interval.
const DefaultPollInterval = 30 * time.Second

// NewWorker creates a new poll worker. A non-positive interval falls back
// to DefaultPollInterval.
func NewWorker(poller Poller, pollInterval time.Duration) *Worker {
	if pollInterval <= 0 {
		slog.Warn("Non-positive poll interval, using default",
			"kind", poller.Kind(),
			"poll_interval", pollInterval,
			"default", DefaultPollInterval)
		pollInterval = DefaultPollInterval
	}
	return &Worker{
		poller:       poller,
		pollInterval: pollInterval,
		logger:       slog.With("component", "poll_worker", "kind", poller.Kind()),
	}
}

// Kind returns the entity kind this worker polls.
func (w *Worker) Kind() entity.EntityKind {
	return w.poller.Kind()
}

// Start begins the worker loop. It blocks until the context is cancelled.
func (w *Worker) Start(ctx context.Context) {
	w.logger.Info("Poll worker started", "poll_interval", w.pollInterval)

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	// Poll immediately on start, then on ticker
	w.poll(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Poll worker shutting down")
			return
		case <-ticker.C:
			w.poll(ctx)
		}
	}
}

// Refresh polls immediately, outside the ticker schedule.
func (w *Worker) Refresh(ctx context.Context) (*polling.PollOutput, error) {
	return w.poll(ctx)
}

func (w *Worker) poll(ctx context.Context) (*polling.PollOutput, error) {
	output, err := w.poller.Execute(ctx)
	if ctx.Err() != nil {
		return output, ctx.Err()
	}

	stale := output != nil && output.Stale
	metrics.ObservePoll(string(w.poller.Kind()), stale, fetchErr(output, err))

	if err != nil {
		w.logger.Warn("Poll failed", "error", err)
		return output, err
	}
	if output.Fired > 0 {
		w.logger.Info("Poll fired effects", "sequence", output.Sequence, "fired", output.Fired)
	} else {
		w.logger.Debug("Poll applied", "sequence", output.Sequence, "stale", output.Stale)
	}
	return output, nil
}

// fetchErr reports err only when the fetch itself failed. A poll that
// applied its snapshot but hit a ledger failure is not a fetch failure.
func fetchErr(output *polling.PollOutput, err error) error {
	if output != nil && output.Applied {
		return nil
	}
	return err
}

// Group runs one worker per entity kind.
type Group struct {
	workers map[entity.EntityKind]*Worker
}

// NewGroup creates a worker group. A later worker for the same kind replaces an earlier one.
func NewGroup(workers ...*Worker) *Group {
	g := &Group{workers: make(map[entity.EntityKind]*Worker, len(workers))}
	for _, w := range workers {
		g.workers[w.Kind()] = w
	}
	return g
}

// Run starts every worker and blocks until ctx is cancelled.
func (g *Group) Run(ctx context.Context) error {
	eg, ctx := errgroup.WithContext(ctx)
	for _, w := range g.workers {
		w := w
		eg.Go(func() error {
			w.Start(ctx)
			return nil
		})
	}
	return eg.Wait()
}

// Refresh triggers an immediate poll of kind.
func (g *Group) Refresh(ctx context.Context, kind entity.EntityKind) (*polling.PollOutput, error) {
	w, ok := g.workers[kind]
	if !ok {
		return nil, fmt.Errorf("no poll worker for kind %q", kind)
	}
	return w.Refresh(ctx)
}

// Kinds returns the polled kinds in sorted order.
func (g *Group) Kinds() []entity.EntityKind {
	kinds := make([]entity.EntityKind, 0, len(g.workers))
	for k := range g.workers {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
