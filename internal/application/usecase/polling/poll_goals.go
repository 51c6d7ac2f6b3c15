package polling

import (
	"context"
	"fmt"

	"github.com/fitness-tracker/companion/internal/application/adapter"
	"github.com/fitness-tracker/companion/internal/domain/entity"
)

// PollGoalsUseCase refetches the goals of the account.
type PollGoalsUseCase struct {
	api      adapter.FitnessAPI
	pipeline *Pipeline
}

// NewPollGoalsUseCase creates a new PollGoalsUseCase instance.
func NewPollGoalsUseCase(api adapter.FitnessAPI, pipeline *Pipeline) *PollGoalsUseCase {
	return &PollGoalsUseCase{
		api:      api,
		pipeline: pipeline,
	}
}

// Kind returns the entity kind this use case polls.
func (uc *PollGoalsUseCase) Kind() entity.EntityKind {
	return entity.KindGoal
}

// Execute performs one goal poll. A fetch error leaves the current snapshot untouched.
func (uc *PollGoalsUseCase) Execute(ctx context.Context) (*PollOutput, error) {
	seq := uc.pipeline.Begin(entity.KindGoal)

	goals, err := uc.api.FetchGoals(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch goals: %w", err)
	}

	entities := make([]entity.Entity, 0, len(goals))
	for _, g := range goals {
		entities = append(entities, g)
	}

	return uc.pipeline.Apply(ctx, entity.KindGoal, seq, entities)
}
