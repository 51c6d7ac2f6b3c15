package polling

import (
	"context"
	"fmt"
	"time"

	"github.com/fitness-tracker/companion/internal/application/adapter"
	"github.com/fitness-tracker/companion/internal/domain/entity"
)

// DateLayout is the day format used by the water intake endpoint.
const DateLayout = "2006-01-02"

// PollWaterUseCase refetches today's water intake.
type PollWaterUseCase struct {
	api         adapter.FitnessAPI
	pipeline    *Pipeline
	clock       adapter.Clock
	location    *time.Location
	dailyGoalMl int
}

// NewPollWaterUseCase creates a new PollWaterUseCase instance. "Today" is
// evaluated in location.
func NewPollWaterUseCase(api adapter.FitnessAPI, pipeline *Pipeline, clock adapter.Clock, location *time.Location, dailyGoalMl int) *PollWaterUseCase {
	if clock == nil {
		clock = adapter.SystemClock()
	}
	if location == nil {
		location = time.UTC
	}
	return &PollWaterUseCase{
		api:         api,
		pipeline:    pipeline,
		clock:       clock,
		location:    location,
		dailyGoalMl: dailyGoalMl,
	}
}

// Kind returns the entity kind this use case polls.
func (uc *PollWaterUseCase) Kind() entity.EntityKind {
	return entity.KindWater
}

// Today returns the current day in the configured location.
func (uc *PollWaterUseCase) Today() string {
	return uc.clock.Now().In(uc.location).Format(DateLayout)
}

// Execute performs one water intake poll.
func (uc *PollWaterUseCase) Execute(ctx context.Context) (*PollOutput, error) {
	seq := uc.pipeline.Begin(entity.KindWater)
	date := uc.Today()

	record, err := uc.api.FetchWaterIntake(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch water intake: %w", err)
	}

	if record.Date == "" {
		record.Date = date
	}
	record = entity.NewWaterRecord(record.Date, record.AmountMl, uc.dailyGoalMl)

	return uc.pipeline.Apply(ctx, entity.KindWater, seq, []entity.Entity{record})
}
