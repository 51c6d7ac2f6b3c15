package achievement

import (
	"strconv"
	"strings"

	"github.com/fitness-tracker/companion/internal/domain/entity"
)

const thresholdCrossing = "threshold-crossing"

// EffectKey builds the ledger key for a monotonic transition:
// kind|entityID|toStatus.
func EffectKey(kind entity.EntityKind, entityID string, to entity.Status) string {
	return strings.Join([]string{string(kind), entityID, string(to)}, "|")
}

// ThresholdEffectKey builds the ledger key for one generation of a
// re-armable entity: kind|entityID|threshold-crossing|generation.
func ThresholdEffectKey(kind entity.EntityKind, entityID string, generation int64) string {
	return strings.Join([]string{
		string(kind),
		entityID,
		thresholdCrossing,
		strconv.FormatInt(generation, 10),
	}, "|")
}

// GenerationScope is the ledger scope holding the generation counter of a
// re-armable entity.
func GenerationScope(kind entity.EntityKind, entityID string) string {
	return string(kind) + "|" + entityID
}

// hasEffect reports whether an event maps to a celebration.
func hasEffect(ev entity.TransitionEvent) bool {
	switch ev.Kind {
	case entity.KindGoal:
		return ev.To == entity.GoalStatusCompleted
	case entity.KindWater:
		return ev.To == entity.HydrationReached
	case entity.KindScheduledWorkout:
		return ev.To == entity.ScheduledWorkoutCompleted
	}
	return false
}
