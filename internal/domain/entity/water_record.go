package entity

// DefaultDailyWaterGoalMl is the fixed daily hydration target.
const DefaultDailyWaterGoalMl = 2000

// HydrationStatus is the derived status of a day's water intake.
type HydrationStatus = Status

const (
	HydrationReached    HydrationStatus = "reached"
	HydrationNotReached HydrationStatus = "not_reached"
)

// WaterRecord holds the cumulative water intake for a single day.
// The date doubles as the entity id, so each day is its own one-element set.
type WaterRecord struct {
	Date     string // YYYY-MM-DD
	AmountMl int
	GoalMl   int
}

// NewWaterRecord creates a WaterRecord evaluated against goalMl.
// A non-positive goal falls back to DefaultDailyWaterGoalMl.
func NewWaterRecord(date string, amountMl, goalMl int) WaterRecord {
	if goalMl <= 0 {
		goalMl = DefaultDailyWaterGoalMl
	}
	return WaterRecord{Date: date, AmountMl: amountMl, GoalMl: goalMl}
}

// EntityID implements Entity.
func (w WaterRecord) EntityID() string { return w.Date }

// EntityKind implements Entity.
func (w WaterRecord) EntityKind() EntityKind { return KindWater }

// EntityStatus implements Entity.
func (w WaterRecord) EntityStatus() Status {
	if w.Reached() {
		return HydrationReached
	}
	return HydrationNotReached
}

// Reached returns true when intake meets or exceeds the daily goal.
func (w WaterRecord) Reached() bool {
	goal := w.GoalMl
	if goal <= 0 {
		goal = DefaultDailyWaterGoalMl
	}
	return w.AmountMl >= goal
}

// RemainingMl returns how much is left to drink today, never negative.
func (w WaterRecord) RemainingMl() int {
	goal := w.GoalMl
	if goal <= 0 {
		goal = DefaultDailyWaterGoalMl
	}
	if w.AmountMl >= goal {
		return 0
	}
	return goal - w.AmountMl
}
