package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// GoalStatus represents the lifecycle status of a fitness goal.
type GoalStatus = Status

const (
	GoalStatusActive    GoalStatus = "active"
	GoalStatusCompleted GoalStatus = "completed"
	GoalStatusAbandoned GoalStatus = "abandoned"
)

var hundred = decimal.NewFromInt(100)

// Goal represents a user fitness goal as served by the fitness API.
// Once Status leaves active it never returns to active for the same ID.
type Goal struct {
	ID           string
	Title        string
	Status       GoalStatus
	CurrentValue decimal.Decimal
	TargetValue  decimal.Decimal
	Unit         string
	StartDate    *time.Time
	TargetDate   *time.Time
	UpdatedAt    time.Time
}

// EntityID implements Entity.
func (g Goal) EntityID() string { return g.ID }

// EntityKind implements Entity.
func (g Goal) EntityKind() EntityKind { return KindGoal }

// EntityStatus implements Entity.
func (g Goal) EntityStatus() Status { return g.Status }

// Progress returns the completion percentage, capped at 100.
func (g Goal) Progress() decimal.Decimal {
	if g.TargetValue.IsZero() {
		return decimal.Zero
	}

	pct := g.CurrentValue.Div(g.TargetValue).Mul(hundred).Round(1)
	if pct.GreaterThan(hundred) {
		return hundred
	}
	if pct.IsNegative() {
		return decimal.Zero
	}
	return pct
}

// IsValidGoalStatus reports whether s is a known goal status.
func IsValidGoalStatus(s Status) bool {
	switch s {
	case GoalStatusActive, GoalStatusCompleted, GoalStatusAbandoned:
		return true
	}
	return false
}
