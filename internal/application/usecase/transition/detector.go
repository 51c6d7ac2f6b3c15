// Package transition diffs consecutive snapshots into semantic transition events.
package transition

import (
	"github.com/fitness-tracker/companion/internal/domain/entity"
)

// Detector compares two snapshots of the same kind. It is a pure function of
// its inputs apart from the configured daily water goal.
type Detector struct {
	dailyWaterGoalMl int
}

// NewDetector creates a Detector. A non-positive goal falls back to
// entity.DefaultDailyWaterGoalMl.
func NewDetector(dailyWaterGoalMl int) *Detector {
	if dailyWaterGoalMl <= 0 {
		dailyWaterGoalMl = entity.DefaultDailyWaterGoalMl
	}
	return &Detector{dailyWaterGoalMl: dailyWaterGoalMl}
}

// DailyWaterGoalMl returns the threshold used for water records.
func (d *Detector) DailyWaterGoalMl() int {
	return d.dailyWaterGoalMl
}

// Detect returns the transitions between previous and current, in the
// iteration order of current. Entities missing from previous never emit.
// For the re-armable water kind only the not_reached -> reached edge is
// returned.
func (d *Detector) Detect(kind entity.EntityKind, previous, current *entity.Snapshot) []entity.TransitionEvent {
	if previous == nil || current == nil {
		return nil
	}
	if kind.IsReArmable() {
		return d.thresholdEdges(previous, current, true)
	}
	return d.statusChanges(previous, current)
}

// DetectResets returns the reached -> not_reached edges of re-armable kinds.
// They fire no celebration but let the dispatcher re-arm.
func (d *Detector) DetectResets(kind entity.EntityKind, previous, current *entity.Snapshot) []entity.TransitionEvent {
	if previous == nil || current == nil || !kind.IsReArmable() {
		return nil
	}
	return d.thresholdEdges(previous, current, false)
}

func (d *Detector) statusChanges(previous, current *entity.Snapshot) []entity.TransitionEvent {
	var events []entity.TransitionEvent
	for _, cur := range current.Entities() {
		prev, ok := previous.Get(cur.EntityID())
		if !ok {
			continue
		}
		if prev.EntityStatus() == cur.EntityStatus() {
			continue
		}
		events = append(events, entity.NewTransitionEvent(prev.EntityStatus(), cur, current.ObservedAt()))
	}
	return events
}

func (d *Detector) thresholdEdges(previous, current *entity.Snapshot, rising bool) []entity.TransitionEvent {
	var events []entity.TransitionEvent
	for _, cur := range current.Entities() {
		curRecord, ok := cur.(entity.WaterRecord)
		if !ok {
			continue
		}
		prev, ok := previous.Get(cur.EntityID())
		if !ok {
			continue
		}
		prevRecord, ok := prev.(entity.WaterRecord)
		if !ok {
			continue
		}

		prevRecord.GoalMl = d.dailyWaterGoalMl
		curRecord.GoalMl = d.dailyWaterGoalMl
		wasReached, isReached := prevRecord.Reached(), curRecord.Reached()

		if rising && !wasReached && isReached {
			events = append(events, entity.NewTransitionEvent(prevRecord.EntityStatus(), curRecord, current.ObservedAt()))
		}
		if !rising && wasReached && !isReached {
			events = append(events, entity.NewTransitionEvent(prevRecord.EntityStatus(), curRecord, current.ObservedAt()))
		}
	}
	return events
}

// First returns the first event in iteration order, for callers that surface
// a single transition per poll.
func First(events []entity.TransitionEvent) (entity.TransitionEvent, bool) {
	if len(events) == 0 {
		return entity.TransitionEvent{}, false
	}
	return events[0], true
}

// Filter returns the events whose target status equals to.
func Filter(events []entity.TransitionEvent, to entity.Status) []entity.TransitionEvent {
	var out []entity.TransitionEvent
	for _, e := range events {
		if e.To == to {
			out = append(out, e)
		}
	}
	return out
}
