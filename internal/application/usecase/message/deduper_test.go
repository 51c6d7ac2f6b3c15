package message

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/fitness-tracker/companion/internal/domain/entity"
)

// manualClock is a clock advanced by hand.
type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestDeduper_ShouldShow(t *testing.T) {
	t.Run("collapses a burst and reopens after the window", func(t *testing.T) {
		clock := newManualClock()
		d := NewDeduper(0, clock)

		got := []bool{d.ShouldShow(entity.SeverityError, "Failed to save goal")}
		clock.Advance(400 * time.Millisecond)
		got = append(got, d.ShouldShow(entity.SeverityError, "Failed to save goal"))
		clock.Advance(400 * time.Millisecond)
		got = append(got, d.ShouldShow(entity.SeverityError, "Failed to save goal"))

		want := []bool{true, false, false}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("call %d: expected %v, got %v", i+1, want[i], got[i])
			}
		}

		clock.Advance(3100*time.Millisecond - 800*time.Millisecond)
		if !d.ShouldShow(entity.SeverityError, "Failed to save goal") {
			t.Error("expected message to show again after 3100ms")
		}
	})

	t.Run("suppression does not extend the window", func(t *testing.T) {
		clock := newManualClock()
		d := NewDeduper(0, clock)

		d.ShouldShow(entity.SeverityInfo, "Saved")
		clock.Advance(2900 * time.Millisecond)
		if d.ShouldShow(entity.SeverityInfo, "Saved") {
			t.Fatal("expected suppression inside the window")
		}

		clock.Advance(100 * time.Millisecond)
		if !d.ShouldShow(entity.SeverityInfo, "Saved") {
			t.Error("expected message to show 3000ms after the first display")
		}
	})

	t.Run("severity is part of the key", func(t *testing.T) {
		d := NewDeduper(0, newManualClock())

		if !d.ShouldShow(entity.SeverityError, "Network error") {
			t.Error("expected error message to show")
		}
		if !d.ShouldShow(entity.SeverityWarning, "Network error") {
			t.Error("expected warning with the same text to show")
		}
	})

	t.Run("expired entries are pruned lazily", func(t *testing.T) {
		clock := newManualClock()
		d := NewDeduper(0, clock)

		d.ShouldShow(entity.SeverityInfo, "one")
		d.ShouldShow(entity.SeverityInfo, "two")
		if d.Len() != 2 {
			t.Fatalf("expected 2 entries, got %d", d.Len())
		}

		clock.Advance(5 * time.Second)
		d.ShouldShow(entity.SeverityInfo, "three")

		if d.Len() != 1 {
			t.Errorf("expected 1 entry after prune, got %d", d.Len())
		}
	})

	t.Run("custom window", func(t *testing.T) {
		clock := newManualClock()
		d := NewDeduper(time.Second, clock)

		d.ShouldShow(entity.SeverityInfo, "x")
		clock.Advance(time.Second)
		if !d.ShouldShow(entity.SeverityInfo, "x") {
			t.Error("expected message to show after a 1s window")
		}
	})
}

type recordingPresenter struct {
	shown []string
}

func (p *recordingPresenter) Present(_ context.Context, severity entity.Severity, text string) {
	p.shown = append(p.shown, entity.MessageKey(severity, text))
}

func TestService_Show(t *testing.T) {
	clock := newManualClock()
	presenter := &recordingPresenter{}
	s := NewService(NewDeduper(0, clock), presenter)
	ctx := context.Background()

	if !s.Show(ctx, entity.SeverityError, "Failed to complete workout") {
		t.Error("expected first message to show")
	}
	if s.Show(ctx, entity.SeverityError, "Failed to complete workout") {
		t.Error("expected duplicate to be suppressed")
	}

	if len(presenter.shown) != 1 {
		t.Fatalf("expected 1 presented message, got %d", len(presenter.shown))
	}
	if presenter.shown[0] != "error|Failed to complete workout" {
		t.Errorf("expected error|Failed to complete workout, got %s", presenter.shown[0])
	}
}

func TestService_Show_UnknownSeverity(t *testing.T) {
	presenter := &recordingPresenter{}
	s := NewService(NewDeduper(0, newManualClock()), presenter)

	if s.Show(context.Background(), entity.Severity("critical"), "Disk full") {
		t.Error("expected message with unknown severity to be dropped")
	}
	if len(presenter.shown) != 0 {
		t.Errorf("expected 0 presented messages, got %d", len(presenter.shown))
	}
}
