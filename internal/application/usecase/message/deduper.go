// Package message collapses duplicate user-facing messages before display.
package message

import (
	"sync"
	"time"

	"github.com/fitness-tracker/companion/internal/application/adapter"
	"github.com/fitness-tracker/companion/internal/domain/entity"
)

// DefaultWindow is the interval during which identical messages collapse.
const DefaultWindow = 3000 * time.Millisecond

// Deduper is a time-windowed ledger of recently shown messages.
type Deduper struct {
	mu      sync.Mutex
	entries map[string]entity.DedupeEntry
	window  time.Duration
	clock   adapter.Clock
}

// NewDeduper creates a Deduper. A non-positive window falls back to DefaultWindow.
func NewDeduper(window time.Duration, clock adapter.Clock) *Deduper {
	if window <= 0 {
		window = DefaultWindow
	}
	if clock == nil {
		clock = adapter.SystemClock()
	}
	return &Deduper{
		entries: make(map[string]entity.DedupeEntry),
		window:  window,
		clock:   clock,
	}
}

// ShouldShow reports whether a message should be displayed now. A suppressed
// message does not move the window; only a shown message records its time.
func (d *Deduper) ShouldShow(severity entity.Severity, text string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.clock.Now()
	d.prune(now)

	key := entity.MessageKey(severity, text)
	if entry, ok := d.entries[key]; ok && now.Sub(entry.LastShownAt) < d.window {
		return false
	}

	d.entries[key] = entity.DedupeEntry{MessageKey: key, LastShownAt: now}
	return true
}

// Len returns the number of tracked messages.
func (d *Deduper) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.entries)
}

// prune drops entries outside the window. Must be called with mu held.
func (d *Deduper) prune(now time.Time) {
	for key, entry := range d.entries {
		if now.Sub(entry.LastShownAt) >= d.window {
			delete(d.entries, key)
		}
	}
}
