package effects

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/fitness-tracker/companion/internal/application/adapter"
	"github.com/fitness-tracker/companion/internal/domain/entity"
)

// PresentedMessage is a message that reached the user.
type PresentedMessage struct {
	Severity entity.Severity `json:"severity"`
	Text     string          `json:"text"`
	ShownAt  time.Time       `json:"shown_at"`
}

// LogPresenter presents messages as log records and keeps the most recent
// ones so a host UI can read them back.
type LogPresenter struct {
	mu       sync.Mutex
	logger   *slog.Logger
	clock    adapter.Clock
	capacity int
	recent   []PresentedMessage
}

// NewLogPresenter creates a presenter remembering up to capacity messages.
func NewLogPresenter(clock adapter.Clock, capacity int) *LogPresenter {
	if capacity <= 0 {
		capacity = 50
	}
	return &LogPresenter{
		logger:   slog.With("component", "messages"),
		clock:    clock,
		capacity: capacity,
	}
}

// Present implements adapter.MessagePresenter.
func (p *LogPresenter) Present(ctx context.Context, severity entity.Severity, text string) {
	p.logger.Log(ctx, levelFor(severity), text, "severity", severity)

	p.mu.Lock()
	defer p.mu.Unlock()

	p.recent = append(p.recent, PresentedMessage{Severity: severity, Text: text, ShownAt: p.clock.Now()})
	if len(p.recent) > p.capacity {
		p.recent = p.recent[len(p.recent)-p.capacity:]
	}
}

// Recent returns the remembered messages, oldest first.
func (p *LogPresenter) Recent() []PresentedMessage {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]PresentedMessage, len(p.recent))
	copy(out, p.recent)
	return out
}

func levelFor(severity entity.Severity) slog.Level {
	switch severity {
	case entity.SeverityError:
		return slog.LevelError
	case entity.SeverityWarning:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

var _ adapter.MessagePresenter = (*LogPresenter)(nil)
