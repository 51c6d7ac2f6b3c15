package message

import (
	"context"
	"log/slog"

	"github.com/fitness-tracker/companion/internal/application/adapter"
	"github.com/fitness-tracker/companion/internal/domain/entity"
)

// Service routes user-facing messages through the deduper to the presenter.
type Service struct {
	deduper   *Deduper
	presenter adapter.MessagePresenter
	logger    *slog.Logger
}

// NewService creates a new message Service.
func NewService(deduper *Deduper, presenter adapter.MessagePresenter) *Service {
	return &Service{
		deduper:   deduper,
		presenter: presenter,
		logger:    slog.With("component", "message_service"),
	}
}

// Show displays the message unless an identical one was shown within the
// window or its severity is unknown. It reports whether the message was shown.
func (s *Service) Show(ctx context.Context, severity entity.Severity, text string) bool {
	if !entity.IsValidSeverity(severity) {
		s.logger.Warn("Message with unknown severity dropped", "severity", severity, "text", text)
		return false
	}
	if !s.deduper.ShouldShow(severity, text) {
		s.logger.Debug("Message suppressed", "severity", severity, "text", text)
		return false
	}

	s.presenter.Present(ctx, severity, text)
	return true
}
