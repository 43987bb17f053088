package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/campusdeals/marketplace-api/internal/core/domain"
	"github.com/campusdeals/marketplace-api/internal/core/ports"
)

type auditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

// NewAuditService returns an AuditService that persists events to repo.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, log: log}
}

// Process persists a single auth event.
func (s *auditService) Process(ctx context.Context, event domain.AuthEvent) error {
	if event.Type == "" {
		return fmt.Errorf("process audit event: %w", domain.Invalid("type", "event type is required"))
	}
	if event.OccurredAt.IsZero() {
		return fmt.Errorf("process audit event: %w", domain.Invalid("occurred_at", "event time is required"))
	}

	if err := s.repo.InsertEvent(ctx, &event); err != nil {
		return fmt.Errorf("process audit event: %w", err)
	}

	s.log.Debug().
		Str("type", string(event.Type)).
		Int64("user_id", event.UserID).
		Str("request_id", event.RequestID).
		Msg("audit event stored")

	return nil
}

// NopAuditSink discards every event. Used when no audit store is configured.
type NopAuditSink struct{}

func (NopAuditSink) Record(domain.AuthEvent) {}
