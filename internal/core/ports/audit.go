package ports

import (
	"context"

	"github.com/campusdeals/marketplace-api/internal/core/domain"
)

// AuditSink accepts auth events without blocking the caller.
type AuditSink interface {
	Record(event domain.AuthEvent)
}

// AuditRepository persists auth events.
type AuditRepository interface {
	InsertEvent(ctx context.Context, event *domain.AuthEvent) error
}

// AuditService processes a single dequeued auth event.
type AuditService interface {
	Process(ctx context.Context, event domain.AuthEvent) error
}
