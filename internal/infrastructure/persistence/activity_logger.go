package persistence

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dormbill/backend/internal/domain/billing"
	"github.com/dormbill/backend/internal/domain/shared"
)

// ActivityLogger writes audit records through the activity log repository.
// Failures are logged and swallowed so auditing never breaks an operation.
type ActivityLogger struct {
	repo   billing.ActivityLogRepository
	logger *zap.Logger
}

// NewActivityLogger creates an activity logger over the given repository
func NewActivityLogger(repo billing.ActivityLogRepository, logger *zap.Logger) *ActivityLogger {
	return &ActivityLogger{
		repo:   repo,
		logger: logger.Named("activity-log"),
	}
}

// Record appends one audit record
func (l *ActivityLogger) Record(ctx context.Context, action, entityType string, entityID uuid.UUID, details string) {
	entry := &billing.ActivityEntry{
		BaseEntity: shared.NewBaseEntity(),
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    details,
	}
	if err := l.repo.Append(ctx, entry); err != nil {
		l.logger.Warn("failed to append activity entry",
			zap.String("action", action),
			zap.String("entity_type", entityType),
			zap.String("entity_id", entityID.String()),
			zap.Error(err),
		)
	}
}

var _ billing.ActivityLogger = (*ActivityLogger)(nil)
