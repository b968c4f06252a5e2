package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/dormbill/backend/internal/domain/billing"
	"github.com/dormbill/backend/internal/infrastructure/persistence/models"
)

// GormActivityLogRepository implements billing.ActivityLogRepository using GORM
type GormActivityLogRepository struct {
	db *gorm.DB
}

// NewGormActivityLogRepository creates a new GormActivityLogRepository
func NewGormActivityLogRepository(db *gorm.DB) *GormActivityLogRepository {
	return &GormActivityLogRepository{db: db}
}

// Append stores one audit record
func (r *GormActivityLogRepository) Append(ctx context.Context, entry *billing.ActivityEntry) error {
	return dbFromContext(ctx, r.db).WithContext(ctx).Create(models.FromActivityEntry(entry)).Error
}

// FindRecent lists the newest audit records
func (r *GormActivityLogRepository) FindRecent(ctx context.Context, limit int) ([]*billing.ActivityEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	var rows []models.ActivityLogModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	entries := make([]*billing.ActivityEntry, 0, len(rows))
	for i := range rows {
		entries = append(entries, rows[i].ToDomain())
	}
	return entries, nil
}

var _ billing.ActivityLogRepository = (*GormActivityLogRepository)(nil)
