package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/dormbill/backend/internal/domain/billing"
	"github.com/dormbill/backend/internal/domain/shared"
	"github.com/dormbill/backend/internal/infrastructure/persistence/models"
)

// GormAutoSendConfigRepository implements billing.AutoSendConfigRepository using GORM.
// Like the dorm configuration, the schedule is a singleton row.
type GormAutoSendConfigRepository struct {
	db *gorm.DB
}

// NewGormAutoSendConfigRepository creates a new GormAutoSendConfigRepository
func NewGormAutoSendConfigRepository(db *gorm.DB) *GormAutoSendConfigRepository {
	return &GormAutoSendConfigRepository{db: db}
}

// Get returns the stored schedule, shared.ErrNotFound when none exists
func (r *GormAutoSendConfigRepository) Get(ctx context.Context) (*billing.AutoSendConfig, error) {
	var m models.AutoSendConfigModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Order("created_at ASC").
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// Save creates or updates the schedule
func (r *GormAutoSendConfigRepository) Save(ctx context.Context, cfg *billing.AutoSendConfig) error {
	return dbFromContext(ctx, r.db).WithContext(ctx).Save(models.FromAutoSendConfig(cfg)).Error
}

var _ billing.AutoSendConfigRepository = (*GormAutoSendConfigRepository)(nil)
