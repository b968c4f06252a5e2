package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/dormbill/backend/internal/domain/billing"
	"github.com/dormbill/backend/internal/domain/shared"
	"github.com/dormbill/backend/internal/infrastructure/persistence/models"
)

// GormDormConfigRepository implements billing.DormConfigRepository using GORM.
// The configuration is a singleton row, Get returns the oldest one.
type GormDormConfigRepository struct {
	db *gorm.DB
}

// NewGormDormConfigRepository creates a new GormDormConfigRepository
func NewGormDormConfigRepository(db *gorm.DB) *GormDormConfigRepository {
	return &GormDormConfigRepository{db: db}
}

// Get returns the stored configuration, shared.ErrNotFound when none exists
func (r *GormDormConfigRepository) Get(ctx context.Context) (*billing.DormConfig, error) {
	var m models.DormConfigModel
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

// Save creates or updates the configuration
func (r *GormDormConfigRepository) Save(ctx context.Context, cfg *billing.DormConfig) error {
	return dbFromContext(ctx, r.db).WithContext(ctx).Save(models.FromDormConfig(cfg)).Error
}

var _ billing.DormConfigRepository = (*GormDormConfigRepository)(nil)
