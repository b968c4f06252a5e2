package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dormbill/backend/internal/domain/shared"
	"github.com/dormbill/backend/internal/domain/tenancy"
	"github.com/dormbill/backend/internal/infrastructure/persistence/models"
)

// GormMeterReadingRepository implements tenancy.MeterReadingRepository using GORM
type GormMeterReadingRepository struct {
	db *gorm.DB
}

// NewGormMeterReadingRepository creates a new GormMeterReadingRepository
func NewGormMeterReadingRepository(db *gorm.DB) *GormMeterReadingRepository {
	return &GormMeterReadingRepository{db: db}
}

// Save creates or updates a meter reading
func (r *GormMeterReadingRepository) Save(ctx context.Context, reading *tenancy.MeterReading) error {
	err := dbFromContext(ctx, r.db).WithContext(ctx).Save(models.FromMeterReading(reading)).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.NewDomainError("CONFLICT", "reading already recorded for this room and period")
	}
	return err
}

// FindByRoomPeriod finds the reading recorded for a room in a billing period
func (r *GormMeterReadingRepository) FindByRoomPeriod(ctx context.Context, roomID uuid.UUID, month, year int) (*tenancy.MeterReading, error) {
	var m models.MeterReadingModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Where("room_id = ? AND month = ? AND year = ?", roomID.String(), month, year).
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindByRoom lists the most recent readings for a room, newest period first
func (r *GormMeterReadingRepository) FindByRoom(ctx context.Context, roomID uuid.UUID, limit int) ([]*tenancy.MeterReading, error) {
	if limit <= 0 {
		limit = 24
	}

	var rows []models.MeterReadingModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Where("room_id = ?", roomID.String()).
		Order("year DESC, month DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	readings := make([]*tenancy.MeterReading, 0, len(rows))
	for i := range rows {
		readings = append(readings, rows[i].ToDomain())
	}
	return readings, nil
}

var _ tenancy.MeterReadingRepository = (*GormMeterReadingRepository)(nil)
