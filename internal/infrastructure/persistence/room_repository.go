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

// GormRoomRepository implements tenancy.RoomRepository using GORM
type GormRoomRepository struct {
	db *gorm.DB
}

// NewGormRoomRepository creates a new GormRoomRepository
func NewGormRoomRepository(db *gorm.DB) *GormRoomRepository {
	return &GormRoomRepository{db: db}
}

// Save creates or updates a room
func (r *GormRoomRepository) Save(ctx context.Context, room *tenancy.Room) error {
	return dbFromContext(ctx, r.db).WithContext(ctx).Save(models.FromRoom(room)).Error
}

// FindByID finds a room by its ID
func (r *GormRoomRepository) FindByID(ctx context.Context, id uuid.UUID) (*tenancy.Room, error) {
	var m models.RoomModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).First(&m, "id = ?", id.String()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindByCode finds a room by its unique code
func (r *GormRoomRepository) FindByCode(ctx context.Context, code string) (*tenancy.Room, error) {
	var m models.RoomModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).First(&m, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindAll lists rooms matching the filter together with the total count
func (r *GormRoomRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*tenancy.Room, int64, error) {
	filter.Normalize()
	db := dbFromContext(ctx, r.db).WithContext(ctx)

	var total int64
	if err := db.Model(&models.RoomModel{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.RoomModel
	if err := db.
		Order("code ASC").
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	rooms := make([]*tenancy.Room, 0, len(rows))
	for i := range rows {
		rooms = append(rooms, rows[i].ToDomain())
	}
	return rooms, total, nil
}

var _ tenancy.RoomRepository = (*GormRoomRepository)(nil)
