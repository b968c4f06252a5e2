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

// GormContractRepository implements tenancy.ContractRepository using GORM
type GormContractRepository struct {
	db *gorm.DB
}

// NewGormContractRepository creates a new GormContractRepository
func NewGormContractRepository(db *gorm.DB) *GormContractRepository {
	return &GormContractRepository{db: db}
}

// Save creates or updates a contract. The partial unique index on active
// contracts turns a concurrent second activation into a CONFLICT.
func (r *GormContractRepository) Save(ctx context.Context, contract *tenancy.Contract) error {
	err := dbFromContext(ctx, r.db).WithContext(ctx).Save(models.FromContract(contract)).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.NewDomainError("CONFLICT", "room already has an active contract")
	}
	return err
}

// SaveWithLock persists the contract only when the stored version matches
// the one the caller read, guarding concurrent deposit mutations.
func (r *GormContractRepository) SaveWithLock(ctx context.Context, contract *tenancy.Contract) error {
	m := models.FromContract(contract)
	result := dbFromContext(ctx, r.db).WithContext(ctx).
		Model(&models.ContractModel{}).
		Where("id = ? AND version = ?", m.ID, m.Version-1).
		Select("*").
		Updates(m)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// FindByID finds a contract by its ID
func (r *GormContractRepository) FindByID(ctx context.Context, id uuid.UUID) (*tenancy.Contract, error) {
	var m models.ContractModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).First(&m, "id = ?", id.String()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindActiveByRoom finds the active contract for a room
func (r *GormContractRepository) FindActiveByRoom(ctx context.Context, roomID uuid.UUID) (*tenancy.Contract, error) {
	var m models.ContractModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Where("room_id = ? AND is_active = ?", roomID.String(), true).
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindAll lists contracts matching the filter together with the total count
func (r *GormContractRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*tenancy.Contract, int64, error) {
	filter.Normalize()
	db := dbFromContext(ctx, r.db).WithContext(ctx)

	var total int64
	if err := db.Model(&models.ContractModel{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.ContractModel
	if err := db.
		Order("created_at DESC").
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	contracts := make([]*tenancy.Contract, 0, len(rows))
	for i := range rows {
		contracts = append(contracts, rows[i].ToDomain())
	}
	return contracts, total, nil
}

// FindActive lists every active contract
func (r *GormContractRepository) FindActive(ctx context.Context) ([]*tenancy.Contract, error) {
	var rows []models.ContractModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	contracts := make([]*tenancy.Contract, 0, len(rows))
	for i := range rows {
		contracts = append(contracts, rows[i].ToDomain())
	}
	return contracts, nil
}

var _ tenancy.ContractRepository = (*GormContractRepository)(nil)
