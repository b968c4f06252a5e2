package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dormbill/backend/internal/domain/billing"
	"github.com/dormbill/backend/internal/domain/shared"
	"github.com/dormbill/backend/internal/infrastructure/persistence/models"
)

// GormInvoiceRepository implements billing.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// Save creates or updates an invoice together with its items and payments.
// Children are upserted individually so removed items keep their rows.
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *billing.Invoice) error {
	db := dbFromContext(ctx, r.db).WithContext(ctx)
	m := models.FromInvoice(invoice)

	if err := db.Omit("Items", "Payments").Save(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.NewDomainError("CONFLICT", "invoice already exists for this contract and period")
		}
		return err
	}
	return r.saveChildren(db, m)
}

// SaveWithLock persists the invoice only when the stored version matches
// the one the caller read, guarding concurrent status transitions.
func (r *GormInvoiceRepository) SaveWithLock(ctx context.Context, invoice *billing.Invoice) error {
	db := dbFromContext(ctx, r.db).WithContext(ctx)
	m := models.FromInvoice(invoice)

	result := db.Model(&models.InvoiceModel{}).
		Where("id = ? AND version = ?", m.ID, m.Version-1).
		Select("*").
		Omit("Items", "Payments").
		Updates(m)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return r.saveChildren(db, m)
}

func (r *GormInvoiceRepository) saveChildren(db *gorm.DB, m *models.InvoiceModel) error {
	for i := range m.Items {
		if err := db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&m.Items[i]).Error; err != nil {
			return err
		}
	}
	for i := range m.Payments {
		if err := db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&m.Payments[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// FindByID finds an invoice by its ID
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	var m models.InvoiceModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Preload("Items").
		Preload("Payments").
		First(&m, "id = ?", id.String()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindByContractPeriod finds the invoice for a contract in a billing period
func (r *GormInvoiceRepository) FindByContractPeriod(ctx context.Context, contractID uuid.UUID, month, year int) (*billing.Invoice, error) {
	var m models.InvoiceModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Preload("Items").
		Preload("Payments").
		Where("contract_id = ? AND month = ? AND year = ?", contractID.String(), month, year).
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// ExistsByContractPeriod checks whether an invoice already covers the period
func (r *GormInvoiceRepository) ExistsByContractPeriod(ctx context.Context, contractID uuid.UUID, month, year int) (bool, error) {
	var count int64
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Where("contract_id = ? AND month = ? AND year = ?", contractID.String(), month, year).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindByPeriodStatus lists invoices for a period filtered by status
func (r *GormInvoiceRepository) FindByPeriodStatus(ctx context.Context, month, year int, statuses []billing.InvoiceStatus) ([]*billing.Invoice, error) {
	query := dbFromContext(ctx, r.db).WithContext(ctx).
		Preload("Items").
		Preload("Payments").
		Where("month = ? AND year = ?", month, year)
	if len(statuses) > 0 {
		values := make([]string, 0, len(statuses))
		for _, s := range statuses {
			values = append(values, string(s))
		}
		query = query.Where("status IN ?", values)
	}

	var rows []models.InvoiceModel
	if err := query.Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainInvoices(rows), nil
}

// FindByRoomPeriod lists invoices for a room in a billing period
func (r *GormInvoiceRepository) FindByRoomPeriod(ctx context.Context, roomID uuid.UUID, month, year int) ([]*billing.Invoice, error) {
	var rows []models.InvoiceModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Preload("Items").
		Preload("Payments").
		Where("room_id = ? AND month = ? AND year = ?", roomID.String(), month, year).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainInvoices(rows), nil
}

// FindSentDueBefore lists sent invoices whose due date passed the cutoff
func (r *GormInvoiceRepository) FindSentDueBefore(ctx context.Context, cutoff time.Time) ([]*billing.Invoice, error) {
	var rows []models.InvoiceModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Preload("Items").
		Preload("Payments").
		Where("status = ? AND due_date < ?", string(billing.InvoiceStatusSent), cutoff).
		Order("due_date ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainInvoices(rows), nil
}

// FindAll lists invoices matching the filter together with the total count
func (r *GormInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*billing.Invoice, int64, error) {
	filter.Normalize()
	db := dbFromContext(ctx, r.db).WithContext(ctx)

	var total int64
	if err := db.Model(&models.InvoiceModel{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.InvoiceModel
	if err := db.
		Preload("Items").
		Preload("Payments").
		Order("year DESC, month DESC, created_at DESC").
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return toDomainInvoices(rows), total, nil
}

func toDomainInvoices(rows []models.InvoiceModel) []*billing.Invoice {
	invoices := make([]*billing.Invoice, 0, len(rows))
	for i := range rows {
		invoices = append(invoices, rows[i].ToDomain())
	}
	return invoices
}

var _ billing.InvoiceRepository = (*GormInvoiceRepository)(nil)
