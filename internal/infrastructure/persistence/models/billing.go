package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dormbill/backend/internal/domain/billing"
	"github.com/dormbill/backend/internal/domain/shared"
)

// InvoiceModel persists billing.Invoice
type InvoiceModel struct {
	BaseModel
	ContractID     string             `gorm:"type:uuid;not null;uniqueIndex:idx_invoices_contract_period"`
	RoomID         string             `gorm:"type:uuid;not null;index"`
	Month          int                `gorm:"not null;uniqueIndex:idx_invoices_contract_period"`
	Year           int                `gorm:"not null;uniqueIndex:idx_invoices_contract_period"`
	RentAmount     decimal.Decimal    `gorm:"type:numeric(12,2);not null;default:0"`
	WaterAmount    decimal.Decimal    `gorm:"type:numeric(12,2);not null;default:0"`
	ElectricAmount decimal.Decimal    `gorm:"type:numeric(12,2);not null;default:0"`
	OtherFees      decimal.Decimal    `gorm:"type:numeric(12,2);not null;default:0"`
	Discount       decimal.Decimal    `gorm:"type:numeric(12,2);not null;default:0"`
	TotalAmount    decimal.Decimal    `gorm:"type:numeric(12,2);not null;default:0"`
	Status         string             `gorm:"not null;index"`
	DueDate        time.Time          `gorm:"not null;index"`
	SentAt         *time.Time         `gorm:""`
	PaidAt         *time.Time         `gorm:""`
	CancelledAt    *time.Time         `gorm:""`
	Items          []InvoiceItemModel `gorm:"foreignKey:InvoiceID"`
	Payments       []PaymentModel     `gorm:"foreignKey:InvoiceID"`
}

// TableName overrides the table name
func (InvoiceModel) TableName() string { return "invoices" }

// InvoiceItemModel persists billing.InvoiceItem
type InvoiceItemModel struct {
	ID          string          `gorm:"type:uuid;primaryKey"`
	InvoiceID   string          `gorm:"type:uuid;not null;index"`
	Description string          `gorm:"not null"`
	Amount      decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	Removed     bool            `gorm:"not null;default:false"`
	RemovedAt   *time.Time      `gorm:""`
	CreatedAt   time.Time       `gorm:"not null"`
}

// TableName overrides the table name
func (InvoiceItemModel) TableName() string { return "invoice_items" }

// PaymentModel persists billing.Payment
type PaymentModel struct {
	BaseModel
	InvoiceID string          `gorm:"type:uuid;not null;index"`
	Amount    decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Method    string          `gorm:"not null"`
	Status    string          `gorm:"not null"`
	Reference string          `gorm:""`
	PaidAt    time.Time       `gorm:"not null"`
}

// TableName overrides the table name
func (PaymentModel) TableName() string { return "payments" }

// FromInvoice maps the aggregate onto the model tree
func FromInvoice(inv *billing.Invoice) *InvoiceModel {
	m := &InvoiceModel{
		BaseModel: BaseModel{
			ID:        inv.ID.String(),
			CreatedAt: inv.CreatedAt,
			UpdatedAt: inv.UpdatedAt,
			Version:   inv.Version,
		},
		ContractID:     inv.ContractID.String(),
		RoomID:         inv.RoomID.String(),
		Month:          inv.Month,
		Year:           inv.Year,
		RentAmount:     inv.RentAmount,
		WaterAmount:    inv.WaterAmount,
		ElectricAmount: inv.ElectricAmount,
		OtherFees:      inv.OtherFees,
		Discount:       inv.Discount,
		TotalAmount:    inv.TotalAmount,
		Status:         string(inv.Status),
		DueDate:        inv.DueDate,
		SentAt:         inv.SentAt,
		PaidAt:         inv.PaidAt,
		CancelledAt:    inv.CancelledAt,
	}
	for _, it := range inv.Items {
		m.Items = append(m.Items, InvoiceItemModel{
			ID:          it.ID.String(),
			InvoiceID:   it.InvoiceID.String(),
			Description: it.Description,
			Amount:      it.Amount,
			Removed:     it.Removed,
			RemovedAt:   it.RemovedAt,
			CreatedAt:   it.CreatedAt,
		})
	}
	for _, p := range inv.Payments {
		m.Payments = append(m.Payments, PaymentModel{
			BaseModel: BaseModel{
				ID:        p.ID.String(),
				CreatedAt: p.CreatedAt,
				UpdatedAt: p.UpdatedAt,
				Version:   p.Version,
			},
			InvoiceID: p.InvoiceID.String(),
			Amount:    p.Amount,
			Method:    string(p.Method),
			Status:    string(p.Status),
			Reference: p.Reference,
			PaidAt:    p.PaidAt,
		})
	}
	return m
}

// ToDomain maps the model tree back to the aggregate
func (m *InvoiceModel) ToDomain() *billing.Invoice {
	inv := &billing.Invoice{
		ContractID:     ParseID(m.ContractID),
		RoomID:         ParseID(m.RoomID),
		Month:          m.Month,
		Year:           m.Year,
		RentAmount:     m.RentAmount,
		WaterAmount:    m.WaterAmount,
		ElectricAmount: m.ElectricAmount,
		OtherFees:      m.OtherFees,
		Discount:       m.Discount,
		TotalAmount:    m.TotalAmount,
		Status:         billing.InvoiceStatus(m.Status),
		DueDate:        m.DueDate,
		SentAt:         m.SentAt,
		PaidAt:         m.PaidAt,
		CancelledAt:    m.CancelledAt,
		Items:          make([]billing.InvoiceItem, 0, len(m.Items)),
		Payments:       make([]billing.Payment, 0, len(m.Payments)),
	}
	inv.BaseEntity = shared.BaseEntity{
		ID:        ParseID(m.ID),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
		Version:   m.Version,
	}
	for _, it := range m.Items {
		inv.Items = append(inv.Items, billing.InvoiceItem{
			ID:          ParseID(it.ID),
			InvoiceID:   ParseID(it.InvoiceID),
			Description: it.Description,
			Amount:      it.Amount,
			Removed:     it.Removed,
			RemovedAt:   it.RemovedAt,
			CreatedAt:   it.CreatedAt,
		})
	}
	for _, p := range m.Payments {
		payment := billing.Payment{
			InvoiceID: ParseID(p.InvoiceID),
			Amount:    p.Amount,
			Method:    billing.PaymentMethod(p.Method),
			Status:    billing.PaymentStatus(p.Status),
			Reference: p.Reference,
			PaidAt:    p.PaidAt,
		}
		payment.BaseEntity = shared.BaseEntity{
			ID:        ParseID(p.ID),
			CreatedAt: p.CreatedAt,
			UpdatedAt: p.UpdatedAt,
			Version:   p.Version,
		}
		inv.Payments = append(inv.Payments, payment)
	}
	return inv
}

// DormConfigModel persists billing.DormConfig
type DormConfigModel struct {
	BaseModel
	WaterMethod       string            `gorm:"not null"`
	ElectricMethod    string            `gorm:"not null"`
	WaterUnitPrice    decimal.Decimal   `gorm:"type:numeric(12,2);not null;default:0"`
	ElectricUnitPrice decimal.Decimal   `gorm:"type:numeric(12,2);not null;default:0"`
	WaterMinAmount    decimal.Decimal   `gorm:"type:numeric(12,2);not null;default:0"`
	ElectricMinAmount decimal.Decimal   `gorm:"type:numeric(12,2);not null;default:0"`
	WaterMinUnits     decimal.Decimal   `gorm:"type:numeric(12,2);not null;default:0"`
	ElectricMinUnits  decimal.Decimal   `gorm:"type:numeric(12,2);not null;default:0"`
	WaterBaseFee      decimal.Decimal   `gorm:"type:numeric(12,2);not null;default:0"`
	ElectricBaseFee   decimal.Decimal   `gorm:"type:numeric(12,2);not null;default:0"`
	WaterFlatFee      decimal.Decimal   `gorm:"type:numeric(12,2);not null;default:0"`
	ElectricFlatFee   decimal.Decimal   `gorm:"type:numeric(12,2);not null;default:0"`
	WaterPerPerson    decimal.Decimal   `gorm:"type:numeric(12,2);not null;default:0"`
	ElectricPerPerson decimal.Decimal   `gorm:"type:numeric(12,2);not null;default:0"`
	WaterTiers        billing.RateTiers `gorm:"type:jsonb"`
	ElectricTiers     billing.RateTiers `gorm:"type:jsonb"`
	CommonFee         decimal.Decimal   `gorm:"type:numeric(12,2);not null;default:0"`
	DueDay            int               `gorm:"not null;default:5"`
	BankAccountText   string            `gorm:""`
}

// TableName overrides the table name
func (DormConfigModel) TableName() string { return "dorm_configs" }

// FromDormConfig maps the aggregate onto the model
func FromDormConfig(c *billing.DormConfig) *DormConfigModel {
	return &DormConfigModel{
		BaseModel: BaseModel{
			ID:        c.ID.String(),
			CreatedAt: c.CreatedAt,
			UpdatedAt: c.UpdatedAt,
			Version:   c.Version,
		},
		WaterMethod:       string(c.WaterMethod),
		ElectricMethod:    string(c.ElectricMethod),
		WaterUnitPrice:    c.WaterUnitPrice,
		ElectricUnitPrice: c.ElectricUnitPrice,
		WaterMinAmount:    c.WaterMinAmount,
		ElectricMinAmount: c.ElectricMinAmount,
		WaterMinUnits:     c.WaterMinUnits,
		ElectricMinUnits:  c.ElectricMinUnits,
		WaterBaseFee:      c.WaterBaseFee,
		ElectricBaseFee:   c.ElectricBaseFee,
		WaterFlatFee:      c.WaterFlatFee,
		ElectricFlatFee:   c.ElectricFlatFee,
		WaterPerPerson:    c.WaterPerPerson,
		ElectricPerPerson: c.ElectricPerPerson,
		WaterTiers:        c.WaterTiers,
		ElectricTiers:     c.ElectricTiers,
		CommonFee:         c.CommonFee,
		DueDay:            c.DueDay,
		BankAccountText:   c.BankAccountText,
	}
}

// ToDomain maps the model back to the aggregate
func (m *DormConfigModel) ToDomain() *billing.DormConfig {
	cfg := &billing.DormConfig{
		WaterMethod:       billing.FeeMethod(m.WaterMethod),
		ElectricMethod:    billing.FeeMethod(m.ElectricMethod),
		WaterUnitPrice:    m.WaterUnitPrice,
		ElectricUnitPrice: m.ElectricUnitPrice,
		WaterMinAmount:    m.WaterMinAmount,
		ElectricMinAmount: m.ElectricMinAmount,
		WaterMinUnits:     m.WaterMinUnits,
		ElectricMinUnits:  m.ElectricMinUnits,
		WaterBaseFee:      m.WaterBaseFee,
		ElectricBaseFee:   m.ElectricBaseFee,
		WaterFlatFee:      m.WaterFlatFee,
		ElectricFlatFee:   m.ElectricFlatFee,
		WaterPerPerson:    m.WaterPerPerson,
		ElectricPerPerson: m.ElectricPerPerson,
		WaterTiers:        m.WaterTiers,
		ElectricTiers:     m.ElectricTiers,
		CommonFee:         m.CommonFee,
		DueDay:            m.DueDay,
		BankAccountText:   m.BankAccountText,
	}
	cfg.BaseEntity = shared.BaseEntity{
		ID:        ParseID(m.ID),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
		Version:   m.Version,
	}
	return cfg
}

// AutoSendConfigModel persists billing.AutoSendConfig
type AutoSendConfigModel struct {
	BaseModel
	Enabled    bool       `gorm:"not null;default:false"`
	DayOfMonth int        `gorm:"not null;default:1"`
	Hour       int        `gorm:"not null;default:9"`
	Minute     int        `gorm:"not null;default:0"`
	Timezone   string     `gorm:"not null"`
	LastRunAt  *time.Time `gorm:""`
}

// TableName overrides the table name
func (AutoSendConfigModel) TableName() string { return "auto_send_configs" }

// FromAutoSendConfig maps the entity onto the model
func FromAutoSendConfig(c *billing.AutoSendConfig) *AutoSendConfigModel {
	return &AutoSendConfigModel{
		BaseModel: BaseModel{
			ID:        c.ID.String(),
			CreatedAt: c.CreatedAt,
			UpdatedAt: c.UpdatedAt,
			Version:   c.Version,
		},
		Enabled:    c.Enabled,
		DayOfMonth: c.DayOfMonth,
		Hour:       c.Hour,
		Minute:     c.Minute,
		Timezone:   c.Timezone,
		LastRunAt:  c.LastRunAt,
	}
}

// ToDomain maps the model back to the entity
func (m *AutoSendConfigModel) ToDomain() *billing.AutoSendConfig {
	return &billing.AutoSendConfig{
		BaseEntity: shared.BaseEntity{
			ID:        ParseID(m.ID),
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
			Version:   m.Version,
		},
		Enabled:    m.Enabled,
		DayOfMonth: m.DayOfMonth,
		Hour:       m.Hour,
		Minute:     m.Minute,
		Timezone:   m.Timezone,
		LastRunAt:  m.LastRunAt,
	}
}

// ActivityLogModel persists billing.ActivityEntry
type ActivityLogModel struct {
	BaseModel
	Action     string `gorm:"not null;index"`
	EntityType string `gorm:"not null;index"`
	EntityID   string `gorm:"type:uuid;index"`
	Details    string `gorm:""`
}

// TableName overrides the table name
func (ActivityLogModel) TableName() string { return "activity_logs" }

// FromActivityEntry maps the entity onto the model
func FromActivityEntry(e *billing.ActivityEntry) *ActivityLogModel {
	return &ActivityLogModel{
		BaseModel: BaseModel{
			ID:        e.ID.String(),
			CreatedAt: e.CreatedAt,
			UpdatedAt: e.UpdatedAt,
			Version:   e.Version,
		},
		Action:     e.Action,
		EntityType: e.EntityType,
		EntityID:   e.EntityID.String(),
		Details:    e.Details,
	}
}

// ToDomain maps the model back to the entity
func (m *ActivityLogModel) ToDomain() *billing.ActivityEntry {
	return &billing.ActivityEntry{
		BaseEntity: shared.BaseEntity{
			ID:        ParseID(m.ID),
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
			Version:   m.Version,
		},
		Action:     m.Action,
		EntityType: m.EntityType,
		EntityID:   ParseID(m.EntityID),
		Details:    m.Details,
	}
}

// All lists every model for migration
func All() []any {
	return []any{
		&RoomModel{},
		&ContractModel{},
		&MeterReadingModel{},
		&InvoiceModel{},
		&InvoiceItemModel{},
		&PaymentModel{},
		&DormConfigModel{},
		&AutoSendConfigModel{},
		&ActivityLogModel{},
	}
}
