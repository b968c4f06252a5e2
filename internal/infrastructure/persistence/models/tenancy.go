package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dormbill/backend/internal/domain/shared"
	"github.com/dormbill/backend/internal/domain/tenancy"
)

// RoomModel persists tenancy.Room
type RoomModel struct {
	BaseModel
	Code                  string          `gorm:"uniqueIndex;not null"`
	Building              string          `gorm:"index"`
	Floor                 int             `gorm:"not null;default:0"`
	Capacity              int             `gorm:"not null;default:1"`
	WaterPriceOverride    decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	ElectricPriceOverride decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	IsActive              bool            `gorm:"not null;default:true;index"`
}

// TableName overrides the table name
func (RoomModel) TableName() string { return "rooms" }

// FromRoom maps the aggregate onto the model
func FromRoom(r *tenancy.Room) *RoomModel {
	return &RoomModel{
		BaseModel: BaseModel{
			ID:        r.ID.String(),
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
			Version:   r.Version,
		},
		Code:                  r.Code,
		Building:              r.Building,
		Floor:                 r.Floor,
		Capacity:              r.Capacity,
		WaterPriceOverride:    r.WaterPriceOverride,
		ElectricPriceOverride: r.ElectricPriceOverride,
		IsActive:              r.IsActive,
	}
}

// ToDomain maps the model back to the aggregate
func (m *RoomModel) ToDomain() *tenancy.Room {
	room := &tenancy.Room{
		Code:                  m.Code,
		Building:              m.Building,
		Floor:                 m.Floor,
		Capacity:              m.Capacity,
		WaterPriceOverride:    m.WaterPriceOverride,
		ElectricPriceOverride: m.ElectricPriceOverride,
		IsActive:              m.IsActive,
	}
	room.BaseEntity = shared.BaseEntity{
		ID:        ParseID(m.ID),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
		Version:   m.Version,
	}
	return room
}

// ContractModel persists tenancy.Contract
type ContractModel struct {
	BaseModel
	// The partial unique index lets rooms keep any number of terminated
	// contracts while admitting at most one active row.
	RoomID          string          `gorm:"type:uuid;not null;index;uniqueIndex:uniq_contracts_room_active,where:is_active"`
	TenantName      string          `gorm:"not null"`
	TenantChannelID string          `gorm:"index"`
	StartDate       time.Time       `gorm:"not null"`
	EndDate         *time.Time      `gorm:""`
	Deposit         decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	CurrentRent     decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	OccupantCount   int             `gorm:"not null;default:1"`
	IsActive        bool            `gorm:"not null;default:true"`
	TerminatedAt    *time.Time      `gorm:""`
}

// TableName overrides the table name
func (ContractModel) TableName() string { return "contracts" }

// FromContract maps the aggregate onto the model
func FromContract(c *tenancy.Contract) *ContractModel {
	return &ContractModel{
		BaseModel: BaseModel{
			ID:        c.ID.String(),
			CreatedAt: c.CreatedAt,
			UpdatedAt: c.UpdatedAt,
			Version:   c.Version,
		},
		RoomID:          c.RoomID.String(),
		TenantName:      c.TenantName,
		TenantChannelID: c.TenantChannelID,
		StartDate:       c.StartDate,
		EndDate:         c.EndDate,
		Deposit:         c.Deposit,
		CurrentRent:     c.CurrentRent,
		OccupantCount:   c.OccupantCount,
		IsActive:        c.IsActive,
		TerminatedAt:    c.TerminatedAt,
	}
}

// ToDomain maps the model back to the aggregate
func (m *ContractModel) ToDomain() *tenancy.Contract {
	contract := &tenancy.Contract{
		RoomID:          ParseID(m.RoomID),
		TenantName:      m.TenantName,
		TenantChannelID: m.TenantChannelID,
		StartDate:       m.StartDate,
		EndDate:         m.EndDate,
		Deposit:         m.Deposit,
		CurrentRent:     m.CurrentRent,
		OccupantCount:   m.OccupantCount,
		IsActive:        m.IsActive,
		TerminatedAt:    m.TerminatedAt,
	}
	contract.BaseEntity = shared.BaseEntity{
		ID:        ParseID(m.ID),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
		Version:   m.Version,
	}
	return contract
}

// MeterReadingModel persists tenancy.MeterReading
type MeterReadingModel struct {
	BaseModel
	RoomID          string          `gorm:"type:uuid;not null;uniqueIndex:idx_readings_room_period"`
	Month           int             `gorm:"not null;uniqueIndex:idx_readings_room_period"`
	Year            int             `gorm:"not null;uniqueIndex:idx_readings_room_period"`
	WaterReading    decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	ElectricReading decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
}

// TableName overrides the table name
func (MeterReadingModel) TableName() string { return "meter_readings" }

// FromMeterReading maps the entity onto the model
func FromMeterReading(r *tenancy.MeterReading) *MeterReadingModel {
	return &MeterReadingModel{
		BaseModel: BaseModel{
			ID:        r.ID.String(),
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
			Version:   r.Version,
		},
		RoomID:          r.RoomID.String(),
		Month:           r.Month,
		Year:            r.Year,
		WaterReading:    r.WaterReading,
		ElectricReading: r.ElectricReading,
	}
}

// ToDomain maps the model back to the entity
func (m *MeterReadingModel) ToDomain() *tenancy.MeterReading {
	return &tenancy.MeterReading{
		BaseEntity: shared.BaseEntity{
			ID:        ParseID(m.ID),
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
			Version:   m.Version,
		},
		RoomID:          ParseID(m.RoomID),
		Month:           m.Month,
		Year:            m.Year,
		WaterReading:    m.WaterReading,
		ElectricReading: m.ElectricReading,
	}
}
