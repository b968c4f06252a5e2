package tenancy

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dormbill/backend/internal/domain/tenancy"
)

// CreateRoomRequest registers a room
type CreateRoomRequest struct {
	Code     string `json:"code" binding:"required"`
	Building string `json:"building"`
	Floor    int    `json:"floor"`
	Capacity int    `json:"capacity" binding:"min=0,max=20"`
}

// RoomOverridesRequest sets per-room utility price overrides
type RoomOverridesRequest struct {
	WaterPriceOverride    decimal.Decimal `json:"water_price_override"`
	ElectricPriceOverride decimal.Decimal `json:"electric_price_override"`
}

// RoomResponse is the outward room representation
type RoomResponse struct {
	ID                    uuid.UUID       `json:"id"`
	Code                  string          `json:"code"`
	Building              string          `json:"building"`
	Floor                 int             `json:"floor"`
	Capacity              int             `json:"capacity"`
	WaterPriceOverride    decimal.Decimal `json:"water_price_override"`
	ElectricPriceOverride decimal.Decimal `json:"electric_price_override"`
	IsActive              bool            `json:"is_active"`
}

// ToRoomResponse maps a room to its response DTO
func ToRoomResponse(r *tenancy.Room) *RoomResponse {
	return &RoomResponse{
		ID:                    r.ID,
		Code:                  r.Code,
		Building:              r.Building,
		Floor:                 r.Floor,
		Capacity:              r.Capacity,
		WaterPriceOverride:    r.WaterPriceOverride,
		ElectricPriceOverride: r.ElectricPriceOverride,
		IsActive:              r.IsActive,
	}
}

// CreateContractRequest opens a contract on a room
type CreateContractRequest struct {
	RoomID        uuid.UUID       `json:"room_id" binding:"required"`
	TenantName    string          `json:"tenant_name" binding:"required"`
	StartDate     time.Time       `json:"start_date" binding:"required"`
	Deposit       decimal.Decimal `json:"deposit"`
	Rent          decimal.Decimal `json:"rent" binding:"required"`
	OccupantCount int             `json:"occupant_count" binding:"min=0,max=20"`
	ChannelID     string          `json:"channel_id"`
}

// TerminateContractRequest ends a contract
type TerminateContractRequest struct {
	EndDate time.Time `json:"end_date" binding:"required"`
}

// DepositRequest credits the contract deposit
type DepositRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// LinkChannelRequest binds a notification channel to the tenant
type LinkChannelRequest struct {
	ChannelID string `json:"channel_id" binding:"required"`
}

// ContractResponse is the outward contract representation
type ContractResponse struct {
	ID              uuid.UUID       `json:"id"`
	RoomID          uuid.UUID       `json:"room_id"`
	TenantName      string          `json:"tenant_name"`
	TenantChannelID string          `json:"tenant_channel_id,omitempty"`
	StartDate       time.Time       `json:"start_date"`
	EndDate         *time.Time      `json:"end_date,omitempty"`
	Deposit         decimal.Decimal `json:"deposit"`
	CurrentRent     decimal.Decimal `json:"current_rent"`
	OccupantCount   int             `json:"occupant_count"`
	IsActive        bool            `json:"is_active"`
}

// ToContractResponse maps a contract to its response DTO
func ToContractResponse(c *tenancy.Contract) *ContractResponse {
	return &ContractResponse{
		ID:              c.ID,
		RoomID:          c.RoomID,
		TenantName:      c.TenantName,
		TenantChannelID: c.TenantChannelID,
		StartDate:       c.StartDate,
		EndDate:         c.EndDate,
		Deposit:         c.Deposit,
		CurrentRent:     c.CurrentRent,
		OccupantCount:   c.OccupantCount,
		IsActive:        c.IsActive,
	}
}

// RecordReadingRequest records cumulative meter values for a period
type RecordReadingRequest struct {
	RoomID          uuid.UUID       `json:"room_id" binding:"required"`
	Month           int             `json:"month" binding:"required,min=1,max=12"`
	Year            int             `json:"year" binding:"required,min=2000,max=2200"`
	WaterReading    decimal.Decimal `json:"water_reading"`
	ElectricReading decimal.Decimal `json:"electric_reading"`
}

// ReadingResponse is the outward meter reading representation
type ReadingResponse struct {
	ID              uuid.UUID       `json:"id"`
	RoomID          uuid.UUID       `json:"room_id"`
	Month           int             `json:"month"`
	Year            int             `json:"year"`
	WaterReading    decimal.Decimal `json:"water_reading"`
	ElectricReading decimal.Decimal `json:"electric_reading"`
	RecordedAt      time.Time       `json:"recorded_at"`
}

// ToReadingResponse maps a reading to its response DTO
func ToReadingResponse(m *tenancy.MeterReading) *ReadingResponse {
	return &ReadingResponse{
		ID:              m.ID,
		RoomID:          m.RoomID,
		Month:           m.Month,
		Year:            m.Year,
		WaterReading:    m.WaterReading,
		ElectricReading: m.ElectricReading,
		RecordedAt:      m.UpdatedAt,
	}
}
