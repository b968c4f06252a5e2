package tenancy

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dormbill/backend/internal/domain/shared"
)

// Room represents a rentable room. Price overrides, when positive, replace
// the dormitory-wide per-unit price for that utility.
type Room struct {
	shared.BaseAggregateRoot
	Code                  string          `json:"code"`
	Building              string          `json:"building"`
	Floor                 int             `json:"floor"`
	Capacity              int             `json:"capacity"`
	WaterPriceOverride    decimal.Decimal `json:"water_price_override"`
	ElectricPriceOverride decimal.Decimal `json:"electric_price_override"`
	IsActive              bool            `json:"is_active"`
}

// NewRoom creates a new room
func NewRoom(code, building string, floor, capacity int) (*Room, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "room code is required")
	}
	if capacity < 1 {
		capacity = 1
	}
	return &Room{
		BaseAggregateRoot:     shared.NewBaseAggregateRoot(),
		Code:                  code,
		Building:              strings.TrimSpace(building),
		Floor:                 floor,
		Capacity:              capacity,
		WaterPriceOverride:    decimal.Zero,
		ElectricPriceOverride: decimal.Zero,
		IsActive:              true,
	}, nil
}

// SetPriceOverrides sets the per-room utility price overrides.
// A zero value clears the override.
func (r *Room) SetPriceOverrides(water, electric decimal.Decimal) error {
	if water.IsNegative() || electric.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "price override cannot be negative")
	}
	r.WaterPriceOverride = water
	r.ElectricPriceOverride = electric
	r.Touch()
	return nil
}

// Deactivate marks the room as out of service
func (r *Room) Deactivate() {
	if !r.IsActive {
		return
	}
	r.IsActive = false
	r.Touch()
}

// Activate returns the room to service
func (r *Room) Activate() {
	if r.IsActive {
		return
	}
	r.IsActive = true
	r.Touch()
}
