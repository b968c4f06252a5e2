package tenancy

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dormbill/backend/internal/domain/shared"
)

// MeterReading records cumulative meter values for a room and period.
// One reading exists per (room, month, year).
type MeterReading struct {
	shared.BaseEntity
	RoomID          uuid.UUID       `json:"room_id"`
	Month           int             `json:"month"`
	Year            int             `json:"year"`
	WaterReading    decimal.Decimal `json:"water_reading"`
	ElectricReading decimal.Decimal `json:"electric_reading"`
}

// Usage holds per-utility consumption deltas for a billing period
type Usage struct {
	Water    decimal.Decimal
	Electric decimal.Decimal
}

// NewMeterReading creates a reading for the given period
func NewMeterReading(roomID uuid.UUID, month, year int, water, electric decimal.Decimal) (*MeterReading, error) {
	if roomID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "room id is required")
	}
	if err := ValidatePeriod(month, year); err != nil {
		return nil, err
	}
	if water.IsNegative() || electric.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "meter readings cannot be negative")
	}
	return &MeterReading{
		BaseEntity:      shared.NewBaseEntity(),
		RoomID:          roomID,
		Month:           month,
		Year:            year,
		WaterReading:    water,
		ElectricReading: electric,
	}, nil
}

// Update replaces the cumulative values for this period
func (m *MeterReading) Update(water, electric decimal.Decimal) error {
	if water.IsNegative() || electric.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "meter readings cannot be negative")
	}
	m.WaterReading = water
	m.ElectricReading = electric
	m.Touch()
	return nil
}

// UsageSince computes consumption deltas against the previous period's
// reading. Usage is zero when no previous reading exists, and negative
// deltas (meter rollover or correction) clamp to zero.
func (m *MeterReading) UsageSince(prev *MeterReading) Usage {
	if prev == nil {
		return Usage{Water: decimal.Zero, Electric: decimal.Zero}
	}
	return Usage{
		Water:    clampNonNegative(m.WaterReading.Sub(prev.WaterReading)),
		Electric: clampNonNegative(m.ElectricReading.Sub(prev.ElectricReading)),
	}
}

// IsRegression reports whether this reading goes backwards relative to prev
func (m *MeterReading) IsRegression(prev *MeterReading) bool {
	if prev == nil {
		return false
	}
	return m.WaterReading.LessThan(prev.WaterReading) || m.ElectricReading.LessThan(prev.ElectricReading)
}

// ValidatePeriod checks a billing period
func ValidatePeriod(month, year int) error {
	if month < 1 || month > 12 {
		return shared.NewDomainError("INVALID_INPUT", "month must be between 1 and 12")
	}
	if year < 2000 || year > 2200 {
		return shared.NewDomainError("INVALID_INPUT", "year is out of range")
	}
	return nil
}

// PreviousPeriod returns the month/year immediately before the given period
func PreviousPeriod(month, year int) (int, int) {
	if month == 1 {
		return 12, year - 1
	}
	return month - 1, year
}

func clampNonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
