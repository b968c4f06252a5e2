package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dormbill/backend/internal/domain/billing"
)

// GenerateInvoiceRequest asks for an invoice for a room and period
type GenerateInvoiceRequest struct {
	RoomID uuid.UUID `json:"room_id" binding:"required"`
	Month  int       `json:"month" binding:"required,min=1,max=12"`
	Year   int       `json:"year" binding:"required,min=2000,max=2200"`
}

// SettleInvoiceRequest settles an invoice from a funding source
type SettleInvoiceRequest struct {
	Method    string     `json:"method" binding:"required,oneof=DEPOSIT CASH"`
	Reference string     `json:"reference"`
	PaidAt    *time.Time `json:"paid_at"`
}

// InvoiceItemRequest adds or updates a line item
type InvoiceItemRequest struct {
	Description string          `json:"description" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
}

// DiscountRequest sets the invoice discount
type DiscountRequest struct {
	Discount decimal.Decimal `json:"discount" binding:"required"`
}

// SendPeriodRequest identifies a billing period for bulk sends
type SendPeriodRequest struct {
	Month int `json:"month" binding:"required,min=1,max=12"`
	Year  int `json:"year" binding:"required,min=2000,max=2200"`
}

// InvoiceItemResponse is one line item
type InvoiceItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Removed     bool            `json:"removed"`
}

// PaymentResponse is one recorded payment
type PaymentResponse struct {
	ID        uuid.UUID       `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
	Status    string          `json:"status"`
	Reference string          `json:"reference,omitempty"`
	PaidAt    time.Time       `json:"paid_at"`
}

// InvoiceResponse is the outward invoice representation
type InvoiceResponse struct {
	ID             uuid.UUID             `json:"id"`
	ContractID     uuid.UUID             `json:"contract_id"`
	RoomID         uuid.UUID             `json:"room_id"`
	Month          int                   `json:"month"`
	Year           int                   `json:"year"`
	RentAmount     decimal.Decimal       `json:"rent_amount"`
	WaterAmount    decimal.Decimal       `json:"water_amount"`
	ElectricAmount decimal.Decimal       `json:"electric_amount"`
	OtherFees      decimal.Decimal       `json:"other_fees"`
	Discount       decimal.Decimal       `json:"discount"`
	TotalAmount    decimal.Decimal       `json:"total_amount"`
	Status         string                `json:"status"`
	DueDate        time.Time             `json:"due_date"`
	SentAt         *time.Time            `json:"sent_at,omitempty"`
	PaidAt         *time.Time            `json:"paid_at,omitempty"`
	Items          []InvoiceItemResponse `json:"items"`
	Payments       []PaymentResponse     `json:"payments"`
	CreatedAt      time.Time             `json:"created_at"`
}

// ToInvoiceResponse maps the aggregate to its response DTO
func ToInvoiceResponse(inv *billing.Invoice) *InvoiceResponse {
	items := make([]InvoiceItemResponse, 0, len(inv.Items))
	for _, it := range inv.Items {
		items = append(items, InvoiceItemResponse{
			ID:          it.ID,
			Description: it.Description,
			Amount:      it.Amount,
			Removed:     it.Removed,
		})
	}
	payments := make([]PaymentResponse, 0, len(inv.Payments))
	for _, p := range inv.Payments {
		payments = append(payments, PaymentResponse{
			ID:        p.ID,
			Amount:    p.Amount,
			Method:    string(p.Method),
			Status:    string(p.Status),
			Reference: p.Reference,
			PaidAt:    p.PaidAt,
		})
	}
	return &InvoiceResponse{
		ID:             inv.ID,
		ContractID:     inv.ContractID,
		RoomID:         inv.RoomID,
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
		Items:          items,
		Payments:       payments,
		CreatedAt:      inv.CreatedAt,
	}
}

// SendResult summarizes a bulk send
type SendResult struct {
	Sent    int `json:"sent"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// SweepResult summarizes an overdue sweep
type SweepResult struct {
	MarkedOverdue int `json:"marked_overdue"`
}

// AutoSendRunResult summarizes one auto-send run
type AutoSendRunResult struct {
	Executed bool       `json:"executed"`
	Reason   string     `json:"reason,omitempty"`
	Send     SendResult `json:"send"`
}

// DormConfigRequest updates the dormitory rate configuration
type DormConfigRequest struct {
	WaterMethod       string            `json:"water_method" binding:"required,fee_method"`
	ElectricMethod    string            `json:"electric_method" binding:"required,fee_method"`
	WaterUnitPrice    decimal.Decimal   `json:"water_unit_price"`
	ElectricUnitPrice decimal.Decimal   `json:"electric_unit_price"`
	WaterMinAmount    decimal.Decimal   `json:"water_min_amount"`
	ElectricMinAmount decimal.Decimal   `json:"electric_min_amount"`
	WaterMinUnits     decimal.Decimal   `json:"water_min_units"`
	ElectricMinUnits  decimal.Decimal   `json:"electric_min_units"`
	WaterBaseFee      decimal.Decimal   `json:"water_base_fee"`
	ElectricBaseFee   decimal.Decimal   `json:"electric_base_fee"`
	WaterFlatFee      decimal.Decimal   `json:"water_flat_fee"`
	ElectricFlatFee   decimal.Decimal   `json:"electric_flat_fee"`
	WaterPerPerson    decimal.Decimal   `json:"water_per_person"`
	ElectricPerPerson decimal.Decimal   `json:"electric_per_person"`
	WaterTiers        billing.RateTiers `json:"water_tiers"`
	ElectricTiers     billing.RateTiers `json:"electric_tiers"`
	CommonFee         decimal.Decimal   `json:"common_fee"`
	DueDay            int               `json:"due_day" binding:"required,min=1,max=31"`
	BankAccountText   string            `json:"bank_account_text"`
}

// AutoSendConfigRequest updates the auto-send schedule
type AutoSendConfigRequest struct {
	Enabled    bool   `json:"enabled"`
	DayOfMonth int    `json:"day_of_month" binding:"required,min=1,max=28"`
	Hour       int    `json:"hour" binding:"min=0,max=23"`
	Minute     int    `json:"minute" binding:"min=0,max=59"`
	Timezone   string `json:"timezone" binding:"required"`
}

// AutoSendConfigResponse is the outward schedule representation
type AutoSendConfigResponse struct {
	Enabled    bool       `json:"enabled"`
	DayOfMonth int        `json:"day_of_month"`
	Hour       int        `json:"hour"`
	Minute     int        `json:"minute"`
	Timezone   string     `json:"timezone"`
	LastRunAt  *time.Time `json:"last_run_at,omitempty"`
}

// ToAutoSendConfigResponse maps the schedule to its response DTO
func ToAutoSendConfigResponse(cfg *billing.AutoSendConfig) *AutoSendConfigResponse {
	return &AutoSendConfigResponse{
		Enabled:    cfg.Enabled,
		DayOfMonth: cfg.DayOfMonth,
		Hour:       cfg.Hour,
		Minute:     cfg.Minute,
		Timezone:   cfg.Timezone,
		LastRunAt:  cfg.LastRunAt,
	}
}
