package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BillingNotice is the payload pushed to a tenant when an invoice is sent
type BillingNotice struct {
	RoomCode        string          `json:"room_code"`
	TenantName      string          `json:"tenant_name"`
	Month           int             `json:"month"`
	Year            int             `json:"year"`
	RentAmount      decimal.Decimal `json:"rent_amount"`
	WaterAmount     decimal.Decimal `json:"water_amount"`
	ElectricAmount  decimal.Decimal `json:"electric_amount"`
	OtherFees       decimal.Decimal `json:"other_fees"`
	Discount        decimal.Decimal `json:"discount"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	DueDate         time.Time       `json:"due_date"`
	BankAccountText string          `json:"bank_account_text,omitempty"`
}

// SettlementNotice is the payload pushed when an invoice is settled.
// RemainingDeposit is set for deposit-funded settlements only.
type SettlementNotice struct {
	RoomCode         string           `json:"room_code"`
	Month            int              `json:"month"`
	Year             int              `json:"year"`
	Amount           decimal.Decimal  `json:"amount"`
	Method           PaymentMethod    `json:"method"`
	RemainingDeposit *decimal.Decimal `json:"remaining_deposit,omitempty"`
	PaidAt           time.Time        `json:"paid_at"`
}

// Notifier delivers billing notices to a tenant's notification channel.
// Errors are reported back but never treated as fatal by callers.
type Notifier interface {
	SendBillingNotice(ctx context.Context, channelID string, notice BillingNotice) error
	SendSettlementNotice(ctx context.Context, channelID string, notice SettlementNotice) error
}

// ActivityLogger is a fire-and-forget audit sink. Implementations must
// never block or fail the primary operation.
type ActivityLogger interface {
	Record(ctx context.Context, action, entityType string, entityID uuid.UUID, details string)
}

// RateOverrideSource fetches the optional remote configuration override.
// Absence or error is non-fatal; callers fall back to local config.
type RateOverrideSource interface {
	Fetch(ctx context.Context) (map[string]any, error)
}
