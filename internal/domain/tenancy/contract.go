package tenancy

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dormbill/backend/internal/domain/shared"
)

// Contract binds a tenant to a room. Deposit acts as a ledger balance that
// settlements may debit; it can never go negative.
type Contract struct {
	shared.BaseAggregateRoot
	RoomID          uuid.UUID       `json:"room_id"`
	TenantName      string          `json:"tenant_name"`
	TenantChannelID string          `json:"tenant_channel_id"`
	StartDate       time.Time       `json:"start_date"`
	EndDate         *time.Time      `json:"end_date,omitempty"`
	Deposit         decimal.Decimal `json:"deposit"`
	CurrentRent     decimal.Decimal `json:"current_rent"`
	OccupantCount   int             `json:"occupant_count"`
	IsActive        bool            `json:"is_active"`
	TerminatedAt    *time.Time      `json:"terminated_at,omitempty"`
}

// NewContract creates a new active contract
func NewContract(roomID uuid.UUID, tenantName string, startDate time.Time, deposit, rent decimal.Decimal, occupants int) (*Contract, error) {
	tenantName = strings.TrimSpace(tenantName)
	if roomID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "room id is required")
	}
	if tenantName == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "tenant name is required")
	}
	if deposit.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "deposit cannot be negative")
	}
	if rent.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "rent cannot be negative")
	}
	if occupants < 1 {
		occupants = 1
	}
	c := &Contract{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		RoomID:            roomID,
		TenantName:        tenantName,
		StartDate:         startDate,
		Deposit:           deposit,
		CurrentRent:       rent,
		OccupantCount:     occupants,
		IsActive:          true,
	}
	c.AddDomainEvent(NewContractCreatedEvent(c))
	return c, nil
}

// DebitDeposit withdraws from the deposit balance
func (c *Contract) DebitDeposit(amount decimal.Decimal) error {
	if !c.IsActive {
		return shared.NewDomainError("INVALID_STATE", "contract is not active")
	}
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "debit amount cannot be negative")
	}
	if c.Deposit.LessThan(amount) {
		return shared.NewDomainError("INSUFFICIENT_FUNDS", "deposit balance is insufficient")
	}
	c.Deposit = c.Deposit.Sub(amount)
	c.Touch()
	c.AddDomainEvent(NewDepositDebitedEvent(c, amount))
	return nil
}

// CreditDeposit adds to the deposit balance
func (c *Contract) CreditDeposit(amount decimal.Decimal) error {
	if !c.IsActive {
		return shared.NewDomainError("INVALID_STATE", "contract is not active")
	}
	if amount.IsNegative() || amount.IsZero() {
		return shared.NewDomainError("INVALID_INPUT", "credit amount must be positive")
	}
	c.Deposit = c.Deposit.Add(amount)
	c.Touch()
	c.AddDomainEvent(NewDepositCreditedEvent(c, amount))
	return nil
}

// SetRent updates the monthly rent for future invoices
func (c *Contract) SetRent(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "rent cannot be negative")
	}
	c.CurrentRent = amount
	c.Touch()
	return nil
}

// LinkChannel binds a notification channel to the tenant
func (c *Contract) LinkChannel(channelID string) {
	c.TenantChannelID = strings.TrimSpace(channelID)
	c.Touch()
}

// HasNotificationChannel reports whether notices can be delivered
func (c *Contract) HasNotificationChannel() bool {
	return c.TenantChannelID != ""
}

// Terminate ends the contract
func (c *Contract) Terminate(endDate time.Time) error {
	if !c.IsActive {
		return shared.NewDomainError("INVALID_STATE", "contract is already terminated")
	}
	if endDate.Before(c.StartDate) {
		return shared.NewDomainError("INVALID_INPUT", "end date cannot precede start date")
	}
	c.IsActive = false
	c.EndDate = &endDate
	now := time.Now()
	c.TerminatedAt = &now
	c.Touch()
	c.AddDomainEvent(NewContractTerminatedEvent(c))
	return nil
}
