package tenancy

import (
	"github.com/shopspring/decimal"

	"github.com/dormbill/backend/internal/domain/shared"
)

// Event types
const (
	EventContractCreated    = "tenancy.contract.created"
	EventContractTerminated = "tenancy.contract.terminated"
	EventDepositDebited     = "tenancy.deposit.debited"
	EventDepositCredited    = "tenancy.deposit.credited"
)

// ContractCreatedEvent is raised when a contract is created
type ContractCreatedEvent struct {
	shared.BaseDomainEvent
	TenantName string `json:"tenant_name"`
}

func NewContractCreatedEvent(c *Contract) *ContractCreatedEvent {
	return &ContractCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventContractCreated, c.ID),
		TenantName:      c.TenantName,
	}
}

// ContractTerminatedEvent is raised when a contract ends
type ContractTerminatedEvent struct {
	shared.BaseDomainEvent
}

func NewContractTerminatedEvent(c *Contract) *ContractTerminatedEvent {
	return &ContractTerminatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventContractTerminated, c.ID),
	}
}

// DepositDebitedEvent is raised when the deposit balance is drawn down
type DepositDebitedEvent struct {
	shared.BaseDomainEvent
	Amount  decimal.Decimal `json:"amount"`
	Balance decimal.Decimal `json:"balance"`
}

func NewDepositDebitedEvent(c *Contract, amount decimal.Decimal) *DepositDebitedEvent {
	return &DepositDebitedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventDepositDebited, c.ID),
		Amount:          amount,
		Balance:         c.Deposit,
	}
}

// DepositCreditedEvent is raised when the deposit balance is topped up
type DepositCreditedEvent struct {
	shared.BaseDomainEvent
	Amount  decimal.Decimal `json:"amount"`
	Balance decimal.Decimal `json:"balance"`
}

func NewDepositCreditedEvent(c *Contract, amount decimal.Decimal) *DepositCreditedEvent {
	return &DepositCreditedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventDepositCredited, c.ID),
		Amount:          amount,
		Balance:         c.Deposit,
	}
}
