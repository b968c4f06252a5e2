package billing

import (
	"github.com/shopspring/decimal"

	"github.com/dormbill/backend/internal/domain/shared"
)

// Event types
const (
	EventInvoiceGenerated = "billing.invoice.generated"
	EventInvoiceSent      = "billing.invoice.sent"
	EventInvoiceSettled   = "billing.invoice.settled"
	EventInvoiceOverdue   = "billing.invoice.overdue"
	EventInvoiceCancelled = "billing.invoice.cancelled"
)

// InvoiceGeneratedEvent is raised when a draft invoice is created
type InvoiceGeneratedEvent struct {
	shared.BaseDomainEvent
	Month       int             `json:"month"`
	Year        int             `json:"year"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

func NewInvoiceGeneratedEvent(i *Invoice) *InvoiceGeneratedEvent {
	return &InvoiceGeneratedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventInvoiceGenerated, i.ID),
		Month:           i.Month,
		Year:            i.Year,
		TotalAmount:     i.TotalAmount,
	}
}

// InvoiceSentEvent is raised on the first DRAFT to SENT transition
type InvoiceSentEvent struct {
	shared.BaseDomainEvent
}

func NewInvoiceSentEvent(i *Invoice) *InvoiceSentEvent {
	return &InvoiceSentEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventInvoiceSent, i.ID),
	}
}

// InvoiceSettledEvent is raised when an invoice is paid
type InvoiceSettledEvent struct {
	shared.BaseDomainEvent
	TotalAmount decimal.Decimal `json:"total_amount"`
}

func NewInvoiceSettledEvent(i *Invoice) *InvoiceSettledEvent {
	return &InvoiceSettledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventInvoiceSettled, i.ID),
		TotalAmount:     i.TotalAmount,
	}
}

// InvoiceOverdueEvent is raised by the overdue sweep
type InvoiceOverdueEvent struct {
	shared.BaseDomainEvent
}

func NewInvoiceOverdueEvent(i *Invoice) *InvoiceOverdueEvent {
	return &InvoiceOverdueEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventInvoiceOverdue, i.ID),
	}
}

// InvoiceCancelledEvent is raised when an invoice is cancelled
type InvoiceCancelledEvent struct {
	shared.BaseDomainEvent
}

func NewInvoiceCancelledEvent(i *Invoice) *InvoiceCancelledEvent {
	return &InvoiceCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventInvoiceCancelled, i.ID),
	}
}
