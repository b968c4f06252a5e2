package billing

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dormbill/backend/internal/domain/shared"
)

// InvoiceStatus represents the lifecycle state of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "DRAFT"
	InvoiceStatusSent      InvoiceStatus = "SENT"
	InvoiceStatusPaid      InvoiceStatus = "PAID"
	InvoiceStatusOverdue   InvoiceStatus = "OVERDUE"
	InvoiceStatusCancelled InvoiceStatus = "CANCELLED"
)

// IsValid reports whether the status is known
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPaid,
		InvoiceStatusOverdue, InvoiceStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether the status permits no further transitions
func (s InvoiceStatus) IsTerminal() bool {
	return s == InvoiceStatusPaid || s == InvoiceStatusCancelled
}

// PaymentMethod identifies the funding source of a settlement
type PaymentMethod string

const (
	PaymentMethodDeposit PaymentMethod = "DEPOSIT"
	PaymentMethodCash    PaymentMethod = "CASH"
)

// IsValid reports whether the payment method is known
func (m PaymentMethod) IsValid() bool {
	return m == PaymentMethodDeposit || m == PaymentMethodCash
}

// PaymentStatus represents the verification state of a payment
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "PENDING"
	PaymentStatusVerified PaymentStatus = "VERIFIED"
	PaymentStatusRejected PaymentStatus = "REJECTED"
)

// removedItemPrefix tags soft-deleted invoice items
const removedItemPrefix = "[removed] "

// InvoiceItem is an ad-hoc charge or credit line on an invoice. Items are
// never hard-deleted; removal zeroes the amount and tags the description.
type InvoiceItem struct {
	ID          uuid.UUID       `json:"id"`
	InvoiceID   uuid.UUID       `json:"invoice_id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Removed     bool            `json:"removed"`
	RemovedAt   *time.Time      `json:"removed_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Payment records funds applied to an invoice
type Payment struct {
	shared.BaseEntity
	InvoiceID uuid.UUID       `json:"invoice_id"`
	Amount    decimal.Decimal `json:"amount"`
	Method    PaymentMethod   `json:"method"`
	Status    PaymentStatus   `json:"status"`
	Reference string          `json:"reference"`
	PaidAt    time.Time       `json:"paid_at"`
}

// Invoice is the billing aggregate for one contract and period. The
// (contract, month, year) triple is unique. TotalAmount is always derived
// from the component amounts and active items, clamped to zero.
type Invoice struct {
	shared.BaseAggregateRoot
	ContractID     uuid.UUID       `json:"contract_id"`
	RoomID         uuid.UUID       `json:"room_id"`
	Month          int             `json:"month"`
	Year           int             `json:"year"`
	RentAmount     decimal.Decimal `json:"rent_amount"`
	WaterAmount    decimal.Decimal `json:"water_amount"`
	ElectricAmount decimal.Decimal `json:"electric_amount"`
	OtherFees      decimal.Decimal `json:"other_fees"`
	Discount       decimal.Decimal `json:"discount"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	Status         InvoiceStatus   `json:"status"`
	DueDate        time.Time       `json:"due_date"`
	SentAt         *time.Time      `json:"sent_at,omitempty"`
	PaidAt         *time.Time      `json:"paid_at,omitempty"`
	CancelledAt    *time.Time      `json:"cancelled_at,omitempty"`
	Items          []InvoiceItem   `json:"items"`
	Payments       []Payment       `json:"payments"`
}

// NewInvoice creates a DRAFT invoice for a contract and period
func NewInvoice(contractID, roomID uuid.UUID, month, year int, rent, water, electric, otherFees decimal.Decimal, dueDate time.Time) (*Invoice, error) {
	if contractID == uuid.Nil || roomID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "contract and room ids are required")
	}
	if month < 1 || month > 12 {
		return nil, shared.NewDomainError("INVALID_INPUT", "month must be between 1 and 12")
	}
	inv := &Invoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ContractID:        contractID,
		RoomID:            roomID,
		Month:             month,
		Year:              year,
		RentAmount:        rent,
		WaterAmount:       water,
		ElectricAmount:    electric,
		OtherFees:         otherFees,
		Discount:          decimal.Zero,
		Status:            InvoiceStatusDraft,
		DueDate:           dueDate,
		Items:             make([]InvoiceItem, 0),
		Payments:          make([]Payment, 0),
	}
	inv.RecalculateTotal()
	inv.AddDomainEvent(NewInvoiceGeneratedEvent(inv))
	return inv, nil
}

// RecalculateTotal re-derives TotalAmount from the component amounts,
// active items and discount, clamped to zero.
func (i *Invoice) RecalculateTotal() {
	total := i.RentAmount.
		Add(i.WaterAmount).
		Add(i.ElectricAmount).
		Add(i.OtherFees).
		Add(i.ActiveItemsTotal()).
		Sub(i.Discount)
	total = RoundMoney(total)
	if total.IsNegative() {
		total = decimal.Zero
	}
	i.TotalAmount = total
}

// ActiveItemsTotal sums non-removed item amounts
func (i *Invoice) ActiveItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range i.Items {
		if !item.Removed {
			total = total.Add(item.Amount)
		}
	}
	return total
}

// IsZeroTotal reports whether nothing is owed
func (i *Invoice) IsZeroTotal() bool {
	return i.TotalAmount.IsZero()
}

// Send transitions DRAFT to SENT. Sending an already-SENT invoice is a
// no-op success; the status is still forced to SENT so bulk sends converge
// after partial failures.
func (i *Invoice) Send() error {
	switch i.Status {
	case InvoiceStatusDraft, InvoiceStatusSent:
		first := i.Status == InvoiceStatusDraft
		i.Status = InvoiceStatusSent
		if i.SentAt == nil {
			now := time.Now()
			i.SentAt = &now
		}
		i.Touch()
		if first {
			i.AddDomainEvent(NewInvoiceSentEvent(i))
		}
		return nil
	default:
		return shared.NewDomainError("INVALID_STATE", "invoice cannot be sent in status "+string(i.Status))
	}
}

// MarkPaid transitions the invoice to PAID. A draft settles directly
// only when nothing is owed; non-zero drafts must be sent first.
func (i *Invoice) MarkPaid(paidAt time.Time) error {
	switch i.Status {
	case InvoiceStatusDraft:
		if !i.IsZeroTotal() {
			return shared.NewDomainError("INVALID_STATE", "draft invoices must be sent before settlement")
		}
	case InvoiceStatusSent, InvoiceStatusOverdue:
	default:
		return shared.NewDomainError("INVALID_STATE", "invoice cannot be settled in status "+string(i.Status))
	}
	i.Status = InvoiceStatusPaid
	i.PaidAt = &paidAt
	i.Touch()
	i.AddDomainEvent(NewInvoiceSettledEvent(i))
	return nil
}

// MarkOverdue transitions a SENT invoice past its due date to OVERDUE
func (i *Invoice) MarkOverdue(now time.Time) error {
	if i.Status != InvoiceStatusSent {
		return shared.NewDomainError("INVALID_STATE", "only sent invoices can become overdue")
	}
	if !i.DueDate.Before(now) {
		return shared.NewDomainError("INVALID_STATE", "invoice is not yet due")
	}
	i.Status = InvoiceStatusOverdue
	i.Touch()
	i.AddDomainEvent(NewInvoiceOverdueEvent(i))
	return nil
}

// Cancel marks the invoice CANCELLED. Cancelling an already-cancelled
// invoice is a no-op success. Paid invoices cannot be cancelled.
func (i *Invoice) Cancel() error {
	if i.Status == InvoiceStatusCancelled {
		return nil
	}
	if i.Status == InvoiceStatusPaid {
		return shared.NewDomainError("INVALID_STATE", "paid invoices cannot be cancelled")
	}
	i.Status = InvoiceStatusCancelled
	now := time.Now()
	i.CancelledAt = &now
	i.Touch()
	i.AddDomainEvent(NewInvoiceCancelledEvent(i))
	return nil
}

// AddItem appends a charge or credit line and recomputes the total
func (i *Invoice) AddItem(description string, amount decimal.Decimal) (*InvoiceItem, error) {
	if i.Status.IsTerminal() {
		return nil, shared.NewDomainError("INVALID_STATE", "invoice is closed")
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "item description is required")
	}
	item := InvoiceItem{
		ID:          uuid.New(),
		InvoiceID:   i.ID,
		Description: description,
		Amount:      amount,
		CreatedAt:   time.Now(),
	}
	i.Items = append(i.Items, item)
	i.RecalculateTotal()
	i.Touch()
	return &i.Items[len(i.Items)-1], nil
}

// UpdateItem changes an item's description and amount and recomputes the total
func (i *Invoice) UpdateItem(itemID uuid.UUID, description string, amount decimal.Decimal) error {
	if i.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "invoice is closed")
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return shared.NewDomainError("INVALID_INPUT", "item description is required")
	}
	for idx := range i.Items {
		if i.Items[idx].ID == itemID {
			if i.Items[idx].Removed {
				return shared.NewDomainError("NOT_FOUND", "invoice item was removed")
			}
			i.Items[idx].Description = description
			i.Items[idx].Amount = amount
			i.RecalculateTotal()
			i.Touch()
			return nil
		}
	}
	return shared.NewDomainError("NOT_FOUND", "invoice item not found")
}

// RemoveItem soft-deletes an item: the amount is zeroed and the
// description tagged, preserving the audit trail. Removing an already
// removed item is a no-op success.
func (i *Invoice) RemoveItem(itemID uuid.UUID) error {
	if i.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "invoice is closed")
	}
	for idx := range i.Items {
		if i.Items[idx].ID == itemID {
			if i.Items[idx].Removed {
				return nil
			}
			now := time.Now()
			i.Items[idx].Removed = true
			i.Items[idx].RemovedAt = &now
			i.Items[idx].Amount = decimal.Zero
			if !strings.HasPrefix(i.Items[idx].Description, removedItemPrefix) {
				i.Items[idx].Description = removedItemPrefix + i.Items[idx].Description
			}
			i.RecalculateTotal()
			i.Touch()
			return nil
		}
	}
	return shared.NewDomainError("NOT_FOUND", "invoice item not found")
}

// SetDiscount sets the invoice discount and recomputes the total
func (i *Invoice) SetDiscount(amount decimal.Decimal) error {
	if i.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "invoice is closed")
	}
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "discount cannot be negative")
	}
	i.Discount = amount
	i.RecalculateTotal()
	i.Touch()
	return nil
}

// RecordPayment attaches a verified payment to the invoice
func (i *Invoice) RecordPayment(method PaymentMethod, amount decimal.Decimal, reference string, paidAt time.Time) *Payment {
	p := Payment{
		BaseEntity: shared.NewBaseEntity(),
		InvoiceID:  i.ID,
		Amount:     amount,
		Method:     method,
		Status:     PaymentStatusVerified,
		Reference:  reference,
		PaidAt:     paidAt,
	}
	i.Payments = append(i.Payments, p)
	return &i.Payments[len(i.Payments)-1]
}

// FindItem returns the item with the given id, removed or not
func (i *Invoice) FindItem(itemID uuid.UUID) *InvoiceItem {
	for idx := range i.Items {
		if i.Items[idx].ID == itemID {
			return &i.Items[idx]
		}
	}
	return nil
}
