package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/dormbill/backend/internal/domain/billing"
	"github.com/dormbill/backend/internal/domain/shared"
	"github.com/dormbill/backend/internal/domain/tenancy"
)

// ConfigResolver supplies the effective dormitory configuration, local
// values merged with the optional remote override.
type ConfigResolver interface {
	EffectiveConfig(ctx context.Context) (*billing.DormConfig, error)
}

// InvoiceService drives invoice generation and the invoice lifecycle
type InvoiceService struct {
	invoices  billing.InvoiceRepository
	contracts tenancy.ContractRepository
	rooms     tenancy.RoomRepository
	readings  tenancy.MeterReadingRepository
	config    ConfigResolver
	notifier  billing.Notifier
	activity  billing.ActivityLogger
	tx        shared.TransactionManager
	logger    *zap.Logger
}

// NewInvoiceService creates the invoice service
func NewInvoiceService(
	invoices billing.InvoiceRepository,
	contracts tenancy.ContractRepository,
	rooms tenancy.RoomRepository,
	readings tenancy.MeterReadingRepository,
	config ConfigResolver,
	notifier billing.Notifier,
	activity billing.ActivityLogger,
	tx shared.TransactionManager,
	logger *zap.Logger,
) *InvoiceService {
	return &InvoiceService{
		invoices:  invoices,
		contracts: contracts,
		rooms:     rooms,
		readings:  readings,
		config:    config,
		notifier:  notifier,
		activity:  activity,
		tx:        tx,
		logger:    logger.Named("invoice-service"),
	}
}

// Generate creates a DRAFT invoice for a room and billing period
func (s *InvoiceService) Generate(ctx context.Context, roomID uuid.UUID, month, year int) (*InvoiceResponse, error) {
	if err := tenancy.ValidatePeriod(month, year); err != nil {
		return nil, err
	}
	room, err := s.rooms.FindByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	contract, err := s.contracts.FindActiveByRoom(ctx, roomID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "no active contract on room "+room.Code)
		}
		return nil, err
	}

	exists, err := s.invoices.ExistsByContractPeriod(ctx, contract.ID, month, year)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("CONFLICT", fmt.Sprintf("invoice already exists for %d/%d", month, year))
	}

	current, err := s.readings.FindByRoomPeriod(ctx, roomID, month, year)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("no meter reading for %d/%d", month, year))
		}
		return nil, err
	}
	prevMonth, prevYear := tenancy.PreviousPeriod(month, year)
	previous, err := s.readings.FindByRoomPeriod(ctx, roomID, prevMonth, prevYear)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	cfg, err := s.config.EffectiveConfig(ctx)
	if err != nil {
		return nil, err
	}

	usage := current.UsageSince(previous)
	water := billing.ComputeWaterFee(cfg.WaterRateConfig(), usage.Water, room.WaterPriceOverride, contract.OccupantCount)
	electric := billing.ComputeFee(cfg.ElectricRateConfig(), usage.Electric, room.ElectricPriceOverride, contract.OccupantCount)
	dueDate := dueDateFor(year, month, cfg.DueDay)

	inv, err := billing.NewInvoice(contract.ID, room.ID, month, year,
		contract.CurrentRent, water, electric, cfg.CommonFee, dueDate)
	if err != nil {
		return nil, err
	}
	if err := s.invoices.Save(ctx, inv); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, "invoice.generated", "invoice", inv.ID,
		fmt.Sprintf("room %s period %d/%d total %s", room.Code, month, year, inv.TotalAmount.StringFixed(2)))
	s.logger.Info("invoice generated",
		zap.String("invoice_id", inv.ID.String()),
		zap.String("room", room.Code),
		zap.Int("month", month),
		zap.Int("year", year),
		zap.String("total", inv.TotalAmount.StringFixed(2)))
	return ToInvoiceResponse(inv), nil
}

// Get returns a single invoice
func (s *InvoiceService) Get(ctx context.Context, id uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.invoices.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToInvoiceResponse(inv), nil
}

// List returns invoices with paging
func (s *InvoiceService) List(ctx context.Context, filter shared.Filter) ([]*InvoiceResponse, int64, error) {
	filter.Normalize()
	invs, total, err := s.invoices.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]*InvoiceResponse, 0, len(invs))
	for _, inv := range invs {
		out = append(out, ToInvoiceResponse(inv))
	}
	return out, total, nil
}

// Settle applies payment to an invoice. Deposit settlements debit the
// contract ledger inside a transaction so concurrent attempts cannot
// double-spend. A zero-total invoice transitions straight to PAID with no
// payment record.
func (s *InvoiceService) Settle(ctx context.Context, id uuid.UUID, method string, reference string, paidAt *time.Time) (*InvoiceResponse, error) {
	pm := billing.PaymentMethod(method)
	if !pm.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "unknown payment method "+method)
	}
	inv, err := s.invoices.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	at := time.Now()
	if paidAt != nil {
		at = *paidAt
	}

	if inv.IsZeroTotal() {
		if err := inv.MarkPaid(at); err != nil {
			return nil, err
		}
		if err := s.invoices.SaveWithLock(ctx, inv); err != nil {
			return nil, err
		}
		s.activity.Record(ctx, "invoice.settled", "invoice", inv.ID, "zero total, no payment recorded")
		return ToInvoiceResponse(inv), nil
	}

	var remaining *decimal.Decimal
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if pm == billing.PaymentMethodDeposit {
			contract, err := s.contracts.FindByID(txCtx, inv.ContractID)
			if err != nil {
				return err
			}
			if err := contract.DebitDeposit(inv.TotalAmount); err != nil {
				return err
			}
			if err := s.contracts.SaveWithLock(txCtx, contract); err != nil {
				return err
			}
			balance := contract.Deposit
			remaining = &balance
		}
		inv.RecordPayment(pm, inv.TotalAmount, reference, at)
		if err := inv.MarkPaid(at); err != nil {
			return err
		}
		return s.invoices.SaveWithLock(txCtx, inv)
	})
	if err != nil {
		return nil, err
	}

	s.activity.Record(ctx, "invoice.settled", "invoice", inv.ID,
		fmt.Sprintf("method %s amount %s", pm, inv.TotalAmount.StringFixed(2)))
	s.notifySettlement(ctx, inv, pm, remaining, at)
	return ToInvoiceResponse(inv), nil
}

// SetDiscount updates the invoice discount and recomputes the total
func (s *InvoiceService) SetDiscount(ctx context.Context, id uuid.UUID, discount decimal.Decimal) (*InvoiceResponse, error) {
	inv, err := s.invoices.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := inv.SetDiscount(discount); err != nil {
		return nil, err
	}
	if err := s.invoices.SaveWithLock(ctx, inv); err != nil {
		return nil, err
	}
	return ToInvoiceResponse(inv), nil
}

// AddItem appends a line item and persists the recomputed total atomically
func (s *InvoiceService) AddItem(ctx context.Context, id uuid.UUID, req InvoiceItemRequest) (*InvoiceResponse, error) {
	inv, err := s.invoices.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := inv.AddItem(req.Description, req.Amount); err != nil {
		return nil, err
	}
	if err := s.invoices.SaveWithLock(ctx, inv); err != nil {
		return nil, err
	}
	return ToInvoiceResponse(inv), nil
}

// UpdateItem changes a line item and persists the recomputed total
func (s *InvoiceService) UpdateItem(ctx context.Context, id, itemID uuid.UUID, req InvoiceItemRequest) (*InvoiceResponse, error) {
	inv, err := s.invoices.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := inv.UpdateItem(itemID, req.Description, req.Amount); err != nil {
		return nil, err
	}
	if err := s.invoices.SaveWithLock(ctx, inv); err != nil {
		return nil, err
	}
	return ToInvoiceResponse(inv), nil
}

// RemoveItem soft-deletes a line item and persists the recomputed total
func (s *InvoiceService) RemoveItem(ctx context.Context, id, itemID uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.invoices.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := inv.RemoveItem(itemID); err != nil {
		return nil, err
	}
	if err := s.invoices.SaveWithLock(ctx, inv); err != nil {
		return nil, err
	}
	return ToInvoiceResponse(inv), nil
}

// Cancel marks an invoice CANCELLED. Cancelling a missing or already
// cancelled invoice is a no-op success.
func (s *InvoiceService) Cancel(ctx context.Context, id uuid.UUID) error {
	inv, err := s.invoices.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		return err
	}
	if err := inv.Cancel(); err != nil {
		return err
	}
	if err := s.invoices.SaveWithLock(ctx, inv); err != nil {
		return err
	}
	s.activity.Record(ctx, "invoice.cancelled", "invoice", inv.ID, "")
	return nil
}

// Send delivers one invoice's billing notice and transitions it to SENT
func (s *InvoiceService) Send(ctx context.Context, id uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.invoices.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.sendOne(ctx, inv); err != nil {
		return nil, err
	}
	return ToInvoiceResponse(inv), nil
}

// SendAll sends every DRAFT invoice of the period. Already-SENT invoices
// are counted as skipped but still forced to SENT so the period converges
// after partial failures.
func (s *InvoiceService) SendAll(ctx context.Context, month, year int) (*SendResult, error) {
	if err := tenancy.ValidatePeriod(month, year); err != nil {
		return nil, err
	}
	invs, err := s.invoices.FindByPeriodStatus(ctx, month, year,
		[]billing.InvoiceStatus{billing.InvoiceStatusDraft, billing.InvoiceStatusSent})
	if err != nil {
		return nil, err
	}
	return s.sendBatch(ctx, invs), nil
}

// SendForRoom sends the period's invoices for one room
func (s *InvoiceService) SendForRoom(ctx context.Context, roomID uuid.UUID, month, year int) (*SendResult, error) {
	if err := tenancy.ValidatePeriod(month, year); err != nil {
		return nil, err
	}
	invs, err := s.invoices.FindByRoomPeriod(ctx, roomID, month, year)
	if err != nil {
		return nil, err
	}
	return s.sendBatch(ctx, invs), nil
}

func (s *InvoiceService) sendBatch(ctx context.Context, invs []*billing.Invoice) *SendResult {
	result := &SendResult{}
	for _, inv := range invs {
		sent, err := s.sendOne(ctx, inv)
		switch {
		case err != nil:
			result.Failed++
			s.logger.Warn("send failed",
				zap.String("invoice_id", inv.ID.String()),
				zap.Error(err))
		case sent:
			result.Sent++
		default:
			result.Skipped++
		}
	}
	return result
}

// sendOne pushes the billing notice when the tenant has a channel, then
// forces the status to SENT. A failed push does not block the transition;
// it is logged and recorded instead.
func (s *InvoiceService) sendOne(ctx context.Context, inv *billing.Invoice) (bool, error) {
	wasDraft := inv.Status == billing.InvoiceStatusDraft
	if wasDraft {
		s.notifyBilling(ctx, inv)
	}
	if err := inv.Send(); err != nil {
		return false, err
	}
	if err := s.invoices.SaveWithLock(ctx, inv); err != nil {
		return false, err
	}
	return wasDraft, nil
}

// MarkOverdue transitions every SENT invoice past its due date to OVERDUE
func (s *InvoiceService) MarkOverdue(ctx context.Context, now time.Time) (*SweepResult, error) {
	invs, err := s.invoices.FindSentDueBefore(ctx, now)
	if err != nil {
		return nil, err
	}
	result := &SweepResult{}
	for _, inv := range invs {
		if err := inv.MarkOverdue(now); err != nil {
			continue
		}
		if err := s.invoices.SaveWithLock(ctx, inv); err != nil {
			s.logger.Warn("overdue transition failed",
				zap.String("invoice_id", inv.ID.String()),
				zap.Error(err))
			continue
		}
		result.MarkedOverdue++
	}
	if result.MarkedOverdue > 0 {
		s.logger.Info("overdue sweep completed", zap.Int("marked", result.MarkedOverdue))
	}
	return result, nil
}

func (s *InvoiceService) notifyBilling(ctx context.Context, inv *billing.Invoice) {
	contract, err := s.contracts.FindByID(ctx, inv.ContractID)
	if err != nil || !contract.HasNotificationChannel() {
		return
	}
	roomCode := ""
	if room, err := s.rooms.FindByID(ctx, inv.RoomID); err == nil {
		roomCode = room.Code
	}
	bankText := ""
	if cfg, err := s.config.EffectiveConfig(ctx); err == nil {
		bankText = cfg.BankAccountText
	}
	notice := billing.BillingNotice{
		RoomCode:        roomCode,
		TenantName:      contract.TenantName,
		Month:           inv.Month,
		Year:            inv.Year,
		RentAmount:      inv.RentAmount,
		WaterAmount:     inv.WaterAmount,
		ElectricAmount:  inv.ElectricAmount,
		OtherFees:       inv.OtherFees,
		Discount:        inv.Discount,
		TotalAmount:     inv.TotalAmount,
		DueDate:         inv.DueDate,
		BankAccountText: bankText,
	}
	if err := s.notifier.SendBillingNotice(ctx, contract.TenantChannelID, notice); err != nil {
		s.logger.Warn("billing notice delivery failed",
			zap.String("invoice_id", inv.ID.String()),
			zap.Error(err))
		s.activity.Record(ctx, "notify.failed", "invoice", inv.ID, err.Error())
	}
}

func (s *InvoiceService) notifySettlement(ctx context.Context, inv *billing.Invoice, method billing.PaymentMethod, remaining *decimal.Decimal, paidAt time.Time) {
	contract, err := s.contracts.FindByID(ctx, inv.ContractID)
	if err != nil || !contract.HasNotificationChannel() {
		return
	}
	roomCode := ""
	if room, err := s.rooms.FindByID(ctx, inv.RoomID); err == nil {
		roomCode = room.Code
	}
	notice := billing.SettlementNotice{
		RoomCode:         roomCode,
		Month:            inv.Month,
		Year:             inv.Year,
		Amount:           inv.TotalAmount,
		Method:           method,
		RemainingDeposit: remaining,
		PaidAt:           paidAt,
	}
	if err := s.notifier.SendSettlementNotice(ctx, contract.TenantChannelID, notice); err != nil {
		s.logger.Warn("settlement notice delivery failed",
			zap.String("invoice_id", inv.ID.String()),
			zap.Error(err))
		s.activity.Record(ctx, "notify.failed", "invoice", inv.ID, err.Error())
	}
}

// dueDateFor clamps the configured due day to the month's length
func dueDateFor(year, month, day int) time.Time {
	if day < 1 {
		day = 1
	}
	lastDay := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}
