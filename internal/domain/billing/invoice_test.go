package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dormbill/backend/internal/domain/shared"
)

func newTestInvoice(t *testing.T) *Invoice {
	t.Helper()
	inv, err := NewInvoice(uuid.New(), uuid.New(), 3, 2026,
		dec("3000"), dec("35"), dec("480"), dec("100"),
		time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return inv
}

func TestNewInvoice(t *testing.T) {
	t.Run("starts as draft with derived total", func(t *testing.T) {
		inv := newTestInvoice(t)
		assert.Equal(t, InvoiceStatusDraft, inv.Status)
		assert.True(t, dec("3615").Equal(inv.TotalAmount), "got %s", inv.TotalAmount)
		assert.Len(t, inv.DomainEvents(), 1)
	})

	t.Run("rejects invalid period", func(t *testing.T) {
		_, err := NewInvoice(uuid.New(), uuid.New(), 13, 2026,
			decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero, time.Now())
		require.Error(t, err)
		assert.True(t, shared.IsDomainError(err, "INVALID_INPUT"))
	})
}

func TestInvoice_StateMachine(t *testing.T) {
	t.Run("send moves draft to sent", func(t *testing.T) {
		inv := newTestInvoice(t)
		require.NoError(t, inv.Send())
		assert.Equal(t, InvoiceStatusSent, inv.Status)
		require.NotNil(t, inv.SentAt)
	})

	t.Run("send is idempotent on sent invoices", func(t *testing.T) {
		inv := newTestInvoice(t)
		require.NoError(t, inv.Send())
		sentAt := *inv.SentAt
		require.NoError(t, inv.Send())
		assert.Equal(t, InvoiceStatusSent, inv.Status)
		assert.Equal(t, sentAt, *inv.SentAt)
	})

	t.Run("send rejects paid invoices", func(t *testing.T) {
		inv := newTestInvoice(t)
		require.NoError(t, inv.Send())
		require.NoError(t, inv.MarkPaid(time.Now()))
		err := inv.Send()
		assert.True(t, shared.IsDomainError(err, "INVALID_STATE"))
	})

	t.Run("overdue requires sent status and passed due date", func(t *testing.T) {
		inv := newTestInvoice(t)
		err := inv.MarkOverdue(time.Now())
		assert.True(t, shared.IsDomainError(err, "INVALID_STATE"))

		require.NoError(t, inv.Send())
		require.NoError(t, inv.MarkOverdue(inv.DueDate.Add(24*time.Hour)))
		assert.Equal(t, InvoiceStatusOverdue, inv.Status)
	})

	t.Run("overdue invoice can still settle", func(t *testing.T) {
		inv := newTestInvoice(t)
		require.NoError(t, inv.Send())
		require.NoError(t, inv.MarkOverdue(inv.DueDate.Add(24*time.Hour)))
		require.NoError(t, inv.MarkPaid(time.Now()))
		assert.Equal(t, InvoiceStatusPaid, inv.Status)
	})

	t.Run("draft owing money cannot settle directly", func(t *testing.T) {
		inv := newTestInvoice(t)
		err := inv.MarkPaid(time.Now())
		assert.True(t, shared.IsDomainError(err, "INVALID_STATE"))
		assert.Equal(t, InvoiceStatusDraft, inv.Status)
		assert.Nil(t, inv.PaidAt)
	})

	t.Run("zero total draft settles directly", func(t *testing.T) {
		inv, err := NewInvoice(uuid.New(), uuid.New(), 3, 2026,
			decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero,
			time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		require.NoError(t, inv.MarkPaid(time.Now()))
		assert.Equal(t, InvoiceStatusPaid, inv.Status)
	})

	t.Run("cancel is idempotent", func(t *testing.T) {
		inv := newTestInvoice(t)
		require.NoError(t, inv.Cancel())
		assert.Equal(t, InvoiceStatusCancelled, inv.Status)
		require.NoError(t, inv.Cancel())
	})

	t.Run("paid invoices cannot be cancelled", func(t *testing.T) {
		inv := newTestInvoice(t)
		require.NoError(t, inv.Send())
		require.NoError(t, inv.MarkPaid(time.Now()))
		err := inv.Cancel()
		assert.True(t, shared.IsDomainError(err, "INVALID_STATE"))
	})

	t.Run("cancelled invoices stay cancelled", func(t *testing.T) {
		inv := newTestInvoice(t)
		require.NoError(t, inv.Cancel())
		assert.Error(t, inv.Send())
		assert.Error(t, inv.MarkPaid(time.Now()))
	})
}

func TestInvoice_Items(t *testing.T) {
	t.Run("add item recomputes total", func(t *testing.T) {
		inv := newTestInvoice(t)
		_, err := inv.AddItem("broken chair", dec("250"))
		require.NoError(t, err)
		assert.True(t, dec("3865").Equal(inv.TotalAmount), "got %s", inv.TotalAmount)
	})

	t.Run("update item recomputes total", func(t *testing.T) {
		inv := newTestInvoice(t)
		item, err := inv.AddItem("broken chair", dec("250"))
		require.NoError(t, err)
		require.NoError(t, inv.UpdateItem(item.ID, "broken chair", dec("300")))
		assert.True(t, dec("3915").Equal(inv.TotalAmount), "got %s", inv.TotalAmount)
	})

	t.Run("remove item soft deletes and recomputes", func(t *testing.T) {
		inv := newTestInvoice(t)
		item, err := inv.AddItem("broken chair", dec("250"))
		require.NoError(t, err)
		require.NoError(t, inv.RemoveItem(item.ID))

		kept := inv.FindItem(item.ID)
		require.NotNil(t, kept)
		assert.True(t, kept.Removed)
		assert.True(t, kept.Amount.IsZero())
		assert.Equal(t, "[removed] broken chair", kept.Description)
		assert.True(t, dec("3615").Equal(inv.TotalAmount), "got %s", inv.TotalAmount)
	})

	t.Run("remove is idempotent", func(t *testing.T) {
		inv := newTestInvoice(t)
		item, err := inv.AddItem("broken chair", dec("250"))
		require.NoError(t, err)
		require.NoError(t, inv.RemoveItem(item.ID))
		require.NoError(t, inv.RemoveItem(item.ID))
		assert.Equal(t, "[removed] broken chair", inv.FindItem(item.ID).Description)
	})

	t.Run("update of removed item reports not found", func(t *testing.T) {
		inv := newTestInvoice(t)
		item, err := inv.AddItem("broken chair", dec("250"))
		require.NoError(t, err)
		require.NoError(t, inv.RemoveItem(item.ID))
		err = inv.UpdateItem(item.ID, "x", dec("1"))
		assert.True(t, shared.IsDomainError(err, "NOT_FOUND"))
	})

	t.Run("unknown item reports not found", func(t *testing.T) {
		inv := newTestInvoice(t)
		err := inv.RemoveItem(uuid.New())
		assert.True(t, shared.IsDomainError(err, "NOT_FOUND"))
	})

	t.Run("credit items can reduce the total", func(t *testing.T) {
		inv := newTestInvoice(t)
		_, err := inv.AddItem("goodwill credit", dec("-100"))
		require.NoError(t, err)
		assert.True(t, dec("3515").Equal(inv.TotalAmount), "got %s", inv.TotalAmount)
	})

	t.Run("total clamps at zero", func(t *testing.T) {
		inv := newTestInvoice(t)
		require.NoError(t, inv.SetDiscount(dec("99999")))
		assert.True(t, inv.TotalAmount.IsZero(), "got %s", inv.TotalAmount)
	})

	t.Run("closed invoices reject item mutation", func(t *testing.T) {
		inv := newTestInvoice(t)
		require.NoError(t, inv.Cancel())
		_, err := inv.AddItem("late", dec("1"))
		assert.True(t, shared.IsDomainError(err, "INVALID_STATE"))
	})
}

func TestInvoice_Payments(t *testing.T) {
	inv := newTestInvoice(t)
	paidAt := time.Now()
	p := inv.RecordPayment(PaymentMethodDeposit, inv.TotalAmount, "", paidAt)
	require.NotNil(t, p)
	assert.Equal(t, PaymentStatusVerified, p.Status)
	assert.Equal(t, inv.ID, p.InvoiceID)
	assert.Len(t, inv.Payments, 1)
}
