package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dormbill/backend/internal/domain/billing"
	"github.com/dormbill/backend/internal/domain/shared"
)

func newTestInvoice(t *testing.T, month, year int) *billing.Invoice {
	t.Helper()

	inv, err := billing.NewInvoice(
		uuid.New(), uuid.New(), month, year,
		decimal.NewFromInt(3000), decimal.NewFromInt(150), decimal.NewFromInt(400), decimal.NewFromInt(100),
		time.Date(year, time.Month(month)+1, 5, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	return inv
}

func TestGormInvoiceRepository_SaveAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()

	t.Run("round-trips invoice with items and payments", func(t *testing.T) {
		inv := newTestInvoice(t, 3, 2025)
		_, err := inv.AddItem("broken window", decimal.NewFromInt(250))
		require.NoError(t, err)
		inv.RecordPayment(billing.PaymentMethodCash, inv.TotalAmount, "receipt-42", time.Now())

		require.NoError(t, repo.Save(ctx, inv))

		found, err := repo.FindByID(ctx, inv.ID)
		require.NoError(t, err)
		assert.Equal(t, inv.ID, found.ID)
		assert.Equal(t, billing.InvoiceStatusDraft, found.Status)
		assert.True(t, found.TotalAmount.Equal(decimal.NewFromInt(3900)), "total %s", found.TotalAmount)
		require.Len(t, found.Items, 1)
		assert.Equal(t, "broken window", found.Items[0].Description)
		require.Len(t, found.Payments, 1)
		assert.Equal(t, billing.PaymentStatusVerified, found.Payments[0].Status)
	})

	t.Run("returns not found for unknown id", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("soft-removed items survive a save cycle", func(t *testing.T) {
		inv := newTestInvoice(t, 4, 2025)
		item, err := inv.AddItem("parking", decimal.NewFromInt(500))
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, inv))

		require.NoError(t, inv.RemoveItem(item.ID))
		require.NoError(t, repo.Save(ctx, inv))

		found, err := repo.FindByID(ctx, inv.ID)
		require.NoError(t, err)
		require.Len(t, found.Items, 1)
		assert.True(t, found.Items[0].Removed)
		assert.True(t, found.Items[0].Amount.IsZero())
		assert.Contains(t, found.Items[0].Description, "parking")
	})
}

func TestGormInvoiceRepository_ContractPeriod(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()

	inv := newTestInvoice(t, 5, 2025)
	require.NoError(t, repo.Save(ctx, inv))

	t.Run("finds by contract and period", func(t *testing.T) {
		found, err := repo.FindByContractPeriod(ctx, inv.ContractID, 5, 2025)
		require.NoError(t, err)
		assert.Equal(t, inv.ID, found.ID)
	})

	t.Run("exists reflects stored period", func(t *testing.T) {
		exists, err := repo.ExistsByContractPeriod(ctx, inv.ContractID, 5, 2025)
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByContractPeriod(ctx, inv.ContractID, 6, 2025)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("rejects a second invoice for the same contract and period", func(t *testing.T) {
		dup, err := billing.NewInvoice(
			inv.ContractID, inv.RoomID, 5, 2025,
			decimal.NewFromInt(3000), decimal.Zero, decimal.Zero, decimal.Zero,
			inv.DueDate,
		)
		require.NoError(t, err)
		assert.Error(t, repo.Save(ctx, dup))
	})
}

func TestGormInvoiceRepository_SaveWithLock(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()

	t.Run("persists a version bump", func(t *testing.T) {
		inv := newTestInvoice(t, 6, 2025)
		require.NoError(t, repo.Save(ctx, inv))

		require.NoError(t, inv.Send())
		require.NoError(t, repo.SaveWithLock(ctx, inv))

		found, err := repo.FindByID(ctx, inv.ID)
		require.NoError(t, err)
		assert.Equal(t, billing.InvoiceStatusSent, found.Status)
		assert.Equal(t, inv.Version, found.Version)
	})

	t.Run("detects a stale version", func(t *testing.T) {
		inv := newTestInvoice(t, 7, 2025)
		require.NoError(t, repo.Save(ctx, inv))

		stale, err := repo.FindByID(ctx, inv.ID)
		require.NoError(t, err)

		require.NoError(t, inv.Send())
		require.NoError(t, repo.SaveWithLock(ctx, inv))

		require.NoError(t, stale.Cancel())
		err = repo.SaveWithLock(ctx, stale)
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	})
}

func TestGormInvoiceRepository_Queries(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()

	draft := newTestInvoice(t, 8, 2025)
	require.NoError(t, repo.Save(ctx, draft))

	sent := newTestInvoice(t, 8, 2025)
	require.NoError(t, sent.Send())
	require.NoError(t, repo.Save(ctx, sent))

	t.Run("filters by period and status", func(t *testing.T) {
		found, err := repo.FindByPeriodStatus(ctx, 8, 2025, []billing.InvoiceStatus{billing.InvoiceStatusDraft})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, draft.ID, found[0].ID)

		found, err = repo.FindByPeriodStatus(ctx, 8, 2025, nil)
		require.NoError(t, err)
		assert.Len(t, found, 2)
	})

	t.Run("finds sent invoices past due", func(t *testing.T) {
		found, err := repo.FindSentDueBefore(ctx, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, sent.ID, found[0].ID)

		found, err = repo.FindSentDueBefore(ctx, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.Empty(t, found)
	})

	t.Run("finds by room and period", func(t *testing.T) {
		found, err := repo.FindByRoomPeriod(ctx, draft.RoomID, 8, 2025)
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, draft.ID, found[0].ID)
	})

	t.Run("lists all with count", func(t *testing.T) {
		all, total, err := repo.FindAll(ctx, shared.Filter{Page: 1, PageSize: 10})
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
		assert.Len(t, all, 2)
	})
}
