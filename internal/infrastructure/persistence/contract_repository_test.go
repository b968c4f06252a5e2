package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dormbill/backend/internal/domain/shared"
	"github.com/dormbill/backend/internal/domain/tenancy"
)

func newTestContract(t *testing.T, roomID uuid.UUID) *tenancy.Contract {
	t.Helper()

	contract, err := tenancy.NewContract(
		roomID, "Somchai",
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		decimal.NewFromInt(5000), decimal.NewFromInt(3000), 2,
	)
	require.NoError(t, err)
	return contract
}

func TestGormContractRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormContractRepository(db)
	ctx := context.Background()

	t.Run("round-trips a contract", func(t *testing.T) {
		contract := newTestContract(t, uuid.New())
		require.NoError(t, repo.Save(ctx, contract))

		found, err := repo.FindByID(ctx, contract.ID)
		require.NoError(t, err)
		assert.Equal(t, "Somchai", found.TenantName)
		assert.True(t, found.Deposit.Equal(decimal.NewFromInt(5000)))
		assert.True(t, found.IsActive)
	})

	t.Run("finds the active contract for a room", func(t *testing.T) {
		roomID := uuid.New()
		contract := newTestContract(t, roomID)
		require.NoError(t, repo.Save(ctx, contract))

		found, err := repo.FindActiveByRoom(ctx, roomID)
		require.NoError(t, err)
		assert.Equal(t, contract.ID, found.ID)

		_, err = repo.FindActiveByRoom(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("optimistic lock persists deposit debit", func(t *testing.T) {
		contract := newTestContract(t, uuid.New())
		require.NoError(t, repo.Save(ctx, contract))

		require.NoError(t, contract.DebitDeposit(decimal.NewFromInt(3000)))
		require.NoError(t, repo.SaveWithLock(ctx, contract))

		found, err := repo.FindByID(ctx, contract.ID)
		require.NoError(t, err)
		assert.True(t, found.Deposit.Equal(decimal.NewFromInt(2000)))
		assert.Equal(t, contract.Version, found.Version)
	})

	t.Run("optimistic lock rejects a stale version", func(t *testing.T) {
		contract := newTestContract(t, uuid.New())
		require.NoError(t, repo.Save(ctx, contract))

		stale, err := repo.FindByID(ctx, contract.ID)
		require.NoError(t, err)

		require.NoError(t, contract.DebitDeposit(decimal.NewFromInt(1000)))
		require.NoError(t, repo.SaveWithLock(ctx, contract))

		require.NoError(t, stale.DebitDeposit(decimal.NewFromInt(1000)))
		assert.ErrorIs(t, repo.SaveWithLock(ctx, stale), shared.ErrConcurrencyConflict)
	})

	t.Run("termination flag survives the lock update", func(t *testing.T) {
		contract := newTestContract(t, uuid.New())
		require.NoError(t, repo.Save(ctx, contract))

		require.NoError(t, contract.Terminate(time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)))
		require.NoError(t, repo.SaveWithLock(ctx, contract))

		found, err := repo.FindByID(ctx, contract.ID)
		require.NoError(t, err)
		assert.False(t, found.IsActive)
		require.NotNil(t, found.TerminatedAt)
	})

	t.Run("second active contract on the same room is rejected", func(t *testing.T) {
		roomID := uuid.New()
		first := newTestContract(t, roomID)
		require.NoError(t, repo.Save(ctx, first))

		second := newTestContract(t, roomID)
		err := repo.Save(ctx, second)
		require.Error(t, err)
		assert.True(t, shared.IsDomainError(err, "CONFLICT"))

		found, err := repo.FindActiveByRoom(ctx, roomID)
		require.NoError(t, err)
		assert.Equal(t, first.ID, found.ID)
	})

	t.Run("terminated contract frees the room for a new one", func(t *testing.T) {
		roomID := uuid.New()
		first := newTestContract(t, roomID)
		require.NoError(t, repo.Save(ctx, first))

		require.NoError(t, first.Terminate(time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)))
		require.NoError(t, repo.SaveWithLock(ctx, first))

		second := newTestContract(t, roomID)
		require.NoError(t, repo.Save(ctx, second))

		found, err := repo.FindActiveByRoom(ctx, roomID)
		require.NoError(t, err)
		assert.Equal(t, second.ID, found.ID)
	})
}
