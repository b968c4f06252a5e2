package tenancy

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dormbill/backend/internal/domain/shared"
)

func newTestContract(t *testing.T, deposit string) *Contract {
	t.Helper()
	c, err := NewContract(uuid.New(), "Somsak", time.Now(), mustDec(deposit), mustDec("3000"), 2)
	require.NoError(t, err)
	return c
}

func mustDec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestNewContract(t *testing.T) {
	t.Run("creates active contract", func(t *testing.T) {
		c := newTestContract(t, "5000")
		assert.True(t, c.IsActive)
		assert.Equal(t, 2, c.OccupantCount)
		assert.Len(t, c.DomainEvents(), 1)
	})

	t.Run("rejects blank tenant name", func(t *testing.T) {
		_, err := NewContract(uuid.New(), "  ", time.Now(), decimal.Zero, decimal.Zero, 1)
		require.Error(t, err)
		assert.True(t, shared.IsDomainError(err, "INVALID_INPUT"))
	})

	t.Run("rejects negative deposit", func(t *testing.T) {
		_, err := NewContract(uuid.New(), "Somsak", time.Now(), mustDec("-1"), decimal.Zero, 1)
		require.Error(t, err)
	})
}

func TestContract_Deposit(t *testing.T) {
	t.Run("debit reduces the balance", func(t *testing.T) {
		c := newTestContract(t, "5000")
		require.NoError(t, c.DebitDeposit(mustDec("1500")))
		assert.Equal(t, "3500", c.Deposit.String())
	})

	t.Run("debit beyond balance fails and leaves it unchanged", func(t *testing.T) {
		c := newTestContract(t, "1000")
		err := c.DebitDeposit(mustDec("1500"))
		require.Error(t, err)
		assert.True(t, shared.IsDomainError(err, "INSUFFICIENT_FUNDS"))
		assert.Equal(t, "1000", c.Deposit.String())
	})

	t.Run("debit of the exact balance empties it", func(t *testing.T) {
		c := newTestContract(t, "1000")
		require.NoError(t, c.DebitDeposit(mustDec("1000")))
		assert.True(t, c.Deposit.IsZero())
	})

	t.Run("credit increases the balance", func(t *testing.T) {
		c := newTestContract(t, "1000")
		require.NoError(t, c.CreditDeposit(mustDec("500")))
		assert.Equal(t, "1500", c.Deposit.String())
	})

	t.Run("credit must be positive", func(t *testing.T) {
		c := newTestContract(t, "1000")
		require.Error(t, c.CreditDeposit(decimal.Zero))
	})

	t.Run("terminated contracts reject deposit moves", func(t *testing.T) {
		c := newTestContract(t, "1000")
		require.NoError(t, c.Terminate(time.Now()))
		err := c.DebitDeposit(mustDec("100"))
		assert.True(t, shared.IsDomainError(err, "INVALID_STATE"))
	})
}

func TestContract_Terminate(t *testing.T) {
	t.Run("terminate deactivates once", func(t *testing.T) {
		c := newTestContract(t, "1000")
		require.NoError(t, c.Terminate(time.Now()))
		assert.False(t, c.IsActive)
		require.NotNil(t, c.EndDate)
		require.Error(t, c.Terminate(time.Now()))
	})

	t.Run("end date cannot precede start", func(t *testing.T) {
		c := newTestContract(t, "1000")
		err := c.Terminate(c.StartDate.Add(-24 * time.Hour))
		assert.True(t, shared.IsDomainError(err, "INVALID_INPUT"))
	})
}

func TestContract_Channel(t *testing.T) {
	c := newTestContract(t, "0")
	assert.False(t, c.HasNotificationChannel())
	c.LinkChannel(" U12345 ")
	assert.True(t, c.HasNotificationChannel())
	assert.Equal(t, "U12345", c.TenantChannelID)
}
