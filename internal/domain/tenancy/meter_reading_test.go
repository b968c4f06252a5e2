package tenancy

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeterReading_UsageSince(t *testing.T) {
	roomID := uuid.New()

	t.Run("computes deltas against previous period", func(t *testing.T) {
		prev, err := NewMeterReading(roomID, 2, 2026, mustDec("100"), mustDec("2500"))
		require.NoError(t, err)
		curr, err := NewMeterReading(roomID, 3, 2026, mustDec("112"), mustDec("2560"))
		require.NoError(t, err)

		usage := curr.UsageSince(prev)
		assert.Equal(t, "12", usage.Water.String())
		assert.Equal(t, "60", usage.Electric.String())
	})

	t.Run("no previous reading means zero usage", func(t *testing.T) {
		curr, err := NewMeterReading(roomID, 3, 2026, mustDec("112"), mustDec("2560"))
		require.NoError(t, err)
		usage := curr.UsageSince(nil)
		assert.True(t, usage.Water.IsZero())
		assert.True(t, usage.Electric.IsZero())
	})

	t.Run("regressions clamp to zero", func(t *testing.T) {
		prev, err := NewMeterReading(roomID, 2, 2026, mustDec("100"), mustDec("2500"))
		require.NoError(t, err)
		curr, err := NewMeterReading(roomID, 3, 2026, mustDec("90"), mustDec("2600"))
		require.NoError(t, err)

		usage := curr.UsageSince(prev)
		assert.True(t, usage.Water.IsZero())
		assert.Equal(t, "100", usage.Electric.String())
		assert.True(t, curr.IsRegression(prev))
	})
}

func TestMeterReading_Validation(t *testing.T) {
	t.Run("rejects malformed period", func(t *testing.T) {
		_, err := NewMeterReading(uuid.New(), 0, 2026, decimal.Zero, decimal.Zero)
		require.Error(t, err)
		_, err = NewMeterReading(uuid.New(), 13, 2026, decimal.Zero, decimal.Zero)
		require.Error(t, err)
	})

	t.Run("rejects negative readings", func(t *testing.T) {
		_, err := NewMeterReading(uuid.New(), 1, 2026, mustDec("-1"), decimal.Zero)
		require.Error(t, err)
	})
}

func TestPreviousPeriod(t *testing.T) {
	m, y := PreviousPeriod(3, 2026)
	assert.Equal(t, 2, m)
	assert.Equal(t, 2026, y)

	m, y = PreviousPeriod(1, 2026)
	assert.Equal(t, 12, m)
	assert.Equal(t, 2025, y)
}
