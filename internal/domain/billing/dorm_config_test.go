package billing

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDormConfig_MergeOverride(t *testing.T) {
	t.Run("remote numeric values replace local", func(t *testing.T) {
		cfg := DefaultDormConfig()
		cfg.MergeOverride(map[string]any{
			"water_unit_price":    9.5,
			"electric_unit_price": "8.25",
			"common_fee":          json.Number("120"),
			"due_day":             float64(10),
		})
		assert.Equal(t, "9.5", cfg.WaterUnitPrice.String())
		assert.Equal(t, "8.25", cfg.ElectricUnitPrice.String())
		assert.Equal(t, "120", cfg.CommonFee.String())
		assert.Equal(t, 10, cfg.DueDay)
	})

	t.Run("missing fields keep local values", func(t *testing.T) {
		cfg := DefaultDormConfig()
		local := cfg.WaterUnitPrice
		cfg.MergeOverride(map[string]any{"electric_unit_price": 9.0})
		assert.True(t, local.Equal(cfg.WaterUnitPrice))
	})

	t.Run("unparseable values are ignored", func(t *testing.T) {
		cfg := DefaultDormConfig()
		local := cfg.WaterUnitPrice
		cfg.MergeOverride(map[string]any{
			"water_unit_price": "not-a-number",
			"due_day":          "45",
		})
		assert.True(t, local.Equal(cfg.WaterUnitPrice))
		assert.Equal(t, 5, cfg.DueDay)
	})

	t.Run("negative values are ignored", func(t *testing.T) {
		cfg := DefaultDormConfig()
		local := cfg.WaterUnitPrice
		cfg.MergeOverride(map[string]any{"water_unit_price": -3.0})
		assert.True(t, local.Equal(cfg.WaterUnitPrice))
	})

	t.Run("methods merge only when known", func(t *testing.T) {
		cfg := DefaultDormConfig()
		cfg.MergeOverride(map[string]any{"water_method": "FLAT_MONTHLY"})
		assert.Equal(t, FlatMonthly, cfg.WaterMethod)

		cfg.MergeOverride(map[string]any{"water_method": "BOGUS"})
		assert.Equal(t, FlatMonthly, cfg.WaterMethod)
	})

	t.Run("tier tables merge from remote json", func(t *testing.T) {
		cfg := DefaultDormConfig()
		cfg.MergeOverride(map[string]any{
			"water_tiers": []any{
				map[string]any{"upto_unit": "10", "unit_price": "5", "charge_type": "PER_UNIT"},
				map[string]any{"unit_price": "8", "charge_type": "PER_UNIT"},
			},
		})
		require.Len(t, cfg.WaterTiers, 2)
		assert.True(t, cfg.WaterTiers[1].IsUnbounded())
	})

	t.Run("empty map is a no-op", func(t *testing.T) {
		cfg := DefaultDormConfig()
		before := *cfg
		cfg.MergeOverride(nil)
		assert.Equal(t, before.DueDay, cfg.DueDay)
	})
}

func TestDormConfig_Validate(t *testing.T) {
	t.Run("defaults validate", func(t *testing.T) {
		require.NoError(t, DefaultDormConfig().Validate())
	})

	t.Run("rejects bad due day", func(t *testing.T) {
		cfg := DefaultDormConfig()
		cfg.DueDay = 32
		require.Error(t, cfg.Validate())
	})

	t.Run("rejects unknown method", func(t *testing.T) {
		cfg := DefaultDormConfig()
		cfg.WaterMethod = "SOMETHING"
		require.Error(t, cfg.Validate())
	})

	t.Run("rejects negative prices", func(t *testing.T) {
		cfg := DefaultDormConfig()
		cfg.ElectricUnitPrice = dec("-1")
		require.Error(t, cfg.Validate())
	})
}

func TestRateTiers_SQLRoundTrip(t *testing.T) {
	tiers := RateTiers{
		{UptoUnit: decPtr("10"), UnitPrice: dec("5"), ChargeType: ChargePerUnit},
		{UnitPrice: dec("8"), ChargeType: ChargeFlat},
	}
	val, err := tiers.Value()
	require.NoError(t, err)

	var out RateTiers
	require.NoError(t, out.Scan(val))
	require.Len(t, out, 2)
	assert.True(t, out[0].UptoUnit.Equal(dec("10")))
	assert.True(t, out[1].IsUnbounded())
	assert.Equal(t, ChargeFlat, out[1].ChargeType)
}
