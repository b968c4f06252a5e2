package billing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func TestComputeFee_MeterUsage(t *testing.T) {
	cfg := UtilityRateConfig{Method: MeterUsage, UnitPrice: dec("8")}

	t.Run("charges usage times unit price", func(t *testing.T) {
		got := ComputeFee(cfg, dec("12.5"), decimal.Zero, 1)
		assert.True(t, dec("100").Equal(got), "got %s", got)
	})

	t.Run("override replaces unit price", func(t *testing.T) {
		got := ComputeFee(cfg, dec("10"), dec("9.5"), 1)
		assert.True(t, dec("95").Equal(got), "got %s", got)
	})

	t.Run("zero override keeps configured price", func(t *testing.T) {
		got := ComputeFee(cfg, dec("10"), decimal.Zero, 1)
		assert.True(t, dec("80").Equal(got), "got %s", got)
	})

	t.Run("negative usage clamps to zero", func(t *testing.T) {
		got := ComputeFee(cfg, dec("-3"), decimal.Zero, 1)
		assert.True(t, got.IsZero(), "got %s", got)
	})
}

func TestComputeFee_MinAmount(t *testing.T) {
	cfg := UtilityRateConfig{Method: MeterUsageMinAmount, UnitPrice: dec("8"), MinAmount: dec("100")}

	t.Run("below minimum bills the minimum", func(t *testing.T) {
		got := ComputeFee(cfg, dec("5"), decimal.Zero, 1)
		assert.True(t, dec("100").Equal(got), "got %s", got)
	})

	t.Run("above minimum bills usage", func(t *testing.T) {
		got := ComputeFee(cfg, dec("20"), decimal.Zero, 1)
		assert.True(t, dec("160").Equal(got), "got %s", got)
	})
}

func TestComputeFee_MinUnits(t *testing.T) {
	cfg := UtilityRateConfig{Method: MeterUsageMinUnits, UnitPrice: dec("18"), MinAmount: dec("100"), MinUnits: dec("10")}

	t.Run("at or below minimum units bills minimum amount", func(t *testing.T) {
		got := ComputeFee(cfg, dec("10"), decimal.Zero, 1)
		assert.True(t, dec("100").Equal(got), "got %s", got)
	})

	t.Run("above minimum units bills full usage", func(t *testing.T) {
		got := ComputeFee(cfg, dec("11"), decimal.Zero, 1)
		assert.True(t, dec("198").Equal(got), "got %s", got)
	})
}

func TestComputeFee_PlusBase(t *testing.T) {
	cfg := UtilityRateConfig{Method: MeterUsagePlusBase, UnitPrice: dec("6"), MinAmount: dec("50"), MinUnits: dec("5")}

	t.Run("within base allocation bills base only", func(t *testing.T) {
		got := ComputeFee(cfg, dec("4"), decimal.Zero, 1)
		assert.True(t, dec("50").Equal(got), "got %s", got)
	})

	t.Run("excess units bill on top of base", func(t *testing.T) {
		got := ComputeFee(cfg, dec("8"), decimal.Zero, 1)
		assert.True(t, dec("68").Equal(got), "got %s", got)
	})
}

func TestComputeFee_FlatMethods(t *testing.T) {
	t.Run("flat monthly ignores usage", func(t *testing.T) {
		cfg := UtilityRateConfig{Method: FlatMonthly, FlatFee: dec("150")}
		got := ComputeFee(cfg, dec("999"), decimal.Zero, 1)
		assert.True(t, dec("150").Equal(got), "got %s", got)
	})

	t.Run("flat per person multiplies by occupants", func(t *testing.T) {
		cfg := UtilityRateConfig{Method: FlatPerPerson, PerPersonFee: dec("60")}
		got := ComputeFee(cfg, decimal.Zero, decimal.Zero, 3)
		assert.True(t, dec("180").Equal(got), "got %s", got)
	})

	t.Run("flat per person floors occupants at one", func(t *testing.T) {
		cfg := UtilityRateConfig{Method: FlatPerPerson, PerPersonFee: dec("60")}
		got := ComputeFee(cfg, decimal.Zero, decimal.Zero, 0)
		assert.True(t, dec("60").Equal(got), "got %s", got)
	})
}

func TestComputeFee_Tiered(t *testing.T) {
	t.Run("two band example", func(t *testing.T) {
		cfg := UtilityRateConfig{
			Method: MeterUsageTiered,
			Tiers: RateTiers{
				{UptoUnit: decPtr("10"), UnitPrice: dec("5"), ChargeType: ChargePerUnit},
				{UnitPrice: dec("8"), ChargeType: ChargePerUnit},
			},
		}
		got := ComputeFee(cfg, dec("15"), decimal.Zero, 1)
		assert.True(t, dec("90").Equal(got), "got %s", got)
	})

	t.Run("unsorted tiers are normalized", func(t *testing.T) {
		cfg := UtilityRateConfig{
			Method: MeterUsageTiered,
			Tiers: RateTiers{
				{UnitPrice: dec("8"), ChargeType: ChargePerUnit},
				{UptoUnit: decPtr("10"), UnitPrice: dec("5"), ChargeType: ChargePerUnit},
			},
		}
		got := ComputeFee(cfg, dec("15"), decimal.Zero, 1)
		assert.True(t, dec("90").Equal(got), "got %s", got)
	})

	t.Run("flat band charges once", func(t *testing.T) {
		cfg := UtilityRateConfig{
			Method: MeterUsageTiered,
			Tiers: RateTiers{
				{UptoUnit: decPtr("10"), UnitPrice: dec("5"), ChargeType: ChargePerUnit},
				{UptoUnit: decPtr("20"), UnitPrice: dec("30"), ChargeType: ChargeFlat},
			},
		}
		got := ComputeFee(cfg, dec("12"), decimal.Zero, 1)
		assert.True(t, dec("80").Equal(got), "got %s", got)
	})

	t.Run("zero price tiers are discarded", func(t *testing.T) {
		cfg := UtilityRateConfig{
			Method:    MeterUsageTiered,
			UnitPrice: dec("7"),
			Tiers: RateTiers{
				{UptoUnit: decPtr("10"), UnitPrice: decimal.Zero, ChargeType: ChargePerUnit},
			},
		}
		got := ComputeFee(cfg, dec("6"), decimal.Zero, 1)
		assert.True(t, dec("42").Equal(got), "got %s", got)
	})

	t.Run("empty table degenerates to flat unit price", func(t *testing.T) {
		cfg := UtilityRateConfig{Method: MeterUsageTiered, UnitPrice: dec("7")}
		got := ComputeFee(cfg, dec("6"), decimal.Zero, 1)
		assert.True(t, dec("42").Equal(got), "got %s", got)
	})

	t.Run("billed amount is non decreasing in usage", func(t *testing.T) {
		cfg := UtilityRateConfig{
			Method: MeterUsageTiered,
			Tiers: RateTiers{
				{UptoUnit: decPtr("5"), UnitPrice: dec("4"), ChargeType: ChargePerUnit},
				{UptoUnit: decPtr("15"), UnitPrice: dec("6"), ChargeType: ChargePerUnit},
				{UnitPrice: dec("9"), ChargeType: ChargePerUnit},
			},
		}
		prev := decimal.Zero
		for usage := 0; usage <= 30; usage++ {
			got := ComputeFee(cfg, decimal.NewFromInt(int64(usage)), decimal.Zero, 1)
			require.True(t, got.GreaterThanOrEqual(prev), "usage %d: %s < %s", usage, got, prev)
			prev = got
		}
	})

	t.Run("total equals sum of per band charges", func(t *testing.T) {
		cfg := UtilityRateConfig{
			Method: MeterUsageTiered,
			Tiers: RateTiers{
				{UptoUnit: decPtr("5"), UnitPrice: dec("4"), ChargeType: ChargePerUnit},
				{UptoUnit: decPtr("15"), UnitPrice: dec("6"), ChargeType: ChargePerUnit},
				{UnitPrice: dec("9"), ChargeType: ChargePerUnit},
			},
		}
		// 5*4 + 10*6 + 5*9 = 125
		got := ComputeFee(cfg, dec("20"), decimal.Zero, 1)
		assert.True(t, dec("125").Equal(got), "got %s", got)
	})
}

func TestComputeWaterFee_Floor(t *testing.T) {
	t.Run("low usage forces the floor regardless of method", func(t *testing.T) {
		cfg := UtilityRateConfig{Method: MeterUsageMinUnits, UnitPrice: dec("18"), MinAmount: dec("100"), MinUnits: dec("10")}
		got := ComputeWaterFee(cfg, dec("3"), decimal.Zero, 1)
		assert.True(t, dec("35").Equal(got), "got %s", got)
	})

	t.Run("usage at the threshold bills normally", func(t *testing.T) {
		cfg := UtilityRateConfig{Method: MeterUsage, UnitPrice: dec("7")}
		got := ComputeWaterFee(cfg, dec("5"), decimal.Zero, 1)
		assert.True(t, dec("35").Equal(got), "got %s", got)
	})

	t.Run("flat methods are exempt from the floor", func(t *testing.T) {
		cfg := UtilityRateConfig{Method: FlatMonthly, FlatFee: dec("20")}
		got := ComputeWaterFee(cfg, dec("2"), decimal.Zero, 1)
		assert.True(t, dec("20").Equal(got), "got %s", got)
	})

	t.Run("negative usage clamps then floors", func(t *testing.T) {
		cfg := UtilityRateConfig{Method: MeterUsage, UnitPrice: dec("7")}
		got := ComputeWaterFee(cfg, dec("-1"), decimal.Zero, 1)
		assert.True(t, dec("35").Equal(got), "got %s", got)
	})
}

func TestRoundMoney(t *testing.T) {
	t.Run("rounds half away from zero", func(t *testing.T) {
		assert.Equal(t, "10.13", RoundMoney(dec("10.125")).StringFixed(2))
		assert.Equal(t, "10.12", RoundMoney(dec("10.124")).StringFixed(2))
	})

	t.Run("epsilon rescues float truncation", func(t *testing.T) {
		// 0.1+0.2 style artifacts land a hair under the boundary
		got := RoundMoney(decimal.NewFromFloat(10.124999999999))
		assert.Equal(t, "10.13", got.StringFixed(2))
	})

	t.Run("negative amounts round away from zero", func(t *testing.T) {
		assert.Equal(t, "-10.13", RoundMoney(dec("-10.125")).StringFixed(2))
	})
}
