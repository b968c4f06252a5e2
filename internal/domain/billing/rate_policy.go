package billing

import (
	"sort"

	"github.com/shopspring/decimal"
)

// UtilityRateConfig is the per-utility subset of DormConfig consumed by the
// fee evaluator.
type UtilityRateConfig struct {
	Method       FeeMethod
	UnitPrice    decimal.Decimal
	MinAmount    decimal.Decimal
	MinUnits     decimal.Decimal
	BaseFee      decimal.Decimal
	FlatFee      decimal.Decimal
	PerPersonFee decimal.Decimal
	Tiers        RateTiers
}

var (
	// waterFloorThreshold and waterFloorAmount implement the business floor
	// on metered water: below 5 units the bill is fixed at 35.
	waterFloorThreshold = decimal.NewFromInt(5)
	waterFloorAmount    = decimal.NewFromInt(35)

	// roundEpsilon nudges values off binary-float representation boundaries
	// before the half-away-from-zero round.
	roundEpsilon = decimal.New(1, -9)
)

// ComputeFee evaluates a utility fee for the given usage. A positive
// override price replaces the configured unit price for meter-based
// methods. Negative usage clamps to zero.
func ComputeFee(cfg UtilityRateConfig, usage, override decimal.Decimal, occupants int) decimal.Decimal {
	if usage.IsNegative() {
		usage = decimal.Zero
	}
	unitPrice := cfg.UnitPrice
	if override.IsPositive() {
		unitPrice = override
	}

	var amount decimal.Decimal
	switch cfg.Method {
	case MeterUsage:
		amount = usage.Mul(unitPrice)
	case MeterUsageMinAmount:
		amount = usage.Mul(unitPrice)
		if amount.LessThan(cfg.MinAmount) {
			amount = cfg.MinAmount
		}
	case MeterUsageMinUnits:
		if usage.LessThanOrEqual(cfg.MinUnits) {
			amount = cfg.MinAmount
		} else {
			amount = usage.Mul(unitPrice)
		}
	case MeterUsagePlusBase:
		if usage.LessThanOrEqual(cfg.MinUnits) {
			amount = cfg.MinAmount
		} else {
			amount = cfg.MinAmount.Add(usage.Sub(cfg.MinUnits).Mul(unitPrice))
		}
	case MeterUsageTiered:
		amount = evaluateTiers(cfg.Tiers, usage, unitPrice)
	case FlatMonthly:
		amount = cfg.FlatFee
	case FlatPerPerson:
		n := occupants
		if n < 1 {
			n = 1
		}
		amount = cfg.PerPersonFee.Mul(decimal.NewFromInt(int64(n)))
	default:
		amount = decimal.Zero
	}
	return RoundMoney(amount)
}

// ComputeWaterFee evaluates the water fee and applies the metered-water
// floor after the method computation.
func ComputeWaterFee(cfg UtilityRateConfig, usage, override decimal.Decimal, occupants int) decimal.Decimal {
	if usage.IsNegative() {
		usage = decimal.Zero
	}
	if cfg.Method.IsMeterBased() && usage.LessThan(waterFloorThreshold) {
		return RoundMoney(waterFloorAmount)
	}
	return ComputeFee(cfg, usage, override, occupants)
}

// evaluateTiers allocates usage across an ordered tier table. Finite tiers
// sort ascending by their upper bound, unbounded tiers go last, and
// zero-price tiers are discarded. PER_UNIT tiers charge the band's units at
// the tier price; FLAT tiers charge the price once when any usage falls in
// the band. An empty table degenerates to usage * fallback unit price.
func evaluateTiers(tiers RateTiers, usage, fallbackUnitPrice decimal.Decimal) decimal.Decimal {
	active := make(RateTiers, 0, len(tiers))
	for _, t := range tiers {
		if t.UnitPrice.IsPositive() {
			active = append(active, t)
		}
	}
	if len(active) == 0 {
		return usage.Mul(fallbackUnitPrice)
	}

	sort.SliceStable(active, func(i, j int) bool {
		if active[i].IsUnbounded() {
			return false
		}
		if active[j].IsUnbounded() {
			return true
		}
		return active[i].UptoUnit.LessThan(*active[j].UptoUnit)
	})

	total := decimal.Zero
	prevUpto := decimal.Zero
	remaining := usage
	for _, t := range active {
		if !remaining.IsPositive() {
			break
		}
		var bandWidth decimal.Decimal
		if t.IsUnbounded() {
			bandWidth = remaining
		} else {
			bandWidth = t.UptoUnit.Sub(prevUpto)
			if bandWidth.IsNegative() {
				bandWidth = decimal.Zero
			}
			if bandWidth.GreaterThan(remaining) {
				bandWidth = remaining
			}
			prevUpto = *t.UptoUnit
		}
		if !bandWidth.IsPositive() {
			continue
		}
		switch t.ChargeType {
		case ChargeFlat:
			total = total.Add(t.UnitPrice)
		default:
			total = total.Add(bandWidth.Mul(t.UnitPrice))
		}
		remaining = remaining.Sub(bandWidth)
	}
	return total
}

// RoundMoney rounds a monetary amount to two decimal places using
// half-away-from-zero on (value + epsilon).
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return d.Sub(roundEpsilon).Round(2)
	}
	return d.Add(roundEpsilon).Round(2)
}
