package billing

import (
	"encoding/json"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/dormbill/backend/internal/domain/shared"
)

// DormConfig holds the dormitory-wide billing configuration. A single row
// exists; remote overrides merge on top of it at read time.
type DormConfig struct {
	shared.BaseAggregateRoot
	WaterMethod       FeeMethod       `json:"water_method"`
	ElectricMethod    FeeMethod       `json:"electric_method"`
	WaterUnitPrice    decimal.Decimal `json:"water_unit_price"`
	ElectricUnitPrice decimal.Decimal `json:"electric_unit_price"`
	WaterMinAmount    decimal.Decimal `json:"water_min_amount"`
	ElectricMinAmount decimal.Decimal `json:"electric_min_amount"`
	WaterMinUnits     decimal.Decimal `json:"water_min_units"`
	ElectricMinUnits  decimal.Decimal `json:"electric_min_units"`
	WaterBaseFee      decimal.Decimal `json:"water_base_fee"`
	ElectricBaseFee   decimal.Decimal `json:"electric_base_fee"`
	WaterFlatFee      decimal.Decimal `json:"water_flat_fee"`
	ElectricFlatFee   decimal.Decimal `json:"electric_flat_fee"`
	WaterPerPerson    decimal.Decimal `json:"water_per_person"`
	ElectricPerPerson decimal.Decimal `json:"electric_per_person"`
	WaterTiers        RateTiers       `json:"water_tiers"`
	ElectricTiers     RateTiers       `json:"electric_tiers"`
	CommonFee         decimal.Decimal `json:"common_fee"`
	DueDay            int             `json:"due_day"`
	BankAccountText   string          `json:"bank_account_text"`
}

// DefaultDormConfig returns a usable starting configuration
func DefaultDormConfig() *DormConfig {
	return &DormConfig{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		WaterMethod:       MeterUsageMinUnits,
		ElectricMethod:    MeterUsage,
		WaterUnitPrice:    decimal.NewFromInt(7),
		ElectricUnitPrice: decimal.NewFromInt(8),
		WaterMinUnits:     decimal.NewFromInt(5),
		WaterTiers:        RateTiers{},
		ElectricTiers:     RateTiers{},
		CommonFee:         decimal.Zero,
		DueDay:            5,
	}
}

// Validate checks the configuration invariants
func (c *DormConfig) Validate() error {
	if !c.WaterMethod.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", "unknown water fee method")
	}
	if !c.ElectricMethod.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", "unknown electric fee method")
	}
	if c.DueDay < 1 || c.DueDay > 31 {
		return shared.NewDomainError("INVALID_INPUT", "due day must be between 1 and 31")
	}
	for _, d := range []decimal.Decimal{
		c.WaterUnitPrice, c.ElectricUnitPrice,
		c.WaterMinAmount, c.ElectricMinAmount,
		c.WaterMinUnits, c.ElectricMinUnits,
		c.WaterBaseFee, c.ElectricBaseFee,
		c.WaterFlatFee, c.ElectricFlatFee,
		c.WaterPerPerson, c.ElectricPerPerson,
		c.CommonFee,
	} {
		if d.IsNegative() {
			return shared.NewDomainError("INVALID_INPUT", "configuration amounts cannot be negative")
		}
	}
	for _, tiers := range []RateTiers{c.WaterTiers, c.ElectricTiers} {
		for _, t := range tiers {
			if t.ChargeType != "" && !t.ChargeType.IsValid() {
				return shared.NewDomainError("INVALID_INPUT", "unknown tier charge type")
			}
			if t.UnitPrice.IsNegative() {
				return shared.NewDomainError("INVALID_INPUT", "tier price cannot be negative")
			}
		}
	}
	return nil
}

// WaterRateConfig extracts the water evaluation parameters
func (c *DormConfig) WaterRateConfig() UtilityRateConfig {
	return UtilityRateConfig{
		Method:       c.WaterMethod,
		UnitPrice:    c.WaterUnitPrice,
		MinAmount:    c.WaterMinAmount,
		MinUnits:     c.WaterMinUnits,
		BaseFee:      c.WaterBaseFee,
		FlatFee:      c.WaterFlatFee,
		PerPersonFee: c.WaterPerPerson,
		Tiers:        c.WaterTiers,
	}
}

// ElectricRateConfig extracts the electric evaluation parameters
func (c *DormConfig) ElectricRateConfig() UtilityRateConfig {
	return UtilityRateConfig{
		Method:       c.ElectricMethod,
		UnitPrice:    c.ElectricUnitPrice,
		MinAmount:    c.ElectricMinAmount,
		MinUnits:     c.ElectricMinUnits,
		BaseFee:      c.ElectricBaseFee,
		FlatFee:      c.ElectricFlatFee,
		PerPersonFee: c.ElectricPerPerson,
		Tiers:        c.ElectricTiers,
	}
}

// MergeOverride applies a remote override map field by field. Unknown keys
// and unparseable values are ignored; local values stay when the remote
// omits a field. Callers merge into a Clone, never the stored config.
func (c *DormConfig) MergeOverride(remote map[string]any) {
	if len(remote) == 0 {
		return
	}
	mergeDecimal(remote, "water_unit_price", &c.WaterUnitPrice)
	mergeDecimal(remote, "electric_unit_price", &c.ElectricUnitPrice)
	mergeDecimal(remote, "water_min_amount", &c.WaterMinAmount)
	mergeDecimal(remote, "electric_min_amount", &c.ElectricMinAmount)
	mergeDecimal(remote, "water_min_units", &c.WaterMinUnits)
	mergeDecimal(remote, "electric_min_units", &c.ElectricMinUnits)
	mergeDecimal(remote, "water_base_fee", &c.WaterBaseFee)
	mergeDecimal(remote, "electric_base_fee", &c.ElectricBaseFee)
	mergeDecimal(remote, "water_flat_fee", &c.WaterFlatFee)
	mergeDecimal(remote, "electric_flat_fee", &c.ElectricFlatFee)
	mergeDecimal(remote, "water_per_person", &c.WaterPerPerson)
	mergeDecimal(remote, "electric_per_person", &c.ElectricPerPerson)
	mergeDecimal(remote, "common_fee", &c.CommonFee)

	if v, ok := remote["water_method"].(string); ok && FeeMethod(v).IsValid() {
		c.WaterMethod = FeeMethod(v)
	}
	if v, ok := remote["electric_method"].(string); ok && FeeMethod(v).IsValid() {
		c.ElectricMethod = FeeMethod(v)
	}
	if v, ok := remote["bank_account_text"].(string); ok && v != "" {
		c.BankAccountText = v
	}
	if day, ok := intFromAny(remote["due_day"]); ok && day >= 1 && day <= 31 {
		c.DueDay = day
	}
	mergeTiers(remote, "water_tiers", &c.WaterTiers)
	mergeTiers(remote, "electric_tiers", &c.ElectricTiers)
}

// Clone returns a deep copy suitable for merge-at-read
func (c *DormConfig) Clone() *DormConfig {
	clone := *c
	clone.WaterTiers = append(RateTiers{}, c.WaterTiers...)
	clone.ElectricTiers = append(RateTiers{}, c.ElectricTiers...)
	return &clone
}

func mergeDecimal(remote map[string]any, key string, dst *decimal.Decimal) {
	v, ok := remote[key]
	if !ok {
		return
	}
	if d, ok := decimalFromAny(v); ok && !d.IsNegative() {
		*dst = d
	}
}

func mergeTiers(remote map[string]any, key string, dst *RateTiers) {
	v, ok := remote[key]
	if !ok {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	var tiers RateTiers
	if err := json.Unmarshal(raw, &tiers); err != nil {
		return
	}
	*dst = tiers
}

func decimalFromAny(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case float64:
		return decimal.NewFromFloat(n), true
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int64:
		return decimal.NewFromInt(n), true
	case json.Number:
		d, err := decimal.NewFromString(n.String())
		return d, err == nil
	case string:
		d, err := decimal.NewFromString(n)
		return d, err == nil
	}
	return decimal.Decimal{}, false
}

func intFromAny(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case int64:
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		return int(i), err == nil
	case string:
		i, err := strconv.Atoi(n)
		return i, err == nil
	}
	return 0, false
}
