package billing

// FeeMethod selects how a utility fee is computed from meter usage
type FeeMethod string

const (
	// MeterUsage charges usage * unit price
	MeterUsage FeeMethod = "METER_USAGE"
	// MeterUsageMinAmount charges usage * unit price with a minimum billed amount
	MeterUsageMinAmount FeeMethod = "METER_USAGE_MIN_AMOUNT"
	// MeterUsageMinUnits bills at least a minimum number of units
	MeterUsageMinUnits FeeMethod = "METER_USAGE_MIN_UNITS"
	// MeterUsagePlusBase charges usage * unit price plus a fixed base fee
	MeterUsagePlusBase FeeMethod = "METER_USAGE_PLUS_BASE"
	// MeterUsageTiered evaluates usage against a tier table
	MeterUsageTiered FeeMethod = "METER_USAGE_TIERED"
	// FlatMonthly charges a fixed fee regardless of usage
	FlatMonthly FeeMethod = "FLAT_MONTHLY"
	// FlatPerPerson charges a fixed fee per occupant
	FlatPerPerson FeeMethod = "FLAT_PER_PERSON"
)

// IsValid reports whether the fee method is known
func (m FeeMethod) IsValid() bool {
	switch m {
	case MeterUsage, MeterUsageMinAmount, MeterUsageMinUnits,
		MeterUsagePlusBase, MeterUsageTiered, FlatMonthly, FlatPerPerson:
		return true
	}
	return false
}

// IsMeterBased reports whether the method derives the fee from meter usage
func (m FeeMethod) IsMeterBased() bool {
	switch m {
	case MeterUsage, MeterUsageMinAmount, MeterUsageMinUnits,
		MeterUsagePlusBase, MeterUsageTiered:
		return true
	}
	return false
}
