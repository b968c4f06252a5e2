package billing

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// ChargeType selects how a tier's price applies to the usage in its band
type ChargeType string

const (
	// ChargePerUnit multiplies the band's units by the tier price
	ChargePerUnit ChargeType = "PER_UNIT"
	// ChargeFlat adds the tier price once when any usage falls in the band
	ChargeFlat ChargeType = "FLAT"
)

// IsValid reports whether the charge type is known
func (c ChargeType) IsValid() bool {
	return c == ChargePerUnit || c == ChargeFlat
}

// RateTier is one band of a tiered rate table. A nil UptoUnit marks the
// unbounded top tier.
type RateTier struct {
	UptoUnit   *decimal.Decimal `json:"upto_unit,omitempty"`
	UnitPrice  decimal.Decimal  `json:"unit_price"`
	ChargeType ChargeType       `json:"charge_type"`
}

// IsUnbounded reports whether this tier covers all remaining usage
func (t RateTier) IsUnbounded() bool {
	return t.UptoUnit == nil
}

// RateTiers is a tier table stored as a JSON column
type RateTiers []RateTier

// Value implements driver.Valuer for database storage
func (t RateTiers) Value() (driver.Value, error) {
	if t == nil {
		return "[]", nil
	}
	data, err := json.Marshal(t)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner for database retrieval
func (t *RateTiers) Scan(value any) error {
	if value == nil {
		*t = RateTiers{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into RateTiers", value)
	}
	if len(data) == 0 {
		*t = RateTiers{}
		return nil
	}
	return json.Unmarshal(data, t)
}
