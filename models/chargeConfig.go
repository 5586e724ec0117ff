package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ChargeFlags gates which standard charge types are billed for a lease.
// A missing key counts as disabled. Stored as a JSON column on both Lease
// and MonthlyObligation; the obligation copy is a per-period snapshot.
type ChargeFlags map[ChargeKey]bool

// DefaultChargeFlags enables every standard charge type.
func DefaultChargeFlags() ChargeFlags {
	flags := make(ChargeFlags, len(StandardChargeKeys))
	for _, key := range StandardChargeKeys {
		flags[key] = true
	}
	return flags
}

func (f ChargeFlags) Enabled(key ChargeKey) bool {
	return f[key]
}

// Copy returns an independent copy so snapshots never alias lease state.
func (f ChargeFlags) Copy() ChargeFlags {
	if f == nil {
		return nil
	}
	out := make(ChargeFlags, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

func (f ChargeFlags) Validate() error {
	for key := range f {
		if _, ok := ChargeName[key]; !ok {
			return fmt.Errorf("unknown charge flag %q", key)
		}
	}
	return nil
}

func (f ChargeFlags) Value() (driver.Value, error) {
	if f == nil {
		return nil, nil
	}
	return json.Marshal(f)
}

func (f *ChargeFlags) Scan(value interface{}) error {
	if value == nil {
		*f = nil
		return nil
	}
	data, ok := value.([]byte)
	if !ok {
		if s, sok := value.(string); sok {
			data = []byte(s)
		} else {
			return errors.New("charge flags column must be JSON bytes")
		}
	}
	return json.Unmarshal(data, f)
}

// CustomCharge is an ad hoc named fee supplementing the standard charge types.
type CustomCharge struct {
	Name    string          `json:"name"`
	Amount  decimal.Decimal `json:"amount"`
	Enabled bool            `json:"enabled"`
}

type CustomCharges []CustomCharge

func (c CustomCharges) Validate() error {
	seen := make(map[string]bool, len(c))
	for _, charge := range c {
		if charge.Name == "" {
			return errors.New("custom charge name is required")
		}
		if charge.Amount.IsNegative() {
			return errors.New("custom charge amount cannot be negative")
		}
		if seen[charge.Name] {
			return fmt.Errorf("duplicate custom charge %q", charge.Name)
		}
		seen[charge.Name] = true
	}
	return nil
}

// EnabledOnly filters down to enabled charges, copying the slice so a
// snapshot never aliases the lease configuration.
func (c CustomCharges) EnabledOnly() CustomCharges {
	out := make(CustomCharges, 0, len(c))
	for _, charge := range c {
		if charge.Enabled {
			out = append(out, charge)
		}
	}
	return out
}

// Total sums enabled charge amounts.
func (c CustomCharges) Total() decimal.Decimal {
	total := decimal.Zero
	for _, charge := range c {
		if charge.Enabled {
			total = total.Add(charge.Amount)
		}
	}
	return total
}

func (c CustomCharges) Value() (driver.Value, error) {
	if c == nil {
		return nil, nil
	}
	return json.Marshal(c)
}

func (c *CustomCharges) Scan(value interface{}) error {
	if value == nil {
		*c = nil
		return nil
	}
	data, ok := value.([]byte)
	if !ok {
		if s, sok := value.(string); sok {
			data = []byte(s)
		} else {
			return errors.New("custom charges column must be JSON bytes")
		}
	}
	return json.Unmarshal(data, c)
}
