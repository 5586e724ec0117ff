package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestChargeFlagsValidate(t *testing.T) {
	valid := ChargeFlags{ChargeKeyRent: true, ChargeKeyWater: false}
	if err := valid.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	invalid := ChargeFlags{"internet": true}
	if err := invalid.Validate(); err == nil {
		t.Fatal("expected error for unknown flag key")
	}
}

func TestChargeFlagsCopyIsIndependent(t *testing.T) {
	original := DefaultChargeFlags()
	copied := original.Copy()
	copied[ChargeKeyWater] = false
	if !original.Enabled(ChargeKeyWater) {
		t.Fatal("mutating the copy changed the original")
	}
}

func TestChargeFlagsMissingKeyDisabled(t *testing.T) {
	flags := ChargeFlags{ChargeKeyRent: true}
	if flags.Enabled(ChargeKeyGas) {
		t.Fatal("missing key must count as disabled")
	}
}

func TestChargeFlagsScanRoundTrip(t *testing.T) {
	flags := ChargeFlags{ChargeKeyRent: true, ChargeKeyGas: false}
	value, err := flags.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}
	var scanned ChargeFlags
	if err := scanned.Scan(value); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if !scanned.Enabled(ChargeKeyRent) || scanned.Enabled(ChargeKeyGas) {
		t.Fatalf("round trip mismatch: %v", scanned)
	}

	var fromNil ChargeFlags
	if err := fromNil.Scan(nil); err != nil {
		t.Fatalf("Scan(nil): %v", err)
	}
	if fromNil != nil {
		t.Fatalf("Scan(nil) should leave nil flags, got %v", fromNil)
	}
}

func TestCustomChargesValidate(t *testing.T) {
	tests := []struct {
		name    string
		charges CustomCharges
		wantErr bool
	}{
		{"empty", nil, false},
		{"valid", CustomCharges{{Name: "Internet", Amount: decimal.NewFromInt(300), Enabled: true}}, false},
		{"missing name", CustomCharges{{Amount: decimal.NewFromInt(300)}}, true},
		{"negative amount", CustomCharges{{Name: "Internet", Amount: decimal.NewFromInt(-1)}}, true},
		{"duplicate name", CustomCharges{
			{Name: "Internet", Amount: decimal.NewFromInt(300)},
			{Name: "Internet", Amount: decimal.NewFromInt(500)},
		}, true},
	}
	for _, tt := range tests {
		err := tt.charges.Validate()
		if tt.wantErr && err == nil {
			t.Fatalf("%s: expected error", tt.name)
		}
		if !tt.wantErr && err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.name, err)
		}
	}
}

func TestCustomChargesEnabledOnlyAndTotal(t *testing.T) {
	charges := CustomCharges{
		{Name: "Internet", Amount: decimal.NewFromInt(300), Enabled: true},
		{Name: "Parking", Amount: decimal.NewFromInt(500), Enabled: false},
		{Name: "Cleaning", Amount: decimal.NewFromInt(200), Enabled: true},
	}

	enabled := charges.EnabledOnly()
	if len(enabled) != 2 {
		t.Fatalf("expected 2 enabled charges, got %d", len(enabled))
	}

	total := charges.Total()
	if !total.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("Total = %s, want 500", total)
	}
}
