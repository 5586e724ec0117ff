package models

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func TestSnapshotObligation(t *testing.T) {
	lease := testLease()
	lease.ID = 7
	lease.UserId = 3
	lease.StartDate = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	lease.ChargeFlags[ChargeKeyGas] = false
	lease.CustomCharges = CustomCharges{
		{Name: "Internet", Amount: decimal.NewFromInt(300), Enabled: true},
		{Name: "Parking", Amount: decimal.NewFromInt(700), Enabled: false},
	}

	obligation := snapshotObligation(lease, 2024, 5)

	if obligation.LeaseId != 7 || obligation.UserId != 3 {
		t.Fatalf("snapshot identity mismatch: %+v", obligation)
	}
	if obligation.Year != 2024 || obligation.Month != 5 {
		t.Fatalf("snapshot period mismatch: %d-%d", obligation.Year, obligation.Month)
	}
	if !obligation.Gas.IsZero() {
		t.Fatalf("disabled gas must snapshot as zero, got %s", obligation.Gas)
	}
	if len(obligation.CustomCharges) != 1 || obligation.CustomCharges[0].Name != "Internet" {
		t.Fatalf("snapshot must keep only enabled custom charges: %v", obligation.CustomCharges)
	}

	// 10000 + 400 + 900 + 500 + 300 standard (gas off) + 300 custom
	want := decimal.NewFromInt(12400)
	if !obligation.TotalDue.Equal(want) {
		t.Fatalf("TotalDue = %s, want %s", obligation.TotalDue, want)
	}
	if !obligation.Debt.Equal(want) {
		t.Fatalf("fresh snapshot debt must equal total due, got %s", obligation.Debt)
	}
	if !obligation.PaidAmount.IsZero() {
		t.Fatalf("fresh snapshot paid amount must be zero, got %s", obligation.PaidAmount)
	}
}

func TestSnapshotObligationDoesNotAliasLease(t *testing.T) {
	lease := testLease()
	lease.CustomCharges = CustomCharges{{Name: "Internet", Amount: decimal.NewFromInt(300), Enabled: true}}

	obligation := snapshotObligation(lease, 2024, 5)
	obligation.ChargeFlags[ChargeKeyRent] = false

	if !lease.ChargeFlags.Enabled(ChargeKeyRent) {
		t.Fatal("mutating the snapshot flags changed the lease configuration")
	}
}

func TestObligationChargeAmountUsesSnapshotFlags(t *testing.T) {
	obligation := &MonthlyObligation{
		Rent:        decimal.NewFromInt(9000),
		Water:       decimal.NewFromInt(400),
		ChargeFlags: ChargeFlags{ChargeKeyRent: true},
	}
	if got := obligation.ChargeAmount(ChargeKeyRent); !got.Equal(decimal.NewFromInt(9000)) {
		t.Fatalf("rent = %s, want 9000", got)
	}
	if got := obligation.ChargeAmount(ChargeKeyWater); !got.IsZero() {
		t.Fatalf("water flag missing from snapshot, amount must gate to zero, got %s", got)
	}
}

func TestSnapshotObligationDisabledWaterScenario(t *testing.T) {
	lease := &Lease{
		ID:           1,
		RentAmount:   decimal.NewFromInt(10000),
		MonthlyWater: decimal.NewFromInt(500),
		ChargeFlags:  ChargeFlags{ChargeKeyRent: true, ChargeKeyWater: false},
		CustomCharges: CustomCharges{
			{Name: "internet", Amount: decimal.NewFromInt(300), Enabled: true},
		},
	}

	obligation := snapshotObligation(lease, 2025, 3)

	want := decimal.NewFromInt(10300)
	if !obligation.TotalDue.Equal(want) {
		t.Fatalf("TotalDue = %s, want %s", obligation.TotalDue, want)
	}
	if !obligation.Debt.Equal(want) {
		t.Fatalf("Debt = %s, want %s", obligation.Debt, want)
	}
	if !obligation.PaidAmount.IsZero() {
		t.Fatalf("PaidAmount = %s, want 0", obligation.PaidAmount)
	}
	if !obligation.Water.IsZero() {
		t.Fatalf("disabled water must snapshot as zero, got %s", obligation.Water)
	}
}

func TestIsDuplicateKeyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"mysql duplicate entry", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}, true},
		{"wrapped mysql duplicate entry", fmt.Errorf("insert: %w", &mysql.MySQLError{Number: 1062}), true},
		{"gorm duplicated key", gorm.ErrDuplicatedKey, true},
		{"other mysql error", &mysql.MySQLError{Number: 1213, Message: "Deadlock"}, false},
		{"plain error", errors.New("boom"), false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		if got := isDuplicateKeyError(tt.err); got != tt.want {
			t.Fatalf("%s: isDuplicateKeyError = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestObligationScopeValidate(t *testing.T) {
	if err := ObligationScopeAll.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ObligationScopeFuture.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ObligationScope("past").Validate(); err == nil {
		t.Fatal("expected error for unknown scope")
	}
}
