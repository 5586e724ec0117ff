package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func testLease() *Lease {
	return &Lease{
		RentAmount:         decimal.NewFromInt(10000),
		MonthlyWater:       decimal.NewFromInt(400),
		MonthlyGas:         decimal.NewFromInt(600),
		MonthlyElectricity: decimal.NewFromInt(900),
		MonthlyServices:    decimal.NewFromInt(500),
		RepairFund:         decimal.NewFromInt(300),
		ChargeFlags:        DefaultChargeFlags(),
	}
}

func TestLeaseChargeAmountGatedByFlag(t *testing.T) {
	lease := testLease()
	lease.ChargeFlags[ChargeKeyWater] = false

	if got := lease.ChargeAmount(ChargeKeyRent); !got.Equal(decimal.NewFromInt(10000)) {
		t.Fatalf("rent = %s, want 10000", got)
	}
	if got := lease.ChargeAmount(ChargeKeyWater); !got.IsZero() {
		t.Fatalf("disabled water must bill as zero, got %s", got)
	}
}

func TestLeaseBillableTotal(t *testing.T) {
	lease := testLease()
	lease.ChargeFlags[ChargeKeyWater] = false
	lease.CustomCharges = CustomCharges{
		{Name: "Internet", Amount: decimal.NewFromInt(300), Enabled: true},
		{Name: "Parking", Amount: decimal.NewFromInt(700), Enabled: false},
	}

	// 10000 + 600 + 900 + 500 + 300 standard (water off) + 300 custom
	want := decimal.NewFromInt(12600)
	if got := lease.BillableTotal(); !got.Equal(want) {
		t.Fatalf("BillableTotal = %s, want %s", got, want)
	}
}

func TestLeaseActiveIn(t *testing.T) {
	start := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 9, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		endDate *time.Time
		year    int
		month   int
		want    bool
	}{
		{"before start", &end, 2024, 2, false},
		{"partial start month counts", &end, 2024, 3, true},
		{"mid range", &end, 2024, 6, true},
		{"partial end month counts", &end, 2024, 9, true},
		{"after end", &end, 2024, 10, false},
		{"open ended far future", nil, 2030, 1, true},
	}
	for _, tt := range tests {
		lease := &Lease{StartDate: start, EndDate: tt.endDate}
		if got := lease.ActiveIn(tt.year, tt.month); got != tt.want {
			t.Fatalf("%s: ActiveIn(%d, %d) = %v, want %v", tt.name, tt.year, tt.month, got, tt.want)
		}
	}
}

func TestLeaseActiveInLateStartTimestamp(t *testing.T) {
	// a lease starting at 18:30 on the last day of March is active in March
	lease := &Lease{StartDate: time.Date(2024, 3, 31, 18, 30, 0, 0, time.UTC)}
	if !lease.ActiveIn(2024, 3) {
		t.Fatal("lease starting late on the last day must count as active that month")
	}
	if lease.ActiveIn(2024, 2) {
		t.Fatal("lease must not be active before its start month")
	}
	if !lease.ActiveIn(2024, 4) {
		t.Fatal("open ended lease must stay active after its start month")
	}
}

func TestNewLeaseDefaults(t *testing.T) {
	input := &NewLease{
		UnitId:     1,
		TenantId:   1,
		StartDate:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		RentAmount: decimal.NewFromInt(8000),
	}
	lease := input.toLease(42)

	if lease.DueDay != 1 {
		t.Fatalf("default due day = %d, want 1", lease.DueDay)
	}
	for _, key := range StandardChargeKeys {
		if !lease.ChargeFlags.Enabled(key) {
			t.Fatalf("omitted flags must default to all enabled, %s is off", key)
		}
	}
	if !lease.TotalBillableRent.Equal(decimal.NewFromInt(8000)) {
		t.Fatalf("TotalBillableRent = %s, want 8000", lease.TotalBillableRent)
	}
}
