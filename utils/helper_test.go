package utils

import (
	"testing"
	"time"
)

func TestParseYearMonth(t *testing.T) {
	tests := []struct {
		input   string
		year    int
		month   int
		wantErr bool
	}{
		{"2024-06", 2024, 6, false},
		{"2025-12", 2025, 12, false},
		{"2024-00", 0, 0, true},
		{"2024-13", 0, 0, true},
		{"2024/06", 0, 0, true},
		{"202406", 0, 0, true},
		{"", 0, 0, true},
	}
	for _, tt := range tests {
		ym, err := ParseYearMonth(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("ParseYearMonth(%q): expected error, got %v", tt.input, ym)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseYearMonth(%q): unexpected error: %v", tt.input, err)
		}
		if ym.Year != tt.year || ym.Month != tt.month {
			t.Fatalf("ParseYearMonth(%q) = %d-%d, want %d-%d", tt.input, ym.Year, ym.Month, tt.year, tt.month)
		}
	}
}

func TestYearMonthNextWrapsYear(t *testing.T) {
	ym := YearMonth{Year: 2024, Month: 12}
	next := ym.Next()
	if next.Year != 2025 || next.Month != 1 {
		t.Fatalf("Next() = %d-%d, want 2025-1", next.Year, next.Month)
	}
}

func TestMonthsInRange(t *testing.T) {
	months := MonthsInRange(YearMonth{Year: 2024, Month: 6}, YearMonth{Year: 2025, Month: 2})
	if len(months) != 9 {
		t.Fatalf("expected 9 months, got %d", len(months))
	}
	if months[0] != (YearMonth{Year: 2024, Month: 6}) {
		t.Fatalf("first month = %v", months[0])
	}
	if months[8] != (YearMonth{Year: 2025, Month: 2}) {
		t.Fatalf("last month = %v", months[8])
	}

	// single-month range is inclusive
	one := MonthsInRange(YearMonth{Year: 2024, Month: 3}, YearMonth{Year: 2024, Month: 3})
	if len(one) != 1 {
		t.Fatalf("expected 1 month, got %d", len(one))
	}

	// inverted range yields nothing
	none := MonthsInRange(YearMonth{Year: 2024, Month: 5}, YearMonth{Year: 2024, Month: 4})
	if len(none) != 0 {
		t.Fatalf("expected 0 months, got %d", len(none))
	}
}

func TestYearMonthBefore(t *testing.T) {
	tests := []struct {
		a, b YearMonth
		want bool
	}{
		{YearMonth{2024, 6}, YearMonth{2024, 7}, true},
		{YearMonth{2024, 12}, YearMonth{2025, 1}, true},
		{YearMonth{2024, 6}, YearMonth{2024, 6}, false},
		{YearMonth{2025, 1}, YearMonth{2024, 12}, false},
	}
	for _, tt := range tests {
		if got := tt.a.Before(tt.b); got != tt.want {
			t.Fatalf("%v.Before(%v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestFirstOfMonthBounds(t *testing.T) {
	first := FirstOfMonth(2024, 2)
	if first.Day() != 1 || first.Month() != 2 || first.Year() != 2024 {
		t.Fatalf("FirstOfMonth = %v", first)
	}
	next := FirstOfNextMonth(2024, 2)
	if next.Day() != 1 || next.Month() != 3 || next.Year() != 2024 {
		t.Fatalf("FirstOfNextMonth(2024, 2) = %v, want 2024-03-01", next)
	}
	next = FirstOfNextMonth(2024, 12)
	if next.Day() != 1 || next.Month() != 1 || next.Year() != 2025 {
		t.Fatalf("FirstOfNextMonth(2024, 12) = %v, want 2025-01-01", next)
	}

	// a timestamp late on the last day of February still precedes March 1st
	endOfFeb := time.Date(2024, 2, 29, 23, 59, 59, 0, time.UTC)
	if !endOfFeb.Before(FirstOfNextMonth(2024, 2)) {
		t.Fatalf("%v must fall inside 2024-02", endOfFeb)
	}
}
