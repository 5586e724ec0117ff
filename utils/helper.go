package utils

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ttacon/libphonenumber"
)

var CountryCode = "CZ"

func IsValidEmail(email string) bool {
	// Basic email validation regex pattern
	pattern := `^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`
	regex := regexp.MustCompile(pattern)
	return regex.MatchString(email)
}

func ValidatePhoneNumber(phoneNumber, countryCode string) error {
	p, err := libphonenumber.Parse(phoneNumber, countryCode)
	if err != nil {
		return err // Phone number is invalid
	}

	if !libphonenumber.IsValidNumber(p) {
		return fmt.Errorf("phone number is not valid")
	}

	return nil // Phone number is valid for the specified country code
}

func ProcessValidationErrors(err error) map[string]string {

	validationErrors := err.(validator.ValidationErrors)

	errorResponse := make(map[string]string)

	for _, ve := range validationErrors {
		errorResponse[ve.Field()] = ve.Tag()
	}

	return errorResponse
}

func NewTrue() *bool {
	b := true
	return &b
}

func NewFalse() *bool {
	b := false
	return &b
}

func DereferencePtr[T any](ptr *T, defaults ...T) T {
	if ptr != nil {
		return *ptr
	}
	if len(defaults) > 0 {
		return defaults[0]
	}
	var zero T
	return zero
}

/* billing periods */

// YearMonth is a calendar billing period.
type YearMonth struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// ParseYearMonth parses "2006-01" style period strings.
func ParseYearMonth(s string) (YearMonth, error) {
	parts := strings.SplitN(strings.TrimSpace(s), "-", 2)
	if len(parts) != 2 {
		return YearMonth{}, errors.New("period must be in YYYY-MM format")
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return YearMonth{}, errors.New("period must be in YYYY-MM format")
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return YearMonth{}, errors.New("period month must be between 01 and 12")
	}
	return YearMonth{Year: year, Month: month}, nil
}

func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, ym.Month)
}

// Before reports whether ym is strictly earlier than other.
func (ym YearMonth) Before(other YearMonth) bool {
	if ym.Year != other.Year {
		return ym.Year < other.Year
	}
	return ym.Month < other.Month
}

// Next returns the following month, wrapping 12 into January of the next year.
func (ym YearMonth) Next() YearMonth {
	if ym.Month == 12 {
		return YearMonth{Year: ym.Year + 1, Month: 1}
	}
	return YearMonth{Year: ym.Year, Month: ym.Month + 1}
}

// MonthsInRange enumerates every period in [from, to] inclusive, in
// chronological order. An empty slice is returned when from is after to.
func MonthsInRange(from, to YearMonth) []YearMonth {
	var months []YearMonth
	if to.Before(from) {
		return months
	}
	for ym := from; !to.Before(ym); ym = ym.Next() {
		months = append(months, ym)
	}
	return months
}

// FirstOfMonth returns midnight UTC on the 1st of the given period.
func FirstOfMonth(year int, month int) time.Time {
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
}

// FirstOfNextMonth returns midnight UTC on the 1st of the following period.
// Timestamps strictly before it fall inside the given month, whatever their
// time of day.
func FirstOfNextMonth(year int, month int) time.Time {
	return FirstOfMonth(year, month).AddDate(0, 1, 0)
}

// CurrentYearMonth returns the current period in UTC.
func CurrentYearMonth() YearMonth {
	now := time.Now().UTC()
	return YearMonth{Year: now.Year(), Month: int(now.Month())}
}
