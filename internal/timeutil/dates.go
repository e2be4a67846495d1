package timeutil

import (
	"time"

	"carrental-backend/internal/domain"
)

// DateLayout is the wire format for rental dates.
const DateLayout = "2006-01-02"

// ParseDate converts a yyyy-mm-dd string into a UTC midnight time.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, domain.Errorf(domain.ErrValidation, "invalid date %q, expected yyyy-mm-dd", s)
	}
	return t.UTC(), nil
}

// RentalDays computes the chargeable duration as end minus start in
// whole days. The end date is the return date and is not charged.
func RentalDays(start, end time.Time) (int32, error) {
	if !end.After(start) {
		return 0, domain.Errorf(domain.ErrValidation, "end date must be after start date")
	}
	return int32(end.Sub(start).Hours() / 24), nil
}

// RentalCostCents computes days times the car's daily rate, snapshot
// at booking time.
func RentalCostCents(days int32, dailyRateCents int64) int64 {
	return int64(days) * dailyRateCents
}
