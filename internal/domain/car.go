package domain

import "time"

type Car struct {
	ID             int32      `json:"id"`
	Make           string     `json:"make"`
	Model          string     `json:"model"`
	Year           int32      `json:"year"`
	PlateNumber    string     `json:"plate_number"`
	Mileage        int32      `json:"mileage"`
	DailyRateCents int64      `json:"daily_rate_cents"`
	MinRentalDays  int32      `json:"min_rental_days"`
	MaxRentalDays  int32      `json:"max_rental_days"`
	Available      bool       `json:"available"`
	CreatedOn      time.Time  `json:"created_on"`
	DeletedOn      *time.Time `json:"deleted_on,omitempty"`
}

// Label returns the display name used in notifications and reports.
func (c *Car) Label() string {
	return c.Make + " " + c.Model + " (" + c.PlateNumber + ")"
}

// CarUpdate carries a partial update; nil fields are left untouched.
type CarUpdate struct {
	Make           *string
	Model          *string
	Year           *int32
	PlateNumber    *string
	Mileage        *int32
	DailyRateCents *int64
	MinRentalDays  *int32
	MaxRentalDays  *int32
}
