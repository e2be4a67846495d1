package http

import (
	"carrental-backend/internal/domain"
	"carrental-backend/internal/timeutil"
)

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type tokenResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         *domain.User `json:"user,omitempty"`
}

type createCarRequest struct {
	Make           string `json:"make" validate:"required"`
	Model          string `json:"model" validate:"required"`
	Year           int32  `json:"year" validate:"required,gte=1950"`
	PlateNumber    string `json:"plate_number" validate:"required"`
	Mileage        int32  `json:"mileage" validate:"gte=0"`
	DailyRateCents int64  `json:"daily_rate_cents" validate:"required,gt=0"`
	MinRentalDays  int32  `json:"min_rental_days" validate:"required,gt=0"`
	MaxRentalDays  int32  `json:"max_rental_days" validate:"required,gt=0"`
}

type updateCarRequest struct {
	Make           *string `json:"make,omitempty"`
	Model          *string `json:"model,omitempty"`
	Year           *int32  `json:"year,omitempty" validate:"omitempty,gte=1950"`
	PlateNumber    *string `json:"plate_number,omitempty"`
	Mileage        *int32  `json:"mileage,omitempty" validate:"omitempty,gte=0"`
	DailyRateCents *int64  `json:"daily_rate_cents,omitempty" validate:"omitempty,gt=0"`
	MinRentalDays  *int32  `json:"min_rental_days,omitempty" validate:"omitempty,gt=0"`
	MaxRentalDays  *int32  `json:"max_rental_days,omitempty" validate:"omitempty,gt=0"`
}

func (r *updateCarRequest) toUpdate() domain.CarUpdate {
	return domain.CarUpdate{
		Make:           r.Make,
		Model:          r.Model,
		Year:           r.Year,
		PlateNumber:    r.PlateNumber,
		Mileage:        r.Mileage,
		DailyRateCents: r.DailyRateCents,
		MinRentalDays:  r.MinRentalDays,
		MaxRentalDays:  r.MaxRentalDays,
	}
}

type bookRentalRequest struct {
	CarID     int32  `json:"car_id" validate:"required,gt=0"`
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
}

type rentalResponse struct {
	ID             int32  `json:"id"`
	CarID          int32  `json:"car_id"`
	CustomerID     int32  `json:"customer_id"`
	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date"`
	RentalDays     int32  `json:"rental_days"`
	TotalCostCents int64  `json:"total_cost_cents"`
	Status         string `json:"status"`
}

func toRentalResponse(rt *domain.Rental) rentalResponse {
	return rentalResponse{
		ID:             rt.ID,
		CarID:          rt.CarID,
		CustomerID:     rt.CustomerID,
		StartDate:      rt.StartDate.Format(timeutil.DateLayout),
		EndDate:        rt.EndDate.Format(timeutil.DateLayout),
		RentalDays:     rt.RentalDays,
		TotalCostCents: rt.TotalCostCents,
		Status:         string(rt.Status),
	}
}

func toRentalResponses(rentals []domain.Rental) []rentalResponse {
	out := make([]rentalResponse, 0, len(rentals))
	for i := range rentals {
		out = append(out, toRentalResponse(&rentals[i]))
	}
	return out
}
