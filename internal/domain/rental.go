package domain

import (
	"strings"
	"time"
)

type RentalStatus string

const (
	RentalStatusPending   RentalStatus = "PENDING"
	RentalStatusApproved  RentalStatus = "APPROVED"
	RentalStatusActive    RentalStatus = "ACTIVE"
	RentalStatusCompleted RentalStatus = "COMPLETED"
	RentalStatusCancelled RentalStatus = "CANCELLED"
	RentalStatusRejected  RentalStatus = "REJECTED"
	RentalStatusOverdue   RentalStatus = "OVERDUE"
)

// AllRentalStatuses lists every valid status, used for input validation.
var AllRentalStatuses = []RentalStatus{
	RentalStatusPending,
	RentalStatusApproved,
	RentalStatusActive,
	RentalStatusCompleted,
	RentalStatusCancelled,
	RentalStatusRejected,
	RentalStatusOverdue,
}

// Terminal reports whether no further transition is permitted.
func (s RentalStatus) Terminal() bool {
	switch s {
	case RentalStatusCompleted, RentalStatusCancelled, RentalStatusRejected:
		return true
	}
	return false
}

// Open reports whether the rental still occupies (or may come to
// occupy) its car. A car with an open rental cannot be booked again.
func (s RentalStatus) Open() bool {
	switch s {
	case RentalStatusPending, RentalStatusApproved, RentalStatusActive, RentalStatusOverdue:
		return true
	}
	return false
}

// Holding reports whether the car availability flag is held (false)
// while the rental is in this status.
func (s RentalStatus) Holding() bool {
	switch s {
	case RentalStatusApproved, RentalStatusActive, RentalStatusOverdue:
		return true
	}
	return false
}

func ParseRentalStatus(s string) (RentalStatus, error) {
	upper := strings.ToUpper(s)
	for _, st := range AllRentalStatuses {
		if string(st) == upper {
			return st, nil
		}
	}
	return "", Errorf(ErrValidation, "unknown rental status %q", s)
}

type Rental struct {
	ID             int32        `json:"id"`
	CarID          int32        `json:"car_id"`
	CustomerID     int32        `json:"customer_id"`
	StartDate      time.Time    `json:"start_date"`
	EndDate        time.Time    `json:"end_date"`
	RentalDays     int32        `json:"rental_days"`
	TotalCostCents int64        `json:"total_cost_cents"`
	Status         RentalStatus `json:"status"`
	DecidedBy      *int32       `json:"decided_by,omitempty"`
	CreatedOn      time.Time    `json:"created_on"`
	UpdatedOn      time.Time    `json:"updated_on"`
}

// RentalStatistics aggregates the ledger for reporting.
type RentalStatistics struct {
	TotalRentals      int32                  `json:"total_rentals"`
	CountsByStatus    map[RentalStatus]int32 `json:"counts_by_status"`
	TotalRevenueCents int64                  `json:"total_revenue_cents"`
	AverageRentalDays float64                `json:"average_rental_days"`
}
