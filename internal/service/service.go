package service

import (
	"context"
	"time"

	"carrental-backend/internal/domain"
)

type AuthService interface {
	Register(ctx context.Context, name, email, phone, password string) (*domain.User, string, string, error) // user, access, refresh
	Login(ctx context.Context, email, password string) (string, string, error)
	Refresh(ctx context.Context, refreshToken string) (string, string, error)
}

// InventoryService owns car records and their metadata. The
// availability flag itself is only mutated by the rental ledger.
type InventoryService interface {
	AddCar(ctx context.Context, adminID int32, car *domain.Car) error
	UpdateCar(ctx context.Context, adminID, carID int32, upd domain.CarUpdate) (*domain.Car, error)
	DeleteCar(ctx context.Context, adminID, carID int32) error
	GetCar(ctx context.Context, carID int32) (*domain.Car, error)
	ListAvailableCars(ctx context.Context) ([]domain.Car, error)
	ListAllCars(ctx context.Context, adminID int32) ([]domain.Car, error)
}

// RentalService owns rental records and their status transitions.
// Every transition that changes occupancy updates the rental row and
// the car availability flag in one database transaction.
type RentalService interface {
	Book(ctx context.Context, customerID, carID int32, startDate, endDate string) (*domain.Rental, error)
	Approve(ctx context.Context, adminID, rentalID int32) (*domain.Rental, error)
	Reject(ctx context.Context, adminID, rentalID int32) (*domain.Rental, error)
	Start(ctx context.Context, adminID, rentalID int32) (*domain.Rental, error)
	Complete(ctx context.Context, adminID, rentalID int32) (*domain.Rental, error)
	Cancel(ctx context.Context, actorID, rentalID int32) (*domain.Rental, error)

	Get(ctx context.Context, actorID, rentalID int32) (*domain.Rental, error)
	ListForCustomer(ctx context.Context, customerID int32) ([]domain.Rental, error)
	ListByStatus(ctx context.Context, adminID int32, status domain.RentalStatus) ([]domain.Rental, error)
	ListInDateRange(ctx context.Context, adminID int32, from, to time.Time) ([]domain.Rental, error)
	Statistics(ctx context.Context, adminID int32) (*domain.RentalStatistics, error)
}

type AdminService interface {
	SetUserLock(ctx context.Context, adminID, userID int32, locked bool) error
	ListCustomers(ctx context.Context, adminID int32) ([]domain.User, error)
}

type EmailService interface {
	SendBookingReceived(ctx context.Context, adminEmail, customerName, carLabel string) error
	SendRentalApproved(ctx context.Context, customerEmail, carLabel, startDate string) error
	SendRentalRejected(ctx context.Context, customerEmail, carLabel string) error
	SendRentalCancelled(ctx context.Context, customerEmail, carLabel string) error
	SendRentalCompleted(ctx context.Context, customerEmail, carLabel string, totalCostCents int64) error
	SendOverdueReminder(ctx context.Context, customerEmail, carLabel, endDate string) error
}
