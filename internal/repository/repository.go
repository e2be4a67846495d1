package repository

import (
	"context"
	"database/sql"
	"time"

	"carrental-backend/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	SetLocked(ctx context.Context, id int32, locked bool) error
	ListByRole(ctx context.Context, role domain.UserRole) ([]domain.User, error)
}

// CarRepository owns car rows. Availability is never mutated outside a
// ledger transaction; the tx-scoped methods exist for that purpose.
type CarRepository interface {
	Create(ctx context.Context, car *domain.Car) error
	GetByID(ctx context.Context, id int32) (*domain.Car, error)
	GetByPlate(ctx context.Context, plate string) (*domain.Car, error)
	Update(ctx context.Context, car *domain.Car) error
	SoftDelete(ctx context.Context, tx *sql.Tx, id int32) error
	List(ctx context.Context) ([]domain.Car, error)
	ListAvailable(ctx context.Context) ([]domain.Car, error)

	GetForUpdate(ctx context.Context, tx *sql.Tx, id int32) (*domain.Car, error)
	SetAvailability(ctx context.Context, tx *sql.Tx, id int32, available bool) error
}

// RentalRepository owns rental rows. Status transitions go through
// UpdateStatus inside the same transaction that adjusts the car row.
type RentalRepository interface {
	Create(ctx context.Context, tx *sql.Tx, rental *domain.Rental) error
	GetByID(ctx context.Context, id int32) (*domain.Rental, error)
	GetForUpdate(ctx context.Context, tx *sql.Tx, id int32) (*domain.Rental, error)
	UpdateStatus(ctx context.Context, tx *sql.Tx, id int32, status domain.RentalStatus, decidedBy *int32) error
	CountOpenByCar(ctx context.Context, tx *sql.Tx, carID int32) (int32, error)
	ListByCustomer(ctx context.Context, customerID int32) ([]domain.Rental, error)
	ListByStatus(ctx context.Context, status domain.RentalStatus) ([]domain.Rental, error)
	ListInDateRange(ctx context.Context, from, to time.Time) ([]domain.Rental, error)
	Statistics(ctx context.Context) (*domain.RentalStatistics, error)
}
