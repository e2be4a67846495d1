package service_test

import (
	"context"
	"database/sql"
	"time"

	"github.com/stretchr/testify/mock"

	"carrental-backend/internal/domain"
)

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) SetLocked(ctx context.Context, id int32, locked bool) error {
	args := m.Called(ctx, id, locked)
	return args.Error(0)
}
func (m *MockUserRepo) ListByRole(ctx context.Context, role domain.UserRole) ([]domain.User, error) {
	args := m.Called(ctx, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

// MockCarRepo
type MockCarRepo struct {
	mock.Mock
}

func (m *MockCarRepo) Create(ctx context.Context, car *domain.Car) error {
	args := m.Called(ctx, car)
	return args.Error(0)
}
func (m *MockCarRepo) GetByID(ctx context.Context, id int32) (*domain.Car, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Car), args.Error(1)
}
func (m *MockCarRepo) GetByPlate(ctx context.Context, plate string) (*domain.Car, error) {
	args := m.Called(ctx, plate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Car), args.Error(1)
}
func (m *MockCarRepo) Update(ctx context.Context, car *domain.Car) error {
	args := m.Called(ctx, car)
	return args.Error(0)
}
func (m *MockCarRepo) SoftDelete(ctx context.Context, tx *sql.Tx, id int32) error {
	args := m.Called(ctx, tx, id)
	return args.Error(0)
}
func (m *MockCarRepo) List(ctx context.Context) ([]domain.Car, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Car), args.Error(1)
}
func (m *MockCarRepo) ListAvailable(ctx context.Context) ([]domain.Car, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Car), args.Error(1)
}
func (m *MockCarRepo) GetForUpdate(ctx context.Context, tx *sql.Tx, id int32) (*domain.Car, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Car), args.Error(1)
}
func (m *MockCarRepo) SetAvailability(ctx context.Context, tx *sql.Tx, id int32, available bool) error {
	args := m.Called(ctx, tx, id, available)
	return args.Error(0)
}

// MockRentalRepo
type MockRentalRepo struct {
	mock.Mock
}

func (m *MockRentalRepo) Create(ctx context.Context, tx *sql.Tx, rental *domain.Rental) error {
	args := m.Called(ctx, tx, rental)
	return args.Error(0)
}
func (m *MockRentalRepo) GetByID(ctx context.Context, id int32) (*domain.Rental, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
func (m *MockRentalRepo) GetForUpdate(ctx context.Context, tx *sql.Tx, id int32) (*domain.Rental, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
func (m *MockRentalRepo) UpdateStatus(ctx context.Context, tx *sql.Tx, id int32, status domain.RentalStatus, decidedBy *int32) error {
	args := m.Called(ctx, tx, id, status, decidedBy)
	return args.Error(0)
}
func (m *MockRentalRepo) CountOpenByCar(ctx context.Context, tx *sql.Tx, carID int32) (int32, error) {
	args := m.Called(ctx, tx, carID)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockRentalRepo) ListByCustomer(ctx context.Context, customerID int32) ([]domain.Rental, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Rental), args.Error(1)
}
func (m *MockRentalRepo) ListByStatus(ctx context.Context, status domain.RentalStatus) ([]domain.Rental, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Rental), args.Error(1)
}
func (m *MockRentalRepo) ListInDateRange(ctx context.Context, from, to time.Time) ([]domain.Rental, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Rental), args.Error(1)
}
func (m *MockRentalRepo) Statistics(ctx context.Context) (*domain.RentalStatistics, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RentalStatistics), args.Error(1)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendBookingReceived(ctx context.Context, adminEmail, customerName, carLabel string) error {
	args := m.Called(ctx, adminEmail, customerName, carLabel)
	return args.Error(0)
}
func (m *MockEmailService) SendRentalApproved(ctx context.Context, customerEmail, carLabel, startDate string) error {
	args := m.Called(ctx, customerEmail, carLabel, startDate)
	return args.Error(0)
}
func (m *MockEmailService) SendRentalRejected(ctx context.Context, customerEmail, carLabel string) error {
	args := m.Called(ctx, customerEmail, carLabel)
	return args.Error(0)
}
func (m *MockEmailService) SendRentalCancelled(ctx context.Context, customerEmail, carLabel string) error {
	args := m.Called(ctx, customerEmail, carLabel)
	return args.Error(0)
}
func (m *MockEmailService) SendRentalCompleted(ctx context.Context, customerEmail, carLabel string, totalCostCents int64) error {
	args := m.Called(ctx, customerEmail, carLabel, totalCostCents)
	return args.Error(0)
}
func (m *MockEmailService) SendOverdueReminder(ctx context.Context, customerEmail, carLabel, endDate string) error {
	args := m.Called(ctx, customerEmail, carLabel, endDate)
	return args.Error(0)
}
