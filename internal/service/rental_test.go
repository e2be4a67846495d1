package service_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/service"
)

type rentalFixture struct {
	db         sqlmock.Sqlmock
	rentalRepo *MockRentalRepo
	carRepo    *MockCarRepo
	userRepo   *MockUserRepo
	emailSvc   *MockEmailService
	svc        service.RentalService
}

func newRentalFixture(t *testing.T) *rentalFixture {
	db, conn, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	f := &rentalFixture{
		db:         conn,
		rentalRepo: new(MockRentalRepo),
		carRepo:    new(MockCarRepo),
		userRepo:   new(MockUserRepo),
		emailSvc:   new(MockEmailService),
	}
	f.svc = service.NewRentalService(db, f.rentalRepo, f.carRepo, f.userRepo, f.emailSvc)
	return f
}

func admin(id int32) *domain.User {
	return &domain.User{ID: id, Email: "admin@test.com", Name: "Admin", Role: domain.UserRoleAdmin}
}

func customer(id int32) *domain.User {
	return &domain.User{ID: id, Email: "customer@test.com", Name: "Customer", Role: domain.UserRoleCustomer}
}

func TestRentalService_Book(t *testing.T) {
	ctx := context.Background()
	customerID := int32(1)
	carID := int32(7)

	car := &domain.Car{
		ID:             carID,
		Make:           "Toyota",
		Model:          "Corolla",
		PlateNumber:    "ABC-123",
		DailyRateCents: 5000,
		MinRentalDays:  1,
		MaxRentalDays:  30,
		Available:      true,
	}

	t.Run("Success", func(t *testing.T) {
		f := newRentalFixture(t)
		f.db.ExpectBegin()
		f.db.ExpectCommit()

		f.userRepo.On("GetByID", ctx, customerID).Return(customer(customerID), nil)
		f.carRepo.On("GetForUpdate", ctx, mock.Anything, carID).Return(car, nil)
		f.rentalRepo.On("CountOpenByCar", ctx, mock.Anything, carID).Return(int32(0), nil)
		f.rentalRepo.On("Create", ctx, mock.Anything, mock.AnythingOfType("*domain.Rental")).Return(nil)
		f.userRepo.On("ListByRole", ctx, domain.UserRoleAdmin).Return([]domain.User{*admin(99)}, nil)
		f.emailSvc.On("SendBookingReceived", ctx, "admin@test.com", "Customer", "Toyota Corolla (ABC-123)").Return(nil)

		rt, err := f.svc.Book(ctx, customerID, carID, "2023-01-01", "2023-01-04")
		require.NoError(t, err)
		assert.Equal(t, domain.RentalStatusPending, rt.Status)
		assert.Equal(t, int32(3), rt.RentalDays) // return date is not charged
		assert.Equal(t, int64(15000), rt.TotalCostCents)
		assert.Equal(t, customerID, rt.CustomerID)
		f.rentalRepo.AssertCalled(t, "Create", ctx, mock.Anything, mock.AnythingOfType("*domain.Rental"))
	})

	t.Run("EndDateNotAfterStart", func(t *testing.T) {
		f := newRentalFixture(t)
		f.userRepo.On("GetByID", ctx, customerID).Return(customer(customerID), nil)

		_, err := f.svc.Book(ctx, customerID, carID, "2023-01-04", "2023-01-04")
		assert.True(t, domain.IsKind(err, domain.ErrValidation))
	})

	t.Run("CarUnavailable", func(t *testing.T) {
		f := newRentalFixture(t)
		f.db.ExpectBegin()
		f.db.ExpectRollback()

		unavailable := *car
		unavailable.Available = false
		f.userRepo.On("GetByID", ctx, customerID).Return(customer(customerID), nil)
		f.carRepo.On("GetForUpdate", ctx, mock.Anything, carID).Return(&unavailable, nil)

		_, err := f.svc.Book(ctx, customerID, carID, "2023-01-01", "2023-01-04")
		assert.True(t, domain.IsKind(err, domain.ErrValidation))
	})

	t.Run("OpenRentalConflict", func(t *testing.T) {
		f := newRentalFixture(t)
		f.db.ExpectBegin()
		f.db.ExpectRollback()

		f.userRepo.On("GetByID", ctx, customerID).Return(customer(customerID), nil)
		f.carRepo.On("GetForUpdate", ctx, mock.Anything, carID).Return(car, nil)
		f.rentalRepo.On("CountOpenByCar", ctx, mock.Anything, carID).Return(int32(1), nil)

		_, err := f.svc.Book(ctx, customerID, carID, "2023-01-01", "2023-01-04")
		assert.True(t, domain.IsKind(err, domain.ErrConflict))
	})

	t.Run("DurationOutsideCarBounds", func(t *testing.T) {
		f := newRentalFixture(t)
		f.db.ExpectBegin()
		f.db.ExpectRollback()

		strict := *car
		strict.MinRentalDays = 5
		f.userRepo.On("GetByID", ctx, customerID).Return(customer(customerID), nil)
		f.carRepo.On("GetForUpdate", ctx, mock.Anything, carID).Return(&strict, nil)

		_, err := f.svc.Book(ctx, customerID, carID, "2023-01-01", "2023-01-04")
		assert.True(t, domain.IsKind(err, domain.ErrValidation))
	})

	t.Run("LockedCustomer", func(t *testing.T) {
		f := newRentalFixture(t)
		locked := customer(customerID)
		locked.Locked = true
		f.userRepo.On("GetByID", ctx, customerID).Return(locked, nil)

		_, err := f.svc.Book(ctx, customerID, carID, "2023-01-01", "2023-01-04")
		assert.True(t, domain.IsKind(err, domain.ErrAuthorization))
	})
}

func TestRentalService_Approve(t *testing.T) {
	ctx := context.Background()
	adminID := int32(9)
	rentalID := int32(3)
	carID := int32(7)

	pending := &domain.Rental{ID: rentalID, CarID: carID, CustomerID: 1, Status: domain.RentalStatusPending}

	t.Run("HoldsCar", func(t *testing.T) {
		f := newRentalFixture(t)
		f.db.ExpectBegin()
		f.db.ExpectCommit()

		f.userRepo.On("GetByID", ctx, adminID).Return(admin(adminID), nil)
		f.rentalRepo.On("GetForUpdate", ctx, mock.Anything, rentalID).Return(pending, nil)
		f.rentalRepo.On("UpdateStatus", ctx, mock.Anything, rentalID, domain.RentalStatusApproved, &adminID).Return(nil)
		f.carRepo.On("GetForUpdate", ctx, mock.Anything, carID).Return(&domain.Car{ID: carID, Available: true}, nil)
		f.carRepo.On("SetAvailability", ctx, mock.Anything, carID, false).Return(nil)
		f.userRepo.On("GetByID", ctx, int32(1)).Return(customer(1), nil)
		f.carRepo.On("GetByID", ctx, carID).Return(&domain.Car{ID: carID, Make: "Toyota", Model: "Corolla", PlateNumber: "ABC-123"}, nil)
		f.emailSvc.On("SendRentalApproved", ctx, "customer@test.com", mock.Anything, mock.Anything).Return(nil)

		rt, err := f.svc.Approve(ctx, adminID, rentalID)
		require.NoError(t, err)
		assert.Equal(t, domain.RentalStatusApproved, rt.Status)
		f.carRepo.AssertCalled(t, "SetAvailability", ctx, mock.Anything, carID, false)
	})

	t.Run("NonAdminRejected", func(t *testing.T) {
		f := newRentalFixture(t)
		f.userRepo.On("GetByID", ctx, adminID).Return(customer(adminID), nil)

		_, err := f.svc.Approve(ctx, adminID, rentalID)
		assert.True(t, domain.IsKind(err, domain.ErrAuthorization))
	})

	t.Run("AlreadyApproved", func(t *testing.T) {
		f := newRentalFixture(t)
		f.db.ExpectBegin()
		f.db.ExpectRollback()

		approved := *pending
		approved.Status = domain.RentalStatusApproved
		f.userRepo.On("GetByID", ctx, adminID).Return(admin(adminID), nil)
		f.rentalRepo.On("GetForUpdate", ctx, mock.Anything, rentalID).Return(&approved, nil)

		_, err := f.svc.Approve(ctx, adminID, rentalID)
		assert.True(t, domain.IsKind(err, domain.ErrInvalidTransition))
	})
}

func TestRentalService_Complete(t *testing.T) {
	ctx := context.Background()
	adminID := int32(9)
	rentalID := int32(3)
	carID := int32(7)

	t.Run("FreesCarFromActive", func(t *testing.T) {
		f := newRentalFixture(t)
		f.db.ExpectBegin()
		f.db.ExpectCommit()

		active := &domain.Rental{ID: rentalID, CarID: carID, CustomerID: 1, Status: domain.RentalStatusActive, TotalCostCents: 15000}
		f.userRepo.On("GetByID", ctx, adminID).Return(admin(adminID), nil)
		f.rentalRepo.On("GetForUpdate", ctx, mock.Anything, rentalID).Return(active, nil)
		f.rentalRepo.On("UpdateStatus", ctx, mock.Anything, rentalID, domain.RentalStatusCompleted, &adminID).Return(nil)
		f.carRepo.On("SetAvailability", ctx, mock.Anything, carID, true).Return(nil)
		f.userRepo.On("GetByID", ctx, int32(1)).Return(customer(1), nil)
		f.carRepo.On("GetByID", ctx, carID).Return(&domain.Car{ID: carID, Make: "Toyota", Model: "Corolla", PlateNumber: "ABC-123"}, nil)
		f.emailSvc.On("SendRentalCompleted", ctx, "customer@test.com", mock.Anything, int64(15000)).Return(nil)

		rt, err := f.svc.Complete(ctx, adminID, rentalID)
		require.NoError(t, err)
		assert.Equal(t, domain.RentalStatusCompleted, rt.Status)
		f.carRepo.AssertCalled(t, "SetAvailability", ctx, mock.Anything, carID, true)
	})

	t.Run("AllowedFromOverdue", func(t *testing.T) {
		f := newRentalFixture(t)
		f.db.ExpectBegin()
		f.db.ExpectCommit()

		overdue := &domain.Rental{ID: rentalID, CarID: carID, CustomerID: 1, Status: domain.RentalStatusOverdue}
		f.userRepo.On("GetByID", ctx, adminID).Return(admin(adminID), nil)
		f.rentalRepo.On("GetForUpdate", ctx, mock.Anything, rentalID).Return(overdue, nil)
		f.rentalRepo.On("UpdateStatus", ctx, mock.Anything, rentalID, domain.RentalStatusCompleted, &adminID).Return(nil)
		f.carRepo.On("SetAvailability", ctx, mock.Anything, carID, true).Return(nil)
		f.userRepo.On("GetByID", ctx, int32(1)).Return(customer(1), nil)
		f.carRepo.On("GetByID", ctx, carID).Return(&domain.Car{ID: carID}, nil)
		f.emailSvc.On("SendRentalCompleted", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil)

		rt, err := f.svc.Complete(ctx, adminID, rentalID)
		require.NoError(t, err)
		assert.Equal(t, domain.RentalStatusCompleted, rt.Status)
	})

	t.Run("NotAllowedFromPending", func(t *testing.T) {
		f := newRentalFixture(t)
		f.db.ExpectBegin()
		f.db.ExpectRollback()

		pending := &domain.Rental{ID: rentalID, CarID: carID, CustomerID: 1, Status: domain.RentalStatusPending}
		f.userRepo.On("GetByID", ctx, adminID).Return(admin(adminID), nil)
		f.rentalRepo.On("GetForUpdate", ctx, mock.Anything, rentalID).Return(pending, nil)

		_, err := f.svc.Complete(ctx, adminID, rentalID)
		assert.True(t, domain.IsKind(err, domain.ErrInvalidTransition))
	})
}

func TestRentalService_Cancel(t *testing.T) {
	ctx := context.Background()
	rentalID := int32(3)
	carID := int32(7)
	ownerID := int32(1)

	t.Run("OwnerCancelsPending", func(t *testing.T) {
		f := newRentalFixture(t)
		f.db.ExpectBegin()
		f.db.ExpectCommit()

		pending := &domain.Rental{ID: rentalID, CarID: carID, CustomerID: ownerID, Status: domain.RentalStatusPending}
		f.userRepo.On("GetByID", ctx, ownerID).Return(customer(ownerID), nil)
		f.rentalRepo.On("GetForUpdate", ctx, mock.Anything, rentalID).Return(pending, nil)
		f.rentalRepo.On("UpdateStatus", ctx, mock.Anything, rentalID, domain.RentalStatusCancelled, &ownerID).Return(nil)
		f.carRepo.On("GetByID", ctx, carID).Return(&domain.Car{ID: carID}, nil)
		f.emailSvc.On("SendRentalCancelled", ctx, "customer@test.com", mock.Anything).Return(nil)

		rt, err := f.svc.Cancel(ctx, ownerID, rentalID)
		require.NoError(t, err)
		assert.Equal(t, domain.RentalStatusCancelled, rt.Status)
		// pending never held the car, so availability stays untouched
		f.carRepo.AssertNotCalled(t, "SetAvailability", ctx, mock.Anything, carID, true)
	})

	t.Run("OwnerCannotCancelApproved", func(t *testing.T) {
		f := newRentalFixture(t)
		f.db.ExpectBegin()
		f.db.ExpectRollback()

		approved := &domain.Rental{ID: rentalID, CarID: carID, CustomerID: ownerID, Status: domain.RentalStatusApproved}
		f.userRepo.On("GetByID", ctx, ownerID).Return(customer(ownerID), nil)
		f.rentalRepo.On("GetForUpdate", ctx, mock.Anything, rentalID).Return(approved, nil)

		_, err := f.svc.Cancel(ctx, ownerID, rentalID)
		assert.True(t, domain.IsKind(err, domain.ErrInvalidTransition))
	})

	t.Run("AdminCancelsActiveAndFreesCar", func(t *testing.T) {
		f := newRentalFixture(t)
		adminID := int32(9)
		f.db.ExpectBegin()
		f.db.ExpectCommit()

		active := &domain.Rental{ID: rentalID, CarID: carID, CustomerID: ownerID, Status: domain.RentalStatusActive}
		f.userRepo.On("GetByID", ctx, adminID).Return(admin(adminID), nil)
		f.rentalRepo.On("GetForUpdate", ctx, mock.Anything, rentalID).Return(active, nil)
		f.rentalRepo.On("UpdateStatus", ctx, mock.Anything, rentalID, domain.RentalStatusCancelled, &adminID).Return(nil)
		f.carRepo.On("SetAvailability", ctx, mock.Anything, carID, true).Return(nil)
		f.userRepo.On("GetByID", ctx, ownerID).Return(customer(ownerID), nil)
		f.carRepo.On("GetByID", ctx, carID).Return(&domain.Car{ID: carID}, nil)
		f.emailSvc.On("SendRentalCancelled", ctx, mock.Anything, mock.Anything).Return(nil)

		rt, err := f.svc.Cancel(ctx, adminID, rentalID)
		require.NoError(t, err)
		assert.Equal(t, domain.RentalStatusCancelled, rt.Status)
		f.carRepo.AssertCalled(t, "SetAvailability", ctx, mock.Anything, carID, true)
	})

	t.Run("StrangerCannotCancel", func(t *testing.T) {
		f := newRentalFixture(t)
		strangerID := int32(42)
		f.db.ExpectBegin()
		f.db.ExpectRollback()

		pending := &domain.Rental{ID: rentalID, CarID: carID, CustomerID: ownerID, Status: domain.RentalStatusPending}
		f.userRepo.On("GetByID", ctx, strangerID).Return(customer(strangerID), nil)
		f.rentalRepo.On("GetForUpdate", ctx, mock.Anything, rentalID).Return(pending, nil)

		_, err := f.svc.Cancel(ctx, strangerID, rentalID)
		assert.True(t, domain.IsKind(err, domain.ErrAuthorization))
	})

	t.Run("TerminalRentalCannotBeCancelled", func(t *testing.T) {
		f := newRentalFixture(t)
		adminID := int32(9)
		f.db.ExpectBegin()
		f.db.ExpectRollback()

		completed := &domain.Rental{ID: rentalID, CarID: carID, CustomerID: ownerID, Status: domain.RentalStatusCompleted}
		f.userRepo.On("GetByID", ctx, adminID).Return(admin(adminID), nil)
		f.rentalRepo.On("GetForUpdate", ctx, mock.Anything, rentalID).Return(completed, nil)

		_, err := f.svc.Cancel(ctx, adminID, rentalID)
		assert.True(t, domain.IsKind(err, domain.ErrInvalidTransition))
	})
}

func TestRentalService_Get(t *testing.T) {
	ctx := context.Background()
	rentalID := int32(3)
	ownerID := int32(1)

	rt := &domain.Rental{ID: rentalID, CarID: 7, CustomerID: ownerID, Status: domain.RentalStatusPending}

	t.Run("OwnerSeesOwnRental", func(t *testing.T) {
		f := newRentalFixture(t)
		f.rentalRepo.On("GetByID", ctx, rentalID).Return(rt, nil)
		f.userRepo.On("GetByID", ctx, ownerID).Return(customer(ownerID), nil)

		got, err := f.svc.Get(ctx, ownerID, rentalID)
		require.NoError(t, err)
		assert.Equal(t, rentalID, got.ID)
	})

	t.Run("StrangerDenied", func(t *testing.T) {
		f := newRentalFixture(t)
		strangerID := int32(42)
		f.rentalRepo.On("GetByID", ctx, rentalID).Return(rt, nil)
		f.userRepo.On("GetByID", ctx, strangerID).Return(customer(strangerID), nil)

		_, err := f.svc.Get(ctx, strangerID, rentalID)
		assert.True(t, domain.IsKind(err, domain.ErrAuthorization))
	})
}

func TestRentalService_Statistics(t *testing.T) {
	ctx := context.Background()
	adminID := int32(9)

	t.Run("AdminOnly", func(t *testing.T) {
		f := newRentalFixture(t)
		f.userRepo.On("GetByID", ctx, int32(1)).Return(customer(1), nil)

		_, err := f.svc.Statistics(ctx, 1)
		assert.True(t, domain.IsKind(err, domain.ErrAuthorization))
	})

	t.Run("ReturnsRepoStats", func(t *testing.T) {
		f := newRentalFixture(t)
		stats := &domain.RentalStatistics{
			TotalRentals:      4,
			TotalRevenueCents: 30000,
			AverageRentalDays: 2.5,
			CountsByStatus: map[domain.RentalStatus]int32{
				domain.RentalStatusCompleted: 2,
				domain.RentalStatusPending:   2,
			},
		}
		f.userRepo.On("GetByID", ctx, adminID).Return(admin(adminID), nil)
		f.rentalRepo.On("Statistics", ctx).Return(stats, nil)

		got, err := f.svc.Statistics(ctx, adminID)
		require.NoError(t, err)
		assert.Equal(t, int32(4), got.TotalRentals)
		assert.Equal(t, int64(30000), got.TotalRevenueCents)
	})
}
