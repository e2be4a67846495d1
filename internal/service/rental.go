package service

import (
	"context"
	"database/sql"
	"time"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/logger"
	"carrental-backend/internal/repository"
	"carrental-backend/internal/timeutil"
)

type rentalService struct {
	db         *sql.DB
	rentalRepo repository.RentalRepository
	carRepo    repository.CarRepository
	userRepo   repository.UserRepository
	emailSvc   EmailService
}

func NewRentalService(
	db *sql.DB,
	rentalRepo repository.RentalRepository,
	carRepo repository.CarRepository,
	userRepo repository.UserRepository,
	emailSvc EmailService,
) RentalService {
	return &rentalService{
		db:         db,
		rentalRepo: rentalRepo,
		carRepo:    carRepo,
		userRepo:   userRepo,
		emailSvc:   emailSvc,
	}
}

// Book creates a PENDING rental. The car stays available until an
// administrator approves; double bookings are prevented by the open
// rental count taken under the car row lock.
func (s *rentalService) Book(ctx context.Context, customerID, carID int32, startDate, endDate string) (rt *domain.Rental, err error) {
	customer, err := s.userRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer.Locked {
		return nil, domain.Errorf(domain.ErrAuthorization, "account is locked")
	}

	start, err := timeutil.ParseDate(startDate)
	if err != nil {
		return nil, err
	}
	end, err := timeutil.ParseDate(endDate)
	if err != nil {
		return nil, err
	}
	days, err := timeutil.RentalDays(start, end)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, domain.WrapInternal(err, "begin booking transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	car, err := s.carRepo.GetForUpdate(ctx, tx, carID)
	if err != nil {
		return nil, err
	}
	if !car.Available {
		return nil, domain.Errorf(domain.ErrValidation, "car %d is not available", carID)
	}
	if days < car.MinRentalDays || days > car.MaxRentalDays {
		return nil, domain.Errorf(domain.ErrValidation,
			"rental duration %d days outside allowed range %d-%d", days, car.MinRentalDays, car.MaxRentalDays)
	}

	open, err := s.rentalRepo.CountOpenByCar(ctx, tx, carID)
	if err != nil {
		return nil, err
	}
	if open > 0 {
		return nil, domain.Errorf(domain.ErrConflict, "car %d already has an open rental", carID)
	}

	rt = &domain.Rental{
		CarID:          carID,
		CustomerID:     customerID,
		StartDate:      start,
		EndDate:        end,
		RentalDays:     days,
		TotalCostCents: timeutil.RentalCostCents(days, car.DailyRateCents),
		Status:         domain.RentalStatusPending,
	}
	if err = s.rentalRepo.Create(ctx, tx, rt); err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, domain.WrapInternal(err, "commit booking")
	}

	s.notifyAdmins(ctx, customer, car)
	return rt, nil
}

// Approve moves PENDING to APPROVED and holds the car.
func (s *rentalService) Approve(ctx context.Context, adminID, rentalID int32) (*domain.Rental, error) {
	return s.transition(ctx, adminID, rentalID, domain.RentalStatusApproved,
		[]domain.RentalStatus{domain.RentalStatusPending},
		func(ctx context.Context, tx *sql.Tx, rt *domain.Rental) error {
			car, err := s.carRepo.GetForUpdate(ctx, tx, rt.CarID)
			if err != nil {
				return err
			}
			if !car.Available {
				return domain.Errorf(domain.ErrConflict, "car %d is no longer available", rt.CarID)
			}
			return s.carRepo.SetAvailability(ctx, tx, rt.CarID, false)
		},
		func(ctx context.Context, rt *domain.Rental) {
			s.notifyCustomer(ctx, rt, func(email, label string) error {
				return s.emailSvc.SendRentalApproved(ctx, email, label, rt.StartDate.Format(timeutil.DateLayout))
			})
		})
}

// Reject moves PENDING to REJECTED; the car was never held.
func (s *rentalService) Reject(ctx context.Context, adminID, rentalID int32) (*domain.Rental, error) {
	return s.transition(ctx, adminID, rentalID, domain.RentalStatusRejected,
		[]domain.RentalStatus{domain.RentalStatusPending},
		nil,
		func(ctx context.Context, rt *domain.Rental) {
			s.notifyCustomer(ctx, rt, func(email, label string) error {
				return s.emailSvc.SendRentalRejected(ctx, email, label)
			})
		})
}

// Start moves APPROVED to ACTIVE on pickup. Availability is already
// held since approval.
func (s *rentalService) Start(ctx context.Context, adminID, rentalID int32) (*domain.Rental, error) {
	return s.transition(ctx, adminID, rentalID, domain.RentalStatusActive,
		[]domain.RentalStatus{domain.RentalStatusApproved},
		nil, nil)
}

// Complete finishes the rental on return and frees the car.
func (s *rentalService) Complete(ctx context.Context, adminID, rentalID int32) (*domain.Rental, error) {
	return s.transition(ctx, adminID, rentalID, domain.RentalStatusCompleted,
		[]domain.RentalStatus{domain.RentalStatusApproved, domain.RentalStatusActive, domain.RentalStatusOverdue},
		func(ctx context.Context, tx *sql.Tx, rt *domain.Rental) error {
			return s.carRepo.SetAvailability(ctx, tx, rt.CarID, true)
		},
		func(ctx context.Context, rt *domain.Rental) {
			s.notifyCustomer(ctx, rt, func(email, label string) error {
				return s.emailSvc.SendRentalCompleted(ctx, email, label, rt.TotalCostCents)
			})
		})
}

// Cancel ends a rental before completion. Customers may cancel their
// own rental only while it is still pending; administrators may cancel
// any open rental, which frees the car if it was held.
func (s *rentalService) Cancel(ctx context.Context, actorID, rentalID int32) (rt *domain.Rental, err error) {
	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, domain.WrapInternal(err, "begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	rt, err = s.rentalRepo.GetForUpdate(ctx, tx, rentalID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && rt.CustomerID != actorID {
		return nil, domain.Errorf(domain.ErrAuthorization, "rental %d does not belong to user %d", rentalID, actorID)
	}
	if rt.Status.Terminal() {
		return nil, domain.Errorf(domain.ErrInvalidTransition, "rental %d is already %s", rentalID, rt.Status)
	}
	if !actor.IsAdmin() && rt.Status != domain.RentalStatusPending {
		return nil, domain.Errorf(domain.ErrInvalidTransition, "rental %d is %s and can only be cancelled by an administrator", rentalID, rt.Status)
	}

	wasHolding := rt.Status.Holding()
	if err = s.rentalRepo.UpdateStatus(ctx, tx, rentalID, domain.RentalStatusCancelled, &actorID); err != nil {
		return nil, err
	}
	if wasHolding {
		if err = s.carRepo.SetAvailability(ctx, tx, rt.CarID, true); err != nil {
			return nil, err
		}
	}
	if err = tx.Commit(); err != nil {
		return nil, domain.WrapInternal(err, "commit cancellation")
	}

	rt.Status = domain.RentalStatusCancelled
	rt.DecidedBy = &actorID
	s.notifyCustomer(ctx, rt, func(email, label string) error {
		return s.emailSvc.SendRentalCancelled(ctx, email, label)
	})
	return rt, nil
}

// transition applies an admin-only status change. allowedFrom lists
// the statuses the change is legal from; carStep runs inside the same
// transaction to adjust the availability flag; afterCommit fires
// notifications once both writes are durable.
func (s *rentalService) transition(
	ctx context.Context,
	adminID, rentalID int32,
	to domain.RentalStatus,
	allowedFrom []domain.RentalStatus,
	carStep func(context.Context, *sql.Tx, *domain.Rental) error,
	afterCommit func(context.Context, *domain.Rental),
) (rt *domain.Rental, err error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, domain.WrapInternal(err, "begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	rt, err = s.rentalRepo.GetForUpdate(ctx, tx, rentalID)
	if err != nil {
		return nil, err
	}
	allowed := false
	for _, from := range allowedFrom {
		if rt.Status == from {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, domain.Errorf(domain.ErrInvalidTransition, "rental %d cannot move from %s to %s", rentalID, rt.Status, to)
	}

	if err = s.rentalRepo.UpdateStatus(ctx, tx, rentalID, to, &adminID); err != nil {
		return nil, err
	}
	if carStep != nil {
		if err = carStep(ctx, tx, rt); err != nil {
			return nil, err
		}
	}
	if err = tx.Commit(); err != nil {
		return nil, domain.WrapInternal(err, "commit transition to %s", to)
	}

	rt.Status = to
	rt.DecidedBy = &adminID
	if afterCommit != nil {
		afterCommit(ctx, rt)
	}
	return rt, nil
}

func (s *rentalService) Get(ctx context.Context, actorID, rentalID int32) (*domain.Rental, error) {
	rt, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && rt.CustomerID != actorID {
		return nil, domain.Errorf(domain.ErrAuthorization, "rental %d does not belong to user %d", rentalID, actorID)
	}
	return rt, nil
}

func (s *rentalService) ListForCustomer(ctx context.Context, customerID int32) ([]domain.Rental, error) {
	return s.rentalRepo.ListByCustomer(ctx, customerID)
}

func (s *rentalService) ListByStatus(ctx context.Context, adminID int32, status domain.RentalStatus) ([]domain.Rental, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	return s.rentalRepo.ListByStatus(ctx, status)
}

func (s *rentalService) ListInDateRange(ctx context.Context, adminID int32, from, to time.Time) ([]domain.Rental, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	if !to.After(from) {
		return nil, domain.Errorf(domain.ErrValidation, "range end must be after range start")
	}
	return s.rentalRepo.ListInDateRange(ctx, from, to)
}

func (s *rentalService) Statistics(ctx context.Context, adminID int32) (*domain.RentalStatistics, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	return s.rentalRepo.Statistics(ctx)
}

func (s *rentalService) requireAdmin(ctx context.Context, userID int32) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !user.IsAdmin() {
		return domain.Errorf(domain.ErrAuthorization, "user %d is not an administrator", userID)
	}
	return nil
}

// Notification failures never fail a committed transition.

func (s *rentalService) notifyAdmins(ctx context.Context, customer *domain.User, car *domain.Car) {
	admins, err := s.userRepo.ListByRole(ctx, domain.UserRoleAdmin)
	if err != nil {
		logger.Warn("failed to list admins for booking notification", "error", err)
		return
	}
	for _, admin := range admins {
		if err := s.emailSvc.SendBookingReceived(ctx, admin.Email, customer.Name, car.Label()); err != nil {
			logger.Warn("failed to send booking notification", "admin_id", admin.ID, "error", err)
		}
	}
}

func (s *rentalService) notifyCustomer(ctx context.Context, rt *domain.Rental, send func(email, carLabel string) error) {
	customer, err := s.userRepo.GetByID(ctx, rt.CustomerID)
	if err != nil {
		logger.Warn("failed to load customer for notification", "rental_id", rt.ID, "error", err)
		return
	}
	car, err := s.carRepo.GetByID(ctx, rt.CarID)
	label := "car"
	if err == nil {
		label = car.Label()
	}
	if err := send(customer.Email, label); err != nil {
		logger.Warn("failed to send rental notification", "rental_id", rt.ID, "error", err)
	}
}
