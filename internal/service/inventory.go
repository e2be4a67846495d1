package service

import (
	"context"
	"database/sql"
	"strings"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/repository"
)

type inventoryService struct {
	db         *sql.DB
	carRepo    repository.CarRepository
	rentalRepo repository.RentalRepository
	userRepo   repository.UserRepository
}

func NewInventoryService(
	db *sql.DB,
	carRepo repository.CarRepository,
	rentalRepo repository.RentalRepository,
	userRepo repository.UserRepository,
) InventoryService {
	return &inventoryService{
		db:         db,
		carRepo:    carRepo,
		rentalRepo: rentalRepo,
		userRepo:   userRepo,
	}
}

func (s *inventoryService) AddCar(ctx context.Context, adminID int32, car *domain.Car) error {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return err
	}
	if err := validateCar(car); err != nil {
		return err
	}
	if existing, err := s.carRepo.GetByPlate(ctx, car.PlateNumber); err == nil && existing != nil {
		return domain.Errorf(domain.ErrValidation, "plate number %s is already registered", car.PlateNumber)
	} else if err != nil && !domain.IsKind(err, domain.ErrNotFound) {
		return err
	}
	car.Available = true
	return s.carRepo.Create(ctx, car)
}

func (s *inventoryService) UpdateCar(ctx context.Context, adminID, carID int32, upd domain.CarUpdate) (*domain.Car, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	car, err := s.carRepo.GetByID(ctx, carID)
	if err != nil {
		return nil, err
	}

	applyCarUpdate(car, upd)
	if err := validateCar(car); err != nil {
		return nil, err
	}
	if upd.PlateNumber != nil {
		if existing, err := s.carRepo.GetByPlate(ctx, car.PlateNumber); err == nil && existing.ID != carID {
			return nil, domain.Errorf(domain.ErrValidation, "plate number %s is already registered", car.PlateNumber)
		} else if err != nil && !domain.IsKind(err, domain.ErrNotFound) {
			return nil, err
		}
	}
	if err := s.carRepo.Update(ctx, car); err != nil {
		return nil, err
	}
	return car, nil
}

// DeleteCar soft-deletes; a car referenced by an open rental cannot be
// removed. The open-rental check and the delete share a transaction so
// a concurrent booking cannot slip in between them.
func (s *inventoryService) DeleteCar(ctx context.Context, adminID, carID int32) (err error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.WrapInternal(err, "begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = s.carRepo.GetForUpdate(ctx, tx, carID); err != nil {
		return err
	}
	open, err := s.rentalRepo.CountOpenByCar(ctx, tx, carID)
	if err != nil {
		return err
	}
	if open > 0 {
		return domain.Errorf(domain.ErrConflict, "car %d has open rentals and cannot be deleted", carID)
	}
	if err = s.carRepo.SoftDelete(ctx, tx, carID); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *inventoryService) GetCar(ctx context.Context, carID int32) (*domain.Car, error) {
	return s.carRepo.GetByID(ctx, carID)
}

func (s *inventoryService) ListAvailableCars(ctx context.Context) ([]domain.Car, error) {
	return s.carRepo.ListAvailable(ctx)
}

func (s *inventoryService) ListAllCars(ctx context.Context, adminID int32) ([]domain.Car, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	return s.carRepo.List(ctx)
}

func (s *inventoryService) requireAdmin(ctx context.Context, userID int32) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !user.IsAdmin() {
		return domain.Errorf(domain.ErrAuthorization, "user %d is not an administrator", userID)
	}
	return nil
}

func validateCar(c *domain.Car) error {
	if strings.TrimSpace(c.Make) == "" || strings.TrimSpace(c.Model) == "" {
		return domain.Errorf(domain.ErrValidation, "make and model are required")
	}
	if strings.TrimSpace(c.PlateNumber) == "" {
		return domain.Errorf(domain.ErrValidation, "plate number is required")
	}
	if c.DailyRateCents <= 0 {
		return domain.Errorf(domain.ErrValidation, "daily rate must be positive")
	}
	if c.Mileage < 0 {
		return domain.Errorf(domain.ErrValidation, "mileage cannot be negative")
	}
	if c.MinRentalDays <= 0 || c.MaxRentalDays <= 0 {
		return domain.Errorf(domain.ErrValidation, "rental day bounds must be positive")
	}
	if c.MinRentalDays > c.MaxRentalDays {
		return domain.Errorf(domain.ErrValidation, "minimum rental days %d exceeds maximum %d", c.MinRentalDays, c.MaxRentalDays)
	}
	return nil
}

func applyCarUpdate(c *domain.Car, upd domain.CarUpdate) {
	if upd.Make != nil {
		c.Make = *upd.Make
	}
	if upd.Model != nil {
		c.Model = *upd.Model
	}
	if upd.Year != nil {
		c.Year = *upd.Year
	}
	if upd.PlateNumber != nil {
		c.PlateNumber = *upd.PlateNumber
	}
	if upd.Mileage != nil {
		c.Mileage = *upd.Mileage
	}
	if upd.DailyRateCents != nil {
		c.DailyRateCents = *upd.DailyRateCents
	}
	if upd.MinRentalDays != nil {
		c.MinRentalDays = *upd.MinRentalDays
	}
	if upd.MaxRentalDays != nil {
		c.MaxRentalDays = *upd.MaxRentalDays
	}
}
