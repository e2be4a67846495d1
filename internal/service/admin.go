package service

import (
	"context"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/repository"
)

type adminService struct {
	userRepo repository.UserRepository
}

func NewAdminService(userRepo repository.UserRepository) AdminService {
	return &adminService{userRepo: userRepo}
}

func (s *adminService) SetUserLock(ctx context.Context, adminID, userID int32, locked bool) error {
	admin, err := s.userRepo.GetByID(ctx, adminID)
	if err != nil {
		return err
	}
	if !admin.IsAdmin() {
		return domain.Errorf(domain.ErrAuthorization, "user %d is not an administrator", adminID)
	}
	target, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if target.IsAdmin() {
		return domain.Errorf(domain.ErrValidation, "administrator accounts cannot be locked")
	}
	return s.userRepo.SetLocked(ctx, userID, locked)
}

func (s *adminService) ListCustomers(ctx context.Context, adminID int32) ([]domain.User, error) {
	admin, err := s.userRepo.GetByID(ctx, adminID)
	if err != nil {
		return nil, err
	}
	if !admin.IsAdmin() {
		return nil, domain.Errorf(domain.ErrAuthorization, "user %d is not an administrator", adminID)
	}
	return s.userRepo.ListByRole(ctx, domain.UserRoleCustomer)
}
