package service

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/repository"
	"carrental-backend/internal/security"
)

type authService struct {
	userRepo repository.UserRepository
	tokens   security.TokenManager
}

func NewAuthService(userRepo repository.UserRepository, tokens security.TokenManager) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

func (s *authService) Register(ctx context.Context, name, email, phone, password string) (*domain.User, string, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if len(password) < 6 {
		return nil, "", "", domain.Errorf(domain.ErrValidation, "password must be at least 6 characters")
	}
	if existing, err := s.userRepo.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, "", "", domain.Errorf(domain.ErrConflict, "email %s is already registered", email)
	} else if err != nil && !domain.IsKind(err, domain.ErrNotFound) {
		return nil, "", "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", "", domain.WrapInternal(err, "hash password")
	}

	user := &domain.User{
		Email:        email,
		Name:         name,
		PhoneNumber:  phone,
		PasswordHash: string(hash),
		Role:         domain.UserRoleCustomer,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", "", err
	}

	access, refresh, err := s.generateTokenPair(user)
	return user, access, refresh, err
}

func (s *authService) Login(ctx context.Context, email, password string) (string, string, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", "", domain.Errorf(domain.ErrAuthorization, "invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", "", domain.Errorf(domain.ErrAuthorization, "invalid email or password")
	}
	if user.Locked {
		return "", "", domain.Errorf(domain.ErrAuthorization, "account is locked")
	}
	return s.generateTokenPair(user)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	claims, err := s.tokens.ValidateToken(refreshToken)
	if err != nil {
		return "", "", domain.Errorf(domain.ErrAuthorization, "invalid refresh token")
	}
	if claims.Type != security.TokenTypeRefresh {
		return "", "", domain.Errorf(domain.ErrAuthorization, "invalid refresh token")
	}
	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return "", "", domain.Errorf(domain.ErrAuthorization, "invalid refresh token")
	}
	if user.Locked {
		return "", "", domain.Errorf(domain.ErrAuthorization, "account is locked")
	}
	return s.generateTokenPair(user)
}

func (s *authService) generateTokenPair(user *domain.User) (string, string, error) {
	access, err := s.tokens.GenerateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		return "", "", domain.WrapInternal(err, "generate access token")
	}
	refresh, err := s.tokens.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return "", "", domain.WrapInternal(err, "generate refresh token")
	}
	return access, refresh, nil
}
