package service

import (
	"context"
	"errors"

	"earnclub/internal/domain"
	"earnclub/internal/referral"
	"earnclub/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid phone or password")
	ErrInvalidReferrer    = errors.New("referral code not recognized")
)

// AuthService handles registration and login.
type AuthService struct {
	users *repository.UserRepository
}

func NewAuthService(db *pgxpool.Pool) *AuthService {
	return &AuthService{users: repository.NewUserRepository(db)}
}

// Register creates a user, assigns a fresh referral code and links the
// upline when a referrer's code was submitted. Code assignment retries
// on collision and surfaces referral.ErrCodeExhausted when the budget
// runs out.
func (s *AuthService) Register(ctx context.Context, phone, name, password, referrerCode string) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	var referredBy *int64
	if referrerCode != "" {
		referrer, err := s.users.GetByReferralCode(ctx, referrerCode)
		if err != nil {
			return nil, err
		}
		if referrer == nil {
			return nil, ErrInvalidReferrer
		}
		referredBy = &referrer.ID
	}

	code, err := referral.AssignCode(ctx, s.users, referral.DefaultCodeAttempts)
	if err != nil {
		return nil, err
	}

	u := &domain.User{
		Phone:        phone,
		Name:         name,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
		ReferralCode: code,
		ReferredBy:   referredBy,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login verifies credentials and returns the user with a signed token
func (s *AuthService) Login(ctx context.Context, phone, password string) (*domain.User, string, error) {
	u, err := s.users.GetByPhone(ctx, phone)
	if err != nil {
		return nil, "", err
	}
	if u == nil {
		return nil, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := GenerateJWT(u.ID, string(u.Role))
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}
