package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"anoa.com/assignmenthub/internal/entity"
	"anoa.com/assignmenthub/internal/modules/user/dto"
	"anoa.com/assignmenthub/internal/modules/user/repository"
	"anoa.com/assignmenthub/pkg/apperror"
	"anoa.com/assignmenthub/pkg/password"
	"anoa.com/assignmenthub/pkg/token"
	"gorm.io/gorm"
)

// ErrInvalidCredentials is returned for an unknown email and for a wrong
// password alike.
var ErrInvalidCredentials = apperror.New(http.StatusUnauthorized, "incorrect email or password", apperror.ErrUnauthorized)

type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hashed string) bool
}

type TokenManager interface {
	Issue(email, role string) (token.Token, error)
	Parse(raw string) (*token.Claims, error)
}

type AuthService interface {
	Register(ctx context.Context, input dto.RegisterInput) (*entity.User, error)
	Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error)
	// Authenticate resolves a bearer token to its user.
	Authenticate(ctx context.Context, rawToken string) (*entity.User, error)
}

type authService struct {
	repo   repository.UserRepository
	hasher PasswordHasher
	tokens TokenManager
	now    func() time.Time
}

func NewAuthService(repo repository.UserRepository, hasher PasswordHasher, tokens TokenManager) AuthService {
	return &authService{
		repo:   repo,
		hasher: hasher,
		tokens: tokens,
		now:    time.Now,
	}
}

func (s *authService) Register(ctx context.Context, input dto.RegisterInput) (*entity.User, error) {
	if len(input.Password) < password.MinLength {
		return nil, fmt.Errorf("password must be at least %d characters: %w", password.MinLength, apperror.ErrInvalidInput)
	}
	if len(input.Password) > password.MaxLength {
		return nil, fmt.Errorf("password must be at most %d characters: %w", password.MaxLength, apperror.ErrInvalidInput)
	}

	roleInput := input.Role
	if strings.TrimSpace(roleInput) == "" {
		roleInput = string(entity.RoleStudent)
	}
	role, err := entity.ParseRole(roleInput)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), apperror.ErrInvalidInput)
	}

	email := strings.TrimSpace(input.Email)
	if err := s.ensureEmailFree(ctx, email); err != nil {
		return nil, err
	}

	regNumber := normalizeOptional(input.RegNumber)
	switch role {
	case entity.RoleStudent:
		if regNumber == nil {
			return nil, fmt.Errorf("registration number is required for students: %w", apperror.ErrInvalidInput)
		}
		if err := s.ensureRegNumberFree(ctx, *regNumber); err != nil {
			return nil, err
		}
	case entity.RoleLecturer:
		if regNumber != nil {
			return nil, fmt.Errorf("lecturer cannot have a registration number: %w", apperror.ErrInvalidInput)
		}
	}

	hashed, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Email:          email,
		FullName:       strings.TrimSpace(input.FullName),
		RegNumber:      regNumber,
		HashedPassword: hashed,
		Role:           role,
		IsActive:       true,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.ErrConflict
		}
		return nil, err
	}

	return user, nil
}

func (s *authService) Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error) {
	user, err := s.repo.FindByEmail(ctx, strings.TrimSpace(input.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Verify(input.Password, user.HashedPassword) || !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	tok, err := s.tokens.Issue(user.Email, user.Role.String())
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken: tok.AccessToken,
		TokenType:   "bearer",
		ExpiresIn:   int64(tok.ExpiresAt.Sub(s.now()).Seconds()),
		User:        user,
	}, nil
}

func (s *authService) Authenticate(ctx context.Context, rawToken string) (*entity.User, error) {
	claims, err := s.tokens.Parse(rawToken)
	if err != nil {
		return nil, apperror.ErrUnauthorized
	}

	user, err := s.repo.FindByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrUnauthorized
		}
		return nil, err
	}

	return user, nil
}

func (s *authService) ensureEmailFree(ctx context.Context, email string) error {
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return fmt.Errorf("email already registered: %w", apperror.ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}

func (s *authService) ensureRegNumberFree(ctx context.Context, regNumber string) error {
	if _, err := s.repo.FindByRegNumber(ctx, regNumber); err == nil {
		return fmt.Errorf("registration number already registered: %w", apperror.ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}

func normalizeOptional(value *string) *string {
	if value == nil {
		return nil
	}

	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}

	result := trimmed
	return &result
}
