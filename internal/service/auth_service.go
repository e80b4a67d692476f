package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Tomlord1122/todo-by-zero/internal/domain"
	"github.com/Tomlord1122/todo-by-zero/internal/repository"

	"github.com/jellydator/validation"
	"github.com/jellydator/validation/is"
	"go.uber.org/zap"
)

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email,
			validation.Required.Error("Email and password required"),
			is.EmailFormat.Error("Invalid email address"),
		),
		validation.Field(&r.Password, validation.Required.Error("Email and password required")),
	)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required.Error("Email and password required")),
		validation.Field(&r.Password, validation.Required.Error("Email and password required")),
	)
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

func (r ForgotPasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required.Error("Email required")),
	)
}

type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// AuthService manages the accounts behind the identity cookie.
type AuthService struct {
	logs       *zap.SugaredLogger
	users      repository.UserRepository
	hasher     PasswordHasher
	recoverer  PasswordRecoverer
	redirectTo string
}

// NewAuthService builds the account service. recoverer may be nil, in which
// case forgot-password only acknowledges the request.
func NewAuthService(logger *zap.SugaredLogger, users repository.UserRepository, hasher PasswordHasher, recoverer PasswordRecoverer, redirectTo string) *AuthService {
	return &AuthService{
		logs:       logger,
		users:      users,
		hasher:     hasher,
		recoverer:  recoverer,
		redirectTo: redirectTo,
	}
}

func (a *AuthService) Register(ctx context.Context, req RegisterRequest) (*UserResponse, error) {
	req.Email = normalizeEmail(req.Email)
	if err := req.Validate(); err != nil {
		return nil, newValidationError(err)
	}

	_, err := a.users.FindByEmail(ctx, req.Email)
	if err == nil {
		return nil, ErrUserExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("find user: %w", err)
	}

	digest, err := a.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		ID:           NewID(),
		Email:        req.Email,
		PasswordHash: digest,
	}
	if err := a.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	a.logs.Infow("user registered", "user_id", user.ID)
	return &UserResponse{ID: user.ID, Email: user.Email}, nil
}

func (a *AuthService) Login(ctx context.Context, req LoginRequest) (*UserResponse, error) {
	req.Email = normalizeEmail(req.Email)
	if err := req.Validate(); err != nil {
		return nil, newValidationError(err)
	}

	user, err := a.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !a.hasher.Compare(user.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}
	return &UserResponse{ID: user.ID, Email: user.Email}, nil
}

// ForgotPassword never reveals whether the account exists. Failures of the
// recovery mail are logged and swallowed.
func (a *AuthService) ForgotPassword(ctx context.Context, req ForgotPasswordRequest) error {
	req.Email = normalizeEmail(req.Email)
	if err := req.Validate(); err != nil {
		return newValidationError(err)
	}

	_, err := a.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			a.logs.Infow("password reset requested for unknown account")
			return nil
		}
		return fmt.Errorf("find user: %w", err)
	}

	if a.recoverer == nil {
		a.logs.Infow("password reset requested, no recovery backend configured")
		return nil
	}

	if err := a.recoverer.Recover(ctx, req.Email, a.redirectTo); err != nil {
		a.logs.Errorw("sending recovery email", "error", err)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
