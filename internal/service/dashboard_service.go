package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/Tomlord1122/todo-by-zero/internal/hosted"

	"github.com/jellydator/validation"
	"go.uber.org/zap"
)

const minPasswordLength = 6

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r SignInRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required.Error("Email and password required")),
		validation.Field(&r.Password, validation.Required.Error("Email and password required")),
	)
}

// DashboardTodoRequest is both the add and the edit payload of the dashboard.
type DashboardTodoRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

func (r DashboardTodoRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required.Error("Title required")),
	)
}

func (r DashboardTodoRequest) trimmed() DashboardTodoRequest {
	return DashboardTodoRequest{
		Title: strings.TrimSpace(r.Title),
		Body:  strings.TrimSpace(r.Body),
	}
}

type ResetPasswordRequest struct {
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// DashboardService talks to the hosted backend on behalf of the holder of an
// access token. It never touches the local stores.
type DashboardService struct {
	logs    *zap.SugaredLogger
	backend HostedBackend
}

func NewDashboardService(logger *zap.SugaredLogger, backend HostedBackend) *DashboardService {
	return &DashboardService{
		logs:    logger,
		backend: backend,
	}
}

func (d *DashboardService) SignIn(ctx context.Context, req SignInRequest) (*hosted.Session, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := req.Validate(); err != nil {
		return nil, newValidationError(err)
	}

	session, err := d.backend.SignInWithPassword(ctx, req.Email, req.Password)
	if err != nil {
		var apiErr *hosted.APIError
		if errors.As(err, &apiErr) && (apiErr.StatusCode == http.StatusBadRequest || apiErr.StatusCode == http.StatusUnauthorized) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	return session, nil
}

func (d *DashboardService) CurrentUser(ctx context.Context, token string) (*hosted.User, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}
	user, err := d.backend.GetUser(ctx, token)
	if err != nil {
		return nil, d.hostedError(err)
	}
	return user, nil
}

// ListTodos returns the caller's todos, newest first.
func (d *DashboardService) ListTodos(ctx context.Context, token string) ([]hosted.Todo, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}
	todos, err := d.backend.SelectTodos(ctx, token)
	if err != nil {
		return nil, d.hostedError(err)
	}

	sort.SliceStable(todos, func(i, j int) bool {
		return todos[i].CreatedAt.After(todos[j].CreatedAt.Time)
	})
	return todos, nil
}

func (d *DashboardService) AddTodo(ctx context.Context, token string, req DashboardTodoRequest) (*hosted.Todo, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}
	req = req.trimmed()
	if err := req.Validate(); err != nil {
		return nil, newValidationError(err)
	}

	todo, err := d.backend.InsertTodo(ctx, token, hosted.TodoInput{Title: req.Title, Body: req.Body})
	if err != nil {
		return nil, d.hostedError(err)
	}
	return todo, nil
}

func (d *DashboardService) UpdateTodo(ctx context.Context, token, id string, req DashboardTodoRequest) (*hosted.Todo, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}
	req = req.trimmed()
	if err := req.Validate(); err != nil {
		return nil, newValidationError(err)
	}

	todo, err := d.backend.UpdateTodo(ctx, token, id, hosted.TodoInput{Title: req.Title, Body: req.Body})
	if err != nil {
		return nil, d.hostedError(err)
	}
	return todo, nil
}

func (d *DashboardService) DeleteTodo(ctx context.Context, token, id string) error {
	if token == "" {
		return ErrUnauthorized
	}
	if err := d.backend.DeleteTodo(ctx, token, id); err != nil {
		return d.hostedError(err)
	}
	return nil
}

func (d *DashboardService) SignOut(ctx context.Context, token string) error {
	if token == "" {
		return ErrUnauthorized
	}
	if err := d.backend.SignOut(ctx, token); err != nil {
		return d.hostedError(err)
	}
	return nil
}

// ResetPassword sets a new password for the account behind a recovery
// session. The session is checked before the passwords are looked at.
func (d *DashboardService) ResetPassword(ctx context.Context, token string, req ResetPasswordRequest) error {
	if token == "" {
		return ErrResetLinkExpired
	}
	if _, err := d.backend.GetUser(ctx, token); err != nil {
		if hosted.IsUnauthorized(err) {
			return ErrResetLinkExpired
		}
		return d.hostedError(err)
	}

	if req.Password != req.ConfirmPassword {
		return &ValidationError{Field: "confirmPassword", Message: "Passwords do not match"}
	}
	if utf8.RuneCountInString(req.Password) < minPasswordLength {
		return &ValidationError{Field: "password", Message: fmt.Sprintf("Password must be at least %d characters", minPasswordLength)}
	}

	if _, err := d.backend.UpdateUser(ctx, token, hosted.UserAttributes{Password: req.Password}); err != nil {
		if hosted.IsUnauthorized(err) {
			return ErrResetLinkExpired
		}
		return d.hostedError(err)
	}

	d.logs.Infow("password updated through recovery session")
	return nil
}

func (d *DashboardService) hostedError(err error) error {
	switch {
	case errors.Is(err, hosted.ErrNotFound):
		return ErrTodoNotFound
	case hosted.IsUnauthorized(err):
		return fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}
	return err
}
