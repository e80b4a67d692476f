package service

import (
	"context"

	"github.com/Tomlord1122/todo-by-zero/internal/hosted"
)

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 -generate

// PasswordRecoverer sends a password reset link for an account.
//
//counterfeiter:generate -o fake -fake-name PasswordRecoverer . PasswordRecoverer
type PasswordRecoverer interface {
	Recover(ctx context.Context, email, redirectTo string) error
}

// HostedBackend is the part of the hosted database/auth service the dashboard uses.
type HostedBackend interface {
	SignInWithPassword(ctx context.Context, email, password string) (*hosted.Session, error)
	GetUser(ctx context.Context, accessToken string) (*hosted.User, error)
	UpdateUser(ctx context.Context, accessToken string, attrs hosted.UserAttributes) (*hosted.User, error)
	SignOut(ctx context.Context, accessToken string) error
	SelectTodos(ctx context.Context, accessToken string) ([]hosted.Todo, error)
	InsertTodo(ctx context.Context, accessToken string, in hosted.TodoInput) (*hosted.Todo, error)
	UpdateTodo(ctx context.Context, accessToken, id string, in hosted.TodoInput) (*hosted.Todo, error)
	DeleteTodo(ctx context.Context, accessToken, id string) error
}
