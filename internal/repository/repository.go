package repository

import (
	"context"
	"errors"

	"github.com/Tomlord1122/todo-by-zero/internal/domain"
)

var (
	ErrNotFound  error = errors.New("record not found")
	ErrDuplicate error = errors.New("duplicate record")
)

// UserRepository defines the storage operations for user accounts.
type UserRepository interface {
	// Create stores a new user and returns ErrDuplicate when the email is taken.
	Create(ctx context.Context, user *domain.User) error
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}

// TodoRepository defines the storage operations for todos. Every lookup and
// mutation is scoped to the owning user; a todo owned by someone else is
// reported as ErrNotFound.
type TodoRepository interface {
	Create(ctx context.Context, todo *domain.Todo) error
	FindByID(ctx context.Context, userID, id string) (*domain.Todo, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Todo, error)
	// Update writes title and body of the todo matching todo.ID and todo.UserID.
	Update(ctx context.Context, todo *domain.Todo) error
	Delete(ctx context.Context, userID, id string) error
}
