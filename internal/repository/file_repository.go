package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/Tomlord1122/todo-by-zero/internal/domain"
	"github.com/Tomlord1122/todo-by-zero/internal/filestore"
)

const (
	UsersTable = "users"
	TodosTable = "todos"
)

type fileUserRepository struct {
	table *filestore.Table[domain.User]
}

// NewFileUserRepository stores users in <dir>/users.json.
func NewFileUserRepository(dir string) UserRepository {
	return &fileUserRepository{table: filestore.NewTable[domain.User](dir, UsersTable)}
}

func (r *fileUserRepository) Create(ctx context.Context, user *domain.User) error {
	return r.table.Update(ctx, func(users []domain.User) ([]domain.User, error) {
		for _, u := range users {
			if strings.EqualFold(u.Email, user.Email) {
				return nil, ErrDuplicate
			}
		}
		return append(users, *user), nil
	})
}

func (r *fileUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	users, err := r.table.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}

	for i := range users {
		if strings.EqualFold(users[i].Email, email) {
			return &users[i], nil
		}
	}
	return nil, ErrNotFound
}

type fileTodoRepository struct {
	table *filestore.Table[domain.Todo]
}

// NewFileTodoRepository stores todos of every user in <dir>/todos.json.
func NewFileTodoRepository(dir string) TodoRepository {
	return &fileTodoRepository{table: filestore.NewTable[domain.Todo](dir, TodosTable)}
}

func (r *fileTodoRepository) Create(ctx context.Context, todo *domain.Todo) error {
	return r.table.Update(ctx, func(todos []domain.Todo) ([]domain.Todo, error) {
		return append(todos, *todo), nil
	})
}

func (r *fileTodoRepository) FindByID(ctx context.Context, userID, id string) (*domain.Todo, error) {
	todos, err := r.table.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load todos: %w", err)
	}

	if i := indexOf(todos, userID, id); i >= 0 {
		return &todos[i], nil
	}
	return nil, ErrNotFound
}

func (r *fileTodoRepository) ListByUser(ctx context.Context, userID string) ([]domain.Todo, error) {
	todos, err := r.table.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load todos: %w", err)
	}

	owned := make([]domain.Todo, 0, len(todos))
	for _, t := range todos {
		if t.UserID == userID {
			owned = append(owned, t)
		}
	}
	return owned, nil
}

func (r *fileTodoRepository) Update(ctx context.Context, todo *domain.Todo) error {
	return r.table.Update(ctx, func(todos []domain.Todo) ([]domain.Todo, error) {
		i := indexOf(todos, todo.UserID, todo.ID)
		if i < 0 {
			return nil, ErrNotFound
		}
		todos[i].Title = todo.Title
		todos[i].Body = todo.Body
		return todos, nil
	})
}

func (r *fileTodoRepository) Delete(ctx context.Context, userID, id string) error {
	return r.table.Update(ctx, func(todos []domain.Todo) ([]domain.Todo, error) {
		i := indexOf(todos, userID, id)
		if i < 0 {
			return nil, ErrNotFound
		}
		return append(todos[:i], todos[i+1:]...), nil
	})
}

func indexOf(todos []domain.Todo, userID, id string) int {
	for i := range todos {
		if todos[i].ID == id && todos[i].UserID == userID {
			return i
		}
	}
	return -1
}
