package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Tomlord1122/todo-by-zero/internal/domain"
	"github.com/Tomlord1122/todo-by-zero/internal/repository"

	"github.com/google/uuid"
	"github.com/jellydator/validation"
	"go.uber.org/zap"
)

// TimestampLayout renders times the way browsers print Date.toISOString.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

var (
	TimeNow = time.Now
	NewID   = uuid.NewString
)

// CreateTodoRequest holds the data needed to create a new todo.
type CreateTodoRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

func (r CreateTodoRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required.Error("Title required")),
	)
}

// UpdateTodoRequest holds the data for updating an existing todo.
// A nil field is left untouched; an empty title also keeps the old one,
// while an empty body clears it.
type UpdateTodoRequest struct {
	Title *string `json:"title"`
	Body  *string `json:"body"`
}

// TodoResponse is the representation of a Todo returned by the service.
type TodoResponse struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	CreatedAt string `json:"createdAt"`
}

// TodoService defines the operations for managing a user's todos.
// Every operation is scoped to userID; other users' todos behave as missing.
type TodoService interface {
	CreateTodo(ctx context.Context, userID string, req CreateTodoRequest) (*TodoResponse, error)
	GetTodoByID(ctx context.Context, userID, id string) (*TodoResponse, error)
	ListTodos(ctx context.Context, userID string) ([]TodoResponse, error)
	UpdateTodo(ctx context.Context, userID, id string, req UpdateTodoRequest) (*TodoResponse, error)
	DeleteTodo(ctx context.Context, userID, id string) error
}

type todoService struct {
	logs *zap.SugaredLogger
	repo repository.TodoRepository
}

func NewTodoService(logger *zap.SugaredLogger, repo repository.TodoRepository) TodoService {
	return &todoService{
		logs: logger,
		repo: repo,
	}
}

func (s *todoService) CreateTodo(ctx context.Context, userID string, req CreateTodoRequest) (*TodoResponse, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}
	if err := req.Validate(); err != nil {
		return nil, newValidationError(err)
	}

	todo := &domain.Todo{
		ID:        NewID(),
		UserID:    userID,
		Title:     req.Title,
		Body:      req.Body,
		CreatedAt: TimeNow().UTC().Truncate(time.Millisecond),
	}
	if err := s.repo.Create(ctx, todo); err != nil {
		return nil, fmt.Errorf("create todo: %w", err)
	}

	s.logs.Infow("todo created", "user_id", userID, "todo_id", todo.ID)
	return toTodoResponse(todo), nil
}

func (s *todoService) GetTodoByID(ctx context.Context, userID, id string) (*TodoResponse, error) {
	todo, err := s.find(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return toTodoResponse(todo), nil
}

func (s *todoService) ListTodos(ctx context.Context, userID string) ([]TodoResponse, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}

	todos, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}

	responses := make([]TodoResponse, 0, len(todos))
	for i := range todos {
		responses = append(responses, *toTodoResponse(&todos[i]))
	}
	return responses, nil
}

func (s *todoService) UpdateTodo(ctx context.Context, userID, id string, req UpdateTodoRequest) (*TodoResponse, error) {
	existing, err := s.find(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	updated := false
	if req.Title != nil && *req.Title != "" && *req.Title != existing.Title {
		existing.Title = *req.Title
		updated = true
	}
	if req.Body != nil && *req.Body != existing.Body {
		existing.Body = *req.Body
		updated = true
	}

	if !updated {
		return toTodoResponse(existing), nil
	}

	if err := s.repo.Update(ctx, existing); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTodoNotFound
		}
		return nil, fmt.Errorf("update todo %q: %w", id, err)
	}
	return toTodoResponse(existing), nil
}

func (s *todoService) DeleteTodo(ctx context.Context, userID, id string) error {
	if userID == "" {
		return ErrUnauthorized
	}

	if err := s.repo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTodoNotFound
		}
		return fmt.Errorf("delete todo %q: %w", id, err)
	}

	s.logs.Infow("todo deleted", "user_id", userID, "todo_id", id)
	return nil
}

func (s *todoService) find(ctx context.Context, userID, id string) (*domain.Todo, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}

	todo, err := s.repo.FindByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTodoNotFound
		}
		return nil, fmt.Errorf("find todo %q: %w", id, err)
	}
	return todo, nil
}

func toTodoResponse(todo *domain.Todo) *TodoResponse {
	return &TodoResponse{
		ID:        todo.ID,
		UserID:    todo.UserID,
		Title:     todo.Title,
		Body:      todo.Body,
		CreatedAt: todo.CreatedAt.UTC().Format(TimestampLayout),
	}
}
