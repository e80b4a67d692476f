package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Tomlord1122/todo-by-zero/internal/domain"

	"gorm.io/gorm"
)

// gormTodoRepository implements TodoRepository using GORM
type gormTodoRepository struct {
	db *gorm.DB
}

// NewGormTodoRepository creates a new GORM todo repository
func NewGormTodoRepository(db *gorm.DB) TodoRepository {
	return &gormTodoRepository{db: db}
}

func (r *gormTodoRepository) Create(ctx context.Context, todo *domain.Todo) error {
	if err := r.db.WithContext(ctx).Create(todo).Error; err != nil {
		return fmt.Errorf("insert todo: %w", err)
	}
	return nil
}

func (r *gormTodoRepository) FindByID(ctx context.Context, userID, id string) (*domain.Todo, error) {
	var todo domain.Todo
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&todo).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find todo %q: %w", id, err)
	}
	return &todo, nil
}

func (r *gormTodoRepository) ListByUser(ctx context.Context, userID string) ([]domain.Todo, error) {
	todos := []domain.Todo{}
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&todos).Error
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return todos, nil
}

// Update only touches title and body; owner and creation time are immutable.
func (r *gormTodoRepository) Update(ctx context.Context, todo *domain.Todo) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Todo{}).
		Where("id = ? AND user_id = ?", todo.ID, todo.UserID).
		Updates(map[string]any{
			"title": todo.Title,
			"body":  todo.Body,
		})
	if result.Error != nil {
		return fmt.Errorf("update todo %q: %w", todo.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormTodoRepository) Delete(ctx context.Context, userID, id string) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&domain.Todo{})
	if result.Error != nil {
		return fmt.Errorf("delete todo %q: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
