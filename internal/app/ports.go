package app

import (
	"context"

	"github.com/hylla/todoban/internal/adapters/boardapi"
	"github.com/hylla/todoban/internal/domain"
)

// BoardAPI represents the remote board server the service mutates through.
type BoardAPI interface {
	FetchBoard(context.Context) (boardapi.Board, error)

	CreateTask(ctx context.Context, title, content, categoryID string) (domain.Task, error)
	UpdateTask(ctx context.Context, taskID, title, content, categoryID string) (domain.Task, error)
	DeleteTask(ctx context.Context, taskID string) error
	UpdateTaskStatus(ctx context.Context, taskID string, status domain.Status) (domain.Task, error)
	UpdateTaskOrder(ctx context.Context, orders []boardapi.TaskOrderInput) error

	CreateCategory(ctx context.Context, name string) (domain.Category, error)
	DeleteCategory(ctx context.Context, categoryID string) error
	UpdateCategoryOrder(ctx context.Context, categoryIDs []string) error
}
