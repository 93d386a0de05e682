// Package app orchestrates board features over the API client and the local
// cache. Every mutation validates first, talks to the server second, and
// mirrors the result into the cache last.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	charmLog "github.com/charmbracelet/log"

	"github.com/hylla/todoban/internal/adapters/boardapi"
	"github.com/hylla/todoban/internal/cache"
	"github.com/hylla/todoban/internal/domain"
)

// Guard keys for creations, which have no target id yet.
const (
	createTaskToken     = "create:task"
	createCategoryToken = "create:category"
)

// Service represents service data used by this package.
type Service struct {
	api      BoardAPI
	cache    *cache.Store
	logger   *charmLog.Logger
	inflight *inflightGuard
}

// NewService constructs a new value for this package. It fails fast on
// missing collaborators instead of deferring the crash to first use.
func NewService(api BoardAPI, store *cache.Store, logger *charmLog.Logger) (*Service, error) {
	if api == nil {
		return nil, errors.New("nil board api")
	}
	if store == nil {
		return nil, errors.New("nil cache store")
	}
	if logger == nil {
		logger = charmLog.New(io.Discard)
	}
	return &Service{
		api:      api,
		cache:    store,
		logger:   logger,
		inflight: newInflightGuard(),
	}, nil
}

// LoadBoard fetches the board snapshot, seeds the cache, and returns the
// categories in display order.
func (s *Service) LoadBoard(ctx context.Context) ([]domain.Category, error) {
	board, err := s.api.FetchBoard(ctx)
	if err != nil {
		return nil, fmt.Errorf("load board: %w", err)
	}
	s.cache.Seed(board.TasksByCategory, board.TasksByStatus)
	s.logger.Debug("board loaded", "categories", len(board.Categories), "tasks", s.cache.Len())
	return board.Categories, nil
}

// TasksForCategory reads the cached category bucket.
func (s *Service) TasksForCategory(categoryID string) []domain.Task {
	return s.cache.TasksForCategory(categoryID)
}

// TasksByStatus reads the cached status bucket.
func (s *Service) TasksByStatus(status domain.Status) []domain.Task {
	return s.cache.TasksByStatus(status)
}

// FindTask reads one cached task by id.
func (s *Service) FindTask(taskID string) (domain.Task, bool) {
	return s.cache.Find(taskID)
}

// CreateTaskInput holds input values for create task operations.
type CreateTaskInput struct {
	Title      string
	Content    string
	CategoryID string
}

// CreateTask validates input, posts the new task, and caches the returned
// record. Validation failures never reach the network.
func (s *Service) CreateTask(ctx context.Context, in CreateTaskInput) (domain.Task, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return domain.Task{}, ErrTitleRequired
	}
	if strings.TrimSpace(in.CategoryID) == "" {
		return domain.Task{}, ErrNoCategorySelected
	}
	if !s.inflight.acquire(createTaskToken) {
		return domain.Task{}, ErrMutationInFlight
	}
	defer s.inflight.release(createTaskToken)

	task, err := s.api.CreateTask(ctx, in.Title, in.Content, in.CategoryID)
	if err != nil {
		return domain.Task{}, err
	}
	s.cache.Add(task)
	return task, nil
}

// UpdateTaskInput holds input values for update task operations.
type UpdateTaskInput struct {
	ID         string
	Title      string
	Content    string
	CategoryID string
}

// UpdateTask posts a full field replacement and mirrors it into the cache.
func (s *Service) UpdateTask(ctx context.Context, in UpdateTaskInput) (domain.Task, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return domain.Task{}, ErrTitleRequired
	}
	if _, ok := s.cache.Find(in.ID); !ok {
		return domain.Task{}, ErrTaskNotFound
	}
	if !s.inflight.acquire(in.ID) {
		return domain.Task{}, ErrMutationInFlight
	}
	defer s.inflight.release(in.ID)

	task, err := s.api.UpdateTask(ctx, in.ID, in.Title, in.Content, in.CategoryID)
	if err != nil {
		return domain.Task{}, err
	}
	s.cache.UpdateFields(in.ID, cache.FieldPatch{
		Title:      &task.Title,
		Content:    &task.Content,
		CategoryID: &task.CategoryID,
	})
	return task, nil
}

// DeleteTask removes a task server-side, then purges it from both cache
// views.
func (s *Service) DeleteTask(ctx context.Context, taskID string) error {
	if _, ok := s.cache.Find(taskID); !ok {
		return ErrTaskNotFound
	}
	if !s.inflight.acquire(taskID) {
		return ErrMutationInFlight
	}
	defer s.inflight.release(taskID)

	if err := s.api.DeleteTask(ctx, taskID); err != nil {
		return err
	}
	s.cache.Remove(taskID)
	return nil
}

// MoveTaskStatus moves a task between status columns. A move to the current
// status is a no-op. On failure the cache is untouched, so a re-render
// restores the card to its source column.
func (s *Service) MoveTaskStatus(ctx context.Context, taskID string, status domain.Status) error {
	task, ok := s.cache.Find(taskID)
	if !ok {
		return ErrTaskNotFound
	}
	if !status.Valid() {
		return domain.ErrInvalidStatus
	}
	if task.Status == status {
		return nil
	}
	if !s.inflight.acquire(taskID) {
		return ErrMutationInFlight
	}
	defer s.inflight.release(taskID)

	if _, err := s.api.UpdateTaskStatus(ctx, taskID, status); err != nil {
		return err
	}
	s.cache.UpdateStatus(taskID, status)
	return nil
}

// ReorderTasks submits the full ordered list for the affected columns. On
// success the order lands in the cache; on failure the submitted on-screen
// order is kept and the failure is only logged, an accepted inconsistency
// until the next board load.
func (s *Service) ReorderTasks(ctx context.Context, orders []cache.TaskOrder) error {
	if len(orders) == 0 {
		return nil
	}
	inputs := make([]boardapi.TaskOrderInput, 0, len(orders))
	for _, order := range orders {
		inputs = append(inputs, boardapi.TaskOrderInput{ID: order.ID, Position: order.Position, Status: order.Status})
	}
	if err := s.api.UpdateTaskOrder(ctx, inputs); err != nil {
		s.logger.Warn("task reorder not persisted", "tasks", len(orders), "error", err)
		return err
	}
	s.cache.ApplyOrder(orders)
	return nil
}

// CreateCategory posts a new category. The caller reloads the board on
// success so positions come back from the server.
func (s *Service) CreateCategory(ctx context.Context, name string) (domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Category{}, ErrNameRequired
	}
	if !s.inflight.acquire(createCategoryToken) {
		return domain.Category{}, ErrMutationInFlight
	}
	defer s.inflight.release(createCategoryToken)

	return s.api.CreateCategory(ctx, name)
}

// DeleteCategory removes a category server-side, then drops its bucket and
// purges its tasks from the status view.
func (s *Service) DeleteCategory(ctx context.Context, categoryID string) error {
	if !s.inflight.acquire(categoryID) {
		return ErrMutationInFlight
	}
	defer s.inflight.release(categoryID)

	if err := s.api.DeleteCategory(ctx, categoryID); err != nil {
		return err
	}
	s.cache.RemoveCategory(categoryID)
	return nil
}

// ReorderCategories submits the full category id order. Failures are logged
// and the on-screen order is kept.
func (s *Service) ReorderCategories(ctx context.Context, categoryIDs []string) error {
	if len(categoryIDs) == 0 {
		return nil
	}
	if err := s.api.UpdateCategoryOrder(ctx, categoryIDs); err != nil {
		s.logger.Warn("category reorder not persisted", "categories", len(categoryIDs), "error", err)
		return err
	}
	return nil
}
