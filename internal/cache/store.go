// Package cache holds the client's in-memory copy of the board. It is the
// single source of truth for rendering between server round-trips.
package cache

import (
	"slices"
	"sort"
	"sync"

	"github.com/hylla/todoban/internal/domain"
)

// FieldPatch carries the task fields an update wants to change. Nil pointers
// leave the stored value alone.
type FieldPatch struct {
	Title      *string
	Content    *string
	CategoryID *string
}

// TaskOrder names a task's target slot after a reorder.
type TaskOrder struct {
	ID       string
	Position int
	Status   domain.Status
}

// Store keeps two co-indexed views over the same task set: one bucketed by
// category (used for the filtered todo column) and one bucketed by status
// (used for the Progress and Archive columns). Every mutation goes through
// methods that touch both views so the views never drift apart. Reads and
// writes arrive from the render loop and from command goroutines, so every
// method holds the store lock.
type Store struct {
	mu         sync.RWMutex
	byCategory map[string][]domain.Task
	byStatus   map[domain.Status][]domain.Task
}

// NewStore constructs an empty store.
func NewStore() *Store {
	return &Store{
		byCategory: map[string][]domain.Task{},
		byStatus:   map[domain.Status][]domain.Task{},
	}
}

// Seed replaces the store contents from a board snapshot. Tasks present in a
// status bucket but missing from the category view are merged in, de-duplicated
// by id, so the two server-side listings reconcile to one task set.
func (s *Store) Seed(byCategory map[string][]domain.Task, byStatus map[domain.Status][]domain.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.byCategory = map[string][]domain.Task{}
	s.byStatus = map[domain.Status][]domain.Task{}

	seen := map[string]struct{}{}
	for categoryID, tasks := range byCategory {
		for _, task := range tasks {
			if _, ok := seen[task.ID]; ok {
				continue
			}
			seen[task.ID] = struct{}{}
			s.byCategory[categoryID] = append(s.byCategory[categoryID], task)
		}
	}
	for _, tasks := range byStatus {
		for _, task := range tasks {
			if _, ok := seen[task.ID]; ok {
				continue
			}
			seen[task.ID] = struct{}{}
			s.byCategory[task.CategoryID] = append(s.byCategory[task.CategoryID], task)
		}
	}

	for _, tasks := range s.byCategory {
		for _, task := range tasks {
			s.byStatus[task.Status] = append(s.byStatus[task.Status], task)
		}
	}
	s.resort()
}

// TasksForCategory returns the category bucket in position order. An unknown
// or empty category id yields an empty slice.
func (s *Store) TasksForCategory(categoryID string) []domain.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.byCategory[categoryID])
}

// TasksByStatus returns the status bucket in position order.
func (s *Store) TasksByStatus(status domain.Status) []domain.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.byStatus[status])
}

// Find reports the stored task with the given id.
func (s *Store) Find(taskID string) (domain.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.find(taskID)
}

func (s *Store) find(taskID string) (domain.Task, bool) {
	for _, tasks := range s.byCategory {
		for _, task := range tasks {
			if task.ID == taskID {
				return task, true
			}
		}
	}
	return domain.Task{}, false
}

// Len reports the number of distinct tasks held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, tasks := range s.byCategory {
		n += len(tasks)
	}
	return n
}

// Add inserts a task into both views.
func (s *Store) Add(task domain.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byCategory[task.CategoryID] = append(s.byCategory[task.CategoryID], task)
	s.byStatus[task.Status] = append(s.byStatus[task.Status], task)
	s.resort()
}

// Remove purges a task from both views and reports whether it was present.
func (s *Store) Remove(taskID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	found := false
	for categoryID, tasks := range s.byCategory {
		if next, ok := dropTask(tasks, taskID); ok {
			s.byCategory[categoryID] = next
			found = true
		}
	}
	for status, tasks := range s.byStatus {
		if next, ok := dropTask(tasks, taskID); ok {
			s.byStatus[status] = next
			found = true
		}
	}
	return found
}

// UpdateStatus relocates a task between status buckets and rewrites its record
// in the category view. It reports whether the task was found.
func (s *Store) UpdateStatus(taskID string, status domain.Status) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateStatus(taskID, status)
}

func (s *Store) updateStatus(taskID string, status domain.Status) bool {
	task, ok := s.find(taskID)
	if !ok {
		return false
	}
	if task.Status == status {
		return status.Valid()
	}

	prevStatus := task.Status
	if err := task.Move(status, len(s.byStatus[status])); err != nil {
		return false
	}
	if next, ok := dropTask(s.byStatus[prevStatus], taskID); ok {
		s.byStatus[prevStatus] = next
	}
	s.byStatus[status] = append(s.byStatus[status], task)

	replaceTask(s.byCategory[task.CategoryID], task)
	return true
}

// UpdateFields applies a patch to a task in both views. A changed category id
// relocates the record between category buckets.
func (s *Store) UpdateFields(taskID string, patch FieldPatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.find(taskID)
	if !ok {
		return false
	}

	prevCategory := task.CategoryID
	title := task.Title
	content := task.Content
	categoryID := task.CategoryID
	if patch.Title != nil {
		title = *patch.Title
	}
	if patch.Content != nil {
		content = *patch.Content
	}
	if patch.CategoryID != nil {
		categoryID = *patch.CategoryID
	}
	if err := task.UpdateDetails(title, content, categoryID); err != nil {
		return false
	}

	if task.CategoryID != prevCategory {
		if next, ok := dropTask(s.byCategory[prevCategory], taskID); ok {
			s.byCategory[prevCategory] = next
		}
		s.byCategory[task.CategoryID] = append(s.byCategory[task.CategoryID], task)
	} else {
		replaceTask(s.byCategory[task.CategoryID], task)
	}
	replaceTask(s.byStatus[task.Status], task)
	s.resort()
	return true
}

// RemoveCategory drops a category bucket and purges its tasks from the status
// view.
func (s *Store) RemoveCategory(categoryID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := s.byCategory[categoryID]
	delete(s.byCategory, categoryID)
	for _, task := range removed {
		if next, ok := dropTask(s.byStatus[task.Status], task.ID); ok {
			s.byStatus[task.Status] = next
		}
	}
}

// ApplyOrder rewrites positions (and status, for cross-column drops) from a
// reorder result and resorts every bucket.
func (s *Store) ApplyOrder(orders []TaskOrder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, order := range orders {
		task, ok := s.find(order.ID)
		if !ok {
			continue
		}
		if order.Status.Valid() && order.Status != task.Status {
			s.updateStatus(order.ID, order.Status)
			task, _ = s.find(order.ID)
		}
		task.Position = order.Position
		replaceTask(s.byCategory[task.CategoryID], task)
		replaceTask(s.byStatus[task.Status], task)
	}
	s.resort()
}

func (s *Store) resort() {
	for _, tasks := range s.byCategory {
		sortTasks(tasks)
	}
	for _, tasks := range s.byStatus {
		sortTasks(tasks)
	}
}

func sortTasks(tasks []domain.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].Position < tasks[j].Position
	})
}

func dropTask(tasks []domain.Task, taskID string) ([]domain.Task, bool) {
	for i, task := range tasks {
		if task.ID == taskID {
			return append(tasks[:i], tasks[i+1:]...), true
		}
	}
	return tasks, false
}

func replaceTask(tasks []domain.Task, updated domain.Task) {
	for i, task := range tasks {
		if task.ID == updated.ID {
			tasks[i] = updated
			return
		}
	}
}
