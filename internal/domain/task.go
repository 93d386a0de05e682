package domain

import "strings"

// Task represents task data used by this package. A task belongs to exactly
// one category and one status at any instant.
type Task struct {
	ID         string
	CategoryID string
	Status     Status
	Position   int
	Title      string
	Content    string
}

type TaskInput struct {
	ID         string
	CategoryID string
	Status     Status
	Position   int
	Title      string
	Content    string
}

func NewTask(in TaskInput) (Task, error) {
	in.ID = strings.TrimSpace(in.ID)
	in.CategoryID = strings.TrimSpace(in.CategoryID)
	in.Title = strings.TrimSpace(in.Title)

	if in.ID == "" {
		return Task{}, ErrInvalidID
	}
	if in.CategoryID == "" {
		return Task{}, ErrInvalidCategoryID
	}
	if in.Title == "" {
		return Task{}, ErrInvalidTitle
	}
	if in.Position < 0 {
		return Task{}, ErrInvalidPosition
	}

	if in.Status == "" {
		in.Status = StatusTodo
	}
	if !in.Status.Valid() {
		return Task{}, ErrInvalidStatus
	}

	return Task{
		ID:         in.ID,
		CategoryID: in.CategoryID,
		Status:     in.Status,
		Position:   in.Position,
		Title:      in.Title,
		Content:    in.Content,
	}, nil
}

func (t *Task) Move(status Status, position int) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	if position < 0 {
		return ErrInvalidPosition
	}
	t.Status = status
	t.Position = position
	return nil
}

func (t *Task) UpdateDetails(title, content, categoryID string) error {
	title = strings.TrimSpace(title)
	categoryID = strings.TrimSpace(categoryID)
	if title == "" {
		return ErrInvalidTitle
	}
	if categoryID == "" {
		return ErrInvalidCategoryID
	}
	t.Title = title
	t.Content = content
	t.CategoryID = categoryID
	return nil
}
