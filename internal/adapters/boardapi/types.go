package boardapi

import (
	"fmt"

	"github.com/hylla/todoban/internal/domain"
)

// taskRecord is the wire shape of a task.
type taskRecord struct {
	ID         string `json:"id"`
	CategoryID string `json:"category_id"`
	Status     string `json:"status"`
	SortOrder  int    `json:"sort_order"`
	Title      string `json:"title"`
	Content    string `json:"content"`
}

type categoryRecord struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	SortOrder int    `json:"sort_order"`
}

// boardSnapshot is the GET /api/board payload.
type boardSnapshot struct {
	Categories      []categoryRecord        `json:"categories"`
	TasksByCategory map[string][]taskRecord `json:"tasks_by_category"`
	TasksByStatus   map[string][]taskRecord `json:"tasks_by_status"`
}

type taskPayload struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	CategoryID string `json:"category_id"`
}

type statusPayload struct {
	Status string `json:"status"`
}

type taskOrderEntry struct {
	ID        string `json:"id"`
	SortOrder int    `json:"sort_order"`
	Status    string `json:"status"`
}

type taskOrderPayload struct {
	Tasks []taskOrderEntry `json:"tasks"`
}

type categoryPayload struct {
	Name string `json:"name"`
}

type categoryOrderPayload struct {
	CategoryIDs []string `json:"category_ids"`
}

// Board is the decoded result of fetching the board snapshot.
type Board struct {
	Categories      []domain.Category
	TasksByCategory map[string][]domain.Task
	TasksByStatus   map[domain.Status][]domain.Task
}

func (r taskRecord) toDomain() (domain.Task, error) {
	task, err := domain.NewTask(domain.TaskInput{
		ID:         r.ID,
		CategoryID: r.CategoryID,
		Status:     domain.Status(r.Status),
		Position:   r.SortOrder,
		Title:      r.Title,
		Content:    r.Content,
	})
	if err != nil {
		return domain.Task{}, fmt.Errorf("task %q: %w", r.ID, err)
	}
	return task, nil
}

func (r categoryRecord) toDomain() (domain.Category, error) {
	category, err := domain.NewCategory(r.ID, r.Name, r.SortOrder)
	if err != nil {
		return domain.Category{}, fmt.Errorf("category %q: %w", r.ID, err)
	}
	return category, nil
}

func (s boardSnapshot) toDomain() (Board, error) {
	board := Board{
		TasksByCategory: map[string][]domain.Task{},
		TasksByStatus:   map[domain.Status][]domain.Task{},
	}
	for _, rec := range s.Categories {
		category, err := rec.toDomain()
		if err != nil {
			return Board{}, err
		}
		board.Categories = append(board.Categories, category)
	}
	for categoryID, recs := range s.TasksByCategory {
		for _, rec := range recs {
			task, err := rec.toDomain()
			if err != nil {
				return Board{}, err
			}
			board.TasksByCategory[categoryID] = append(board.TasksByCategory[categoryID], task)
		}
	}
	for raw, recs := range s.TasksByStatus {
		status, err := domain.ParseStatus(raw)
		if err != nil {
			return Board{}, fmt.Errorf("status bucket %q: %w", raw, err)
		}
		for _, rec := range recs {
			task, err := rec.toDomain()
			if err != nil {
				return Board{}, err
			}
			board.TasksByStatus[status] = append(board.TasksByStatus[status], task)
		}
	}
	return board, nil
}
