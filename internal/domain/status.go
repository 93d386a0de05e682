package domain

import "slices"

// Status identifies which board column a task lives in.
type Status string

const (
	StatusTodo     Status = "todo"
	StatusProgress Status = "progress"
	StatusArchive  Status = "archive"
)

var orderedStatuses = []Status{StatusTodo, StatusProgress, StatusArchive}

// Statuses returns every status in board column order.
func Statuses() []Status {
	return slices.Clone(orderedStatuses)
}

// ParseStatus validates a wire value and returns the matching status.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !slices.Contains(orderedStatuses, s) {
		return "", ErrInvalidStatus
	}
	return s, nil
}

func (s Status) Valid() bool {
	return slices.Contains(orderedStatuses, s)
}

// Label returns the display name used in column headers.
func (s Status) Label() string {
	switch s {
	case StatusTodo:
		return "To Do"
	case StatusProgress:
		return "Progress"
	case StatusArchive:
		return "Archive"
	default:
		return string(s)
	}
}
