package domain

import "strings"

// Category represents category data used by this package. Order between
// categories is relative; Position carries no other meaning.
type Category struct {
	ID       string
	Name     string
	Position int
}

func NewCategory(id, name string, position int) (Category, error) {
	id = strings.TrimSpace(id)
	name = strings.TrimSpace(name)

	if id == "" {
		return Category{}, ErrInvalidID
	}
	if name == "" {
		return Category{}, ErrInvalidName
	}
	if position < 0 {
		return Category{}, ErrInvalidPosition
	}

	return Category{ID: id, Name: name, Position: position}, nil
}
