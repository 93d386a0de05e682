package app

import "errors"

// ErrTitleRequired and related errors describe validation and runtime failures.
var (
	ErrTitleRequired      = errors.New("title required")
	ErrNameRequired       = errors.New("name required")
	ErrNoCategorySelected = errors.New("no category selected")
	ErrTaskNotFound       = errors.New("task not found")
	ErrMutationInFlight   = errors.New("mutation already in flight")
)
