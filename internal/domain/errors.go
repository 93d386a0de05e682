package domain

import "errors"

var (
	ErrInvalidID         = errors.New("invalid id")
	ErrInvalidName       = errors.New("invalid name")
	ErrInvalidTitle      = errors.New("invalid title")
	ErrInvalidStatus     = errors.New("invalid status")
	ErrInvalidPosition   = errors.New("invalid position")
	ErrInvalidCategoryID = errors.New("invalid category id")
)
