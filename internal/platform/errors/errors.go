package apperrors

import "errors"

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrNotFound        = errors.New("not found")
	ErrNoActiveSession = errors.New("no active session")
	ErrEmptySelection  = errors.New("no questions match the selected filters")
	ErrTimeLimit       = errors.New("session time limit reached")
)
