package errors

import "errors"

var (
	ErrNotFound       = errors.New("vehicle not found")
	ErrInvalidID      = errors.New("invalid vehicle ID format")
	ErrDuplicatePlate = errors.New("plate number already registered")
)
