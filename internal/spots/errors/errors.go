package errors

import "errors"

var (
	ErrNotFound = errors.New("parking spot not found")

	ErrInvalidID = errors.New("invalid parking spot ID format")
)
