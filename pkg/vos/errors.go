package vos

import "errors"

var (
	// ErrInvalidValue is returned when a database value cannot be converted to the nullable type.
	ErrInvalidValue = errors.New("invalid value")

	// ErrOverflow is returned when a database value does not fit the nullable type.
	ErrOverflow = errors.New("numeric overflow")
)
