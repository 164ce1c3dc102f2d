package domain

import "errors"

var (
	// ErrResourceNotFound signals that the configured document is missing,
	// unreadable, or not a regular file at request time.
	ErrResourceNotFound = errors.New("resource not found")
)
