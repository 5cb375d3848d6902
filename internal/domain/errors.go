package domain

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrFeedUnavailable = errors.New("feed unavailable")
	ErrInvalidInput    = errors.New("invalid input")
	ErrStaleAddress    = errors.New("stale address")
)
