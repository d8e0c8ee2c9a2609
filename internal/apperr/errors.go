package apperr

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidRoute = errors.New("invalid route")
	ErrNotHandled   = errors.New("deep link not handled")
	ErrUnavailable  = errors.New("unavailable")
)
