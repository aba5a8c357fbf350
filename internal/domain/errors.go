package domain

import "errors"

// Error taxonomy surfaced by repositories and services. The HTTP layer maps
// these onto status codes; everything unrecognized becomes a 500.
var (
	ErrNotFound  = errors.New("not found")
	ErrConflict  = errors.New("already exists")
	ErrForbidden = errors.New("not authorized")
	ErrInvalid   = errors.New("invalid input")
)
