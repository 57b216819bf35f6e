package domain

import "errors"

// Tracking validation errors
var (
	ErrInvalidVariant = errors.New("invalid media variant")
	ErrInvalidStatus  = errors.New("invalid status")
)
