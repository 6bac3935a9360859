package services

import "errors"

// Sentinel errors surfaced to the web layer. Controllers map
// ErrValidation to 400 and ErrNotFound to 404; anything else is a 500.
var (
	ErrValidation = errors.New("invalid input")
	ErrNotFound   = errors.New("not found")
)
