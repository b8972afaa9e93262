package domain

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrInvalidTransition = errors.New("invalid lifecycle transition")
	ErrConflict          = errors.New("conflict")
	ErrValidation        = errors.New("validation failed")
)
