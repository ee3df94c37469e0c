package service

import (
	"errors"
)

// Failure kinds surfaced by the services. Handlers translate these into HTTP
// statuses with errors.Is; anything outside this set is an internal failure
// and must not leak storage details to the caller.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("invalid credentials")
	ErrExpired      = errors.New("expired")
)
