package engine

import "errors"

var (
	// ErrValidation indicates a validation failure.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound indicates a performance was not found.
	ErrNotFound = errors.New("not found")

	// ErrImportBusy indicates an import is already running.
	ErrImportBusy = errors.New("an import is already running")
)
