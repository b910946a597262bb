package domain

import "errors"

// Domain errors
var (
	ErrNotFound          = errors.New("resource not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrInternalError     = errors.New("internal error")
	ErrWorkspaceNotFound = errors.New("workspace not found")
)

// Validation constants
const (
	MaxBulkSelectionSize  = 500
	MaxReferenceLength    = 100
	MaxPaymentNotesLength = 1000
	MaxMemoLength         = 4000
)
