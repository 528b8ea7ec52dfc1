package apperr

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrAlreadyExists = errors.New("already exists")
	ErrInvalidType   = errors.New("invalid note type")
	ErrNotFolder     = errors.New("target is not a folder")
	ErrCycle         = errors.New("folder containment cycle")
)
