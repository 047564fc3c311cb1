package domain

import "errors"

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists signals a duplicate resource.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidSpec signals an invalid column spec definition.
	ErrInvalidSpec = errors.New("invalid column spec")
	// ErrInvalidArgument signals an out-of-range or malformed parameter.
	ErrInvalidArgument = errors.New("invalid argument")
)
