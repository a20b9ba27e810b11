package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by repositories when no document matches.
	// Stores translate it into an absent result.
	ErrNotFound = errors.New("document not found")
	// ErrInvalidArgument marks a missing aggregate or required argument.
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrDuplicateID         = errors.New("document id already exists")
	ErrConcurrencyConflict = errors.New("concurrency stamp mismatch")
	ErrInvalidTypePair     = errors.New("invalid account/role type pair")
)

// ArgumentError reports which required argument was absent.
type ArgumentError struct {
	Name string
}

// ArgumentNil builds an ArgumentError for the named parameter.
func ArgumentNil(name string) error {
	return &ArgumentError{Name: name}
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("%s: %s is required", ErrInvalidArgument, e.Name)
}

func (e *ArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}
